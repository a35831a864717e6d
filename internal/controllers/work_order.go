package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/services"
	"workorder-system/pkg/utils"
)

type WorkOrderController struct {
	workOrderService services.WorkOrderServiceInterface
	logger           *zap.Logger
}

func NewWorkOrderController(workOrderService services.WorkOrderServiceInterface, logger *zap.Logger) *WorkOrderController {
	return &WorkOrderController{workOrderService: workOrderService, logger: logger}
}

func (c *WorkOrderController) Create(ctx echo.Context) error {
	var payload dto.CreateWorkOrderDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.workOrderService.Create(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "Work order created", http.StatusCreated)
}

func (c *WorkOrderController) Update(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateWorkOrderDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	updated, err := c.workOrderService.Update(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, updated, "Work order updated", http.StatusOK)
}

func (c *WorkOrderController) Get(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	details, err := c.workOrderService.Get(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, details, "Work order loaded", http.StatusOK)
}

func (c *WorkOrderController) List(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	orders, total, err := c.workOrderService.List(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, orders, "Work orders loaded", http.StatusOK, total)
}

func (c *WorkOrderController) Delete(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.workOrderService.Delete(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Work order deleted", http.StatusOK)
}

func (c *WorkOrderController) GetActivity(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	entries, err := c.workOrderService.ListActivity(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, entries, "Activity loaded", http.StatusOK)
}
