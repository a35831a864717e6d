package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/services"
	"workorder-system/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type MeasurementController struct {
	measurementService services.MeasurementServiceInterface
	logger             *zap.Logger
}

func NewMeasurementController(measurementService services.MeasurementServiceInterface, logger *zap.Logger) *MeasurementController {
	return &MeasurementController{measurementService: measurementService, logger: logger}
}

func (c *MeasurementController) Create(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateMeasurementDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	created, err := c.measurementService.Record(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, created, "Measurement recorded", http.StatusCreated)
}

func (c *MeasurementController) List(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	measurements, err := c.measurementService.ListForWorkOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, measurements, "Measurements loaded", http.StatusOK)
}

func (c *MeasurementController) Export(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	f, fileName, err := c.measurementService.Export(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	defer f.Close()

	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
