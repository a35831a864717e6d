package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/services"
	"workorder-system/pkg/utils"
)

type DocumentController struct {
	documentService services.DocumentServiceInterface
	logger          *zap.Logger
}

func NewDocumentController(documentService services.DocumentServiceInterface, logger *zap.Logger) *DocumentController {
	return &DocumentController{documentService: documentService, logger: logger}
}

func (c *DocumentController) List(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	documents, err := c.documentService.ListForWorkOrder(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, documents, "Documents loaded", http.StatusOK)
}

// UpdatePermissions replaces the whole visibility set of the order.
func (c *DocumentController) UpdatePermissions(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateDocumentPermissionsDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	documents, err := c.documentService.ReplacePermissions(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, documents, "Document permissions updated", http.StatusOK)
}
