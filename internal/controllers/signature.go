package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/internal/dto"
	"workorder-system/internal/services"
	"workorder-system/pkg/utils"
)

type SignatureController struct {
	signatureService services.SignatureServiceInterface
	logger           *zap.Logger
}

func NewSignatureController(signatureService services.SignatureServiceInterface, logger *zap.Logger) *SignatureController {
	return &SignatureController{signatureService: signatureService, logger: logger}
}

func (c *SignatureController) Create(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateSignatureDTO
	if err := bindAndValidate(ctx, &payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	sig, err := c.signatureService.Sign(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, sig, "Conformity signature stored", http.StatusCreated)
}
