package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "workorder-system/pkg/errors"
)

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "invalid "+name+" parameter", err)
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into payload and runs the registered validator.
func bindAndValidate(ctx echo.Context, payload interface{}) error {
	if err := ctx.Bind(payload); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "malformed request body", err)
	}
	if err := ctx.Validate(payload); err != nil {
		return err
	}
	return nil
}
