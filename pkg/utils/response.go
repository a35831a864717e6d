package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "workorder-system/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   *uint64     `json:"total,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

var unauthorizedErrors = []error{
	apperrors.ErrUnauthorized,
	apperrors.ErrEmptyAuthHeader,
	apperrors.ErrInvalidAuthHeader,
	apperrors.ErrInvalidToken,
	apperrors.ErrInvalidSigningMethod,
	apperrors.ErrTokenExpired,
	apperrors.ErrTokenNotYetValid,
	apperrors.ErrTokenIsNotAccess,
	apperrors.ErrUserIDNotFoundInContext,
	apperrors.ErrUserRoleNotFound,
}

// StatusFromError maps the domain error taxonomy to an HTTP status and the message shown to the caller.
func StatusFromError(err error) (int, string) {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.Code, httpErr.Message
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		return echoErr.Code, fmt.Sprint(echoErr.Message)
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, formatValidationErrors(validationErrs)
	}

	var vErr *apperrors.ValidationError
	if errors.As(err, &vErr) {
		return http.StatusBadRequest, vErr.Error()
	}

	var rErr *apperrors.ReferentialError
	if errors.As(err, &rErr) {
		return http.StatusUnprocessableEntity, rErr.Error()
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, apperrors.ErrForbidden.Error()
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	}

	for _, e := range unauthorizedErrors {
		if errors.Is(err, e) {
			return http.StatusUnauthorized, e.Error()
		}
	}

	return http.StatusInternalServerError, apperrors.ErrPersistence.Error()
}

func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code, message := StatusFromError(err)

	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", ctx.Request().Method),
			zap.String("uri", ctx.Request().RequestURI),
			zap.Error(err),
		)
	} else {
		logger.Debug("request rejected", zap.Int("status", code), zap.Error(err))
	}

	return ctx.JSON(code, &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	})
}

func formatValidationErrors(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fmt.Sprintf("field '%s' failed on '%s'", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
