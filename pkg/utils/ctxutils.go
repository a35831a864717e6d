package utils

import (
	"context"

	"go.uber.org/zap"

	"workorder-system/pkg/contextkeys"
	apperrors "workorder-system/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok || role == "" {
		return "", apperrors.ErrUserRoleNotFound
	}
	return role, nil
}

// LoggerFromCtx returns the request logger set by InjectLogger, or fallback.
func LoggerFromCtx(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := ctx.Value(contextkeys.LoggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return fallback
}
