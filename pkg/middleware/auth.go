package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/pkg/contextkeys"
	apperrors "workorder-system/pkg/errors"
	"workorder-system/pkg/service"
	"workorder-system/pkg/utils"
)

// RoleResolver looks up the role of an authenticated user.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID uint64) (string, error)
}

type AuthMiddleware struct {
	jwtService   service.JWTService
	roleResolver RoleResolver
	logger       *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, roleResolver RoleResolver, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtSvc,
		roleResolver: roleResolver,
		logger:       logger,
	}
}

// Auth validates the bearer token and stores the actor id and role in the request context.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: empty Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: malformed Authorization header")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: token validation failed", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: refresh token used for access")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := c.Request().Context()
		role, err := m.roleResolver.ResolveRole(ctx, claims.UserID)
		if err != nil {
			m.logger.Warn("AuthMiddleware: role lookup failed", zap.Uint64("userID", claims.UserID), zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}

		ctx = context.WithValue(ctx, contextkeys.UserIDKey, claims.UserID)
		ctx = context.WithValue(ctx, contextkeys.UserRoleKey, role)
		c.SetRequest(c.Request().WithContext(ctx))

		m.logger.Debug("AuthMiddleware: authenticated", zap.Uint64("userID", claims.UserID), zap.String("role", role))
		return next(c)
	}
}
