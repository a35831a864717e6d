package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/pkg/contextkeys"
)

// InjectLogger puts a request-scoped logger (tagged with the request id) into the context
// and logs one line per finished request.
func InjectLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			reqLogger := logger.With(zap.String("request_id", reqID))

			c.Set("logger", reqLogger)
			ctx := context.WithValue(c.Request().Context(), contextkeys.LoggerKey, reqLogger)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			reqLogger.Info("request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			)
			return err
		}
	}
}

// Timeout bounds the request context; handlers see ctx.Done() once it elapses.
func Timeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
