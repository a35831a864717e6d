package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"workorder-system/internal/listeners"
	"workorder-system/internal/routes"
	"workorder-system/pkg/config"
	"workorder-system/pkg/database/migrations"
	"workorder-system/pkg/database/postgresql"
	"workorder-system/pkg/eventbus"
	applogger "workorder-system/pkg/logger"
	appmiddleware "workorder-system/pkg/middleware"
	"workorder-system/pkg/service"
	"workorder-system/pkg/utils"
	"workorder-system/pkg/validation"

	apperrors "workorder-system/pkg/errors"
)

func main() {
	cfg := config.New()

	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	loggers := &routes.Loggers{
		Main:      logger.Named("main"),
		Auth:      logger.Named("auth"),
		WorkOrder: logger.Named("work_order"),
		Activity:  logger.Named("activity"),
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, apperrors.ErrPersistence.Error(), err)
				_ = utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
	}))
	e.Use(appmiddleware.InjectLogger(logger))
	e.Use(appmiddleware.Timeout(cfg.Server.RequestTimeout))

	e.Validator = validation.New()

	dbConn, err := postgresql.Connect(context.Background(), cfg.Postgres, loggers.Main)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.MigrateOnStart {
		if err := migrations.Up(context.Background(), dbConn, loggers.Main); err != nil {
			logger.Fatal("failed to migrate database", zap.Error(err))
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	bus := eventbus.New(loggers.Main)
	listeners.NewAuditListener(loggers.Activity).Register(bus)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, loggers.Auth)

	routes.InitRouter(e, dbConn, redisClient, jwtSvc, bus, loggers, cfg)

	go func() {
		logger.Info("server started", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	bus.Wait()
	logger.Info("server stopped")
}
