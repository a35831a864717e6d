package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"workorder-system/internal/controllers"
	"workorder-system/internal/repositories"
	"workorder-system/internal/services"
	"workorder-system/pkg/config"
	"workorder-system/pkg/constants"
	"workorder-system/pkg/eventbus"
	"workorder-system/pkg/middleware"
	"workorder-system/pkg/service"
)

type Loggers struct {
	Main      *zap.Logger
	Auth      *zap.Logger
	WorkOrder *zap.Logger
	Activity  *zap.Logger
}

type workOrderControllers struct {
	workOrder   *controllers.WorkOrderController
	measurement *controllers.MeasurementController
	document    *controllers.DocumentController
	signature   *controllers.SignatureController
}

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, bus *eventbus.Bus, loggers *Loggers, cfg *config.Config) {
	loggers.Main.Info("InitRouter: building routes")

	txManager := repositories.NewTxManager(dbConn)

	// --- 1. Repositories ---
	orderRepo := repositories.NewWorkOrderRepository(dbConn, loggers.WorkOrder)
	housingRepo := repositories.NewHousingRepository(dbConn, loggers.WorkOrder)
	measurementRepo := repositories.NewMeasurementRepository(dbConn, loggers.WorkOrder)
	documentRepo := repositories.NewDocumentRepository(dbConn, loggers.WorkOrder)
	signatureRepo := repositories.NewSignatureRepository(dbConn, loggers.WorkOrder)
	activityRepo := repositories.NewActivityLogRepository(dbConn, loggers.Activity)
	catalogRepo := repositories.NewCatalogRepository(dbConn, loggers.Main)
	userRepo := repositories.NewUserRepository(dbConn, loggers.Auth)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient, constants.CacheNamespace)

	// --- 2. Services ---
	authRoleService := services.NewAuthRoleService(userRepo, cacheRepo, loggers.Auth, cfg.Redis.RoleCacheTTL)
	activityService := services.NewActivityService(activityRepo, bus, loggers.Activity)
	sequencer := services.NewSequencer(orderRepo)
	documentResolver := services.NewDocumentResolver(documentRepo, catalogRepo)

	workOrderService := services.NewWorkOrderService(
		txManager, orderRepo, housingRepo, catalogRepo, userRepo, measurementRepo, signatureRepo,
		sequencer, documentResolver, activityService, loggers.WorkOrder,
	)
	measurementService := services.NewMeasurementService(txManager, orderRepo, housingRepo, measurementRepo, activityService, loggers.WorkOrder)
	documentService := services.NewDocumentService(txManager, orderRepo, documentRepo, documentResolver, activityService, loggers.WorkOrder)
	signatureService := services.NewSignatureService(txManager, orderRepo, signatureRepo, activityService, loggers.WorkOrder)

	// --- 3. Controllers ---
	ctrls := workOrderControllers{
		workOrder:   controllers.NewWorkOrderController(workOrderService, loggers.WorkOrder),
		measurement: controllers.NewMeasurementController(measurementService, loggers.WorkOrder),
		document:    controllers.NewDocumentController(documentService, loggers.WorkOrder),
		signature:   controllers.NewSignatureController(signatureService, loggers.WorkOrder),
	}

	// --- 4. Routers ---
	authMW := middleware.NewAuthMiddleware(jwtSvc, authRoleService, loggers.Auth)
	api := e.Group("/api")
	secureGroup := api.Group("", authMW.Auth)

	runWorkOrderRouter(secureGroup, ctrls)

	loggers.Main.Info("InitRouter: routes ready")
}
