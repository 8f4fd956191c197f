package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/innerview/innerview-api/api/swagger"
	"github.com/innerview/innerview-api/internal/handler"
	"github.com/innerview/innerview-api/internal/middleware"
	"github.com/innerview/innerview-api/internal/models"
	"github.com/innerview/innerview-api/internal/repository"
	"github.com/innerview/innerview-api/internal/service"
	"github.com/innerview/innerview-api/pkg/cache"
	"github.com/innerview/innerview-api/pkg/config"
	"github.com/innerview/innerview-api/pkg/database"
	"github.com/innerview/innerview-api/pkg/logger"
	corsmiddleware "github.com/innerview/innerview-api/pkg/middleware/cors"
	reqidmiddleware "github.com/innerview/innerview-api/pkg/middleware/requestid"
)

// @title Innerview API
// @version 1.0.0
// @description RTI/MTSS platform: calendar, screening instruments and intervention plans
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Analytics degrade to uncached computation without Redis.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	userRepo := repository.NewUserRepository(db)
	calendarRepo := repository.NewCalendarRepository(db)
	instrumentRepo := repository.NewInstrumentRepository(db)
	screeningRepo := repository.NewScreeningRepository(db)
	resultRepo := repository.NewResultRepository(db)
	interventionRepo := repository.NewInterventionRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})

	var analyticsSvc *service.AnalyticsService
	if cfg.Analytics.Enabled {
		analyticsSvc = service.NewAnalyticsService(analyticsRepo, instrumentRepo, resultRepo, cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr)
	}

	calendarSvc := service.NewCalendarService(calendarRepo, userRepo, nil, logr, analyticsSvc)
	instrumentSvc := service.NewInstrumentService(instrumentRepo, nil, logr, analyticsSvc)
	screeningSvc := service.NewScreeningService(screeningRepo, instrumentRepo, resultRepo, nil, logr, analyticsSvc)
	resultSvc := service.NewResultService(resultRepo, screeningRepo, instrumentRepo, nil, logr, analyticsSvc)
	interventionSvc := service.NewInterventionService(interventionRepo, nil, logr, analyticsSvc)
	reportSvc := service.NewReportService(screeningRepo, resultRepo, instrumentRepo, instrumentRepo, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	calendarHandler := handler.NewCalendarHandler(calendarSvc)
	instrumentHandler := handler.NewInstrumentHandler(instrumentSvc)
	screeningHandler := handler.NewScreeningHandler(screeningSvc, resultSvc)
	resultHandler := handler.NewResultHandler(resultSvc)
	interventionHandler := handler.NewInterventionHandler(interventionSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	protected := api.Group("")
	protected.Use(middleware.JWT(authSvc))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator, models.RoleTeacher)

	events := protected.Group("/calendar-events")
	events.GET("", anyRole, calendarHandler.List)
	events.GET("/:id", anyRole, calendarHandler.Get)
	events.POST("", anyRole, calendarHandler.Create)
	events.PATCH("/:id", anyRole, calendarHandler.Update)
	events.DELETE("/:id", anyRole, calendarHandler.Delete)
	events.POST("/:id/respond", anyRole, calendarHandler.Respond)

	instruments := protected.Group("/screening-instruments")
	instruments.GET("", anyRole, instrumentHandler.List)
	instruments.GET("/:id", anyRole, instrumentHandler.Get)
	instruments.POST("", staff, instrumentHandler.Create)
	instruments.PATCH("/:id", staff, instrumentHandler.Update)
	instruments.DELETE("/:id", staff, instrumentHandler.Delete)
	instruments.POST("/:id/indicators", staff, instrumentHandler.AddIndicator)
	instruments.PATCH("/:id/indicators/:indicatorId", staff, instrumentHandler.UpdateIndicator)
	instruments.DELETE("/:id/indicators/:indicatorId", staff, instrumentHandler.DeleteIndicator)

	screenings := protected.Group("/screenings")
	screenings.GET("", anyRole, screeningHandler.List)
	screenings.GET("/:id", anyRole, screeningHandler.Get)
	screenings.POST("", anyRole, screeningHandler.Create)
	screenings.PATCH("/:id", anyRole, screeningHandler.Update)
	screenings.DELETE("/:id", staff, screeningHandler.Delete)
	screenings.POST("/:id/results/batch", anyRole, screeningHandler.RegisterBatch)

	results := protected.Group("/screening-results")
	results.GET("", anyRole, resultHandler.List)
	results.POST("", anyRole, resultHandler.Create)
	results.PATCH("/:id", anyRole, resultHandler.Update)
	results.DELETE("/:id", staff, resultHandler.Delete)

	plans := protected.Group("/intervention-plans")
	plans.GET("", anyRole, interventionHandler.ListPlans)
	plans.GET("/:id", anyRole, interventionHandler.GetPlan)
	plans.POST("", staff, interventionHandler.CreatePlan)
	plans.PATCH("/:id", staff, interventionHandler.UpdatePlan)
	plans.DELETE("/:id", staff, interventionHandler.DeletePlan)
	plans.POST("/:id/goals", staff, interventionHandler.AddGoal)
	plans.PATCH("/:id/goals/:goalId", staff, interventionHandler.UpdateGoal)
	plans.POST("/:id/goals/:goalId/progress", anyRole, interventionHandler.RecordProgress)
	plans.DELETE("/:id/goals/:goalId", staff, interventionHandler.DeleteGoal)

	if analyticsSvc != nil {
		analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
		analytics := protected.Group("/analytics")
		analytics.GET("/overview", anyRole, analyticsHandler.Overview)
		analytics.GET("/instruments/:id", anyRole, analyticsHandler.InstrumentStats)
	}

	if cfg.Reports.Enabled {
		reportHandler := handler.NewReportHandler(reportSvc)
		reports := protected.Group("/reports")
		reports.GET("/screenings/:id/export", anyRole, reportHandler.ExportScreening)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Env))
	if err := r.Run(addr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}
