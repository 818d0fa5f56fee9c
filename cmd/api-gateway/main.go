package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/JavierCodely/sistema-educativo/api/swagger"
	"github.com/JavierCodely/sistema-educativo/internal/handler"
	"github.com/JavierCodely/sistema-educativo/internal/middleware"
	"github.com/JavierCodely/sistema-educativo/internal/models"
	"github.com/JavierCodely/sistema-educativo/internal/repository"
	"github.com/JavierCodely/sistema-educativo/internal/service"
	"github.com/JavierCodely/sistema-educativo/pkg/cache"
	"github.com/JavierCodely/sistema-educativo/pkg/config"
	"github.com/JavierCodely/sistema-educativo/pkg/database"
	"github.com/JavierCodely/sistema-educativo/pkg/export"
	"github.com/JavierCodely/sistema-educativo/pkg/logger"
	corsmiddleware "github.com/JavierCodely/sistema-educativo/pkg/middleware/cors"
	reqidmiddleware "github.com/JavierCodely/sistema-educativo/pkg/middleware/requestid"
)

// @title Sistema Educativo Student Portal API
// @version 1.0.0
// @description Subject catalog, exam enrollment, notifications and class schedules for students.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx := context.Background()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	checks := map[string]handler.Pinger{"postgres": db}

	metricsSvc := service.NewMetricsService()
	if !cfg.Metrics.Enabled {
		metricsSvc = nil
	}

	var cacheRepo service.CacheRepository
	if cfg.Catalog.CacheEnabled {
		redisClient, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		redisRepo := repository.NewCacheRepository(redisClient, logr)
		defer redisRepo.Close()
		cacheRepo = redisRepo
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Catalog.CacheTTL, logr, cfg.Catalog.CacheEnabled)
	if err := cacheSvc.Invalidate(ctx, "portal:*"); err != nil {
		logr.Warn("failed to flush stale portal cache", zap.Error(err))
	}

	validate := validator.New()

	subjectRepo := repository.NewSubjectRepository(db)
	boardRepo := repository.NewExamBoardRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	authSvc := service.NewAuthService(logr, service.AuthConfig{
		AccessTokenSecret: cfg.Auth.JWTSecret,
		Issuer:            cfg.Auth.Issuer,
		Audience:          cfg.Auth.Audience,
	})
	subjectSvc := service.NewSubjectService(subjectRepo, cacheSvc, metricsSvc, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, logr)
	examSvc := service.NewExamService(boardRepo, enrollmentRepo, cacheSvc, metricsSvc, validate, logr).WithNotices(notificationSvc)
	scheduleSvc := service.NewScheduleService(scheduleRepo, export.NewCSVExporter(export.WithBOM()), export.NewLandscapePDFExporter(), logr)

	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	examHandler := handler.NewExamHandler(examSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, checks)

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
	if cfg.Metrics.Enabled {
		r.GET("/metrics", metricsHandler.Prometheus)
	}
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.WithResponseMeta())
	api.Use(middleware.JWT(authSvc))
	api.Use(middleware.RequireRoles(models.RoleStudent))

	api.GET("/subjects", subjectHandler.List)
	api.GET("/subjects/:id", subjectHandler.Get)
	api.GET("/subjects/:id/cursability", subjectHandler.Cursability)
	api.GET("/study-plan", subjectHandler.StudyPlan)

	api.GET("/exam-boards/available", examHandler.Available)
	api.GET("/exam-boards/open", examHandler.Open)
	api.GET("/exam-enrollments", examHandler.Enrollments)
	api.POST("/exam-enrollments", examHandler.Create)
	api.DELETE("/exam-enrollments/:subjectId/:boardId", examHandler.Cancel)

	api.GET("/notifications", notificationHandler.List)
	api.PATCH("/notifications/read-all", notificationHandler.MarkAllRead)
	api.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	api.DELETE("/notifications/:id", notificationHandler.Delete)

	api.GET("/schedules", scheduleHandler.List)
	api.GET("/schedules/weekly", scheduleHandler.Weekly)
	api.GET("/schedules/export", scheduleHandler.Export)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "cache", cacheSvc.Enabled())
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
