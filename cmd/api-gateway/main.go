package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/ssp-api/api/swagger"
	"github.com/noah-isme/ssp-api/internal/handler"
	internalmiddleware "github.com/noah-isme/ssp-api/internal/middleware"
	"github.com/noah-isme/ssp-api/internal/models"
	"github.com/noah-isme/ssp-api/internal/repository"
	"github.com/noah-isme/ssp-api/internal/service"
	"github.com/noah-isme/ssp-api/pkg/cache"
	"github.com/noah-isme/ssp-api/pkg/config"
	"github.com/noah-isme/ssp-api/pkg/database"
	"github.com/noah-isme/ssp-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/ssp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/ssp-api/pkg/middleware/requestid"
)

// @title Student Schedule Planner API
// @version 1.0.0
// @description Generates every conflict-free class schedule for a set of requested courses.
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database unavailable", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	var cacheRepo *repository.CacheRepository
	cacheEnabled := cfg.Catalog.CacheEnabled
	if cacheEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
			cacheEnabled = false
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	validate := validator.New()
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db, metrics)
	auditRepo := repository.NewAuditRepository(db)

	var cacheStore service.CacheRepository
	if cacheRepo != nil {
		cacheStore = cacheRepo
	}
	sectionCache := service.NewSectionCache(cacheStore, metrics, cfg.Catalog.CacheTTL, logr, cacheEnabled)
	catalogSvc := service.NewCatalogService(courseRepo, sectionRepo, sectionCache, validate, logr)
	generatorSvc := service.NewScheduleGeneratorService(catalogSvc, metrics, validate, logr, service.ScheduleGeneratorConfig{
		MaxResults:  cfg.Scheduler.MaxResults,
		MaxExplored: cfg.Scheduler.MaxExplored,
		Timeout:     cfg.Scheduler.Timeout,
		MaxCourses:  cfg.Scheduler.MaxCourses,
		MaxReserved: cfg.Scheduler.MaxReserved,
	})
	exportSvc := service.NewScheduleExportService(nil, nil, logr)
	tokens := service.NewTokenService(cfg.JWT.Secret)

	generatorHandler := handler.NewScheduleGeneratorHandler(generatorSvc, exportSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc, logr)
	metricsHandler := handler.NewMetricsHandler(metrics, db)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics"))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var limiter *internalmiddleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = internalmiddleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}
	generateLimit := internalmiddleware.RateLimit(limiter, metrics)

	api := r.Group(cfg.APIPrefix)
	api.Use(internalmiddleware.WithResponseMeta())
	api.POST("/schedules/generate", generateLimit, generatorHandler.Generate)
	api.POST("/schedule/generate", generateLimit, generatorHandler.GenerateLegacy)
	api.GET("/schedule", catalogHandler.ListAllSections)
	api.GET("/catalog/courses", catalogHandler.ListCourses)
	api.GET("/catalog/sections", catalogHandler.ListSections)

	admin := api.Group("")
	admin.Use(internalmiddleware.JWT(tokens), internalmiddleware.RequireRoles(models.RoleAdmin))
	admin.POST("/catalog/courses", internalmiddleware.Audit(auditRepo, logr, models.AuditActionCoursesSave), catalogHandler.SaveCourses)
	admin.POST("/catalog/sections", internalmiddleware.Audit(auditRepo, logr, models.AuditActionSectionsSave), catalogHandler.SaveSections)
	admin.POST("/schedule", internalmiddleware.Audit(auditRepo, logr, models.AuditActionSectionsSave), catalogHandler.SaveSections)
	admin.GET("/metrics/summary", metricsHandler.Summary)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
