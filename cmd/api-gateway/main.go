package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/academic-calendar-api/api/swagger"
	"github.com/noah-isme/academic-calendar-api/internal/handler"
	internalmiddleware "github.com/noah-isme/academic-calendar-api/internal/middleware"
	"github.com/noah-isme/academic-calendar-api/internal/repository"
	"github.com/noah-isme/academic-calendar-api/internal/service"
	"github.com/noah-isme/academic-calendar-api/pkg/cache"
	"github.com/noah-isme/academic-calendar-api/pkg/config"
	"github.com/noah-isme/academic-calendar-api/pkg/database"
	"github.com/noah-isme/academic-calendar-api/pkg/export"
	"github.com/noah-isme/academic-calendar-api/pkg/jobs"
	"github.com/noah-isme/academic-calendar-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/academic-calendar-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/academic-calendar-api/pkg/middleware/requestid"
)

// @title Academic Calendar API
// @version 1.0.0
// @description Term registry, day classification and aggregation for school calendars
// @BasePath /api/v1
// @schemes http

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	deps := map[string]handler.Pinger{"postgres": db}
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	cacheEnabled := cfg.Summary.CacheEnabled
	if cacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, summary cache disabled", zap.Error(err))
			cacheEnabled = false
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheRepo = repo
			deps["redis"] = redisPinger{client: client}
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Summary.CacheTTL, logr, cacheEnabled)

	calendarRepo := repository.NewCalendarRepository(db)
	termRepo := repository.NewTermRepository(db)
	dayRepo := repository.NewDayRepository(db)

	aggregationSvc := service.NewAggregationService(dayRepo, termRepo, calendarRepo, cacheSvc, metrics, logr)

	warmWorker := service.NewSummaryWarmWorker(aggregationSvc, logr)
	warmQueue := jobs.NewQueue("summary_warmer", warmWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Summary.WarmerWorkers,
		MaxRetries: cfg.Summary.WarmerRetries,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	warmQueue.Start(ctx)
	defer warmQueue.Stop()
	warmer := service.NewSummaryWarmer(cacheSvc, warmQueue, logr)

	validate := validator.New()
	calendarSvc := service.NewCalendarService(calendarRepo, warmer, validate, logr)
	termSvc := service.NewTermService(termRepo, calendarRepo, db, warmer, metrics, validate, logr)
	daySvc := service.NewDayService(dayRepo, termRepo, calendarRepo, db, warmer, metrics, validate, logr)
	exportSvc := service.NewExportService(aggregationSvc, calendarRepo, export.NewCSVExporter(true), export.NewPDFExporter(cfg.Export.PDFFontPath), logr)

	metricsHandler := handler.NewMetricsHandler(metrics, deps)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Calendars:    handler.NewCalendarHandler(calendarSvc),
		Terms:        handler.NewTermHandler(termSvc),
		Days:         handler.NewDayHandler(daySvc),
		Aggregations: handler.NewAggregationHandler(aggregationSvc, exportSvc),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
