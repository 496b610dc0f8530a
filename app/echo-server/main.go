package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"creatorMarket/app/echo-server/router"
	"creatorMarket/business/behavior"
	"creatorMarket/business/recommend"
	"creatorMarket/internal/middleware"
	memoryRepo "creatorMarket/internal/repository/memory"
	psqlRepo "creatorMarket/internal/repository/postgres"
	redisRepo "creatorMarket/internal/repository/redis"
	"creatorMarket/internal/rest"
	"creatorMarket/pkg/config"
	"creatorMarket/pkg/database"
	redisdb "creatorMarket/pkg/database/redis"
	"creatorMarket/pkg/logger"
	"creatorMarket/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting CreatorMarket recommendation engine", "version", cfg.App.Version)

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Recommendation cache: redis in production, in-process fallback when
	// redis is unreachable (degraded but functional)
	var cache recommend.RecommendationCache
	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache", "error", err)
		cache = memoryRepo.NewRecommendationCache()
	} else {
		cache = redisRepo.NewRecommendationCache(redisClient)
		defer func() {
			_ = redisdb.CloseRedisClient(redisClient)
		}()
	}

	// Engine config, optionally overlaid with a weights file
	recoCfg := recommend.DefaultConfig()
	if cfg.Recommend.SchedulerInterval > 0 {
		recoCfg.RefreshInterval = time.Duration(cfg.Recommend.SchedulerInterval) * time.Minute
	}
	if cfg.Recommend.WeightsFile != "" {
		recoCfg, err = recommend.LoadWeights(recoCfg, cfg.Recommend.WeightsFile)
		if err != nil {
			logger.Fatal("Failed to load scoring weights", "error", err)
		}
		logger.Info("Scoring weights loaded", "file", cfg.Recommend.WeightsFile)
	}

	// Init repo
	userRepo := psqlRepo.NewUserRepository(db)
	behaviorRepo := psqlRepo.NewBehaviorEventRepository(db)

	catalogs := []recommend.Catalog{
		psqlRepo.NewCreatorCatalogRepository(db),
		psqlRepo.NewOpportunityCatalogRepository(db),
		psqlRepo.NewPartnerCatalogRepository(db),
		psqlRepo.NewContentCatalogRepository(db),
	}

	// Init service
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	recommendService := recommend.NewRecommendService(
		userRepo,
		behaviorRepo,
		cache,
		catalogs,
		recommend.NewHeuristicScorer(recoCfg),
		recoCfg,
		rng,
	)

	updater := recommend.NewUpdater(cache, recommendService.Providers(), recoCfg)
	captureService := behavior.NewCaptureService(behaviorRepo, updater)
	defer captureService.Close()

	// Init handler
	recommendHandler := rest.NewRecommendHandler(recommendService)
	eventHandler := rest.NewEventHandler(captureService)

	// Background refresh
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	if cfg.Recommend.SchedulerEnabled {
		scheduler := recommend.NewScheduler(recommendService, behaviorRepo, recoCfg)
		go scheduler.Run(schedulerCtx)
	}

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendHandler)
	router.SetEventRoutes(api, eventHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
