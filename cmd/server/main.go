package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dkalmar/homescope/internal/cache"
	"github.com/dkalmar/homescope/internal/config"
	"github.com/dkalmar/homescope/internal/database"
	"github.com/dkalmar/homescope/internal/handlers"
	"github.com/dkalmar/homescope/internal/ledger"
	"github.com/dkalmar/homescope/internal/logger"
	"github.com/dkalmar/homescope/internal/middleware"
	"github.com/dkalmar/homescope/internal/repository"
	"github.com/dkalmar/homescope/internal/scoring"
	"github.com/dkalmar/homescope/internal/services"
	"github.com/dkalmar/homescope/internal/source"
)

const (
	shutdownTimeout = 30 * time.Second
)

func main() {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.Server.Env)
	log.Info("Starting HomeScope API", map[string]interface{}{
		"version":          handlers.APIVersion,
		"environment":      cfg.Server.Env,
		"port":             cfg.Server.Port,
		"freshness_window": cfg.Cache.FreshnessWindow.String(),
	})

	// Create database connection pool
	ctx := context.Background()
	db, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", err, map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
			"name": cfg.Database.Name,
		})
	}
	defer db.Close()

	log.Info("Database connection established", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Name,
		"pool_min": cfg.Database.PoolMin,
		"pool_max": cfg.Database.PoolMax,
	})

	// Setup Gin router
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware in order: RequestID -> Logger -> Recovery -> CORS
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS(cfg.CORS.Origins))

	// Register health check routes
	healthHandler := handlers.NewHealthHandler(db, cfg.Server.Env, cfg.Cache.FreshnessWindow)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/api/v1/info", healthHandler.Info)

	// Wire the search pipeline: ledger-backed cache engine, listing store,
	// upstream provider client, and the scorer.
	searchLedger := ledger.NewPostgresStore(db)
	engine := cache.NewEngine(searchLedger, cfg.Cache.FreshnessWindow, nil, log)
	listingRepo := repository.NewListingRepository(db)
	listingSource := source.NewHTTPSource(cfg.Source.BaseURL, cfg.Source.Timeout, log)
	scorer := scoring.NewScorer(scoring.DefaultConfig())
	searchService := services.NewSearchService(engine, listingRepo, listingSource, scorer, log)

	// Initialize handlers
	searchHandler := handlers.NewSearchHandler(searchService)

	// Register API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/search", searchHandler.Search)

		market := v1.Group("/market")
		{
			market.GET("/bands", searchHandler.Bands)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server listening", map[string]interface{}{
			"port": cfg.Server.Port,
			"addr": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", err, nil)
		}
	}()

	// Wait for interrupt signal (SIGINT or SIGTERM)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	log.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", err, map[string]interface{}{
			"timeout": shutdownTimeout.String(),
		})
	}

	log.Info("Server exited", nil)
}
