// cmd/api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/shelfaware/wastewatch/internal/anomaly"
	"github.com/shelfaware/wastewatch/internal/api"
	"github.com/shelfaware/wastewatch/internal/cache"
	"github.com/shelfaware/wastewatch/internal/config"
	"github.com/shelfaware/wastewatch/internal/features"
	"github.com/shelfaware/wastewatch/internal/repository/postgres"
	"github.com/shelfaware/wastewatch/internal/risk"
	"github.com/shelfaware/wastewatch/internal/service"
	"github.com/shelfaware/wastewatch/pkg/logger"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := postgres.InitSchema(context.Background(), db); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database schema")
	}

	salesRepo := postgres.NewSalesRepository(db)

	riskCache, err := cache.NewRiskSummaryCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, continuing without cache")
		riskCache = cache.NewNoopRiskSummaryCache()
	}

	pipeline := features.NewPipeline(features.DefaultWindows...)
	scorer := risk.NewScorer()
	detector := anomaly.NewHTTPDetector(cfg.Model.URL)

	services := &api.Services{
		RiskService:     service.NewRiskService(salesRepo, pipeline, scorer, riskCache),
		AnomalyService:  service.NewAnomalyService(salesRepo, pipeline, detector),
		GenerateService: service.NewGenerateService(salesRepo),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
