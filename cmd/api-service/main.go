package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memecoin-radar/internal/tracker/config"
	delivery "memecoin-radar/internal/tracker/delivery/http"
	_ "memecoin-radar/internal/tracker/docs"
	"memecoin-radar/internal/tracker/repository"
	"memecoin-radar/internal/tracker/service"
	"memecoin-radar/pkg/logger"
	"memecoin-radar/pkg/postgres"
	"memecoin-radar/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	coinRepo := repository.NewCoinRepository(db.DB)
	priceRepo := repository.NewPriceHistoryRepository(db.DB)
	mentionRepo := repository.NewSocialMentionRepository(db.DB)
	snapshotRepo := repository.NewPredictionSnapshotRepository(db.DB)
	marketRepo := repository.NewCoinGeckoRepository(cfg, appLogger)
	feeds := []repository.SocialFeedRepository{
		repository.NewTwitterRepository(cfg, appLogger),
		repository.NewRedditRepository(cfg, appLogger),
	}

	// Initialize services
	coinSvc := service.NewCoinService(appLogger, coinRepo)
	priceSvc := service.NewPriceAnalysisService(cfg, appLogger, coinRepo, priceRepo, marketRepo, redisClient)
	sentimentSvc := service.NewSentimentService(cfg, appLogger, coinRepo, mentionRepo, feeds, redisClient)
	predictionSvc := service.NewPredictionService(cfg, appLogger, coinRepo, snapshotRepo, sentimentSvc, priceSvc)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	coinHandler := delivery.NewCoinHandler(coinSvc, priceSvc, sentimentSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	coinsGroup := apiV1.Group("/coins")
	coinHandler.RegisterRoutes(coinsGroup)

	predictionHandler := delivery.NewPredictionHandler(cfg, predictionSvc, redisClient, appLogger)
	predictionsGroup := apiV1.Group("/predictions")
	predictionHandler.RegisterRoutes(predictionsGroup)

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Memecoin Radar API
// @version 1.0
// @description Success-prediction scoring API for tracked memecoins.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
