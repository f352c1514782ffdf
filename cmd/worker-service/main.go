package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"memecoin-radar/internal/tracker/config"
	"memecoin-radar/internal/tracker/repository"
	trackerservice "memecoin-radar/internal/tracker/service"
	"memecoin-radar/internal/worker/delivery/consumer"
	"memecoin-radar/internal/worker/service"
	"memecoin-radar/pkg/logger"
	"memecoin-radar/pkg/postgres"
	"memecoin-radar/pkg/redis"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the worker service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	appLogger.Info("Starting Worker Service", logger.Field("name", cfg.App.Name))

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
	priceSvc := trackerservice.NewPriceAnalysisService(cfg, appLogger, coinRepo, priceRepo, marketRepo, redisClient)
	sentimentSvc := trackerservice.NewSentimentService(cfg, appLogger, coinRepo, mentionRepo, feeds, redisClient)
	predictionSvc := trackerservice.NewPredictionService(cfg, appLogger, coinRepo, snapshotRepo, sentimentSvc, priceSvc)
	refreshSvc := service.NewRefreshService(cfg, redisClient, predictionSvc, appLogger)

	// Initialize and start the Redis consumer
	redisConsumer := consumer.NewRedisConsumer(cfg, refreshSvc, appLogger)
	if err := redisConsumer.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start consumer", logger.ErrorField(err))
	}

	appLogger.Info("Worker service started. Waiting for refresh requests...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down worker service...")
	cancel()
	redisConsumer.Stop()
	appLogger.Info("Worker service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "worker-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-worker.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing worker-service CLI: %s\n", err)
		os.Exit(1)
	}
}
