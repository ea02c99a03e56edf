package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nahoc/boundless-ws/internal/bootstrap"
	"github.com/nahoc/boundless-ws/pkg/config"
	"github.com/nahoc/boundless-ws/pkg/logger"
	"github.com/nahoc/boundless-ws/pkg/postgresql"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	lg, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	// Initialize PostgreSQL client
	postgresClient, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		lg.Error(fmt.Errorf("failed to initialize postgresql client: %w", err))
		os.Exit(1)
	}
	defer postgresClient.Close()

	lg.Info("postgresql client connected successfully")

	b, err := (&bootstrap.Bootstrap{}).Init(bootstrap.BootstrapConfig{
		Postgres: postgresClient,
		Logger:   lg,
		Config:   cfg,
	})
	if err != nil {
		lg.Error(fmt.Errorf("failed to initialize components: %w", err))
		os.Exit(1)
	}

	if err := b.Stream.Client.Connect(ctx); err != nil {
		lg.Error(fmt.Errorf("failed to start order stream client: %w", err))
		os.Exit(1)
	}

	lg.Info("order stream client running",
		logger.NewField("app", cfg.App.Name),
		logger.NewField("environment", cfg.App.Environment),
		logger.NewField("stream_url", cfg.Stream.BaseURL),
	)

	// Wait for interrupt signal to shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down order stream client")
	b.Stream.Client.Disconnect()
}
