package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/churnlens/internal/config"
	"github.com/rewired-gh/churnlens/internal/logger"
	"github.com/rewired-gh/churnlens/internal/pipeline"
)

var configPath = flag.String("config", "configs/config.yaml", "Path to configuration file")

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Setup logging with level support
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.With("run_id", uuid.NewString())
	logger.Debug("Configuration loaded from %s", *configPath)

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	report, err := pipeline.Run(ctx, cfg, os.Stdout)
	if err != nil {
		logger.Fatal("Churn analysis failed: %v", err)
	}

	logger.Info("Analysis finished in %v (dashboard: %s)", time.Since(start).Round(time.Millisecond), report.Dashboard)
}
