package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"fleet-telemetry/internal/config"
	"fleet-telemetry/internal/db"
	"fleet-telemetry/internal/simulator"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config/config.yaml", "path to YAML config")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "fleet-simulator").Logger()

	if err := run(cfgPath, logger); err != nil {
		logger.Fatal().Err(err).Msg("fleet-simulator exited")
	}
}

func run(cfgPath string, logger zerolog.Logger) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	sim := simulator.New(store, cfg.Ingest.Interval, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return sim.Run(ctx)
}
