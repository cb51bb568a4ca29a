package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the process configuration, loaded once at startup and passed to
// each component at construction. Nothing reads it from ambient state later.
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Ingest   IngestConfig
	Liveness LivenessConfig
}

type DatabaseConfig struct {
	Driver string // sqlite | postgres
	DSN    string
}

type ServerConfig struct {
	ListenAddress string
}

type IngestConfig struct {
	Interval time.Duration // pause between ingestion passes
}

type LivenessConfig struct {
	FreshnessWindow time.Duration
}

// rawConfig mirrors the YAML file. Durations are strings ("3s", "90s") and
// are parsed on load.
type rawConfig struct {
	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`
	Server struct {
		ListenAddress string `yaml:"listen_address"`
	} `yaml:"server"`
	Simulator struct {
		Interval string `yaml:"interval"`
	} `yaml:"simulator"`
	Liveness struct {
		FreshnessWindow string `yaml:"freshness_window"`
	} `yaml:"liveness"`
}

// Load reads the YAML config at path and backfills defaults for anything unset.
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var raw rawConfig
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Config{}, err
	}

	cfg := Config{}
	cfg.Database.Driver = raw.Database.Driver
	cfg.Database.DSN = raw.Database.DSN
	cfg.Server.ListenAddress = raw.Server.ListenAddress

	cfg.Ingest.Interval, err = parseDuration(raw.Simulator.Interval, 3*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid simulator interval: %w", err)
	}
	cfg.Liveness.FreshnessWindow, err = parseDuration(raw.Liveness.FreshnessWindow, 90*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid freshness window: %w", err)
	}

	// Defaults
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "fleet.sqlite"
	}
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = ":8080"
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive, got %s", raw)
	}
	return d, nil
}
