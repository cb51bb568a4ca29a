package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"fleet-telemetry/internal/config"
	"fleet-telemetry/pkg/fleetdb"
)

// Development fixtures: two companies with a handful of devices each.
// Seeding is idempotent; rerunning changes nothing.
var fixtures = []struct {
	company string
	devices []string
}{
	{"Acme Co", []string{"Acme-R1", "Acme-R2", "Acme-Switch"}},
	{"Beta Ltd", []string{"Beta-R1", "Beta-R2", "Beta-Switch", "Beta-AP"}},
}

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config/config.yaml", "path to YAML config")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "fleet-seed").Logger()

	if err := run(cfgPath, logger); err != nil {
		logger.Fatal().Err(err).Msg("fleet-seed exited")
	}
}

func run(cfgPath string, logger zerolog.Logger) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := fleetdb.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer client.Close()

	ctx := context.Background()
	for _, f := range fixtures {
		company, err := client.EnsureCompany(ctx, f.company)
		if err != nil {
			return fmt.Errorf("ensure company %q: %w", f.company, err)
		}
		for _, name := range f.devices {
			if _, err := client.EnsureDevice(ctx, company.ID, name); err != nil {
				return fmt.Errorf("ensure device %q: %w", name, err)
			}
		}
		logger.Info().Str("company", f.company).Int("devices", len(f.devices)).Msg("seeded")
	}

	logger.Info().Msg("seeding complete")
	return nil
}
