package simulator

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"fleet-telemetry/internal/db"
	"fleet-telemetry/internal/model"
)

// ErrNoDevices is returned when the roster is empty at startup. With nothing
// to simulate this is a configuration error, not a condition to wait out.
var ErrNoDevices = errors.New("no devices registered")

// DefaultInterval is the pause between ingestion passes. It is long relative
// to per-insert latency so passes do not overlap.
const DefaultInterval = 3 * time.Second

// Simulator produces one synthetic reading per registered device on a fixed
// cadence and appends them to the store.
type Simulator struct {
	store    *db.Store
	interval time.Duration
	logger   zerolog.Logger
	rng      *rand.Rand
}

// New creates a simulator. A non-positive interval falls back to DefaultInterval.
func New(store *db.Store, interval time.Duration, logger zerolog.Logger) *Simulator {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Simulator{
		store:    store,
		interval: interval,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run loads the device roster once, then inserts one reading per device per
// pass until ctx is cancelled. Cancellation takes effect between passes, not
// mid-insert. Devices registered after startup are not picked up without a
// restart; the roster is a deliberate startup snapshot.
func (s *Simulator) Run(ctx context.Context) error {
	roster, err := s.store.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("load device roster: %w", err)
	}
	if len(roster) == 0 {
		return ErrNoDevices
	}

	s.logger.Info().
		Int("devices", len(roster)).
		Dur("interval", s.interval).
		Msg("starting ingestion")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.pass(ctx, roster)

	for {
		select {
		case <-ticker.C:
			s.pass(ctx, roster)
		case <-ctx.Done():
			s.logger.Info().Msg("ingestion stopped")
			return nil
		}
	}
}

// pass inserts one synthetic reading per roster device, sequentially. Each
// insert is an independent unit of work: a failure is logged and that device
// is skipped for this pass, the next pass naturally retries. Inserts run on a
// non-cancellable context so a stop signal arriving mid-pass lets the pass
// finish; cancellation is only observed at the pass boundary in Run.
func (s *Simulator) pass(ctx context.Context, roster []model.Device) {
	insertCtx := context.WithoutCancel(ctx)
	for _, dev := range roster {
		reading := s.generate()
		if _, err := s.store.InsertReading(insertCtx, dev.ID, reading); err != nil {
			s.logger.Warn().
				Err(err).
				Uint("device_id", dev.ID).
				Str("device", dev.Name).
				Msg("insert reading failed, skipping device for this pass")
			continue
		}
		s.logger.Debug().
			Uint("device_id", dev.ID).
			Str("device", dev.Name).
			Float64("temperature", reading.Temperature).
			Msg("reading inserted")
	}
}

// generate draws each measurement independently from its fixed range.
// Geolocation columns are left unset; the API exposes them as null.
func (s *Simulator) generate() *model.Reading {
	return &model.Reading{
		Temperature: s.sample(20, 90),
		Humidity:    s.sample(30, 85),
		Vibration:   s.sample(0, 10),
		Voltage:     s.sample(11, 15),
		Current:     s.sample(2, 50),
		RPM:         s.sample(500, 6000),
		PowerWatts:  s.sample(100, 5000),
		NoiseDB:     s.sample(40, 120),
	}
}

// sample returns a uniform draw from [lo, hi] rounded to two decimal places.
func (s *Simulator) sample(lo, hi float64) float64 {
	v := lo + s.rng.Float64()*(hi-lo)
	return math.Round(v*100) / 100
}
