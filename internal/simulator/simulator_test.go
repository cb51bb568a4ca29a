package simulator

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleet-telemetry/internal/db"
	"fleet-telemetry/internal/model"
)

func newTestStore(t *testing.T) *db.Store {
	t.Helper()
	store, err := db.Open("sqlite", filepath.Join(t.TempDir(), "fleet_test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seedDevices(t *testing.T, store *db.Store, names ...string) {
	t.Helper()
	ctx := context.Background()
	c, err := store.EnsureCompany(ctx, "Acme Co")
	require.NoError(t, err)
	for _, name := range names {
		_, err := store.EnsureDevice(ctx, c.ID, name)
		require.NoError(t, err)
	}
}

func TestRunEmptyRoster(t *testing.T) {
	store := newTestStore(t)
	sim := New(store, time.Second, zerolog.Nop())

	err := sim.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoDevices)
}

func TestPassInsertsOneReadingPerDevice(t *testing.T) {
	store := newTestStore(t)
	seedDevices(t, store, "Acme-R1", "Acme-R2", "Acme-Switch")
	sim := New(store, time.Second, zerolog.Nop())

	ctx := context.Background()
	roster, err := store.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 3)

	sim.pass(ctx, roster)

	for _, dev := range roster {
		rows, err := store.RecentReadings(ctx, dev.ID, 10)
		require.NoError(t, err)
		assert.Len(t, rows, 1, "device %s", dev.Name)
	}
}

func TestGenerateWithinRanges(t *testing.T) {
	sim := New(newTestStore(t), time.Second, zerolog.Nop())

	bounds := []struct {
		name   string
		lo, hi float64
		get    func(*model.Reading) float64
	}{
		{"temperature", 20, 90, func(r *model.Reading) float64 { return r.Temperature }},
		{"humidity", 30, 85, func(r *model.Reading) float64 { return r.Humidity }},
		{"vibration", 0, 10, func(r *model.Reading) float64 { return r.Vibration }},
		{"voltage", 11, 15, func(r *model.Reading) float64 { return r.Voltage }},
		{"current", 2, 50, func(r *model.Reading) float64 { return r.Current }},
		{"rpm", 500, 6000, func(r *model.Reading) float64 { return r.RPM }},
		{"power_watts", 100, 5000, func(r *model.Reading) float64 { return r.PowerWatts }},
		{"noise_db", 40, 120, func(r *model.Reading) float64 { return r.NoiseDB }},
	}

	for i := 0; i < 100; i++ {
		r := sim.generate()
		for _, b := range bounds {
			v := b.get(r)
			assert.GreaterOrEqual(t, v, b.lo, b.name)
			assert.LessOrEqual(t, v, b.hi, b.name)
			assert.Equal(t, math.Round(v*100)/100, v, "%s not rounded to two decimals", b.name)
		}
		assert.Nil(t, r.Latitude)
		assert.Nil(t, r.Longitude)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	store := newTestStore(t)
	seedDevices(t, store, "Acme-R1")
	sim := New(store, 10*time.Millisecond, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := sim.Run(ctx)
	require.NoError(t, err)

	// at least the initial pass ran before cancellation
	roster, err := store.ListDevices(context.Background())
	require.NoError(t, err)
	rows, err := store.RecentReadings(context.Background(), roster[0].ID, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, rows)
}

func TestPassFinishesAfterCancel(t *testing.T) {
	store := newTestStore(t)
	seedDevices(t, store, "Acme-R1", "Acme-R2")
	sim := New(store, time.Second, zerolog.Nop())

	roster, err := store.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)

	// a stop signal arriving mid-pass must not abort the remaining inserts;
	// the pass runs to completion and cancellation takes effect at the
	// pass boundary
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sim.pass(ctx, roster)

	for _, dev := range roster {
		rows, err := store.RecentReadings(context.Background(), dev.ID, 10)
		require.NoError(t, err)
		assert.Len(t, rows, 1, "device %s", dev.Name)
	}
}

func TestPassSkipsFailedInsert(t *testing.T) {
	store := newTestStore(t)
	seedDevices(t, store, "Acme-R1", "Acme-R2")
	sim := New(store, time.Second, zerolog.Nop())

	ctx := context.Background()
	roster, err := store.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, roster, 2)

	// a roster entry whose device row is gone fails its insert; the rest of
	// the pass must still run
	ghost := model.Device{ID: 9999, CompanyID: roster[0].CompanyID, Name: "ghost"}
	sim.pass(ctx, []model.Device{ghost, roster[0], roster[1]})

	for _, dev := range roster {
		rows, err := store.RecentReadings(ctx, dev.ID, 10)
		require.NoError(t, err)
		assert.Len(t, rows, 1, "device %s", dev.Name)
	}
}
