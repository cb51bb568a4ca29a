package fleet

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"fleet-telemetry/internal/db"
	"fleet-telemetry/internal/liveness"
	"fleet-telemetry/internal/model"
)

// DefaultReadingLimit bounds ReadingsByDevice when the caller does not
// specify a limit.
const DefaultReadingLimit = 50

// Service answers the read queries of the fleet API. It holds no reading or
// status state of its own; every call recomputes from the store.
type Service struct {
	store  *db.Store
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewService creates a query service. A non-positive window falls back to
// liveness.DefaultWindow.
func NewService(store *db.Store, window time.Duration, logger zerolog.Logger) *Service {
	if window <= 0 {
		window = liveness.DefaultWindow
	}
	return &Service{
		store:  store,
		window: window,
		now:    time.Now,
		logger: logger,
	}
}

// Company is a directory entry.
type Company struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// DeviceStatus is a device row with its derived liveness classification.
type DeviceStatus struct {
	DeviceID   uint       `json:"device_id"`
	DeviceName string     `json:"device_name"`
	LastReadAt *time.Time `json:"last_read_at"`
	Status     string     `json:"status"`
}

// Companies lists all companies ordered by name.
func (s *Service) Companies(ctx context.Context) ([]Company, error) {
	rows, err := s.store.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Company, 0, len(rows))
	for _, c := range rows {
		out = append(out, Company{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// DevicesByCompany lists the company's devices ordered by name, each with its
// liveness status. One aggregate query covers the whole company, and the
// classification for every row uses a single clock read taken here, never a
// caller-supplied time. An unknown company id yields an empty slice.
func (s *Service) DevicesByCompany(ctx context.Context, companyID uint) ([]DeviceStatus, error) {
	rows, err := s.store.DevicesWithLatest(ctx, companyID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]DeviceStatus, 0, len(rows))
	for _, r := range rows {
		var latest time.Time
		hasReading := r.LastReadAt != nil
		if hasReading {
			latest = *r.LastReadAt
		}
		out = append(out, DeviceStatus{
			DeviceID:   r.DeviceID,
			DeviceName: r.DeviceName,
			LastReadAt: r.LastReadAt,
			Status:     liveness.Status(latest, hasReading, now, s.window),
		})
	}
	return out, nil
}

// ReadingsByDevice returns the limit most recent readings for a device in
// chronological order, oldest first. The store hands back the newest-first
// window; the reversal here is what turns "most recent N" into the
// chronological presentation callers expect. A device with no readings
// yields an empty slice. A non-positive limit fails with db.ErrInvalidLimit.
func (s *Service) ReadingsByDevice(ctx context.Context, deviceID uint, limit int) ([]model.Reading, error) {
	rows, err := s.store.RecentReadings(ctx, deviceID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]model.Reading, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, rows[i])
	}
	return out, nil
}
