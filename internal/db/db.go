package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"fleet-telemetry/internal/model"
)

var (
	// ErrDeviceNotFound is returned when a reading references an unregistered device.
	ErrDeviceNotFound = errors.New("device not found")
	// ErrInvalidLimit is returned when a reading query asks for a non-positive row count.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
)

// Store wraps the fleet database connection.
type Store struct {
	ORM *gorm.DB
}

// Open opens the database for the given driver and DSN, runs migrations
// and returns a store.
func Open(driver, dsn string) (*Store, error) {
	g, err := openORM(driver, dsn)
	if err != nil {
		return nil, err
	}
	if err := migrateORM(g); err != nil {
		_ = closeORM(g)
		return nil, err
	}
	return &Store{ORM: g}, nil
}

func (s *Store) Close() error { return closeORM(s.ORM) }

// InsertReading appends one reading for a device and returns the new row id.
// The inserted_at timestamp is assigned here, not by the caller.
func (s *Store) InsertReading(ctx context.Context, deviceID uint, r *model.Reading) (uint, error) {
	var count int64
	if err := s.ORM.WithContext(ctx).Model(&model.Device{}).Where("id = ?", deviceID).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrDeviceNotFound
	}
	r.ID = 0
	r.DeviceID = deviceID
	r.InsertedAt = time.Time{}
	if err := insertReading(ctx, s.ORM, r); err != nil {
		return 0, err
	}
	return r.ID, nil
}

// LatestReadingAt returns the timestamp of the most recent reading for a device.
// ok is false when the device has no readings yet.
func (s *Store) LatestReadingAt(ctx context.Context, deviceID uint) (time.Time, bool, error) {
	var rows []model.Reading
	err := s.ORM.WithContext(ctx).
		Select("inserted_at").
		Where("device_id = ?", deviceID).
		Order("inserted_at DESC, id DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return time.Time{}, false, err
	}
	if len(rows) == 0 {
		return time.Time{}, false, nil
	}
	return rows[0].InsertedAt, true, nil
}

// RecentReadings returns at most limit readings for a device, newest first.
// Equal timestamps fall back to row id so the order is stable.
func (s *Store) RecentReadings(ctx context.Context, deviceID uint, limit int) ([]model.Reading, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	rows := make([]model.Reading, 0)
	err := s.ORM.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("inserted_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeviceLatest pairs a device with the timestamp of its most recent reading, if any.
type DeviceLatest struct {
	DeviceID   uint       `json:"device_id"`
	DeviceName string     `json:"device_name"`
	LastReadAt *time.Time `json:"last_read_at"`
}

// DevicesWithLatest returns one row per device of the company, ordered by
// device name, with the timestamp of that device's most recent reading. The
// newest-reading lookup is LEFT JOINed against the device list so devices
// with zero readings still appear, with a nil timestamp. One query covers
// the whole company.
func (s *Store) DevicesWithLatest(ctx context.Context, companyID uint) ([]DeviceLatest, error) {
	out := make([]DeviceLatest, 0)
	err := s.ORM.WithContext(ctx).
		Table("devices as d").
		Select("d.id as device_id, d.name as device_name, r.inserted_at as last_read_at").
		Joins(`LEFT JOIN device_readings r ON r.device_id = d.id AND r.id = (
			SELECT r2.id FROM device_readings r2
			WHERE r2.device_id = d.id
			ORDER BY r2.inserted_at DESC, r2.id DESC
			LIMIT 1)`).
		Where("d.company_id = ?", companyID).
		Order("d.name").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListCompanies returns all companies ordered by name.
func (s *Store) ListCompanies(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	if err := s.ORM.WithContext(ctx).Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// ListDevices returns the full device roster across all companies.
func (s *Store) ListDevices(ctx context.Context) ([]model.Device, error) {
	var devices []model.Device
	if err := s.ORM.WithContext(ctx).Order("id").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// EnsureCompany returns the company with the given name, creating it if needed.
func (s *Store) EnsureCompany(ctx context.Context, name string) (*model.Company, error) {
	return firstOrCreateCompany(ctx, s.ORM, name)
}

// EnsureDevice returns the device with the given name under a company,
// creating it if needed. Repeated calls are idempotent.
func (s *Store) EnsureDevice(ctx context.Context, companyID uint, name string) (*model.Device, error) {
	return firstOrCreateDevice(ctx, s.ORM, companyID, name)
}
