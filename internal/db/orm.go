package db

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"fleet-telemetry/internal/model"
)

// openORM opens a GORM connection for the configured driver with sane defaults.
func openORM(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// migrateORM ensures the schema for all models exists.
func migrateORM(db *gorm.DB) error {
	return db.AutoMigrate(&model.Company{}, &model.Device{}, &model.Reading{})
}

// closeORM closes the underlying SQL DB associated with the GORM connection.
func closeORM(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// insertReading persists a new reading row using the provided context.
func insertReading(ctx context.Context, db *gorm.DB, r *model.Reading) error {
	return db.WithContext(ctx).Create(r).Error
}

// firstOrCreateCompany fetches a company by name, creating it if missing.
func firstOrCreateCompany(ctx context.Context, db *gorm.DB, name string) (*model.Company, error) {
	var c model.Company
	err := db.WithContext(ctx).
		Where("name = ?", name).
		FirstOrCreate(&c, model.Company{Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// firstOrCreateDevice fetches a device by (company, name), creating it if missing.
func firstOrCreateDevice(ctx context.Context, db *gorm.DB, companyID uint, name string) (*model.Device, error) {
	var d model.Device
	err := db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		FirstOrCreate(&d, model.Device{CompanyID: companyID, Name: name}).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}
