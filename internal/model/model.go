package model

import "time"

// Company owns a fleet of devices.
type Company struct {
	ID   uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;uniqueIndex"`

	Devices []Device `gorm:"foreignKey:CompanyID;references:ID"`
}

func (Company) TableName() string { return "companies" }

// Device is a registered piece of equipment belonging to one company.
// A device name may repeat across companies but not within one.
type Device struct {
	ID        uint   `gorm:"column:id;primaryKey;autoIncrement"`
	CompanyID uint   `gorm:"column:company_id;uniqueIndex:idx_company_device"`
	Name      string `gorm:"column:name;uniqueIndex:idx_company_device"`

	Company  Company   `gorm:"foreignKey:CompanyID;references:ID"`
	Readings []Reading `gorm:"foreignKey:DeviceID;references:ID"`
}

func (Device) TableName() string { return "devices" }

// Reading is one sampled set of sensor measurements for a device.
// InsertedAt is assigned by the store at write time, never by the caller,
// so recency comparisons are always against the store's own clock.
// Rows are immutable once written.
type Reading struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement"`
	DeviceID    uint      `gorm:"column:device_id;index"`
	Temperature float64   `gorm:"column:temperature"`
	Humidity    float64   `gorm:"column:humidity"`
	Vibration   float64   `gorm:"column:vibration"`
	Voltage     float64   `gorm:"column:voltage"`
	Current     float64   `gorm:"column:current"`
	RPM         float64   `gorm:"column:rpm"`
	PowerWatts  float64   `gorm:"column:power_watts"`
	NoiseDB     float64   `gorm:"column:noise_db"`
	Latitude    *float64  `gorm:"column:latitude"`
	Longitude   *float64  `gorm:"column:longitude"`
	InsertedAt  time.Time `gorm:"column:inserted_at;autoCreateTime"`
}

func (Reading) TableName() string { return "device_readings" }
