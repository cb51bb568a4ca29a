package fleetdb

import (
	"context"

	dbpkg "fleet-telemetry/internal/db"
	"fleet-telemetry/internal/model"
)

// Client exposes a stable API for directory management (companies and
// devices) over the fleet database. The telemetry core only ever reads the
// directory; all mutation goes through this client.
type Client struct{ store *dbpkg.Store }

// Open opens the database (runs migrations) and returns a client.
func Open(driver, dsn string) (*Client, error) {
	s, err := dbpkg.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &Client{store: s}, nil
}

// Close closes the underlying DB.
func (c *Client) Close() error { return c.store.Close() }

// Store returns the underlying reading store, for wiring the client's
// connection into the query service or the simulator.
func (c *Client) Store() *dbpkg.Store { return c.store }

// --------------------
// Directory DTOs and converters
// --------------------

type Company struct {
	ID   uint
	Name string
}

type Device struct {
	ID        uint
	CompanyID uint
	Name      string
}

func fromModelCompany(m *model.Company) *Company {
	if m == nil {
		return nil
	}
	return &Company{ID: m.ID, Name: m.Name}
}

func fromModelDevice(m *model.Device) *Device {
	if m == nil {
		return nil
	}
	return &Device{ID: m.ID, CompanyID: m.CompanyID, Name: m.Name}
}

// --------------------
// Directory management
// --------------------

// EnsureCompany returns the company with the given name, creating it if
// missing. Repeated calls with the same name return the same row.
func (c *Client) EnsureCompany(ctx context.Context, name string) (*Company, error) {
	m, err := c.store.EnsureCompany(ctx, name)
	if err != nil {
		return nil, err
	}
	return fromModelCompany(m), nil
}

// EnsureDevice returns the device with the given name under a company,
// creating it if missing. The (company, name) pair is unique, so repeated
// calls are idempotent.
func (c *Client) EnsureDevice(ctx context.Context, companyID uint, name string) (*Device, error) {
	m, err := c.store.EnsureDevice(ctx, companyID, name)
	if err != nil {
		return nil, err
	}
	return fromModelDevice(m), nil
}

// Companies lists all companies ordered by name.
func (c *Client) Companies(ctx context.Context) ([]Company, error) {
	rows, err := c.store.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Company, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModelCompany(&rows[i]))
	}
	return out, nil
}

// Devices lists the full device roster across all companies.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	rows, err := c.store.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Device, 0, len(rows))
	for i := range rows {
		out = append(out, *fromModelDevice(&rows[i]))
	}
	return out, nil
}
