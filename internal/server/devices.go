package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fleet-telemetry/internal/db"
	"fleet-telemetry/internal/fleet"
	"fleet-telemetry/internal/model"
)

type readingResponse struct {
	ID          uint      `json:"id"`
	DeviceID    uint      `json:"device_id"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	Vibration   float64   `json:"vibration"`
	Voltage     float64   `json:"voltage"`
	Current     float64   `json:"current"`
	RPM         float64   `json:"rpm"`
	PowerWatts  float64   `json:"power_watts"`
	NoiseDB     float64   `json:"noise_db"`
	Latitude    *float64  `json:"latitude"`
	Longitude   *float64  `json:"longitude"`
	InsertedAt  time.Time `json:"inserted_at"`
}

// handleDevicesByCompany serves GET /api/devices/company/{company_id}:
// the company's devices sorted by name, each with last_read_at and its
// derived online/offline status. An unknown company id yields [].
func (s *Server) handleDevicesByCompany(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	companyID, ok := parseID(w, r.URL.Path, "/api/devices/company/", "invalid company id")
	if !ok {
		return
	}

	devices, err := s.fleet.DevicesByCompany(r.Context(), companyID)
	if err != nil {
		s.logger.Error().Err(err).Uint("company_id", companyID).Msg("list devices failed")
		http.Error(w, "failed to list devices", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, devices)
}

// handleReadingsByDevice serves GET /api/devices/readings/device/{device_id}?limit=n:
// the n most recent readings for the device, presented oldest first. limit
// defaults to 50 and must be a positive integer; a malformed value is a
// client error, never silently clamped.
func (s *Server) handleReadingsByDevice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	deviceID, ok := parseID(w, r.URL.Path, "/api/devices/readings/device/", "invalid device id")
	if !ok {
		return
	}

	limit := fleet.DefaultReadingLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	readings, err := s.fleet.ReadingsByDevice(r.Context(), deviceID, limit)
	if err != nil {
		if errors.Is(err, db.ErrInvalidLimit) {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		s.logger.Error().Err(err).Uint("device_id", deviceID).Msg("list readings failed")
		http.Error(w, "failed to list readings", http.StatusInternalServerError)
		return
	}

	s.writeJSON(w, http.StatusOK, toReadingResponses(readings))
}

func parseID(w http.ResponseWriter, path, prefix, errMsg string) (uint, bool) {
	raw := strings.TrimPrefix(path, prefix)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		http.Error(w, errMsg, http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func toReadingResponses(readings []model.Reading) []readingResponse {
	out := make([]readingResponse, 0, len(readings))
	for _, r := range readings {
		out = append(out, readingResponse{
			ID:          r.ID,
			DeviceID:    r.DeviceID,
			Temperature: r.Temperature,
			Humidity:    r.Humidity,
			Vibration:   r.Vibration,
			Voltage:     r.Voltage,
			Current:     r.Current,
			RPM:         r.RPM,
			PowerWatts:  r.PowerWatts,
			NoiseDB:     r.NoiseDB,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
			InsertedAt:  r.InsertedAt,
		})
	}
	return out
}
