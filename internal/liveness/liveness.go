package liveness

import "time"

// Classification values reported for a device.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// DefaultWindow is the maximum age of a device's latest reading for it to
// count as online. Sized for a 3s ingestion cadence plus generous margin.
const DefaultWindow = 90 * time.Second

// Status classifies a device from the age of its most recent reading.
// A device with no readings at all is offline. The boundary is inclusive:
// a reading exactly window old still counts as online.
//
// Status is a pure function of its inputs; liveness is derived on every
// query and never stored, so it cannot drift from the underlying readings.
func Status(latest time.Time, hasReading bool, now time.Time, window time.Duration) string {
	if !hasReading {
		return StatusOffline
	}
	if now.Sub(latest) <= window {
		return StatusOnline
	}
	return StatusOffline
}
