package monitor

import "time"

// Device is the state kept for one GPU, keyed by its uuid label.
// Only the Store creates devices; everything else sees DeviceView copies.
type Device struct {
	id   string
	name string

	TemperatureC float64
	ClockMHz     float64
	MemClockMHz  float64
	PowerWatts   float64

	// LastSeen is when the last line for this device was applied.
	LastSeen time.Time

	utilization *ringBuffer
}

// ID returns the identifier the device was created with.
func (d *Device) ID() string {
	return d.id
}

// Name returns the display label, or "" if the creating line had none.
func (d *Device) Name() string {
	return d.name
}

// PushUtilization appends a utilization sample, evicting the oldest one
// when the history is full.
func (d *Device) PushUtilization(percent float64) {
	d.utilization.push(percent)
}

// Utilization returns a copy of the utilization history, oldest first.
func (d *Device) Utilization() []float64 {
	return d.utilization.getAll()
}

// DeviceView is a read-only copy of a Device for one render pass.
type DeviceView struct {
	ID           string
	Name         string
	TemperatureC float64
	ClockMHz     float64
	MemClockMHz  float64
	PowerWatts   float64
	LastSeen     time.Time
	Utilization  []float64
}

// Label returns the name to show for the device, falling back to its ID.
func (v DeviceView) Label() string {
	if v.Name != "" {
		return v.Name
	}
	return v.ID
}

// IsStale reports whether the device has gone quiet for longer than after.
// A zero after disables staleness.
func (v DeviceView) IsStale(now time.Time, after time.Duration) bool {
	if after <= 0 || v.LastSeen.IsZero() {
		return false
	}
	return now.Sub(v.LastSeen) > after
}

func (d *Device) view() DeviceView {
	return DeviceView{
		ID:           d.id,
		Name:         d.name,
		TemperatureC: d.TemperatureC,
		ClockMHz:     d.ClockMHz,
		MemClockMHz:  d.MemClockMHz,
		PowerWatts:   d.PowerWatts,
		LastSeen:     d.LastSeen,
		Utilization:  d.utilization.getAll(),
	}
}
