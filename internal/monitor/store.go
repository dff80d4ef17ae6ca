package monitor

import (
	"sort"
	"time"
)

// Store owns every Device seen since startup. Devices are never removed.
//
// Store is not safe for concurrent use: the dashboard mutates it only from
// the Bubble Tea update loop and reads it from View on the same goroutine.
type Store struct {
	capacity int
	devices  map[string]*Device
	now      func() time.Time
}

// NewStore creates a store whose devices keep at most capacity utilization
// samples each. A non-positive capacity uses DefaultHistorySize.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &Store{
		capacity: capacity,
		devices:  make(map[string]*Device),
		now:      time.Now,
	}
}

// Upsert creates the device if it doesn't exist, then applies fn and stamps
// LastSeen. name is only recorded by the line that creates the device; a
// device first seen without one keeps showing its ID. Reports whether the
// device was created.
func (s *Store) Upsert(id, name string, fn func(d *Device)) bool {
	d, ok := s.devices[id]
	if !ok {
		d = &Device{
			id:          id,
			name:        name,
			utilization: newRingBuffer(s.capacity),
		}
		s.devices[id] = d
	}

	if fn != nil {
		fn(d)
	}
	d.LastSeen = s.now()

	return !ok
}

// Get returns a view of one device.
func (s *Store) Get(id string) (DeviceView, bool) {
	d, ok := s.devices[id]
	if !ok {
		return DeviceView{}, false
	}
	return d.view(), true
}

// Len returns the number of known devices.
func (s *Store) Len() int {
	return len(s.devices)
}

// IDs returns device identifiers in ascending order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.devices))
	for id := range s.devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot returns views of every device in ascending ID order.
// Panels are drawn in this order.
func (s *Store) Snapshot() []DeviceView {
	ids := s.IDs()
	views := make([]DeviceView, 0, len(ids))
	for _, id := range ids {
		views = append(views, s.devices[id].view())
	}
	return views
}
