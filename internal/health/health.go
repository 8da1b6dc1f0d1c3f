// Package health keeps per-station playback outcome counters and derives an
// advisory reliability label from them.
package health

import (
	"sync"
	"time"
)

// Status is the advisory reliability label of a station.
type Status int

const (
	StatusUnknown Status = iota
	StatusGood
	StatusFair
	StatusPoor
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusGood:
		return "good"
	case StatusFair:
		return "fair"
	case StatusPoor:
		return "poor"
	case StatusUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

const (
	// MinSamples is the attempt count below which status stays unknown.
	MinSamples = 2
	goodRatio  = 0.8
	fairRatio  = 0.5
)

// Record is the cumulative outcome of playback attempts on one station.
type Record struct {
	Success      int
	Fail         int
	LastPlayedAt time.Time
}

// Total returns the number of recorded attempts.
func (r Record) Total() int {
	return r.Success + r.Fail
}

// Status derives the reliability label.
func (r Record) Status() Status {
	total := r.Total()
	if total < MinSamples {
		return StatusUnknown
	}
	ratio := float64(r.Success) / float64(total)
	switch {
	case ratio >= goodRatio:
		return StatusGood
	case ratio >= fairRatio:
		return StatusFair
	default:
		return StatusPoor
	}
}

// Store persists health records.
type Store interface {
	LoadHealth() (map[string]Record, error)
	SaveHealth(stationID string, r Record) error
}

// Registry holds health records in memory and writes changes through to a Store.
type Registry struct {
	mu      sync.RWMutex
	records map[string]Record
	store   Store
	now     func() time.Time
}

// NewRegistry creates a registry. A nil store keeps records in memory only.
func NewRegistry(store Store) *Registry {
	return &Registry{
		records: make(map[string]Record),
		store:   store,
		now:     time.Now,
	}
}

// Load replaces in-memory records with the store contents.
func (r *Registry) Load() error {
	if r.store == nil {
		return nil
	}
	records, err := r.store.LoadHealth()
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]Record, len(records))
	for id, rec := range records {
		r.records[id] = rec
	}
	return nil
}

// RecordSuccess counts a successful start for the station.
func (r *Registry) RecordSuccess(stationID string) error {
	return r.update(stationID, func(rec *Record) {
		rec.Success++
		rec.LastPlayedAt = r.now()
	})
}

// RecordFailure counts a failed attempt for the station.
func (r *Registry) RecordFailure(stationID string) error {
	return r.update(stationID, func(rec *Record) {
		rec.Fail++
	})
}

func (r *Registry) update(stationID string, fn func(*Record)) error {
	if stationID == "" {
		return nil
	}
	r.mu.Lock()
	rec := r.records[stationID]
	fn(&rec)
	r.records[stationID] = rec
	r.mu.Unlock()

	if r.store == nil {
		return nil
	}
	return r.store.SaveHealth(stationID, rec)
}

// Get returns the record for a station (zero value if none).
func (r *Registry) Get(stationID string) Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.records[stationID]
}

// Status returns the derived status for a station.
func (r *Registry) Status(stationID string) Status {
	return r.Get(stationID).Status()
}
