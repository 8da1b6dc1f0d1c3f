// internal/state/mock.go
package state

import (
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/verify"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu         sync.Mutex
	settings   *Settings
	favorites  []Favorite
	history    []HistoryEntry
	health     map[string]health.Record
	alarm      alarm.Config
	liveStatus map[string]verify.Result
	closed     bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		health:     make(map[string]health.Record),
		liveStatus: make(map[string]verify.Result),
	}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveSettings(s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
}

func (m *Mock) GetSettings() (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return &Settings{Volume: 1.0}, nil
	}
	s := *m.settings
	return &s, nil
}

func (m *Mock) AddFavorite(st catalog.Station) (Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.favorites {
		if f.Station.ID == st.ID {
			return Favorite{}, ErrAlreadyFavorite
		}
	}
	f := Favorite{ID: fmt.Sprintf("fav-%d", len(m.favorites)+1), Station: st, AddedAt: time.Now()}
	m.favorites = append([]Favorite{f}, m.favorites...)
	return f, nil
}

func (m *Mock) RemoveFavorite(stationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.favorites, func(f Favorite) bool { return f.Station.ID == stationID })
	if i < 0 {
		return ErrFavoriteNotFound
	}
	m.favorites = slices.Delete(m.favorites, i, i+1)
	return nil
}

func (m *Mock) ToggleFavorite(st catalog.Station) (bool, error) {
	if fav, _ := m.IsFavorite(st.ID); fav {
		return false, m.RemoveFavorite(st.ID)
	}
	_, err := m.AddFavorite(st)
	return err == nil, err
}

func (m *Mock) IsFavorite(stationID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.favorites, func(f Favorite) bool { return f.Station.ID == stationID }), nil
}

func (m *Mock) ListFavorites() ([]Favorite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.favorites), nil
}

func (m *Mock) AddHistory(st catalog.Station, playedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = slices.DeleteFunc(m.history, func(e HistoryEntry) bool { return e.Station.ID == st.ID })
	m.history = append([]HistoryEntry{{Station: st, PlayedAt: playedAt}}, m.history...)
	if len(m.history) > DefaultHistoryLimit {
		m.history = m.history[:DefaultHistoryLimit]
	}
	return nil
}

func (m *Mock) ListHistory() ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.history), nil
}

func (m *Mock) ClearHistory() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
	return nil
}

func (m *Mock) LoadHealth() (map[string]health.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]health.Record, len(m.health))
	for k, v := range m.health {
		out[k] = v
	}
	return out, nil
}

func (m *Mock) SaveHealth(stationID string, r health.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.health[stationID] = r
	return nil
}

func (m *Mock) LoadAlarm() (alarm.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alarm, nil
}

func (m *Mock) SaveAlarm(c alarm.Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alarm = c
	return nil
}

func (m *Mock) GetLiveStatus(id string) (verify.Result, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.liveStatus[id]
	return r, ok, nil
}

func (m *Mock) PutLiveStatus(r verify.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.liveStatus[r.ID] = r
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
