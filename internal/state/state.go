package state

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "airwaves"
	dbFileName   = "airwaves.db"
	saveDebounce = 500 * time.Millisecond

	// DefaultHistoryLimit is the number of history entries kept.
	DefaultHistoryLimit = 50
)

// Manager is the SQLite store behind favorites, history, health, live
// status, settings and the wake alarm.
type Manager struct {
	db           *sql.DB
	clock        clockwork.Clock
	now          func() time.Time
	historyLimit int

	saveMu    sync.Mutex
	saveTimer clockwork.Timer
	pending   *Settings
}

// Open opens the database in the xdg data directory, creating it on first
// run.
func Open() (*Manager, error) {
	path, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, fmt.Errorf("locate database: %w", err)
	}
	return OpenPath(path)
}

// OpenPath opens the database at path. ":memory:" gives a private in-memory
// database.
func OpenPath(path string) (*Manager, error) {
	return openWithClock(path, clockwork.NewRealClock())
}

func openWithClock(path string, clock clockwork.Clock) (*Manager, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" a single database and serializes writers.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Manager{db: db, clock: clock, now: clock.Now, historyLimit: DefaultHistoryLimit}, nil
}

// SetHistoryLimit changes how many history entries are kept.
func (m *Manager) SetHistoryLimit(n int) {
	if n > 0 {
		m.historyLimit = n
	}
}

// Close writes settings still waiting on the debounce, then closes the
// database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveMu.Unlock()
	m.flushSettings()
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// SaveSettings stores settings once no newer call arrives for
// saveDebounce, so volume key repeats collapse into one write.
func (m *Manager) SaveSettings(s Settings) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()
	m.pending = &s
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = m.clock.AfterFunc(saveDebounce, m.flushSettings)
}

func (m *Manager) flushSettings() {
	m.saveMu.Lock()
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()
	if pending != nil {
		// Settings are a convenience; a failed write only loses the last volume.
		_ = saveSettings(m.db, *pending)
	}
}

// GetSettings returns the saved settings, including any not yet flushed.
func (m *Manager) GetSettings() (*Settings, error) {
	m.saveMu.Lock()
	pending := m.pending
	m.saveMu.Unlock()
	if pending != nil {
		s := *pending
		return &s, nil
	}
	return getSettings(m.db)
}
