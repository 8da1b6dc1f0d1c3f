package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/llehouerou/airwaves/internal/catalog"
	dbutil "github.com/llehouerou/airwaves/internal/db"
)

// HistoryEntry is a recently played station.
type HistoryEntry struct {
	Station  catalog.Station
	PlayedAt time.Time
}

// AddHistory records a play. A station appears once, at its latest play,
// and only the newest entries up to the history limit are kept.
func (m *Manager) AddHistory(st catalog.Station, playedAt time.Time) error {
	enc, err := encodeStation(st)
	if err != nil {
		return err
	}
	return dbutil.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO history (station_id, station, played_at)
			VALUES (?, ?, ?)
			ON CONFLICT(station_id) DO UPDATE SET
				station = excluded.station,
				played_at = excluded.played_at
		`, st.ID, enc, playedAt.UnixNano())
		if err != nil {
			return err
		}
		_, err = tx.Exec(`
			DELETE FROM history WHERE station_id NOT IN (
				SELECT station_id FROM history ORDER BY played_at DESC LIMIT ?
			)
		`, m.historyLimit)
		return err
	})
}

// ListHistory returns history, most recent first.
func (m *Manager) ListHistory() ([]HistoryEntry, error) {
	rows, err := m.db.Query(`SELECT station, played_at FROM history ORDER BY played_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var enc string
		var playedAt int64
		if err := rows.Scan(&enc, &playedAt); err != nil {
			return nil, err
		}
		st, err := decodeStation(enc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, HistoryEntry{Station: st, PlayedAt: time.Unix(0, playedAt)})
	}
	return entries, rows.Err()
}

// ClearHistory removes every history entry.
func (m *Manager) ClearHistory() error {
	_, err := m.db.Exec(`DELETE FROM history`)
	return err
}
