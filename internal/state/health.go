package state

import (
	"database/sql"

	dbutil "github.com/llehouerou/airwaves/internal/db"
	"github.com/llehouerou/airwaves/internal/health"
)

// LoadHealth returns every stored station health record.
func (m *Manager) LoadHealth() (map[string]health.Record, error) {
	rows, err := m.db.Query(`SELECT station_id, success, fail, last_played_at FROM station_health`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make(map[string]health.Record)
	for rows.Next() {
		var id string
		var rec health.Record
		var lastPlayed sql.NullInt64
		if err := rows.Scan(&id, &rec.Success, &rec.Fail, &lastPlayed); err != nil {
			return nil, err
		}
		rec.LastPlayedAt = dbutil.UnixTime(lastPlayed)
		records[id] = rec
	}
	return records, rows.Err()
}

// SaveHealth stores the record of one station.
func (m *Manager) SaveHealth(stationID string, rec health.Record) error {
	_, err := m.db.Exec(`
		INSERT INTO station_health (station_id, success, fail, last_played_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(station_id) DO UPDATE SET
			success = excluded.success,
			fail = excluded.fail,
			last_played_at = excluded.last_played_at
	`, stationID, rec.Success, rec.Fail, dbutil.NullUnix(rec.LastPlayedAt))
	return err
}
