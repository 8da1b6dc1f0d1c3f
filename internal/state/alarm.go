package state

import (
	"database/sql"
	"errors"

	"github.com/llehouerou/airwaves/internal/alarm"
)

// LoadAlarm returns the saved alarm, or a disabled one.
func (m *Manager) LoadAlarm() (alarm.Config, error) {
	var cfg alarm.Config
	var station sql.NullString

	row := m.db.QueryRow(`SELECT time, enabled, station FROM alarm WHERE id = 1`)
	err := row.Scan(&cfg.Time, &cfg.Enabled, &station)
	if errors.Is(err, sql.ErrNoRows) {
		return alarm.Config{}, nil
	}
	if err != nil {
		return alarm.Config{}, err
	}
	if station.Valid {
		st, err := decodeStation(station.String)
		if err != nil {
			return alarm.Config{}, err
		}
		cfg.Station = &st
	}
	return cfg, nil
}

// SaveAlarm validates and stores the alarm.
func (m *Manager) SaveAlarm(cfg alarm.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	var station sql.NullString
	if cfg.Station != nil {
		enc, err := encodeStation(*cfg.Station)
		if err != nil {
			return err
		}
		station = sql.NullString{String: enc, Valid: true}
	}
	_, err := m.db.Exec(`
		INSERT INTO alarm (id, time, enabled, station)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			time = excluded.time,
			enabled = excluded.enabled,
			station = excluded.station
	`, cfg.Time, cfg.Enabled, station)
	return err
}
