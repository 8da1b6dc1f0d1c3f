package state

import (
	"database/sql"
	"errors"

	"github.com/llehouerou/airwaves/internal/catalog"
)

// Settings is the saved player state.
type Settings struct {
	Volume      float64
	LastStation *catalog.Station
}

func getSettings(db *sql.DB) (*Settings, error) {
	var volume float64
	var last sql.NullString

	row := db.QueryRow(`SELECT volume, last_station FROM settings WHERE id = 1`)
	err := row.Scan(&volume, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return &Settings{Volume: 1.0}, nil
	}
	if err != nil {
		return nil, err
	}

	s := &Settings{Volume: volume}
	if last.Valid {
		st, err := decodeStation(last.String)
		if err != nil {
			return nil, err
		}
		s.LastStation = &st
	}
	return s, nil
}

func saveSettings(db *sql.DB, s Settings) error {
	var last sql.NullString
	if s.LastStation != nil {
		enc, err := encodeStation(*s.LastStation)
		if err != nil {
			return err
		}
		last = sql.NullString{String: enc, Valid: true}
	}
	_, err := db.Exec(`
		INSERT INTO settings (id, volume, last_station)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			last_station = excluded.last_station
	`, s.Volume, last)
	return err
}
