package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/llehouerou/airwaves/internal/catalog"
	dbutil "github.com/llehouerou/airwaves/internal/db"
)

var (
	ErrAlreadyFavorite  = errors.New("station is already a favorite")
	ErrFavoriteNotFound = errors.New("favorite not found")
)

// Favorite is a saved station.
type Favorite struct {
	ID      string
	Station catalog.Station
	AddedAt time.Time
}

// AddFavorite saves a station. Adding a station twice fails with
// ErrAlreadyFavorite.
func (m *Manager) AddFavorite(st catalog.Station) (Favorite, error) {
	enc, err := encodeStation(st)
	if err != nil {
		return Favorite{}, err
	}
	fav := Favorite{ID: uuid.NewString(), Station: st, AddedAt: m.now()}

	err = dbutil.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow(`SELECT COUNT(*) FROM favorites WHERE station_id = ?`, st.ID).Scan(&exists)
		if err != nil {
			return err
		}
		if exists > 0 {
			return ErrAlreadyFavorite
		}
		_, err = tx.Exec(`
			INSERT INTO favorites (id, station_id, station, added_at)
			VALUES (?, ?, ?, ?)
		`, fav.ID, st.ID, enc, fav.AddedAt.UnixNano())
		return err
	})
	if err != nil {
		return Favorite{}, err
	}
	return fav, nil
}

// RemoveFavorite deletes the favorite of a station.
func (m *Manager) RemoveFavorite(stationID string) error {
	res, err := m.db.Exec(`DELETE FROM favorites WHERE station_id = ?`, stationID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrFavoriteNotFound, stationID)
	}
	return nil
}

// ToggleFavorite adds the station, or removes it when already saved. It
// reports whether the station is a favorite afterwards.
func (m *Manager) ToggleFavorite(st catalog.Station) (bool, error) {
	_, err := m.AddFavorite(st)
	if errors.Is(err, ErrAlreadyFavorite) {
		return false, m.RemoveFavorite(st.ID)
	}
	return err == nil, err
}

// IsFavorite reports whether the station is saved.
func (m *Manager) IsFavorite(stationID string) (bool, error) {
	var n int
	err := m.db.QueryRow(`SELECT COUNT(*) FROM favorites WHERE station_id = ?`, stationID).Scan(&n)
	return n > 0, err
}

// ListFavorites returns favorites, most recently added first.
func (m *Manager) ListFavorites() ([]Favorite, error) {
	rows, err := m.db.Query(`SELECT id, station, added_at FROM favorites ORDER BY added_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var favs []Favorite
	for rows.Next() {
		var f Favorite
		var enc string
		var addedAt int64
		if err := rows.Scan(&f.ID, &enc, &addedAt); err != nil {
			return nil, err
		}
		if f.Station, err = decodeStation(enc); err != nil {
			return nil, err
		}
		f.AddedAt = time.Unix(0, addedAt)
		favs = append(favs, f)
	}
	return favs, rows.Err()
}
