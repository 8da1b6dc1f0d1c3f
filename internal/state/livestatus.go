package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/airwaves/internal/db"
	"github.com/llehouerou/airwaves/internal/verify"
)

// GetLiveStatus returns the cached probe result of a station.
func (m *Manager) GetLiveStatus(stationID string) (verify.Result, bool, error) {
	r := verify.Result{ID: stationID}
	var contentType sql.NullString
	var checkedAt int64

	row := m.db.QueryRow(`
		SELECT is_live, reason, content_type, checked_at
		FROM live_status WHERE station_id = ?
	`, stationID)
	err := row.Scan(&r.IsLive, &r.Reason, &contentType, &checkedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return verify.Result{}, false, nil
	}
	if err != nil {
		return verify.Result{}, false, err
	}
	r.ContentType = dbutil.StringValue(contentType)
	r.CheckedAt = time.Unix(0, checkedAt)
	return r, true, nil
}

// PutLiveStatus caches a probe result.
func (m *Manager) PutLiveStatus(r verify.Result) error {
	_, err := m.db.Exec(`
		INSERT INTO live_status (station_id, is_live, reason, content_type, checked_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(station_id) DO UPDATE SET
			is_live = excluded.is_live,
			reason = excluded.reason,
			content_type = excluded.content_type,
			checked_at = excluded.checked_at
	`, r.ID, r.IsLive, r.Reason, dbutil.NullString(r.ContentType), r.CheckedAt.UnixNano())
	return err
}

// PurgeLiveStatus drops cached results checked before cutoff.
func (m *Manager) PurgeLiveStatus(cutoff time.Time) (int64, error) {
	res, err := m.db.Exec(`DELETE FROM live_status WHERE checked_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
