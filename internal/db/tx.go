// Package db holds small database/sql helpers shared by the state store.
package db

import (
	"context"
	"database/sql"
	"time"
)

// WithTx runs fn in a transaction, committing when fn succeeds and rolling
// back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// NullUnix stores t as unix seconds. The zero time is stored as NULL.
func NullUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

// UnixTime reads a column written by NullUnix.
func UnixTime(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.Unix(n.Int64, 0)
}

// NullString stores an empty string as NULL.
func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// StringValue returns the string, or "" for NULL.
func StringValue(n sql.NullString) string {
	if !n.Valid {
		return ""
	}
	return n.String
}
