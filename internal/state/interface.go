// internal/state/interface.go
package state

import (
	"database/sql"
	"time"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/verify"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	SaveSettings(s Settings)
	GetSettings() (*Settings, error)

	AddFavorite(st catalog.Station) (Favorite, error)
	RemoveFavorite(stationID string) error
	ToggleFavorite(st catalog.Station) (bool, error)
	IsFavorite(stationID string) (bool, error)
	ListFavorites() ([]Favorite, error)

	AddHistory(st catalog.Station, playedAt time.Time) error
	ListHistory() ([]HistoryEntry, error)
	ClearHistory() error

	health.Store
	alarm.Store
	verify.Cache

	Close() error
}

// Verify Manager implements Interface at compile time.
var (
	_ Interface = (*Manager)(nil)
	_ Interface = (*Mock)(nil)
)
