package app

import (
	"context"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/verify"
)

// Catalog is the station directory the app browses.
type Catalog interface {
	Top(ctx context.Context, limit int) ([]catalog.Station, error)
	Search(ctx context.Context, q catalog.Query) ([]catalog.Station, error)
	ByRegion(ctx context.Context, region string, limit int) ([]catalog.Station, error)
	ByGenre(ctx context.Context, genre string, limit int) ([]catalog.Station, error)
	ByCountry(ctx context.Context, code string, limit int) ([]catalog.Station, error)
	Countries(ctx context.Context) ([]catalog.Country, error)
	Tags(ctx context.Context) ([]catalog.Tag, error)
	SearchPodcasts(ctx context.Context, term string, limit int) ([]catalog.Podcast, error)
}

// Verifier checks which stations are live.
type Verifier interface {
	VerifyBatch(ctx context.Context, targets []verify.Target) []verify.Result
}

// IconSource resolves a station favicon to a local file for notifications.
type IconSource interface {
	Path(ctx context.Context, stationID, faviconURL string) string
}

// Verify implementations satisfy the interfaces at compile time.
var (
	_ Catalog    = (*catalog.Client)(nil)
	_ Verifier   = (*verify.Verifier)(nil)
	_ IconSource = (*notify.IconCache)(nil)
)
