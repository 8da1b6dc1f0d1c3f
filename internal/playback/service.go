package playback

import (
	"time"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/stream"
)

// Service defines the playback service contract.
type Service interface {
	// Playback control
	PlayStation(st catalog.Station) error // Same station toggles pause
	TogglePlay() error
	Pause() error
	Stop() error
	UpdateVolume(v float64) error

	// Sleep timer
	StartSleepTimer(minutes int) error
	CancelSleepTimer()
	SleepRemaining() time.Duration

	// State queries
	CurrentStation() *catalog.Station
	Phase() Phase
	IsPlaying() bool
	IsLoading() bool
	Error() string
	Volume() float64
	StreamKind() stream.Kind
	HealthStatus(stationID string) health.Status

	// Event subscription
	Subscribe() *Subscription

	// Lifecycle
	Close() error
}
