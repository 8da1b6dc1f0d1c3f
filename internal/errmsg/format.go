// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import (
	"errors"
	"fmt"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/state"
)

// Op names what the user was doing when an error happened. It completes
// the sentence "Failed to ...".
type Op string

const (
	OpStationsLoad  Op = "load stations"
	OpStationSearch Op = "search stations"
	OpRegionLoad    Op = "load region"
	OpGenreLoad     Op = "load genre"
	OpCountryLoad   Op = "load country"
	OpCountriesLoad Op = "load countries"
	OpPodcastSearch Op = "search podcasts"

	OpPlaybackStart  Op = "start playback"
	OpPlaybackToggle Op = "toggle playback"
	OpPlaybackStop   Op = "stop playback"
	OpVolumeSet      Op = "set volume"
	OpSleepTimer     Op = "start sleep timer"

	OpFavoriteToggle Op = "update favorites"
	OpFavoritesLoad  Op = "load favorites"
	OpHistoryLoad    Op = "load history"
	OpHistoryClear   Op = "clear history"
	OpAlarmSave      Op = "save alarm"
	OpAlarmLoad      Op = "load alarm"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, Describe(err))
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, Describe(err))
}

// Describe returns short text for errors the user can act on and falls
// back to the error string otherwise.
func Describe(err error) string {
	var failure *playback.Failure
	switch {
	case errors.As(err, &failure):
		return failure.Message()
	case errors.Is(err, catalog.ErrUpstream):
		return "station directory unavailable"
	case errors.Is(err, catalog.ErrInvalidRegion):
		return "unknown region"
	case errors.Is(err, state.ErrAlreadyFavorite):
		return "already in favorites"
	case errors.Is(err, state.ErrFavoriteNotFound):
		return "not in favorites"
	case errors.Is(err, playback.ErrClosed):
		return "player is shutting down"
	default:
		return err.Error()
	}
}
