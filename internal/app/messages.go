// Package app contains the root Bubble Tea model of the player.
package app

import (
	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/state"
	"github.com/llehouerou/airwaves/internal/verify"
)

// StationsLoadedMsg carries the result of a catalog request. Seq matches
// the request that produced it; older responses are dropped.
type StationsLoadedMsg struct {
	Seq      int
	Stations []catalog.Station
	Err      error
}

// CountriesLoadedMsg carries the countries the country key cycles through.
// Step is the cycle step requested before the list was loaded, or 0.
type CountriesLoadedMsg struct {
	Countries []catalog.Country
	Step      int
	Err       error
}

// TagsLoadedMsg carries the most used station tags.
type TagsLoadedMsg struct {
	Tags []catalog.Tag
	Err  error
}

// PodcastsLoadedMsg carries podcast search results.
type PodcastsLoadedMsg struct {
	Term     string
	Podcasts []catalog.Podcast
	Err      error
}

// FavoritesLoadedMsg carries the saved favorites.
type FavoritesLoadedMsg struct {
	Seq       int
	Favorites []state.Favorite
	Err       error
}

// HistoryLoadedMsg carries the play history.
type HistoryLoadedMsg struct {
	Seq     int
	Entries []state.HistoryEntry
	Cleared bool // result of clearing rather than loading
	Err     error
}

// FavoriteToggledMsg reports the outcome of adding or removing a favorite.
type FavoriteToggledMsg struct {
	Station  catalog.Station
	Favorite bool
	Err      error
}

// VerifiedMsg carries probe results for a batch of stations.
type VerifiedMsg struct {
	Results []verify.Result
}

// AlarmLoadedMsg carries the saved alarm.
type AlarmLoadedMsg struct {
	Config alarm.Config
	Err    error
}

// AlarmSavedMsg reports a saved alarm.
type AlarmSavedMsg struct {
	Config alarm.Config
	Err    error
}

// PlayResultMsg reports a rejected play, pause or stop request.
type PlayResultMsg struct {
	Op      errmsg.Op
	Station string // name of the station played, if any
	Err     error
}

// NotifiedMsg carries the id of the last now-playing notification, so the
// next one replaces it.
type NotifiedMsg struct {
	ID uint32
}

// Session events, forwarded from the playback subscription.
type (
	ServiceStateChangedMsg   playback.StateChange
	ServiceStationChangedMsg playback.StationChange
	ServiceVolumeChangedMsg  playback.VolumeChange
	ServiceSleepTickMsg      playback.SleepTick
	ServiceErrorMsg          playback.ErrorEvent
	ServiceClosedMsg         struct{}
)
