package stationlist

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/ui/action"
)

const source = "stationlist"

// Play asks to play (or pause, when already current) a station.
type Play struct {
	Station catalog.Station
}

// ActionType implements action.Action.
func (Play) ActionType() string { return "stationlist.play" }

// ToggleFavorite asks to add or remove a station from favorites.
type ToggleFavorite struct {
	Station  catalog.Station
	Favorite bool // current state, before the toggle
}

// ActionType implements action.Action.
func (ToggleFavorite) ActionType() string { return "stationlist.toggle_favorite" }

// Verify asks to probe the listed stations.
type Verify struct {
	Stations []catalog.Station
}

// ActionType implements action.Action.
func (Verify) ActionType() string { return "stationlist.verify" }

// ClearHistory asks to clear the play history.
type ClearHistory struct{}

// ActionType implements action.Action.
func (ClearHistory) ActionType() string { return "stationlist.clear_history" }

func cmd(a action.Action) tea.Cmd {
	return action.Cmd(source, a)
}
