// Package stationlist renders a scrollable list of stations with their
// favorite, health and liveness badges.
package stationlist

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui"
	"github.com/llehouerou/airwaves/internal/ui/cursor"
	"github.com/llehouerou/airwaves/internal/verify"
)

// Row is one station in the list.
type Row struct {
	Station  catalog.Station
	Favorite bool
	Health   health.Status
	Live     *verify.Result // nil until checked
	PlayedAt time.Time      // set in the history view
}

// Model is the station list component.
type Model struct {
	ui.Base
	title   string
	empty   string
	loading bool
	history bool
	rows    []Row
	cursor  cursor.Cursor

	currentID string
	phase     playback.Phase
	now       func() time.Time
}

// New creates an empty list.
func New() Model {
	return Model{
		cursor: cursor.New(ui.ScrollMargin),
		empty:  "No stations",
		now:    time.Now,
	}
}

// SetTitle sets the panel title.
func (m *Model) SetTitle(title string) {
	m.title = title
}

// Title returns the panel title.
func (m Model) Title() string {
	return m.title
}

// SetEmptyText sets the text shown when there are no rows.
func (m *Model) SetEmptyText(s string) {
	m.empty = s
}

// SetLoading shows a loading line instead of the rows.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetHistoryMode shows the played-at column and enables clearing.
func (m *Model) SetHistoryMode(on bool) {
	m.history = on
}

// SetRows replaces the rows. The cursor stays on the selected station
// when it is still listed and goes back to the top otherwise.
func (m *Model) SetRows(rows []Row) {
	prev, hadSelection := m.Selected()
	m.rows = rows
	m.loading = false
	if hadSelection {
		for i, r := range rows {
			if r.Station.ID == prev.Station.ID {
				m.cursor.Set(i, len(rows), m.VisibleRows())
				return
			}
		}
	}
	m.cursor.Reset()
}

// Rows returns the current rows.
func (m Model) Rows() []Row {
	return m.rows
}

// Len returns the number of rows.
func (m Model) Len() int {
	return len(m.rows)
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	if len(m.rows) == 0 || m.cursor.Pos() >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor.Pos()], true
}

// SelectedIndex returns the cursor position.
func (m Model) SelectedIndex() int {
	return m.cursor.Pos()
}

// SetCurrent marks the station the session is on and its phase.
func (m *Model) SetCurrent(stationID string, phase playback.Phase) {
	m.currentID = stationID
	m.phase = phase
}

// SetFavorite updates the favorite flag of a station wherever it appears.
func (m *Model) SetFavorite(stationID string, fav bool) {
	for i := range m.rows {
		if m.rows[i].Station.ID == stationID {
			m.rows[i].Favorite = fav
		}
	}
}

// SetHealth updates the health badge of a station.
func (m *Model) SetHealth(stationID string, s health.Status) {
	for i := range m.rows {
		if m.rows[i].Station.ID == stationID {
			m.rows[i].Health = s
		}
	}
}

// SetLive attaches probe results to their stations.
func (m *Model) SetLive(results []verify.Result) {
	byID := make(map[string]verify.Result, len(results))
	for _, r := range results {
		byID[r.ID] = r
	}
	for i := range m.rows {
		if r, ok := byID[m.rows[i].Station.ID]; ok {
			m.rows[i].Live = &r
		}
	}
}

// Visible returns the stations in the visible window.
func (m Model) Visible() []catalog.Station {
	start, end := m.cursor.Window(len(m.rows), m.VisibleRows())
	out := make([]catalog.Station, 0, end-start)
	for _, r := range m.rows[start:end] {
		out = append(out, r.Station)
	}
	return out
}

// Update handles an action resolved from a key press and returns the
// command for the app, if any.
func (m *Model) Update(a keymap.Action) tea.Cmd {
	if m.cursor.HandleAction(a, len(m.rows), m.VisibleRows()) {
		return nil
	}
	switch a { //nolint:exhaustive // Only list actions are handled here
	case keymap.ActionSelect:
		if row, ok := m.Selected(); ok {
			return cmd(Play{Station: row.Station})
		}
	case keymap.ActionToggleFavorite:
		if row, ok := m.Selected(); ok {
			return cmd(ToggleFavorite{Station: row.Station, Favorite: row.Favorite})
		}
	case keymap.ActionVerify:
		if visible := m.Visible(); len(visible) > 0 {
			return cmd(Verify{Stations: visible})
		}
	case keymap.ActionClear:
		if m.history && len(m.rows) > 0 {
			return cmd(ClearHistory{})
		}
	}
	return nil
}
