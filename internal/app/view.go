package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize/english"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
	"github.com/llehouerou/airwaves/internal/ui/playerbar"
	"github.com/llehouerou/airwaves/internal/ui/render"
	"github.com/llehouerou/airwaves/internal/ui/stationlist"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

const (
	headerHeight = 1
	statusHeight = 1
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	header := headerbar.Render(m.headerState(), m.Width)
	bar := playerbar.Render(m.playerState(), m.Width)
	status := m.renderStatus()

	base := lipgloss.JoinVertical(lipgloss.Left, header, m.List.View(), bar, status)
	base = enforceHeight(base, m.Height)
	return m.Popups.RenderOverlay(base)
}

// enforceHeight pads or cuts view to exactly height lines.
func enforceHeight(view string, height int) string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// ResizeComponents lays out the list and popups for the current size.
func (m *Model) ResizeComponents() {
	listHeight := m.Height - headerHeight - playerbar.Height(m.PlayerDisplayMode) - statusHeight
	m.List.SetSize(m.Width, max(listHeight, 0))
	m.Popups.SetSize(m.Width, m.Height)
}

func (m Model) headerState() headerbar.State {
	s := headerbar.State{
		View:   m.ActiveView,
		Region: m.place(),
		Genre:  m.genre(),
		Query:  m.query,
	}
	if m.alarm.Enabled {
		s.Alarm = m.alarm.Time
	}
	return s
}

func (m Model) playerState() playerbar.State {
	s := playerbar.NewState(m.Playback, m.PlayerDisplayMode)
	if s.Station != nil {
		s.Favorite = m.favorites[s.Station.ID]
	}
	return s
}

func (m Model) renderStatus() string {
	t := styles.T()
	switch {
	case m.ErrorMsg != "":
		return t.S().Error.Render(render.Truncate(m.ErrorMsg, m.Width))
	case m.StatusMsg != "":
		return t.S().Muted.Render(render.Truncate(m.StatusMsg, m.Width))
	}
	hint := fmt.Sprintf("%s help · %s search · %s quit",
		m.keys.Hint(keymap.ActionHelp), m.keys.Hint(keymap.ActionSearch), m.keys.Hint(keymap.ActionQuit))
	return t.S().Subtle.Render(render.Truncate(hint, m.Width))
}

// stationRow is a station plus the time it was played, for history.
type stationRow struct {
	station  catalog.Station
	playedAt time.Time
}

// stationRows wraps catalog results.
func stationRows(stations []catalog.Station) []stationRow {
	rows := make([]stationRow, len(stations))
	for i, st := range stations {
		rows[i] = stationRow{station: st}
	}
	return rows
}

// buildRows decorates stations with favorite marks and health.
func (m Model) buildRows(in []stationRow) []stationlist.Row {
	rows := make([]stationlist.Row, len(in))
	for i, r := range in {
		rows[i] = stationlist.Row{
			Station:  r.station,
			Favorite: m.favorites[r.station.ID],
			Health:   m.Playback.HealthStatus(r.station.ID),
			PlayedAt: r.playedAt,
		}
	}
	return rows
}

func (m Model) now() time.Time {
	return time.Now()
}

// pluralize formats "1 station", "3 stations".
func pluralize(n int, noun string) string {
	return english.Plural(n, noun, "")
}

func alarmStatus(cfg alarm.Config) string {
	if !cfg.Enabled {
		return "Wake alarm off"
	}
	name := "no station"
	if cfg.Station != nil {
		name = cfg.Station.Name
	}
	return fmt.Sprintf("Wake alarm set for %s · %s", cfg.Time, strings.TrimSpace(name))
}
