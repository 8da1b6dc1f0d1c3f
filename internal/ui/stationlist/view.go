package stationlist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui"
	"github.com/llehouerou/airwaves/internal/ui/render"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

const (
	markerWidth  = 3
	countryWidth = 14
	codecWidth   = 14
	badgeWidth   = 9
	playedWidth  = 16
)

// View renders the list inside a bordered panel.
func (m Model) View() string {
	if m.Unsized() {
		return ""
	}
	inner := m.InnerWidth()
	listHeight := m.VisibleRows()

	lines := make([]string, 0, listHeight+2)
	lines = append(lines,
		styles.T().S().Title.Render(render.Truncate(m.title, inner)),
		styles.T().S().Subtle.Render(render.Separator(inner)),
	)

	switch {
	case m.loading:
		lines = append(lines, styles.T().S().Muted.Render("Loading…"))
	case len(m.rows) == 0:
		lines = append(lines, styles.T().S().Muted.Render(m.empty))
	default:
		start, end := m.cursor.Window(len(m.rows), listHeight)
		for i := start; i < end; i++ {
			lines = append(lines, m.renderRow(m.rows[i], i == m.cursor.Pos(), inner))
		}
	}

	for len(lines) < listHeight+2 {
		lines = append(lines, "")
	}
	return styles.PanelStyle(m.IsFocused()).
		Width(inner).
		Render(strings.Join(lines, "\n"))
}

func (m Model) renderRow(r Row, selected bool, width int) string {
	t := styles.T()
	wide := width >= ui.MinBadgeWidth

	marker := " "
	if r.Station.ID != "" && r.Station.ID == m.currentID {
		marker = phaseIcon(m.phase)
	}
	fav := " "
	if r.Favorite {
		fav = icons.Favorite()
	}
	prefix := render.TruncateAndPad(marker, markerWidth-1) + render.TruncateAndPad(fav, 1) + " "

	var right []string
	if wide {
		right = append(right,
			render.TruncateAndPad(r.Station.CountryCode, 3),
			render.TruncateAndPad(codecLabel(r), codecWidth),
			t.Health(r.Health.String()).Render(render.TruncateAndPad(healthLabel(r.Health), badgeWidth)),
			liveBadge(r),
		)
	}
	if m.history {
		right = append(right, t.S().Muted.Render(render.TruncateAndPad(render.Ago(r.PlayedAt, m.now()), playedWidth)))
	}
	rightText := strings.Join(right, " ")

	nameWidth := max(width-lipgloss.Width(prefix)-lipgloss.Width(rightText)-1, 4)
	name := render.TruncateAndPad(r.Station.Name, nameWidth)
	if !wide && r.Station.Country != "" && nameWidth > countryWidth+4 {
		name = render.TruncateAndPad(r.Station.Name+" · "+r.Station.Country, nameWidth)
	}

	nameStyle := t.S().Base
	if r.Station.ID != "" && r.Station.ID == m.currentID {
		nameStyle = t.S().Playing
	}
	line := prefix + nameStyle.Render(name)
	if rightText != "" {
		line += " " + rightText
	}
	if selected && m.IsFocused() {
		return t.S().Cursor.Width(width).Render(line)
	}
	return line
}

func codecLabel(r Row) string {
	label := render.Codec(r.Station.Codec)
	if br := render.Bitrate(r.Station.Bitrate); br != "" {
		label += " " + br
	}
	return label
}

func healthLabel(s health.Status) string {
	if s == health.StatusUnknown {
		return "-"
	}
	return s.String()
}

func liveBadge(r Row) string {
	if r.Live == nil {
		return " "
	}
	if r.Live.IsLive {
		return styles.T().S().Success.Render(icons.Current().Live)
	}
	return styles.T().S().Error.Render(icons.Current().Dead)
}

func phaseIcon(p playback.Phase) string {
	ic := icons.Current()
	switch p {
	case playback.PhasePlaying:
		return ic.Playing
	case playback.PhasePaused:
		return ic.Paused
	case playback.PhaseLoading:
		return ic.Loading
	case playback.PhaseStalled:
		return ic.Stalled
	case playback.PhaseErrored:
		return ic.Error
	default:
		return " "
	}
}
