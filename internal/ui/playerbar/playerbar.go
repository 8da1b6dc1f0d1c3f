// Package playerbar renders the now-playing bar at the bottom of the screen.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/stream"
	"github.com/llehouerou/airwaves/internal/ui/render"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Adds a line of station details
)

// State holds everything needed to render the player bar.
type State struct {
	Phase          playback.Phase
	Station        *catalog.Station
	Kind           stream.Kind
	Health         health.Status
	Volume         float64
	SleepRemaining time.Duration
	Error          string
	Favorite       bool
	DisplayMode    DisplayMode
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 4 // 2 content rows + 2 border rows
	}
	return 3 // top border + content + bottom border
}

// NewState reads the session into a State.
func NewState(svc playback.Service, mode DisplayMode) State {
	s := State{
		Phase:          svc.Phase(),
		Station:        svc.CurrentStation(),
		Kind:           svc.StreamKind(),
		Volume:         svc.Volume(),
		SleepRemaining: svc.SleepRemaining(),
		Error:          svc.Error(),
		DisplayMode:    mode,
	}
	if s.Station != nil {
		s.Health = svc.HealthStatus(s.Station.ID)
	}
	return s
}

// Render returns the player bar string for the given width.
func Render(s State, width int) string {
	innerWidth := max(width-6, 0)
	lines := []string{renderMain(s, innerWidth)}
	if s.DisplayMode == ModeExpanded {
		lines = append(lines, renderDetails(s, innerWidth))
	}
	return barStyle().Padding(0, 2).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func phaseLabel(s State) string {
	ic := icons.Current()
	switch s.Phase {
	case playback.PhaseLoading:
		return ic.Loading + " Connecting"
	case playback.PhasePlaying:
		return ic.Playing + " Live"
	case playback.PhasePaused:
		return ic.Paused + " Paused"
	case playback.PhaseStalled:
		return ic.Stalled + " Buffering"
	case playback.PhaseErrored:
		return ic.Error + " Error"
	case playback.PhaseIdle:
		return ic.Paused + " Stopped"
	default:
		return ""
	}
}

// renderMain lays out: phase  name [fav]  (error | codec)   sleep  health  volume
func renderMain(s State, width int) string {
	const sep = "   "
	phase := phaseStyle(s.Phase).Render(phaseLabel(s))

	var right []string
	if s.SleepRemaining > 0 {
		right = append(right, metaStyle().Render(icons.Sleep()+" "+render.Countdown(s.SleepRemaining)))
	}
	if s.Station != nil && s.Health != health.StatusUnknown {
		right = append(right, styles.T().Health(s.Health.String()).Render(s.Health.String()))
	}
	right = append(right, RenderVolume(s.Volume))
	rightText := strings.Join(right, sep)

	if s.Station == nil {
		msg := metaStyle().Render("Nothing playing · press enter on a station")
		gap := max(width-lipgloss.Width(phase)-lipgloss.Width(msg)-lipgloss.Width(rightText)-2*len(sep), 1)
		return phase + sep + msg + strings.Repeat(" ", gap) + sep + rightText
	}

	name := s.Station.Name
	if s.Favorite {
		name += " " + icons.Favorite()
	}
	info := streamInfo(s)
	if s.Phase == playback.PhaseErrored && s.Error != "" {
		info = s.Error
	}

	avail := width - lipgloss.Width(phase) - lipgloss.Width(rightText) - 3*len(sep)
	nameWidth := lipgloss.Width(name)
	var middle string
	switch {
	case nameWidth+len(sep)+lipgloss.Width(info) <= avail:
		middle = nameStyle().Render(name) + sep + infoStyle(s).Render(info)
	case nameWidth+len(sep)+5 <= avail && info != "":
		middle = nameStyle().Render(name) + sep +
			infoStyle(s).Render(render.Truncate(info, avail-nameWidth-len(sep)))
	default:
		middle = nameStyle().Render(render.Truncate(name, max(avail, 5)))
	}

	gap := max(width-lipgloss.Width(phase)-lipgloss.Width(middle)-lipgloss.Width(rightText)-2*len(sep), 1)
	return phase + sep + middle + strings.Repeat(" ", gap) + sep + rightText
}

func infoStyle(s State) lipgloss.Style {
	if s.Phase == playback.PhaseErrored {
		return styles.T().S().Error
	}
	return metaStyle()
}

func streamInfo(s State) string {
	parts := []string{render.Codec(s.Station.Codec)}
	if br := render.Bitrate(s.Station.Bitrate); br != "" {
		parts = append(parts, br)
	}
	if s.Kind != stream.KindUnknown {
		parts = append(parts, s.Kind.String())
	}
	return strings.Join(parts, " · ")
}

func renderDetails(s State, width int) string {
	if s.Station == nil {
		return ""
	}
	var parts []string
	if s.Station.Country != "" {
		parts = append(parts, s.Station.Country)
	}
	if tags := s.Station.TagList(); len(tags) > 0 {
		parts = append(parts, strings.Join(tags[:min(len(tags), 4)], ", "))
	}
	if s.Station.Homepage != "" {
		parts = append(parts, s.Station.Homepage)
	}
	return metaStyle().Render(render.Truncate(strings.Join(parts, " · "), width))
}
