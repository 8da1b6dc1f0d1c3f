package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

func barStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().Border)
}

func nameStyle() lipgloss.Style {
	return styles.T().S().Title
}

func metaStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func phaseStyle(p playback.Phase) lipgloss.Style {
	t := styles.T()
	switch p {
	case playback.PhasePlaying:
		return t.S().Success
	case playback.PhaseLoading, playback.PhaseStalled:
		return t.S().Warning
	case playback.PhaseErrored:
		return t.S().Error
	case playback.PhaseIdle, playback.PhasePaused:
		return t.S().Muted
	default:
		return t.S().Muted
	}
}
