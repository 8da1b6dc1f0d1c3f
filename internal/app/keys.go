package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
	"github.com/llehouerou/airwaves/internal/ui/helpbindings"
	"github.com/llehouerou/airwaves/internal/ui/playerbar"
)

// handleKeyMsg routes key presses: popups first, then global bindings,
// then the station list.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.Popups.HandleKey(msg); handled {
		return m, cmd
	}

	a := m.keys.Resolve(msg.String())
	switch a {
	case keymap.ActionQuit:
		if err := m.Playback.Close(); err != nil {
			m.log.Warn().Err(err).Msg("close playback")
		}
		return m, tea.Quit

	case keymap.ActionSearch:
		m.Popups.ShowSearch(m.query)
		return m, nil

	case keymap.ActionHelp:
		m.Popups.ShowHelp(helpbindings.AllContexts())
		return m, nil

	case keymap.ActionViewTop:
		return m, m.switchView(headerbar.ViewTop)
	case keymap.ActionViewFavorites:
		return m, m.switchView(headerbar.ViewFavorites)
	case keymap.ActionViewHistory:
		return m, m.switchView(headerbar.ViewHistory)

	case keymap.ActionNextRegion:
		m.regionIdx = cycle(m.regionIdx, len(catalog.Regions()), 1)
		m.countryIdx = -1
		return m, m.switchView(headerbar.ViewTop)
	case keymap.ActionPrevRegion:
		m.regionIdx = cycle(m.regionIdx, len(catalog.Regions()), -1)
		m.countryIdx = -1
		return m, m.switchView(headerbar.ViewTop)
	case keymap.ActionNextCountry:
		return m, m.cycleCountry(1)
	case keymap.ActionPrevCountry:
		return m, m.cycleCountry(-1)
	case keymap.ActionNextGenre:
		m.genreIdx = cycle(m.genreIdx, len(m.genres), 1)
		return m, m.switchView(m.filterView())
	case keymap.ActionPrevGenre:
		m.genreIdx = cycle(m.genreIdx, len(m.genres), -1)
		return m, m.switchView(m.filterView())

	case keymap.ActionPodcasts:
		m.Popups.ShowPodcastSearch(m.podcastQuery)
		return m, nil

	case keymap.ActionAlarm:
		var candidate *catalog.Station
		if row, ok := m.List.Selected(); ok {
			candidate = &row.Station
		}
		m.Popups.ShowAlarm(m.alarm, candidate)
		return m, nil

	case keymap.ActionPlayPause:
		return m, m.serviceCmd(errmsg.OpPlaybackToggle, m.Playback.TogglePlay)
	case keymap.ActionStop:
		return m, m.serviceCmd(errmsg.OpPlaybackStop, m.Playback.Stop)

	case keymap.ActionVolumeUp:
		m.changeVolume(volumeStep)
		return m, nil
	case keymap.ActionVolumeDown:
		m.changeVolume(-volumeStep)
		return m, nil

	case keymap.ActionSleepCycle:
		m.cycleSleep()
		return m, nil
	case keymap.ActionSleepCancel:
		m.Playback.CancelSleepTimer()
		m.sleepStep = 0
		m.StatusMsg = "Sleep timer off"
		return m, nil

	case keymap.ActionDetails:
		if m.PlayerDisplayMode == playerbar.ModeExpanded {
			m.PlayerDisplayMode = playerbar.ModeCompact
		} else {
			m.PlayerDisplayMode = playerbar.ModeExpanded
		}
		m.ResizeComponents()
		return m, nil
	}

	return m, m.List.Update(a)
}

// filterView keeps a search when the genre changes, otherwise returns to
// the top view.
func (m Model) filterView() headerbar.View {
	if m.ActiveView == headerbar.ViewSearch {
		return headerbar.ViewSearch
	}
	return headerbar.ViewTop
}

// cycleCountry moves the country filter by step. The country list is
// fetched on first use and the step applied once it arrives.
func (m *Model) cycleCountry(step int) tea.Cmd {
	if len(m.countries) == 0 {
		m.StatusMsg = "Loading countries…"
		return m.loadCountriesCmd(step)
	}
	m.countryIdx = cycle(m.countryIdx, len(m.countries), step)
	m.regionIdx = -1
	return m.switchView(headerbar.ViewTop)
}

// cycle steps idx through [-1, n). -1 stands for "no filter".
func cycle(idx, n, step int) int {
	if n == 0 {
		return -1
	}
	idx += step
	switch {
	case idx >= n:
		return -1
	case idx < -1:
		return n - 1
	}
	return idx
}

// serviceCmd runs a playback request off the UI goroutine.
func (m Model) serviceCmd(op errmsg.Op, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return PlayResultMsg{Op: op, Err: err}
		}
		return nil
	}
}

func (m *Model) changeVolume(delta float64) {
	if err := m.Playback.UpdateVolume(m.Playback.Volume() + delta); err != nil {
		m.ErrorMsg = errmsg.Format(errmsg.OpVolumeSet, err)
	}
}

func (m *Model) cycleSleep() {
	m.sleepStep = (m.sleepStep + 1) % len(sleepSteps)
	minutes := sleepSteps[m.sleepStep]
	if minutes == 0 {
		m.Playback.CancelSleepTimer()
		m.StatusMsg = "Sleep timer off"
		return
	}
	if err := m.Playback.StartSleepTimer(minutes); err != nil {
		m.sleepStep = 0
		m.ErrorMsg = errmsg.Format(errmsg.OpSleepTimer, err)
		return
	}
	m.StatusMsg = fmt.Sprintf("Sleeping in %s", time.Duration(minutes)*time.Minute)
}

// switchView shows v and starts loading its rows.
func (m *Model) switchView(v headerbar.View) tea.Cmd {
	m.ActiveView = v
	m.List.SetHistoryMode(v == headerbar.ViewHistory)
	return m.reload()
}

// reload refetches the current view. Responses to earlier loads are
// ignored once this one is issued.
func (m *Model) reload() tea.Cmd {
	m.loadSeq++
	m.List.SetLoading(true)
	m.List.SetTitle(m.viewTitle())
	m.List.SetEmptyText(m.emptyText())
	return m.loadViewCmd()
}

func (m Model) viewTitle() string {
	switch m.ActiveView {
	case headerbar.ViewFavorites:
		return "Favorites"
	case headerbar.ViewHistory:
		return "Recently played"
	case headerbar.ViewSearch:
		title := fmt.Sprintf("Search: %q", m.query)
		if g := m.genre(); g != "" {
			title += " in " + g
		}
		return title
	case headerbar.ViewTop:
	}
	switch region, genre := m.place(), m.genre(); {
	case region != "" && genre != "":
		return "Top " + genre + " stations in " + region
	case region != "":
		return "Top stations in " + region
	case genre != "":
		return "Top " + genre + " stations"
	}
	return "Top stations"
}

func (m Model) emptyText() string {
	switch m.ActiveView {
	case headerbar.ViewFavorites:
		return "No favorites yet · press f on a station"
	case headerbar.ViewHistory:
		return "Nothing played yet"
	case headerbar.ViewSearch:
		return "No stations match"
	case headerbar.ViewTop:
	}
	return "No stations"
}
