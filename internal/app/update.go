package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/state"
	"github.com/llehouerou/airwaves/internal/ui/action"
	"github.com/llehouerou/airwaves/internal/ui/alarmform"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
	"github.com/llehouerou/airwaves/internal/ui/helpbindings"
	"github.com/llehouerou/airwaves/internal/ui/prompt"
	"github.com/llehouerou/airwaves/internal/ui/stationlist"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.ResizeComponents()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case action.Msg:
		return m.handleAction(msg)

	case StationsLoadedMsg:
		return m.handleStationsLoaded(msg)

	case CountriesLoadedMsg:
		return m.handleCountriesLoaded(msg)

	case TagsLoadedMsg:
		if msg.Err != nil {
			m.log.Debug().Err(msg.Err).Msg("load tags")
			return m, nil
		}
		m.genres = mergeGenres(catalog.Genres(), msg.Tags)
		return m, nil

	case PodcastsLoadedMsg:
		return m.handlePodcastsLoaded(msg)

	case FavoritesLoadedMsg:
		return m.handleFavoritesLoaded(msg)

	case HistoryLoadedMsg:
		return m.handleHistoryLoaded(msg)

	case FavoriteToggledMsg:
		return m.handleFavoriteToggled(msg)

	case VerifiedMsg:
		m.List.SetLive(msg.Results)
		live := 0
		for _, r := range msg.Results {
			if r.IsLive {
				live++
			}
		}
		m.StatusMsg = fmt.Sprintf("%d of %s live", live, pluralize(len(msg.Results), "station"))
		return m, nil

	case AlarmLoadedMsg:
		if msg.Err != nil {
			m.log.Warn().Err(msg.Err).Msg("load alarm")
			m.ErrorMsg = errmsg.Format(errmsg.OpAlarmLoad, msg.Err)
			return m, nil
		}
		m.alarm = msg.Config
		return m, nil

	case AlarmSavedMsg:
		if msg.Err != nil {
			m.Popups.ShowError(errmsg.Format(errmsg.OpAlarmSave, msg.Err))
			return m, nil
		}
		m.alarm = msg.Config
		m.StatusMsg = alarmStatus(msg.Config)
		return m, nil

	case PlayResultMsg:
		if msg.Err != nil {
			m.ErrorMsg = errmsg.FormatWith(msg.Op, msg.Station, msg.Err)
		}
		return m, nil

	case NotifiedMsg:
		m.lastNotID = msg.ID
		return m, nil

	case ServiceStateChangedMsg:
		return m.handleServiceStateChanged(msg)

	case ServiceStationChangedMsg:
		return m.handleServiceStationChanged(msg)

	case ServiceVolumeChangedMsg:
		m.saveSettings()
		return m, m.WatchServiceEvents()

	case ServiceSleepTickMsg:
		if msg.Remaining <= 0 {
			m.sleepStep = 0
		}
		return m, m.WatchServiceEvents()

	case ServiceErrorMsg:
		m.ErrorMsg = msg.Message
		m.log.Warn().Err(msg.Err).
			Str("station", msg.Station.ID).
			Str("kind", msg.Kind.String()).
			Msg("playback failed")
		return m, m.WatchServiceEvents()

	case ServiceClosedMsg:
		return m, nil
	}

	return m, nil
}

// handleAction routes actions emitted by UI components.
func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	switch a := msg.Action.(type) {
	case stationlist.Play:
		m.ErrorMsg = ""
		return m, m.playStationCmd(a.Station)

	case stationlist.ToggleFavorite:
		return m, m.toggleFavoriteCmd(a.Station)

	case stationlist.Verify:
		m.StatusMsg = "Checking " + pluralize(len(a.Stations), "station") + "…"
		return m, m.verifyCmd(a.Stations)

	case stationlist.ClearHistory:
		return m, m.clearHistoryCmd()

	case prompt.Result:
		m.Popups.Hide()
		if a.Canceled || a.Text == "" {
			return m, nil
		}
		if a.Purpose == prompt.PurposePodcasts {
			m.podcastQuery = a.Text
			m.StatusMsg = "Searching podcasts…"
			return m, m.searchPodcastsCmd(a.Text)
		}
		m.query = a.Text
		return m, m.switchView(headerbar.ViewSearch)

	case helpbindings.Close:
		m.Popups.Hide()
		return m, nil

	case alarmform.Save:
		m.Popups.Hide()
		return m, m.saveAlarmCmd(a.Config)

	case alarmform.Close:
		m.Popups.Hide()
		return m, nil
	}
	return m, nil
}

func (m Model) handleStationsLoaded(msg StationsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.loadSeq {
		return m, nil
	}
	if msg.Err != nil {
		m.List.SetRows(nil)
		m.List.SetEmptyText("Could not load stations")
		m.ErrorMsg = errmsg.Format(m.loadOp(), msg.Err)
		m.log.Warn().Err(msg.Err).Str("view", string(m.ActiveView)).Msg("load stations")
		return m, nil
	}
	m.List.SetRows(m.buildRows(stationRows(msg.Stations)))
	return m, nil
}

func (m Model) handleCountriesLoaded(msg CountriesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.StatusMsg = ""
		m.ErrorMsg = errmsg.Format(errmsg.OpCountriesLoad, msg.Err)
		m.log.Warn().Err(msg.Err).Msg("load countries")
		return m, nil
	}
	m.countries = msg.Countries
	if len(m.countries) == 0 {
		m.StatusMsg = "No countries available"
		return m, nil
	}
	m.StatusMsg = ""
	if msg.Step == 0 {
		return m, nil
	}
	return m, m.cycleCountry(msg.Step)
}

// handlePodcastsLoaded lists the results. Podcasts are browsed, not played.
func (m Model) handlePodcastsLoaded(msg PodcastsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Term != m.podcastQuery {
		return m, nil
	}
	m.StatusMsg = ""
	if msg.Err != nil {
		m.ErrorMsg = errmsg.FormatWith(errmsg.OpPodcastSearch, msg.Term, msg.Err)
		m.log.Warn().Err(msg.Err).Str("term", msg.Term).Msg("search podcasts")
		return m, nil
	}
	if len(msg.Podcasts) == 0 {
		m.StatusMsg = fmt.Sprintf("No podcasts match %q", msg.Term)
		return m, nil
	}
	m.Popups.ShowPodcasts(msg.Term, msg.Podcasts)
	return m, nil
}

func (m Model) handleFavoritesLoaded(msg FavoritesLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.ErrorMsg = errmsg.Format(errmsg.OpFavoritesLoad, msg.Err)
		if msg.Seq == m.loadSeq && m.ActiveView == headerbar.ViewFavorites {
			m.List.SetRows(nil)
		}
		return m, nil
	}
	m.favorites = make(map[string]bool, len(msg.Favorites))
	stations := make([]stationRow, 0, len(msg.Favorites))
	for _, f := range msg.Favorites {
		m.favorites[f.Station.ID] = true
		stations = append(stations, stationRow{station: f.Station})
	}
	if msg.Seq == m.loadSeq && m.ActiveView == headerbar.ViewFavorites {
		m.List.SetRows(m.buildRows(stations))
		return m, nil
	}
	for id := range m.favorites {
		m.List.SetFavorite(id, true)
	}
	return m, nil
}

func (m Model) handleHistoryLoaded(msg HistoryLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.loadSeq || m.ActiveView != headerbar.ViewHistory {
		return m, nil
	}
	if msg.Err != nil {
		op := errmsg.OpHistoryLoad
		if msg.Cleared {
			op = errmsg.OpHistoryClear
		}
		m.ErrorMsg = errmsg.Format(op, msg.Err)
		m.List.SetRows(nil)
		return m, nil
	}
	rows := make([]stationRow, 0, len(msg.Entries))
	for _, e := range msg.Entries {
		rows = append(rows, stationRow{station: e.Station, playedAt: e.PlayedAt})
	}
	m.List.SetRows(m.buildRows(rows))
	return m, nil
}

func (m Model) handleFavoriteToggled(msg FavoriteToggledMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.ErrorMsg = errmsg.Format(errmsg.OpFavoriteToggle, msg.Err)
		return m, nil
	}
	if msg.Favorite {
		m.favorites[msg.Station.ID] = true
		m.StatusMsg = "Added " + msg.Station.Name + " to favorites"
	} else {
		delete(m.favorites, msg.Station.ID)
		m.StatusMsg = "Removed " + msg.Station.Name + " from favorites"
	}
	m.List.SetFavorite(msg.Station.ID, msg.Favorite)
	if m.ActiveView == headerbar.ViewFavorites {
		return m, m.reload()
	}
	return m, nil
}

func (m Model) handleServiceStateChanged(msg ServiceStateChangedMsg) (tea.Model, tea.Cmd) {
	if st := m.Playback.CurrentStation(); st != nil {
		m.List.SetCurrent(st.ID, msg.Current)
		m.List.SetHealth(st.ID, m.Playback.HealthStatus(st.ID))
	} else {
		m.List.SetCurrent("", msg.Current)
	}
	if msg.Current.IsActive() {
		m.ErrorMsg = ""
	}
	m.ResizeComponents()
	return m, m.WatchServiceEvents()
}

func (m Model) handleServiceStationChanged(msg ServiceStationChangedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.WatchServiceEvents()}
	if msg.Current == nil {
		m.List.SetCurrent("", m.Playback.Phase())
		m.saveSettings()
		return m, tea.Batch(cmds...)
	}

	st := *msg.Current
	m.List.SetCurrent(st.ID, m.Playback.Phase())
	if err := m.State.AddHistory(st, m.now()); err != nil {
		m.log.Warn().Err(err).Str("station", st.ID).Msg("add history")
	}
	m.saveSettings()
	cmds = append(cmds, m.nowPlayingCmd(st))
	if m.ActiveView == headerbar.ViewHistory {
		cmds = append(cmds, m.reload())
	}
	return m, tea.Batch(cmds...)
}

// saveSettings persists the volume and the current station.
func (m Model) saveSettings() {
	m.State.SaveSettings(state.Settings{
		Volume:      m.Playback.Volume(),
		LastStation: m.Playback.CurrentStation(),
	})
}

func (m Model) loadOp() errmsg.Op {
	switch {
	case m.ActiveView == headerbar.ViewSearch:
		return errmsg.OpStationSearch
	case m.countryIdx >= 0:
		return errmsg.OpCountryLoad
	case m.regionIdx >= 0:
		return errmsg.OpRegionLoad
	case m.genreIdx >= 0:
		return errmsg.OpGenreLoad
	default:
		return errmsg.OpStationsLoad
	}
}
