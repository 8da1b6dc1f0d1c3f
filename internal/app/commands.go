package app

import (
	"context"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/errmsg"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
	"github.com/llehouerou/airwaves/internal/verify"
)

// WatchServiceEvents returns a command that waits for the next session event.
func (m Model) WatchServiceEvents() tea.Cmd {
	sub := m.playbackSub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return ServiceStateChangedMsg(e)
		case e := <-sub.StationChanged:
			return ServiceStationChangedMsg(e)
		case e := <-sub.VolumeChanged:
			return ServiceVolumeChangedMsg(e)
		case e := <-sub.SleepTicked:
			return ServiceSleepTickMsg(e)
		case e := <-sub.Error:
			return ServiceErrorMsg(e)
		case <-sub.Done:
			return ServiceClosedMsg{}
		}
	}
}

// loadViewCmd fetches the rows of the current view.
func (m Model) loadViewCmd() tea.Cmd {
	seq := m.loadSeq
	switch m.ActiveView {
	case headerbar.ViewFavorites:
		return m.loadFavoritesCmd(seq)
	case headerbar.ViewHistory:
		st := m.State
		return func() tea.Msg {
			entries, err := st.ListHistory()
			return HistoryLoadedMsg{Seq: seq, Entries: entries, Err: err}
		}
	case headerbar.ViewSearch:
		cat, q := m.Catalog, catalog.Query{Name: m.query, Tag: m.genre(), Limit: stationLimit}
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			stations, err := cat.Search(ctx, q)
			return StationsLoadedMsg{Seq: seq, Stations: stations, Err: err}
		}
	case headerbar.ViewTop:
	}

	cat, region, genre := m.Catalog, m.region(), m.genre()
	var code string
	if c := m.country(); c != nil {
		code = c.Code
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		var stations []catalog.Station
		var err error
		switch {
		case code != "":
			stations, err = cat.ByCountry(ctx, code, stationLimit)
			stations = filterByGenre(stations, genre)
		case region != "":
			stations, err = cat.ByRegion(ctx, region, stationLimit)
			stations = filterByGenre(stations, genre)
		case genre != "":
			stations, err = cat.ByGenre(ctx, genre, stationLimit)
		default:
			stations, err = cat.Top(ctx, stationLimit)
		}
		return StationsLoadedMsg{Seq: seq, Stations: stations, Err: err}
	}
}

// filterByGenre keeps stations tagged with genre. An empty genre keeps all.
func filterByGenre(stations []catalog.Station, genre string) []catalog.Station {
	if genre == "" {
		return stations
	}
	out := stations[:0:0]
	for _, st := range stations {
		if slices.ContainsFunc(st.TagList(), func(t string) bool { return strings.EqualFold(t, genre) }) {
			out = append(out, st)
		}
	}
	return out
}

// loadCountriesCmd fetches the countries with the most stations.
func (m Model) loadCountriesCmd(step int) tea.Cmd {
	cat := m.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		countries, err := cat.Countries(ctx)
		return CountriesLoadedMsg{Countries: countries, Step: step, Err: err}
	}
}

func (m Model) loadTagsCmd() tea.Cmd {
	cat := m.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tags, err := cat.Tags(ctx)
		return TagsLoadedMsg{Tags: tags, Err: err}
	}
}

func (m Model) searchPodcastsCmd(term string) tea.Cmd {
	cat := m.Catalog
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		podcasts, err := cat.SearchPodcasts(ctx, term, podcastLimit)
		return PodcastsLoadedMsg{Term: term, Podcasts: podcasts, Err: err}
	}
}

// loadFavoritesCmd lists favorites. Seq -1 only refreshes the favorite marks.
func (m Model) loadFavoritesCmd(seq int) tea.Cmd {
	st := m.State
	return func() tea.Msg {
		favs, err := st.ListFavorites()
		return FavoritesLoadedMsg{Seq: seq, Favorites: favs, Err: err}
	}
}

func (m Model) toggleFavoriteCmd(station catalog.Station) tea.Cmd {
	st := m.State
	return func() tea.Msg {
		fav, err := st.ToggleFavorite(station)
		return FavoriteToggledMsg{Station: station, Favorite: fav, Err: err}
	}
}

func (m Model) clearHistoryCmd() tea.Cmd {
	st, seq := m.State, m.loadSeq
	return func() tea.Msg {
		return HistoryLoadedMsg{Seq: seq, Cleared: true, Err: st.ClearHistory()}
	}
}

func (m Model) verifyCmd(stations []catalog.Station) tea.Cmd {
	if m.Verifier == nil || len(stations) == 0 {
		return nil
	}
	v := m.Verifier
	targets := make([]verify.Target, len(stations))
	for i, st := range stations {
		targets[i] = verify.Target{ID: st.ID, URL: st.URL, URLResolved: st.URLResolved}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return VerifiedMsg{Results: v.VerifyBatch(ctx, targets)}
	}
}

func (m Model) loadAlarmCmd() tea.Cmd {
	st := m.State
	return func() tea.Msg {
		cfg, err := st.LoadAlarm()
		return AlarmLoadedMsg{Config: cfg, Err: err}
	}
}

func (m Model) saveAlarmCmd(cfg alarm.Config) tea.Cmd {
	st := m.State
	return func() tea.Msg {
		return AlarmSavedMsg{Config: cfg, Err: st.SaveAlarm(cfg)}
	}
}

// playStationCmd starts or toggles a station off the UI goroutine.
func (m Model) playStationCmd(station catalog.Station) tea.Cmd {
	svc := m.Playback
	return func() tea.Msg {
		if err := svc.PlayStation(station); err != nil {
			return PlayResultMsg{Op: errmsg.OpPlaybackStart, Station: station.Name, Err: err}
		}
		return nil
	}
}

// nowPlayingCmd sends a desktop notification for a newly tuned station.
func (m Model) nowPlayingCmd(station catalog.Station) tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	n, icons, replaces := m.notifier, m.icons, m.lastNotID
	return func() tea.Msg {
		var icon string
		if icons != nil && station.Favicon != "" {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			icon = icons.Path(ctx, station.ID, station.Favicon)
			cancel()
		}
		notif := notify.NowPlaying(station.Name, stationSummary(station), icon, replaces)
		id, err := n.Notify(notif)
		if err != nil {
			return nil
		}
		return NotifiedMsg{ID: id}
	}
}

// stationSummary is "Country · tag, tag" for notifications.
func stationSummary(st catalog.Station) string {
	var parts []string
	if st.Country != "" {
		parts = append(parts, st.Country)
	}
	if tags := st.TagList(); len(tags) > 0 {
		parts = append(parts, strings.Join(tags[:min(len(tags), 3)], ", "))
	}
	return strings.Join(parts, " · ")
}
