package app

import (
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/state"
	"github.com/llehouerou/airwaves/internal/ui/headerbar"
	"github.com/llehouerou/airwaves/internal/ui/playerbar"
	"github.com/llehouerou/airwaves/internal/ui/stationlist"
)

const (
	// stationLimit is how many stations a catalog view requests.
	stationLimit = 100
	// volumeStep is the change per volume key press.
	volumeStep = 0.05
	// requestTimeout bounds catalog and verification commands.
	requestTimeout = 30 * time.Second
	// podcastLimit is how many podcasts a search lists.
	podcastLimit = 20
	// extraGenres caps the popular tags appended to the curated genres.
	extraGenres = 30
)

// sleepSteps are the durations the sleep key cycles through, in minutes.
// Zero turns the timer off.
var sleepSteps = []int{0, 15, 30, 60, 90}

// Deps are the services the app drives. Playback, State and Catalog are
// required.
type Deps struct {
	Playback playback.Service
	State    state.Interface
	Catalog  Catalog
	Verifier Verifier
	Notifier notify.Notifier
	Icons    IconSource
	Logger   zerolog.Logger
}

// Model is the root application model.
type Model struct {
	Playback    playback.Service
	playbackSub *playback.Subscription
	State       state.Interface
	Catalog     Catalog
	Verifier    Verifier
	notifier    notify.Notifier
	icons       IconSource
	log         zerolog.Logger
	keys        *keymap.Resolver

	ActiveView   headerbar.View
	regionIdx    int // -1 is worldwide
	countryIdx   int // -1 is no country; excludes regionIdx
	genreIdx     int // -1 is all genres
	countries    []catalog.Country
	genres       []string
	query        string
	podcastQuery string
	loadSeq      int
	favorites    map[string]bool

	List              stationlist.Model
	Popups            PopupManager
	PlayerDisplayMode playerbar.DisplayMode

	alarm     alarm.Config
	sleepStep int
	lastNotID uint32
	StatusMsg string
	ErrorMsg  string
	Width     int
	Height    int
}

// New creates the application model.
func New(deps Deps) Model {
	list := stationlist.New()
	list.SetFocused(true)
	list.SetLoading(true)

	m := Model{
		Playback:    deps.Playback,
		playbackSub: deps.Playback.Subscribe(),
		State:       deps.State,
		Catalog:     deps.Catalog,
		Verifier:    deps.Verifier,
		notifier:    deps.Notifier,
		icons:       deps.Icons,
		log:         deps.Logger.With().Str("component", "app").Logger(),
		keys:        keymap.ForContexts("global", "playback", "stations", "history"),
		ActiveView:  headerbar.ViewTop,
		regionIdx:   -1,
		countryIdx:  -1,
		genreIdx:    -1,
		genres:      catalog.Genres(),
		favorites:   make(map[string]bool),
		List:        list,
		Popups:      NewPopupManager(),
	}
	m.List.SetTitle(m.viewTitle())
	m.List.SetEmptyText(m.emptyText())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadViewCmd(),
		m.loadFavoritesCmd(-1),
		m.loadAlarmCmd(),
		m.loadTagsCmd(),
		m.WatchServiceEvents(),
	)
}

func (m Model) region() string {
	if m.regionIdx < 0 {
		return ""
	}
	return catalog.Regions()[m.regionIdx]
}

func (m Model) country() *catalog.Country {
	if m.countryIdx < 0 || m.countryIdx >= len(m.countries) {
		return nil
	}
	return &m.countries[m.countryIdx]
}

// place is the header label of the region or country filter.
func (m Model) place() string {
	if c := m.country(); c != nil {
		return c.Name
	}
	return m.region()
}

func (m Model) genre() string {
	if m.genreIdx < 0 || m.genreIdx >= len(m.genres) {
		return ""
	}
	return m.genres[m.genreIdx]
}

// mergeGenres appends popular tags missing from the curated genres, so
// existing genre indexes stay valid.
func mergeGenres(curated []string, tags []catalog.Tag) []string {
	out := slices.Clone(curated)
	seen := make(map[string]bool, len(curated)+len(tags))
	for _, g := range curated {
		seen[strings.ToLower(g)] = true
	}
	added := 0
	for _, t := range tags {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" || seen[name] || t.StationCount == 0 {
			continue
		}
		if added == extraGenres {
			break
		}
		seen[name] = true
		out = append(out, name)
		added++
	}
	return out
}
