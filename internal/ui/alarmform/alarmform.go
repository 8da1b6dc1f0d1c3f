// Package alarmform provides the popup for editing the wake alarm.
package alarmform

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/ui"
	"github.com/llehouerou/airwaves/internal/ui/action"
	"github.com/llehouerou/airwaves/internal/ui/popup"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

const source = "alarmform"

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// Save asks the app to persist the edited alarm.
type Save struct {
	Config alarm.Config
}

// ActionType implements action.Action.
func (Save) ActionType() string { return "alarmform.save" }

// Close signals the form was dismissed without saving.
type Close struct{}

// ActionType implements action.Action.
func (Close) ActionType() string { return "alarmform.close" }

// Model edits an alarm.Config. The time is typed as four digits.
type Model struct {
	ui.Base
	digits    []rune
	enabled   bool
	station   *catalog.Station
	candidate *catalog.Station
	err       string
	resolver  *keymap.Resolver
}

// New creates the form.
func New() Model {
	return Model{resolver: keymap.ForContexts("alarm")}
}

// Start loads cfg into the form. candidate is the station "f" assigns,
// usually the one under the list cursor.
func (m *Model) Start(cfg alarm.Config, candidate *catalog.Station, width, height int) {
	m.digits = m.digits[:0]
	for _, r := range cfg.Time {
		if r >= '0' && r <= '9' {
			m.digits = append(m.digits, r)
		}
	}
	m.enabled = cfg.Enabled
	m.station = cfg.Station
	m.candidate = candidate
	m.err = ""
	m.SetSize(width, height)
}

// Config returns the alarm as currently edited.
func (m *Model) Config() alarm.Config {
	return alarm.Config{Time: m.timeText(), Enabled: m.enabled, Station: m.station}
}

func (m *Model) timeText() string {
	d := make([]rune, 4)
	for i := range d {
		d[i] = '-'
		if i < len(m.digits) {
			d[i] = m.digits[i]
		}
	}
	return string(d[:2]) + ":" + string(d[2:])
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	key := keyMsg.String()

	switch m.resolver.Resolve(key) { //nolint:exhaustive // Only alarm actions are bound here
	case keymap.ActionCancel:
		return m, action.Cmd(source, Close{})
	case keymap.ActionAlarmToggle:
		m.enabled = !m.enabled
		m.err = ""
		return m, nil
	case keymap.ActionToggleFavorite:
		if m.candidate != nil {
			st := *m.candidate
			m.station = &st
			m.err = ""
		}
		return m, nil
	case keymap.ActionSelect:
		return m, m.submit()
	}

	switch {
	case key == "backspace":
		if len(m.digits) > 0 {
			m.digits = m.digits[:len(m.digits)-1]
		}
		m.err = ""
	case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
		if len(m.digits) == 4 {
			m.digits = m.digits[:0]
		}
		m.digits = append(m.digits, rune(key[0]))
		m.err = ""
	}
	return m, nil
}

func (m *Model) submit() tea.Cmd {
	cfg := m.Config()
	if len(m.digits) == 0 && !m.enabled {
		cfg.Time = ""
	} else if _, _, err := alarm.ParseTime(cfg.Time); err != nil {
		m.err = alarm.ErrInvalidTime.Error()
		return nil
	}
	if err := cfg.Validate(); err != nil {
		m.err = err.Error()
		return nil
	}
	return action.Cmd(source, Save{Config: cfg})
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Unsized() {
		return ""
	}
	t := styles.T()

	state := t.S().Muted.Render("off")
	if m.enabled {
		state = t.S().Success.Render("on")
	}
	station := t.S().Muted.Render("none")
	if m.station != nil {
		station = t.S().Base.Render(m.station.Name)
	}

	lines := []string{
		t.S().Title.Render(icons.Alarm() + " Wake alarm"),
		"",
		t.S().Muted.Render("Time     ") + t.S().Base.Render(m.timeText()),
		t.S().Muted.Render("Enabled  ") + state,
		t.S().Muted.Render("Station  ") + station,
	}
	if m.candidate != nil && (m.station == nil || m.candidate.ID != m.station.ID) {
		lines = append(lines, t.S().Subtle.Render("         f: use "+m.candidate.Name))
	}
	if m.err != "" {
		lines = append(lines, "", t.S().Error.Render(m.err))
	}
	lines = append(lines, "", t.S().Subtle.Render("0-9: time · e: enable · Enter: save · Esc: cancel"))
	return strings.Join(lines, "\n")
}
