// Package helpbindings provides a scrollable popup listing the key bindings.
package helpbindings

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/keymap"
	"github.com/llehouerou/airwaves/internal/ui"
	"github.com/llehouerou/airwaves/internal/ui/action"
	"github.com/llehouerou/airwaves/internal/ui/popup"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// categoryOrder defines the display order of binding categories.
var categoryOrder = []string{
	"global",
	"playback",
	"stations",
	"history",
	"alarm",
}

// categoryLabels maps context names to display labels.
var categoryLabels = map[string]string{
	"global":   "Global",
	"playback": "Playback",
	"stations": "Station List",
	"history":  "History",
	"alarm":    "Alarm Editor",
}

// Close asks the app to hide the help popup.
type Close struct{}

func (Close) ActionType() string { return "help.close" }

// AllContexts lists every binding context, in display order.
func AllContexts() []string {
	return slices.Clone(categoryOrder)
}

// Model holds the state for the help popup.
type Model struct {
	ui.Base
	keys         *keymap.Resolver
	bindings     []keymap.Binding
	scrollOffset int
}

// New creates a new help model. It scrolls with the station list keys.
func New() Model {
	return Model{keys: keymap.ForContexts("global", "stations")}
}

// SetContexts sets which binding contexts to display.
func (m *Model) SetContexts(contexts []string) {
	m.bindings = nil
	for _, ctx := range categoryOrder {
		if slices.Contains(contexts, ctx) {
			m.bindings = append(m.bindings, keymap.ByContext(ctx)...)
		}
	}
	m.scrollOffset = 0
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

	if keyMsg.Type == tea.KeyEscape {
		return m, action.Cmd("help", Close{})
	}
	page := max(m.visibleHeight()-1, 1)
	switch m.keys.Resolve(keyMsg.String()) { //nolint:exhaustive // Only scrolling and closing apply
	case keymap.ActionHelp, keymap.ActionQuit:
		return m, action.Cmd("help", Close{})
	case keymap.ActionMoveDown:
		m.scrollTo(m.scrollOffset + 1)
	case keymap.ActionMoveUp:
		m.scrollTo(m.scrollOffset - 1)
	case keymap.ActionPageDown:
		m.scrollTo(m.scrollOffset + page)
	case keymap.ActionPageUp:
		m.scrollTo(m.scrollOffset - page)
	case keymap.ActionJumpStart:
		m.scrollTo(0)
	case keymap.ActionJumpEnd:
		m.scrollTo(m.maxScroll())
	}
	return m, nil
}

func (m *Model) scrollTo(offset int) {
	m.scrollOffset = min(max(offset, 0), m.maxScroll())
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Unsized() {
		return ""
	}

	lines := strings.Split(m.buildContent(), "\n")

	// Width over all lines keeps the popup from resizing while scrolling.
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}

	start := min(m.scrollOffset, len(lines))
	end := min(start+m.visibleHeight(), len(lines))
	visible := lines[start:end]
	for i, line := range visible {
		if w := lipgloss.Width(line); w < maxWidth {
			visible[i] = line + strings.Repeat(" ", maxWidth-w)
		}
	}

	t := styles.T()
	var sb strings.Builder
	sb.WriteString(t.S().Title.Render("Help"))
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(visible, "\n"))
	sb.WriteString("\n\n")
	sb.WriteString(t.S().Subtle.Render(m.buildFooter()))
	return sb.String()
}

func formatKeys(keys []string) string {
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = keymap.DisplayKey(k)
	}
	return strings.Join(labels, ", ")
}

func (m Model) buildContent() string {
	t := styles.T()
	headerStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)

	maxKeyWidth := 0
	for _, b := range m.bindings {
		maxKeyWidth = max(maxKeyWidth, len(formatKeys(b.Keys)))
	}

	var sb strings.Builder
	currentContext := ""
	for _, b := range m.bindings {
		if b.Context != currentContext {
			if currentContext != "" {
				sb.WriteString("\n")
			}
			label := categoryLabels[b.Context]
			if label == "" {
				label = b.Context
			}
			sb.WriteString(headerStyle.Render(label))
			sb.WriteString("\n")
			sb.WriteString(t.S().Subtle.Render(strings.Repeat("─", maxKeyWidth+15)))
			sb.WriteString("\n")
			currentContext = b.Context
		}

		keyStr := formatKeys(b.Keys)
		sb.WriteString(t.S().Key.Render(keyStr + strings.Repeat(" ", maxKeyWidth-len(keyStr))))
		sb.WriteString("  ")
		sb.WriteString(t.S().Base.Render(b.Description))
		sb.WriteString("\n")
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func (m Model) buildFooter() string {
	if m.totalLines() <= m.visibleHeight() {
		return "?/esc close"
	}
	return "j/k scroll · ?/esc close"
}

func (m Model) visibleHeight() int {
	// Room for title, footer, border and margins.
	return max(m.Height()-10, 5)
}

func (m Model) totalLines() int {
	return strings.Count(m.buildContent(), "\n") + 1
}

func (m Model) maxScroll() int {
	return max(m.totalLines()-m.visibleHeight(), 0)
}
