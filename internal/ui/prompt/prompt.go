// Package prompt provides a single-line input popup, used for station search.
package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/airwaves/internal/ui"
	"github.com/llehouerou/airwaves/internal/ui/action"
	"github.com/llehouerou/airwaves/internal/ui/popup"
	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Compile-time check that Model implements popup.Popup.
var _ popup.Popup = (*Model)(nil)

// MaxLength caps the input, in runes.
const MaxLength = 100

func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(styles.T().Primary)
}

// Model is a single-line input popup.
type Model struct {
	ui.Base
	title    string
	input    textinput.Model
	purpose  Purpose
	validate func(string) error
	err      string
}

// New creates a new prompt model.
func New() Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = MaxLength
	ti.Cursor.SetMode(cursor.CursorStatic)
	return Model{input: ti}
}

// Start opens the prompt with a title and optional initial text.
func (m *Model) Start(title, initialText string, purpose Purpose, width, height int) {
	m.title = title
	m.purpose = purpose
	m.err = ""
	m.input.SetValue(initialText)
	m.input.CursorEnd()
	m.input.Width = max(min(50, width-12), 10)
	m.input.Focus()
	m.SetSize(width, height)
}

// SetValidator sets a check run on submit. A failing check keeps the
// prompt open and shows the error.
func (m *Model) SetValidator(fn func(string) error) {
	m.validate = fn
}

// Reset clears the prompt state.
func (m *Model) Reset() {
	m.title = ""
	m.purpose = ""
	m.validate = nil
	m.err = ""
	m.input.Reset()
	m.input.Blur()
}

// Text returns the current input.
func (m *Model) Text() string {
	return m.input.Value()
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

	switch keyMsg.String() {
	case "esc":
		return m, action.Cmd(source, Result{Purpose: m.purpose, Canceled: true})

	case "enter":
		text := strings.TrimSpace(m.input.Value())
		if m.validate != nil {
			if err := m.validate(text); err != nil {
				m.err = err.Error()
				return m, nil
			}
		}
		return m, action.Cmd(source, Result{Purpose: m.purpose, Text: text})
	}

	// A space typed on some terminals arrives without its rune.
	if keyMsg.Type == tea.KeySpace && len(keyMsg.Runes) == 0 {
		keyMsg.Runes = []rune{' '}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(keyMsg)
	if m.input.Value() != before {
		m.err = ""
	}
	return m, cmd
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Unsized() {
		return ""
	}
	t := styles.T()

	title := titleStyle().Render(m.title)
	hint := t.S().Subtle.Render("Enter: confirm, Esc: cancel, Ctrl+U: clear")

	content := title + "\n\n" + m.input.View()
	if m.err != "" {
		content += "\n" + t.S().Error.Render(m.err)
	}
	return content + "\n\n" + hint
}
