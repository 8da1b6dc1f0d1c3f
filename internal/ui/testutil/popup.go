package testutil

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/ui/popup"
)

// PopupHarness drives a popup the way the popup manager does and keeps
// every command it returned, oldest first.
type PopupHarness struct {
	p    popup.Popup
	cmds []tea.Cmd
}

// NewPopupHarness starts p and keeps its Init command.
func NewPopupHarness(p popup.Popup) *PopupHarness {
	h := &PopupHarness{p: p}
	h.keep(p.Init())
	return h
}

func (h *PopupHarness) keep(cmd tea.Cmd) tea.Cmd {
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// Send delivers msg and returns the popup's command.
func (h *PopupHarness) Send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.p, cmd = h.p.Update(msg)
	return h.keep(cmd)
}

// Type sends text one rune at a time, as a user typing it would, and
// returns the last command.
func (h *PopupHarness) Type(text string) tea.Cmd {
	var last tea.Cmd
	for _, r := range text {
		last = h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return last
}

// Press sends non-printable keys in order and returns the last command.
func (h *PopupHarness) Press(keys ...tea.KeyType) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		last = h.Send(tea.KeyMsg{Type: k})
	}
	return last
}

// LastCommand returns the newest command, or nil.
func (h *PopupHarness) LastCommand() tea.Cmd {
	if len(h.cmds) == 0 {
		return nil
	}
	return h.cmds[len(h.cmds)-1]
}

// Commands returns the number of commands collected.
func (h *PopupHarness) Commands() int { return len(h.cmds) }

// ClearCommands forgets collected commands.
func (h *PopupHarness) ClearCommands() { h.cmds = nil }

func (h *PopupHarness) SetSize(width, height int) { h.p.SetSize(width, height) }
func (h *PopupHarness) View() string              { return h.p.View() }

// ViewHas reports whether the rendered view, without styling, contains s.
func (h *PopupHarness) ViewHas(s string) bool {
	return strings.Contains(StripANSI(h.View()), s)
}
