// Package action defines the interface for UI component actions.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action is something a UI component asks the app to do.
// ActionType returns a string identifier for logging.
type Action interface {
	ActionType() string
}

// Msg wraps an action with the name of the component that produced it:
// "stationlist", "prompt", "help" or "alarmform".
type Msg struct {
	Source string
	Action Action
}

var _ tea.Msg = Msg{}

// Cmd returns a command delivering a as a Msg from source.
func Cmd(source string, a Action) tea.Cmd {
	return func() tea.Msg { return Msg{Source: source, Action: a} }
}
