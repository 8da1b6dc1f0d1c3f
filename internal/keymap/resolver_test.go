package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
		{ActionMoveDown, []string{"j", "down"}, "Move down", "stations"},
	})

	assert.Equal(t, ActionQuit, r.Resolve("q"))
	assert.Equal(t, ActionQuit, r.Resolve("ctrl+c"))
	assert.Equal(t, ActionPlayPause, r.Resolve(" "))
	assert.Equal(t, ActionMoveDown, r.Resolve("down"))
	assert.Equal(t, Action(""), r.Resolve("x"))
	assert.Equal(t, Action(""), r.Resolve(""))
}

func TestResolver_LaterBindingWins(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionSelect, []string{"enter"}, "Play", "stations"},
		{ActionCancel, []string{"enter"}, "Close", "alarm"},
	})
	assert.Equal(t, ActionCancel, r.Resolve("enter"))
}

func TestResolver_KeysFor(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionSelect, []string{"enter"}, "Play", "stations"},
		{ActionSelect, []string{"enter", "o"}, "Save", "alarm"},
	})
	assert.Equal(t, []string{"enter", "o"}, r.KeysFor(ActionSelect))
	assert.Empty(t, r.KeysFor(ActionQuit))

	keys := r.KeysFor(ActionSelect)
	keys[0] = "mutated"
	assert.Equal(t, "enter", r.KeysFor(ActionSelect)[0])
}

func TestForContexts(t *testing.T) {
	r := ForContexts("global", "playback", "stations")
	assert.Equal(t, ActionQuit, r.Resolve("q"))
	assert.Equal(t, ActionSleepCycle, r.Resolve("z"))
	assert.Equal(t, ActionVerify, r.Resolve("v"))
	assert.Equal(t, Action(""), r.Resolve("e"), "alarm bindings stay out")

	alarm := ForContexts("alarm")
	assert.Equal(t, ActionAlarmToggle, alarm.Resolve("e"))
	assert.Equal(t, Action(""), alarm.Resolve("q"))
}

func TestHint(t *testing.T) {
	r := ForContexts("global", "playback", "stations")
	assert.Equal(t, "q", r.Hint(ActionQuit))
	assert.Equal(t, "space", r.Hint(ActionPlayPause))
	assert.Equal(t, "PgUp", r.Hint(ActionPageUp))
	assert.Empty(t, r.Hint(ActionAlarmToggle))
}

func TestDisplayKey(t *testing.T) {
	assert.Equal(t, "^u", DisplayKey("ctrl+u"))
	assert.Equal(t, "PgDn", DisplayKey("pgdown"))
	assert.Equal(t, "/", DisplayKey("/"))
}
