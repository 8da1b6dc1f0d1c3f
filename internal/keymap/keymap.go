package keymap

// Binding maps keys to an action in a context, for dispatch and help.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "stations", "history", "alarm"
}

// Bindings contains all key bindings.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit application", "global"},
	{ActionSearch, []string{"/"}, "Search stations", "global"},
	{ActionHelp, []string{"?"}, "Show help", "global"},
	{ActionViewTop, []string{"1"}, "Top stations", "global"},
	{ActionViewFavorites, []string{"2"}, "Favorites", "global"},
	{ActionViewHistory, []string{"3"}, "Recently played", "global"},
	{ActionNextRegion, []string{"r"}, "Next region", "global"},
	{ActionPrevRegion, []string{"R"}, "Previous region", "global"},
	{ActionNextGenre, []string{"g"}, "Next genre", "global"},
	{ActionPrevGenre, []string{"G"}, "Previous genre", "global"},
	{ActionNextCountry, []string{"n"}, "Next country", "global"},
	{ActionPrevCountry, []string{"N"}, "Previous country", "global"},
	{ActionPodcasts, []string{"p"}, "Search podcasts", "global"},
	{ActionAlarm, []string{"a"}, "Wake alarm", "global"},

	// Playback
	{ActionPlayPause, []string{" "}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionVolumeUp, []string{"+", "="}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-"}, "Volume down", "playback"},
	{ActionSleepCycle, []string{"z"}, "Sleep timer 15/30/60/90 min", "playback"},
	{ActionSleepCancel, []string{"Z"}, "Cancel sleep timer", "playback"},
	{ActionDetails, []string{"i"}, "Show/hide station details", "playback"},

	// Station list
	{ActionMoveUp, []string{"k", "up"}, "Move up", "stations"},
	{ActionMoveDown, []string{"j", "down"}, "Move down", "stations"},
	{ActionPageUp, []string{"pgup", "ctrl+u"}, "Page up", "stations"},
	{ActionPageDown, []string{"pgdown", "ctrl+d"}, "Page down", "stations"},
	{ActionJumpStart, []string{"home"}, "First station", "stations"},
	{ActionJumpEnd, []string{"end"}, "Last station", "stations"},
	{ActionSelect, []string{"enter"}, "Play/pause station", "stations"},
	{ActionToggleFavorite, []string{"f"}, "Toggle favorite", "stations"},
	{ActionVerify, []string{"v"}, "Check which stations are live", "stations"},

	// History
	{ActionClear, []string{"c"}, "Clear history", "history"},

	// Alarm editor
	{ActionSelect, []string{"enter"}, "Save alarm", "alarm"},
	{ActionToggleFavorite, []string{"f"}, "Use selected station", "alarm"},
	{ActionAlarmToggle, []string{"e"}, "Enable/disable alarm", "alarm"},
	{ActionCancel, []string{"esc"}, "Close without saving", "alarm"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
