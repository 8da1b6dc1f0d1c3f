// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit   Action = "quit"
	ActionSearch Action = "search"
	ActionHelp   Action = "help"

	// View switching
	ActionViewTop       Action = "view_top"
	ActionViewFavorites Action = "view_favorites"
	ActionViewHistory   Action = "view_history"
	ActionNextRegion    Action = "next_region"
	ActionPrevRegion    Action = "prev_region"
	ActionNextGenre     Action = "next_genre"
	ActionPrevGenre     Action = "prev_genre"
	ActionNextCountry   Action = "next_country"
	ActionPrevCountry   Action = "prev_country"
	ActionPodcasts      Action = "podcasts"
	ActionAlarm         Action = "alarm"

	// Playback actions
	ActionPlayPause   Action = "play_pause"
	ActionStop        Action = "stop"
	ActionVolumeUp    Action = "volume_up"
	ActionVolumeDown  Action = "volume_down"
	ActionSleepCycle  Action = "sleep_cycle"
	ActionSleepCancel Action = "sleep_cancel"
	ActionDetails     Action = "details"

	// Navigation actions
	ActionMoveUp    Action = "move_up"
	ActionMoveDown  Action = "move_down"
	ActionJumpStart Action = "jump_start"
	ActionJumpEnd   Action = "jump_end"
	ActionPageUp    Action = "page_up"
	ActionPageDown  Action = "page_down"

	// Station list actions
	ActionSelect         Action = "select"          // enter - play/pause station
	ActionToggleFavorite Action = "toggle_favorite" // f
	ActionVerify         Action = "verify"          // v - probe visible stations
	ActionClear          Action = "clear"           // c - clear history

	// Alarm editor actions
	ActionAlarmToggle Action = "alarm_toggle" // e - enable/disable
	ActionCancel      Action = "cancel"       // esc
)
