package prompt

const source = "prompt"

// Purpose tells the app what a submitted prompt was for.
type Purpose string

const (
	PurposeSearch   Purpose = "search"
	PurposePodcasts Purpose = "podcasts"
)

// Result contains the prompt result.
type Result struct {
	Purpose  Purpose
	Text     string
	Canceled bool // True if user pressed Escape
}

// ActionType implements action.Action.
func (a Result) ActionType() string { return "prompt.result" }
