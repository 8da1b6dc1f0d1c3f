package prompt

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/airwaves/internal/ui/action"
	"github.com/llehouerou/airwaves/internal/ui/testutil"
)

func newTestPrompt(title, initialText string) *testutil.PopupHarness {
	m := New()
	m.Start(title, initialText, PurposeSearch, 80, 24)
	return testutil.NewPopupHarness(&m)
}

func getResult(t *testing.T, h *testutil.PopupHarness) Result {
	t.Helper()
	cmd := h.LastCommand()
	if cmd == nil {
		t.Fatal("expected command, got nil")
	}
	msg := testutil.Run(cmd)
	actionMsg, ok := msg.(action.Msg)
	if !ok {
		t.Fatalf("expected action.Msg, got %T", msg)
	}
	if actionMsg.Source != "prompt" {
		t.Errorf("Source = %q, want prompt", actionMsg.Source)
	}
	result, ok := actionMsg.Action.(Result)
	if !ok {
		t.Fatalf("expected Result, got %T", actionMsg.Action)
	}
	return result
}

func TestPrompt_TypeCharacters(t *testing.T) {
	h := newTestPrompt("Search", "")

	h.Type("j")
	h.Type("a")
	h.Type("z")
	h.Type("z")
	h.Press(tea.KeyEnter)

	result := getResult(t, h)
	if result.Text != "jazz" {
		t.Errorf("Text = %q, want %q", result.Text, "jazz")
	}
	if result.Purpose != PurposeSearch {
		t.Errorf("Purpose = %q, want %q", result.Purpose, PurposeSearch)
	}
	if result.Canceled {
		t.Error("expected Canceled=false")
	}
}

func TestPrompt_SpaceAndTrim(t *testing.T) {
	h := newTestPrompt("Search", "  deep")

	h.Press(tea.KeySpace)
	h.Type("house")
	h.Type(" ")
	h.Press(tea.KeyEnter)

	result := getResult(t, h)
	if result.Text != "deep house" {
		t.Errorf("Text = %q, want %q", result.Text, "deep house")
	}
}

func TestPrompt_BackspaceIsRuneAware(t *testing.T) {
	h := newTestPrompt("Search", "café")

	h.Press(tea.KeyBackspace)
	h.Press(tea.KeyEnter)

	result := getResult(t, h)
	if result.Text != "caf" {
		t.Errorf("Text = %q, want %q", result.Text, "caf")
	}
}

func TestPrompt_BackspaceOnEmpty(t *testing.T) {
	h := newTestPrompt("Search", "")

	h.Press(tea.KeyBackspace)
	h.Press(tea.KeyEnter)

	if result := getResult(t, h); result.Text != "" {
		t.Errorf("Text = %q, want empty", result.Text)
	}
}

func TestPrompt_ClearLine(t *testing.T) {
	h := newTestPrompt("Search", "rock")

	h.Press(tea.KeyCtrlU)
	h.Type("pop")
	h.Press(tea.KeyEnter)

	if result := getResult(t, h); result.Text != "pop" {
		t.Errorf("Text = %q, want %q", result.Text, "pop")
	}
}

func TestPrompt_Cancel(t *testing.T) {
	h := newTestPrompt("Search", "typed")

	h.Press(tea.KeyEscape)

	result := getResult(t, h)
	if !result.Canceled {
		t.Error("expected Canceled=true")
	}
	if result.Purpose != PurposeSearch {
		t.Errorf("Purpose = %q, want %q", result.Purpose, PurposeSearch)
	}
}

func TestPrompt_MaxLength(t *testing.T) {
	m := New()
	m.Start("Search", "", PurposeSearch, 80, 24)
	h := testutil.NewPopupHarness(&m)

	for range MaxLength + 10 {
		h.Type("x")
	}
	if got := len([]rune(m.Text())); got != MaxLength {
		t.Errorf("len = %d, want %d", got, MaxLength)
	}
}

func TestPrompt_ValidatorBlocksSubmit(t *testing.T) {
	m := New()
	m.Start("Search", "", PurposeSearch, 80, 24)
	m.SetValidator(func(s string) error {
		if s == "" {
			return errors.New("type something")
		}
		return nil
	})
	h := testutil.NewPopupHarness(&m)

	if cmd := h.Press(tea.KeyEnter); cmd != nil {
		t.Fatal("expected no command when validation fails")
	}
	if !h.ViewHas("type something") {
		t.Errorf("view missing %q", "type something")
	}

	h.Type("a")
	if h.ViewHas("type something") {
		t.Errorf("view unexpectedly has %q", "type something")
	}
	h.Press(tea.KeyEnter)
	if result := getResult(t, h); result.Text != "a" {
		t.Errorf("Text = %q, want %q", result.Text, "a")
	}
}

func TestPrompt_View(t *testing.T) {
	h := newTestPrompt("Search stations", "lofi")

	for _, want := range []string{"Search stations", "> lofi", "Enter: confirm"} {
		if !h.ViewHas(want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPrompt_EmptyViewWhenNoSize(t *testing.T) {
	m := New()
	m.Start("Title", "", PurposeSearch, 0, 0)
	h := testutil.NewPopupHarness(&m)

	if h.View() != "" {
		t.Errorf("View = %q, want empty when size is 0", h.View())
	}
}

func TestPrompt_Reset(t *testing.T) {
	m := New()
	m.Start("Title", "text", PurposeSearch, 80, 24)

	m.Reset()

	if m.Text() != "" {
		t.Errorf("Text = %q, want empty", m.Text())
	}
	h := testutil.NewPopupHarness(&m)
	if h.ViewHas("Title") {
		t.Errorf("view unexpectedly has %q", "Title")
	}
}

func TestPrompt_IgnoresControlKeys(t *testing.T) {
	h := newTestPrompt("Search", "")

	h.Type("a")
	h.Press(tea.KeyTab)
	h.Type("b")
	h.Press(tea.KeyEnter)

	if result := getResult(t, h); result.Text != "ab" {
		t.Errorf("Text = %q, want %q", result.Text, "ab")
	}
}
