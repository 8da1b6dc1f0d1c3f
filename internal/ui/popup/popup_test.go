package popup

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/airwaves/internal/ui/styles"
)

func TestCenter(t *testing.T) {
	out := Center("ab\ncd", 10, 6)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 2 padding + 2 content: %q", len(lines), out)
	}
	if lines[2] != "    ab" || lines[3] != "    cd" {
		t.Errorf("content not centered: %q", lines[2:])
	}
}

func TestRenderBordered_FitsScreen(t *testing.T) {
	content := strings.Repeat("x", 200)
	out := RenderBordered(content, 80, 24, SizeAuto)
	for line := range strings.SplitSeq(out, "\n") {
		if w := lipgloss.Width(line); w > 80 {
			t.Fatalf("line wider than screen: %d", w)
		}
	}
}

func TestCompose_ReplacesOnlyVisibleOverlay(t *testing.T) {
	base := "0123456789\n0123456789\n0123456789"
	overlay := "\n   XYZ   \n"

	got := Compose(base, overlay, 10)
	lines := strings.Split(got, "\n")

	if lines[0] != "0123456789" || lines[2] != "0123456789" {
		t.Errorf("blank overlay lines should keep base: %q", lines)
	}
	if lines[1] != "012XYZ6789" {
		t.Errorf("line 1 = %q, want 012XYZ6789", lines[1])
	}
}

func TestCompose_KeepsStyles(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("ON")
	got := Compose("..........", "    "+styled, 10)

	if ansi.Strip(got) != "....ON...." {
		t.Errorf("plain result = %q", ansi.Strip(got))
	}
	if !strings.Contains(got, styled) {
		t.Errorf("overlay styling lost: %q", got)
	}
}

func TestNotice(t *testing.T) {
	n := &Notice{Title: "Error", Body: "Could not reach the station directory"}
	n.SetSize(80, 24)

	next, cmd := n.Update(nil)
	if next != n || cmd != nil {
		t.Fatalf("Update should be inert, got %v %v", next, cmd)
	}
	view := ansi.Strip(n.View())
	for _, want := range []string{"Error", "station directory", "Press any key"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestNotice_InfoUsesTitleStyle(t *testing.T) {
	n := &Notice{Title: "Podcasts", Body: "The Daily", Info: true}
	want := styles.T().S().Title.Render("Podcasts")
	if !strings.HasPrefix(n.View(), want) {
		t.Errorf("info notice title = %q, want prefix %q", n.View(), want)
	}
}
