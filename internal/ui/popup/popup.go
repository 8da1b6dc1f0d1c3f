// Package popup draws modal boxes over the station browser.
package popup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/airwaves/internal/ui/styles"
)

// Popup is a modal component. View returns the content only; the
// border and centering come from RenderBordered.
type Popup interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Popup, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Notice is a read-only message box that the first key press dismisses.
type Notice struct {
	Title string
	Body  string
	Info  bool // plain title instead of an error title
	width int
}

var _ Popup = (*Notice)(nil)

func (n *Notice) Init() tea.Cmd { return nil }

// Update ignores everything; the owner closes a notice on any key.
func (n *Notice) Update(tea.Msg) (Popup, tea.Cmd) { return n, nil }

func (n *Notice) SetSize(width, _ int) { n.width = width }

func (n *Notice) View() string {
	t := styles.T()
	body := n.Body
	if n.width > 0 {
		body = lipgloss.NewStyle().Width(max(min(n.width-10, 56), 10)).Render(body)
	}
	title := t.S().Error.Render(n.Title)
	if n.Info {
		title = t.S().Title.Render(n.Title)
	}
	return title + "\n\n" + body + "\n\n" +
		t.S().Subtle.Render("Press any key to dismiss")
}

// SizeConfig defines how a popup should be sized.
type SizeConfig struct {
	WidthPct  int // Percentage of screen width (0 = auto-fit)
	HeightPct int // Percentage of screen height (0 = auto-fit)
	MaxWidth  int // Maximum width in columns (0 = no limit)
}

// Common size configurations.
var (
	SizeLarge = SizeConfig{WidthPct: 70, HeightPct: 70} // Help
	SizeAuto  = SizeConfig{MaxWidth: 60}                // Search, alarm
)

// RenderBordered wraps content in a rounded border and centers it on a
// screenW x screenH canvas.
func RenderBordered(content string, screenW, screenH int, size SizeConfig) string {
	width, height := dimensions(content, screenW, screenH, size)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().BorderFocus).
		Width(width-2).
		Height(height-2).
		Padding(1, 2).
		Render(content)
	return Center(box, screenW, screenH)
}

// Center centers pre-rendered content on the canvas.
func Center(box string, screenW, screenH int) string {
	lines := strings.Split(box, "\n")
	boxWidth := maxLineWidth(box)

	padTop := max((screenH-len(lines))/2, 0)
	padLeft := max((screenW-boxWidth)/2, 0)

	var b strings.Builder
	for range padTop {
		b.WriteString(strings.Repeat(" ", screenW))
		b.WriteByte('\n')
	}
	for _, line := range lines {
		b.WriteString(strings.Repeat(" ", padLeft))
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func dimensions(content string, screenW, screenH int, size SizeConfig) (width, height int) {
	if size.WidthPct > 0 {
		return screenW * size.WidthPct / 100, screenH * size.HeightPct / 100
	}
	width = maxLineWidth(content) + 6 // padding + border
	if size.MaxWidth > 0 {
		width = min(width, size.MaxWidth)
	}
	width = min(width, screenW-4)

	height = strings.Count(content, "\n") + 1 + 4 // padding + border
	height = min(height, screenH-4)
	return width, height
}

func maxLineWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// Compose overlays popupView on base. Visible characters of the overlay
// replace the base at the same column; blank overlay lines and the margins
// around each overlay line keep the base. ANSI styling is preserved.
func Compose(base, popupView string, width int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(popupView, "\n")

	for i, overlayLine := range overlayLines {
		if i >= len(baseLines) {
			break
		}

		plain := ansi.Strip(overlayLine)
		if strings.TrimSpace(plain) == "" {
			continue
		}

		startCol := len(plain) - len(strings.TrimLeft(plain, " "))
		endCol := ansi.StringWidth(strings.TrimRight(plain, " "))
		content := ansi.Cut(overlayLine, startCol, endCol)

		baseLine := baseLines[i]
		if w := ansi.StringWidth(baseLine); w < width {
			baseLine += strings.Repeat(" ", width-w)
		}

		// Cutting through a wide rune can shorten either side; pad back to
		// keep columns aligned.
		prefix := ansi.Cut(baseLine, 0, startCol)
		if w := ansi.StringWidth(prefix); w < startCol {
			prefix += strings.Repeat(" ", startCol-w)
		}
		line := prefix + content
		if endCol < width {
			suffix := ansi.Cut(baseLine, endCol, width)
			if w := ansi.StringWidth(suffix); w < width-endCol {
				suffix += strings.Repeat(" ", width-endCol-w)
			}
			line += suffix
		}
		baseLines[i] = line
	}

	return strings.Join(baseLines, "\n")
}
