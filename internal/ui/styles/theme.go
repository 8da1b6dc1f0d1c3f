// Package styles holds the color theme of the station browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the palette. Styles built from it are cached by S.
type Theme struct {
	Primary   lipgloss.Color // accent: playing station, active tab, focus
	Secondary lipgloss.Color // brand gradient end

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgBase   lipgloss.Color
	BgCursor lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color

	Success lipgloss.Color // live, good health
	Error   lipgloss.Color // dead, poor health
	Warning lipgloss.Color // stalled, fair health

	styles *Styles
}

// Styles are the prebuilt text styles.
type Styles struct {
	Base    lipgloss.Style
	Muted   lipgloss.Style
	Subtle  lipgloss.Style
	Title   lipgloss.Style
	Playing lipgloss.Style
	Cursor  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Key     lipgloss.Style // key hints
}

var current = build("#a78bfa", "#f1a208")

// T returns the active theme.
func T() *Theme {
	return current
}

// Configure replaces the theme with one built around the given accent
// colors. Empty or invalid colors keep the defaults.
func Configure(accent, secondary string) {
	current = build(hexOr(accent, "#a78bfa"), hexOr(secondary, "#f1a208"))
}

func hexOr(s, fallback string) string {
	if _, err := colorful.Hex(s); err != nil {
		return fallback
	}
	return s
}

// build derives the cursor row tint from the accent so a custom accent
// still reads as one palette.
func build(accent, secondary string) *Theme {
	const bg = "#1a1a1a"
	a, _ := colorful.Hex(accent)
	base, _ := colorful.Hex(bg)
	return &Theme{
		Primary:     lipgloss.Color(accent),
		Secondary:   lipgloss.Color(secondary),
		FgBase:      "#c0c0c0",
		FgMuted:     "#808080",
		FgSubtle:    "#585858",
		BgBase:      bg,
		BgCursor:    lipgloss.Color(base.BlendLab(a, 0.18).Clamped().Hex()),
		Border:      "#585858",
		BorderFocus: lipgloss.Color(accent),
		Success:     "#42b883",
		Error:       "#ff5555",
		Warning:     "#f1a208",
	}
}

// S returns the styles for t.
func (t *Theme) S() *Styles {
	if t.styles != nil {
		return t.styles
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	t.styles = &Styles{
		Base:    fg(t.FgBase),
		Muted:   fg(t.FgMuted),
		Subtle:  fg(t.FgSubtle),
		Title:   fg(t.FgBase).Bold(true),
		Playing: fg(t.Primary).Bold(true),
		Cursor:  fg(t.FgBase).Background(t.BgCursor),
		Success: fg(t.Success),
		Error:   fg(t.Error),
		Warning: fg(t.Warning),
		Key:     fg(t.Primary).Bold(true),
	}
	return t.styles
}

// Health returns the style for a health status name.
func (t *Theme) Health(status string) lipgloss.Style {
	switch status {
	case "good":
		return t.S().Success
	case "fair":
		return t.S().Warning
	case "poor":
		return t.S().Error
	}
	return t.S().Subtle
}
