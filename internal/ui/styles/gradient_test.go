package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

func TestGradient_KeepsText(t *testing.T) {
	out := Gradient("airwaves", T().Primary, T().Secondary)
	assert.Equal(t, "airwaves", ansi.Strip(out))
}

func TestGradient_Graphemes(t *testing.T) {
	out := Gradient("café ♪", T().Primary, T().Secondary)
	assert.Equal(t, "café ♪", ansi.Strip(out))
	assert.Equal(t, 6, lipgloss.Width(out))
}

func TestGradient_Fallbacks(t *testing.T) {
	assert.Empty(t, Gradient("", T().Primary, T().Secondary))
	assert.Equal(t, "x", ansi.Strip(Gradient("x", T().Primary, T().Secondary)))
	assert.Equal(t, "radio", ansi.Strip(Gradient("radio", lipgloss.Color("5"), T().Secondary)))
}
