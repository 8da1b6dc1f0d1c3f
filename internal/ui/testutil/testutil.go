// Package testutil provides helpers for testing UI components.
package testutil

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/airwaves/internal/ui/action"
)

// StripANSI removes styling so rendered output can be compared.
func StripANSI(s string) string { return ansi.Strip(s) }

// MeasureWidth is the cell width of s with styling removed.
func MeasureWidth(s string) int { return lipgloss.Width(ansi.Strip(s)) }

// SplitLines splits output into lines without the trailing blank ones.
func SplitLines(output string) []string {
	lines := strings.Split(output, "\n")
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}

// FindLine returns the first line containing substr, or "".
func FindLine(output, substr string) string {
	for line := range strings.SplitSeq(output, "\n") {
		if strings.Contains(line, substr) {
			return line
		}
	}
	return ""
}

// ContainsLine reports whether some line contains substr.
func ContainsLine(output, substr string) bool {
	return FindLine(output, substr) != ""
}

// Run executes cmd and returns its message, or nil for a nil command.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// ActionOf runs cmd and unwraps the action.Msg it produces.
func ActionOf(cmd tea.Cmd) (action.Msg, bool) {
	msg, ok := Run(cmd).(action.Msg)
	return msg, ok
}
