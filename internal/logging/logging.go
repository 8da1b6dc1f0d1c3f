// Package logging builds the application logger. The TUI owns the terminal,
// so logs go to a file under the XDG state directory.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
)

const logFile = "airwaves/airwaves.log"

// DefaultPath returns the log file path, creating its directory.
func DefaultPath() (string, error) {
	return xdg.StateFile(logFile)
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty names
// fall back to info.
func ParseLevel(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// New returns a timestamped logger writing JSON lines to w.
func New(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// Open opens (appending) the log file at path, or at DefaultPath when path
// is empty, and returns a logger writing to it. The caller closes the file.
func Open(path, level string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("log path: %w", err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return New(f, level), f, nil
}
