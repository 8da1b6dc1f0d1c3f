//go:build !windows

// Package stderr captures output that C libraries (ALSA, ffmpeg's shared
// libs) write straight to file descriptor 2, bypassing os.Stderr, and
// forwards each line to the application log so it cannot corrupt the TUI.
package stderr

import (
	"bufio"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
)

var (
	mu         sync.Mutex
	origStderr = -1
	pipeRead   *os.File
	pipeWrite  *os.File
	done       chan struct{}
)

// Start redirects fd 2 into a pipe and logs every non-empty line at warn.
// Must be called early in main(), before the audio device is opened.
// On error the program can continue with the original stderr.
func Start(log zerolog.Logger) error {
	mu.Lock()
	defer mu.Unlock()
	if done != nil {
		return nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}

	orig, err := syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		syscall.Close(orig)
		r.Close()
		w.Close()
		return err
	}

	origStderr = orig
	pipeRead = r
	pipeWrite = w
	done = make(chan struct{})

	go forward(r, log.With().Str("component", "stderr").Logger(), done)
	return nil
}

func forward(r io.Reader, log zerolog.Logger, done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			log.Warn().Msg(line)
		}
	}
}

// WriteOriginal writes directly to the original stderr, bypassing capture.
// Used for fatal errors that must stay visible after the TUI exits.
func WriteOriginal(msg string) {
	mu.Lock()
	fd := origStderr
	mu.Unlock()
	if fd < 0 {
		_, _ = os.Stderr.WriteString(msg)
		return
	}
	_, _ = syscall.Write(fd, []byte(msg))
}

// Stop restores the original stderr and waits for buffered lines to be logged.
func Stop() {
	mu.Lock()
	defer mu.Unlock()
	if done == nil {
		return
	}

	_ = syscall.Dup2(origStderr, int(os.Stderr.Fd()))
	_ = syscall.Close(origStderr)
	origStderr = -1

	pipeWrite.Close()
	<-done
	pipeRead.Close()
	done = nil
}
