package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ErrFFmpegNotFound is returned when a stream needs ffmpeg and none is installed.
var ErrFFmpegNotFound = errors.New("ffmpeg not found")

const (
	ffmpegStderrLimit = 4 << 10
	ffmpegWaitDelay   = 2 * time.Second
)

// ffmpegArgs builds the command line that decodes input to 16-bit stereo PCM
// at the output rate on stdout. input is a URL, or "pipe:0" for stdin.
// inputFormat forces the demuxer; empty lets ffmpeg probe.
func ffmpegArgs(input, inputFormat, userAgent string) []string {
	args := []string{"-hide_banner", "-loglevel", "error"}
	if input != "pipe:0" {
		args = append(args, "-nostdin")
		if userAgent != "" {
			args = append(args, "-user_agent", userAgent)
		}
	}
	if inputFormat != "" {
		args = append(args, "-f", inputFormat)
	}
	return append(args,
		"-i", input,
		"-vn",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", "2",
		"-ar", strconv.Itoa(int(outputSampleRate)),
		"pipe:1",
	)
}

// ffmpegProcess is a running ffmpeg decoder. Reading returns PCM; Close kills
// the process and reports its stderr tail on failure.
type ffmpegProcess struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *limitedBuffer
	once   sync.Once
	err    error
}

// startFFmpeg starts ffmpeg on input. stdin is used when input is "pipe:0".
func startFFmpeg(ctx context.Context, path, input, inputFormat, userAgent string, stdin io.Reader) (*ffmpegProcess, error) {
	if path == "" {
		path = "ffmpeg"
	}
	bin, err := exec.LookPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFFmpegNotFound, err)
	}

	cmd := exec.CommandContext(ctx, bin, ffmpegArgs(input, inputFormat, userAgent)...)
	cmd.Stdin = stdin
	cmd.WaitDelay = ffmpegWaitDelay
	stderr := &limitedBuffer{limit: ffmpegStderrLimit}
	cmd.Stderr = stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return &ffmpegProcess{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

func (p *ffmpegProcess) Read(b []byte) (int, error) {
	return p.stdout.Read(b)
}

// Close stops ffmpeg and waits for it to exit.
func (p *ffmpegProcess) Close() error {
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	_ = p.wait()
	return nil
}

func (p *ffmpegProcess) wait() error {
	p.once.Do(func() {
		p.err = p.cmd.Wait()
	})
	return p.err
}

// Failure waits for ffmpeg to exit and returns its error with the last
// stderr line, or nil when it exited cleanly.
func (p *ffmpegProcess) Failure() error {
	if err := p.wait(); err == nil {
		return nil
	}
	msg := strings.TrimSpace(p.stderr.String())
	if msg == "" {
		return errors.New("ffmpeg exited with an error")
	}
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = msg[i+1:]
	}
	return fmt.Errorf("ffmpeg: %s", msg)
}

// limitedBuffer keeps the last limit bytes written to it.
type limitedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Write(p)
	if over := b.buf.Len() - b.limit; over > 0 {
		b.buf.Next(over)
	}
	return len(p), nil
}

func (b *limitedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
