package player

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
)

// pcmStreamer reads interleaved signed 16-bit little-endian PCM and
// implements beep.Streamer. Mono input is duplicated to both channels.
type pcmStreamer struct {
	r        io.Reader
	channels int
	err      error
	readBuf  []byte
}

func newPCMStreamer(r io.Reader, channels int) *pcmStreamer {
	if channels < 1 {
		channels = 2
	}
	return &pcmStreamer{r: r, channels: channels, readBuf: make([]byte, 8192)}
}

// Stream reads audio samples into the provided buffer.
func (s *pcmStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.err != nil {
		return 0, false
	}

	frameBytes := 2 * s.channels
	bytesNeeded := len(samples) * frameBytes
	if len(s.readBuf) < bytesNeeded {
		s.readBuf = make([]byte, bytesNeeded)
	}

	bytesRead, err := io.ReadFull(s.r, s.readBuf[:bytesNeeded])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if !errors.Is(err, io.EOF) {
			s.err = err
		}
		return 0, false
	}

	frames := bytesRead / frameBytes
	for i := 0; i < frames; i++ {
		off := i * frameBytes
		left := float64(int16(binary.LittleEndian.Uint16(s.readBuf[off:]))) / 32768.0 //nolint:gosec // audio samples
		right := left
		if s.channels > 1 {
			right = float64(int16(binary.LittleEndian.Uint16(s.readBuf[off+2:]))) / 32768.0 //nolint:gosec // audio samples
		}
		samples[i][0] = left
		samples[i][1] = right
	}
	if frames == 0 {
		return 0, false
	}
	return frames, true
}

// Err returns any error that occurred during streaming.
func (s *pcmStreamer) Err() error {
	return s.err
}

var _ beep.Streamer = (*pcmStreamer)(nil)
