package player

import (
	"context"

	"github.com/gopxl/beep/v2"
)

const (
	chunkSize     = 2048
	queueCapacity = 32 // about 1.5s at 44.1kHz
)

var _ beep.Streamer = (*sampleQueue)(nil)

// sampleQueue decouples the network-bound decode pump from the speaker.
// The pump blocks when the queue is full; the speaker never blocks and plays
// silence while the queue is empty.
type sampleQueue struct {
	chunks chan [][2]float64
	cur    [][2]float64
}

func newSampleQueue(capacity int) *sampleQueue {
	return &sampleQueue{chunks: make(chan [][2]float64, capacity)}
}

// push enqueues a chunk. The queue keeps the slice; callers must not reuse it.
func (q *sampleQueue) push(ctx context.Context, chunk [][2]float64) error {
	select {
	case q.chunks <- chunk:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stream implements beep.Streamer. It always fills the buffer.
func (q *sampleQueue) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		if len(q.cur) == 0 {
			select {
			case q.cur = <-q.chunks:
				continue
			default:
			}
			clear(samples[filled:])
			break
		}
		n := copy(samples[filled:], q.cur)
		q.cur = q.cur[n:]
		filled += n
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (q *sampleQueue) Err() error { return nil }

// buffered returns the number of queued chunks.
func (q *sampleQueue) buffered() int {
	return len(q.chunks)
}
