package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// outputSampleRate is the speaker rate. Sources at other rates are resampled.
const outputSampleRate = beep.SampleRate(44100)

// output is the process-wide speaker sink. The speaker plays one long-lived
// chain and decoders swap their sample queue in and out of it.
type output struct {
	once    sync.Once
	initErr error
	source  *queueSwitch
	volume  *effects.Volume
}

// queueSwitch streams from the attached queue, or silence when none is.
type queueSwitch struct {
	q *sampleQueue
}

func (s *queueSwitch) Stream(samples [][2]float64) (int, bool) {
	if s.q == nil {
		clear(samples)
		return len(samples), true
	}
	return s.q.Stream(samples)
}

func (s *queueSwitch) Err() error { return nil }

func (o *output) init() error {
	o.once.Do(func() {
		o.source = &queueSwitch{}
		o.volume = &effects.Volume{Streamer: o.source, Base: 2}
		if err := speaker.Init(outputSampleRate, outputSampleRate.N(time.Second/10)); err != nil {
			o.initErr = err
			return
		}
		speaker.Play(o.volume)
	})
	return o.initErr
}

func (o *output) ready() bool {
	return o.volume != nil && o.initErr == nil
}

func (o *output) attach(q *sampleQueue) {
	if !o.ready() {
		return
	}
	speaker.Lock()
	o.source.q = q
	speaker.Unlock()
}

func (o *output) detach(q *sampleQueue) {
	if !o.ready() {
		return
	}
	speaker.Lock()
	if o.source.q == q {
		o.source.q = nil
	}
	speaker.Unlock()
}

func (o *output) setVolume(level float64) {
	if !o.ready() {
		return
	}
	vol, silent := levelToVolume(level)
	speaker.Lock()
	o.volume.Volume = vol
	o.volume.Silent = silent
	speaker.Unlock()
}
