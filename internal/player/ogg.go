package player

import (
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
)

// maxOggFrame is the largest decoded frame per channel (120ms Opus at 48kHz).
const maxOggFrame = 5760

// decodeOgg decodes a live Ogg stream carrying Opus or Vorbis. Chained
// streams (a new logical bitstream per track, as Icecast sends them) are
// followed as long as the sample rate stays the same.
func decodeOgg(r io.Reader) (beep.Streamer, beep.Format, error) {
	packets := newOggPacketReader(r)

	first, err := packets.Next()
	if err != nil {
		return nil, beep.Format{}, err
	}
	codec, err := readOggHeaders(packets, first.Data)
	if err != nil {
		return nil, beep.Format{}, err
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.SampleRate()),
		NumChannels: 2,
		Precision:   2,
	}
	d := &oggStreamer{
		packets: packets,
		codec:   codec,
		skip:    codec.PreSkip(),
		rate:    codec.SampleRate(),
	}
	d.pcm = make([]float32, maxOggFrame*max(codec.Channels(), 2))
	return d, format, nil
}

// readOggHeaders detects the codec from the identification packet and feeds
// the remaining header packets.
func readOggHeaders(packets *oggPacketReader, ident []byte) (oggCodec, error) {
	codec, err := detectOggCodec(ident)
	if err != nil {
		return nil, err
	}
	complete, err := codec.AddHeaderPacket(nil)
	for err == nil && !complete {
		var pkt oggPacket
		if pkt, err = packets.Next(); err != nil {
			break
		}
		complete, err = codec.AddHeaderPacket(pkt.Data)
	}
	if err != nil {
		return nil, err
	}
	return codec, nil
}

// oggStreamer implements beep.Streamer over an oggPacketReader.
type oggStreamer struct {
	packets *oggPacketReader
	codec   oggCodec
	rate    int
	skip    int

	pcm    []float32
	pcmLen int
	pcmPos int
	err    error
}

// Stream reads audio samples into the provided buffer.
func (d *oggStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if d.err != nil {
		return 0, false
	}

	channels := d.codec.Channels()
	for n < len(samples) {
		if d.pcmPos < d.pcmLen {
			for n < len(samples) && d.pcmPos < d.pcmLen {
				left := float64(d.pcm[d.pcmPos])
				right := left
				if channels >= 2 {
					right = float64(d.pcm[d.pcmPos+1])
				}
				d.pcmPos += channels
				if d.skip > 0 {
					d.skip--
					continue
				}
				samples[n][0] = left
				samples[n][1] = right
				n++
			}
			continue
		}

		pkt, err := d.packets.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.err = err
			}
			return n, n > 0
		}
		if pkt.BOS {
			if err := d.chain(pkt.Data); err != nil {
				d.err = err
				return n, n > 0
			}
			channels = d.codec.Channels()
			continue
		}

		spc, err := d.codec.Decode(pkt.Data, d.pcm)
		if err != nil {
			continue // skip invalid packets
		}
		d.pcmLen = spc * channels
		d.pcmPos = 0
	}
	return n, true
}

// chain switches to the next logical bitstream.
func (d *oggStreamer) chain(ident []byte) error {
	codec, err := readOggHeaders(d.packets, ident)
	if err != nil {
		return err
	}
	if codec.SampleRate() != d.rate {
		return fmt.Errorf("ogg: sample rate changed from %d to %d", d.rate, codec.SampleRate())
	}
	d.codec = codec
	d.skip = codec.PreSkip()
	d.pcmLen, d.pcmPos = 0, 0
	if need := maxOggFrame * codec.Channels(); len(d.pcm) < need {
		d.pcm = make([]float32, need)
	}
	return nil
}

// Err returns any error that occurred during streaming.
func (d *oggStreamer) Err() error { return d.err }
