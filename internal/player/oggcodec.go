package player

import (
	"encoding/binary"
	"errors"

	"github.com/jfreymuth/vorbis"
	"github.com/jj11hh/opus"
)

const opusSampleRate = 48000

var (
	errUnknownOggCodec      = errors.New("ogg: unknown codec (not Opus or Vorbis)")
	errInvalidOpusHead      = errors.New("opus: invalid OpusHead packet")
	errUnsupportedOpus      = errors.New("opus: unsupported version")
	errInvalidVorbisHeader  = errors.New("vorbis: invalid identification header")
	errVorbisNotReady       = errors.New("vorbis: decoder not initialized (headers incomplete)")
	errVorbisBufferTooSmall = errors.New("vorbis: output buffer too small")
)

// oggCodec decodes the packets of one logical Ogg bitstream.
type oggCodec interface {
	SampleRate() int
	Channels() int
	// PreSkip is the number of samples to drop at stream start.
	PreSkip() int
	// AddHeaderPacket feeds a header packet and reports whether all headers
	// have been received.
	AddHeaderPacket(packet []byte) (complete bool, err error)
	// Decode decodes a packet into interleaved PCM and returns samples per channel.
	Decode(packet []byte, pcm []float32) (int, error)
}

// detectOggCodec builds a codec from the first packet of a bitstream.
func detectOggCodec(firstPacket []byte) (oggCodec, error) {
	if len(firstPacket) >= 8 && string(firstPacket[:8]) == "OpusHead" {
		return newOpusCodec(firstPacket)
	}
	if len(firstPacket) >= 7 && firstPacket[0] == 0x01 && string(firstPacket[1:7]) == "vorbis" {
		return newVorbisCodec(firstPacket)
	}
	return nil, errUnknownOggCodec
}

type opusCodec struct {
	decoder  *opus.Decoder
	channels int
	preSkip  int
	// opus sends OpusTags after OpusHead
	tagsSeen bool
}

func newOpusCodec(packet []byte) (*opusCodec, error) {
	if len(packet) < 19 {
		return nil, errInvalidOpusHead
	}
	if packet[8] != 1 {
		return nil, errUnsupportedOpus
	}

	channels := int(packet[9])
	decoder, err := opus.NewDecoder(opusSampleRate, channels)
	if err != nil {
		return nil, err
	}
	return &opusCodec{
		decoder:  decoder,
		channels: channels,
		preSkip:  int(binary.LittleEndian.Uint16(packet[10:12])),
	}, nil
}

// SampleRate returns 48000: Opus always decodes at 48kHz.
func (c *opusCodec) SampleRate() int { return opusSampleRate }

func (c *opusCodec) Channels() int { return c.channels }

func (c *opusCodec) PreSkip() int { return c.preSkip }

func (c *opusCodec) AddHeaderPacket(packet []byte) (bool, error) {
	if packet != nil && !c.tagsSeen {
		c.tagsSeen = true
	}
	return c.tagsSeen, nil
}

func (c *opusCodec) Decode(packet []byte, pcm []float32) (int, error) {
	return c.decoder.DecodeFloat32(packet, pcm)
}

type vorbisCodec struct {
	decoder       *vorbis.Decoder
	channels      int
	sampleRate    int
	headerPackets [][]byte
}

func newVorbisCodec(packet []byte) (*vorbisCodec, error) {
	// [0] type, [1:7] "vorbis", [7:11] version, [11] channels, [12:16] rate
	if len(packet) < 16 {
		return nil, errInvalidVorbisHeader
	}
	if binary.LittleEndian.Uint32(packet[7:11]) != 0 {
		return nil, errInvalidVorbisHeader
	}

	ident := make([]byte, len(packet))
	copy(ident, packet)
	return &vorbisCodec{
		channels:      int(packet[11]),
		sampleRate:    int(binary.LittleEndian.Uint32(packet[12:16])),
		headerPackets: [][]byte{ident},
	}, nil
}

func (c *vorbisCodec) SampleRate() int { return c.sampleRate }

func (c *vorbisCodec) Channels() int { return c.channels }

func (c *vorbisCodec) PreSkip() int { return 0 }

// AddHeaderPacket collects the comment and setup headers, then initializes
// the decoder.
func (c *vorbisCodec) AddHeaderPacket(packet []byte) (bool, error) {
	if c.decoder != nil {
		return true, nil
	}
	if packet != nil {
		hdr := make([]byte, len(packet))
		copy(hdr, packet)
		c.headerPackets = append(c.headerPackets, hdr)
	}
	if len(c.headerPackets) < 3 {
		return false, nil
	}

	decoder := &vorbis.Decoder{}
	for _, hdr := range c.headerPackets {
		if err := decoder.ReadHeader(hdr); err != nil {
			return false, err
		}
	}
	c.decoder = decoder
	c.headerPackets = nil
	return true, nil
}

func (c *vorbisCodec) Decode(packet []byte, pcm []float32) (int, error) {
	if c.decoder == nil {
		return 0, errVorbisNotReady
	}
	samples, err := c.decoder.Decode(packet)
	if err != nil {
		return 0, err
	}
	if len(pcm) < len(samples) {
		return 0, errVorbisBufferTooSmall
	}
	n := copy(pcm, samples)
	return n / c.channels, nil
}
