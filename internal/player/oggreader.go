package player

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

var (
	errInvalidOggMagic   = errors.New("ogg: invalid capture pattern")
	errInvalidOggVersion = errors.New("ogg: unsupported version")
)

const (
	oggFlagContinued = 0x01
	oggFlagBOS       = 0x02
)

// oggPageHeader represents the header of an Ogg page.
type oggPageHeader struct {
	HeaderType   uint8
	GranulePos   int64
	SerialNumber uint32
	SequenceNum  uint32
	SegmentTable []uint8
}

// parseOggPageHeader reads and parses an Ogg page header from the reader.
func parseOggPageHeader(r io.Reader) (*oggPageHeader, error) {
	var buf [27]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}

	if string(buf[0:4]) != "OggS" {
		return nil, errInvalidOggMagic
	}
	if buf[4] != 0 {
		return nil, errInvalidOggVersion
	}

	hdr := &oggPageHeader{
		HeaderType:   buf[5],
		GranulePos:   int64(binary.LittleEndian.Uint64(buf[6:14])), //nolint:gosec // granule is signed on the wire
		SerialNumber: binary.LittleEndian.Uint32(buf[14:18]),
		SequenceNum:  binary.LittleEndian.Uint32(buf[18:22]),
	}

	if n := int(buf[26]); n > 0 {
		hdr.SegmentTable = make([]uint8, n)
		if _, err := io.ReadFull(r, hdr.SegmentTable); err != nil {
			return nil, err
		}
	}
	return hdr, nil
}

// oggPacket is one reassembled packet. BOS marks the first packet of a
// logical bitstream, which a chained live stream repeats on every track.
type oggPacket struct {
	Data []byte
	BOS  bool
}

// oggPacketReader reassembles packets from a forward-only page stream.
type oggPacketReader struct {
	r       *bufio.Reader
	pending []oggPacket
	partial []byte
	// skipContinued drops a continued packet when the stream was joined mid-packet.
	skipContinued bool
}

func newOggPacketReader(r io.Reader) *oggPacketReader {
	return &oggPacketReader{r: bufio.NewReaderSize(r, 64<<10), skipContinued: true}
}

// Next returns the next complete packet.
func (p *oggPacketReader) Next() (oggPacket, error) {
	for len(p.pending) == 0 {
		if err := p.readPage(); err != nil {
			return oggPacket{}, err
		}
	}
	pkt := p.pending[0]
	p.pending = p.pending[1:]
	return pkt, nil
}

func (p *oggPacketReader) readPage() error {
	hdr, err := parseOggPageHeader(p.r)
	if err != nil {
		return err
	}

	bodyLen := 0
	for _, s := range hdr.SegmentTable {
		bodyLen += int(s)
	}
	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(p.r, body); err != nil {
		return err
	}

	bos := hdr.HeaderType&oggFlagBOS != 0
	continued := hdr.HeaderType&oggFlagContinued != 0
	if !continued {
		p.partial = nil
	}
	dropFirst := continued && p.partial == nil && p.skipContinued
	p.skipContinued = false

	off := 0
	var cur []byte
	if continued {
		cur = p.partial
	}
	for _, seg := range hdr.SegmentTable {
		cur = append(cur, body[off:off+int(seg)]...)
		off += int(seg)
		if seg < 255 {
			if dropFirst {
				dropFirst = false
			} else {
				p.pending = append(p.pending, oggPacket{Data: cur, BOS: bos})
			}
			bos = false
			cur = nil
		}
	}
	p.partial = cur
	return nil
}
