package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oggPage builds a raw page. A packet whose last segment is 255 bytes long is
// left open for the next page, as the lacing rules require.
func oggPage(headerType uint8, serial, seq uint32, segments ...[]byte) []byte {
	var table []byte
	var body []byte
	for _, seg := range segments {
		for len(seg) >= 255 {
			table = append(table, 255)
			body = append(body, seg[:255]...)
			seg = seg[255:]
		}
		if len(seg) > 0 || len(table) == 0 || table[len(table)-1] == 255 {
			table = append(table, byte(len(seg)))
			body = append(body, seg...)
		}
	}
	return oggRawPage(headerType, serial, seq, table, body)
}

func oggRawPage(headerType uint8, serial, seq uint32, table, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("OggS")
	buf.WriteByte(0)
	buf.WriteByte(headerType)
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], 0)
	buf.Write(tmp[:])
	binary.LittleEndian.PutUint32(tmp[:4], serial)
	buf.Write(tmp[:4])
	binary.LittleEndian.PutUint32(tmp[:4], seq)
	buf.Write(tmp[:4])
	buf.Write([]byte{0, 0, 0, 0}) // checksum
	buf.WriteByte(byte(len(table)))
	buf.Write(table)
	buf.Write(body)
	return buf.Bytes()
}

func TestParseOggPageHeader(t *testing.T) {
	page := oggPage(oggFlagBOS, 7, 3, []byte("hello"))
	hdr, err := parseOggPageHeader(bytes.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, uint8(oggFlagBOS), hdr.HeaderType)
	assert.Equal(t, uint32(7), hdr.SerialNumber)
	assert.Equal(t, uint32(3), hdr.SequenceNum)
	assert.Equal(t, []uint8{5}, hdr.SegmentTable)
}

func TestParseOggPageHeader_Invalid(t *testing.T) {
	_, err := parseOggPageHeader(bytes.NewReader(bytes.Repeat([]byte("x"), 27)))
	assert.ErrorIs(t, err, errInvalidOggMagic)

	page := oggPage(0, 1, 0, []byte("a"))
	page[4] = 1
	_, err = parseOggPageHeader(bytes.NewReader(page))
	assert.ErrorIs(t, err, errInvalidOggVersion)
}

func TestOggPacketReader_Packets(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(oggPage(oggFlagBOS, 1, 0, []byte("ident")))
	stream.Write(oggPage(0, 1, 1, []byte("one"), []byte("two")))

	r := newOggPacketReader(&stream)
	pkt, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "ident", string(pkt.Data))
	assert.True(t, pkt.BOS)

	pkt, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "one", string(pkt.Data))
	assert.False(t, pkt.BOS)

	pkt, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "two", string(pkt.Data))

	_, err = r.Next()
	assert.True(t, errors.Is(err, io.EOF))
}

func TestOggPacketReader_SpansPages(t *testing.T) {
	big := bytes.Repeat([]byte{0xAB}, 300)

	var stream bytes.Buffer
	// First page ends with a 255-byte segment: the packet continues.
	stream.Write(oggRawPage(0, 1, 0, []byte{255}, big[:255]))
	stream.Write(oggRawPage(oggFlagContinued, 1, 1, []byte{45, 3}, append(append([]byte{}, big[255:]...), "end"...)))

	r := newOggPacketReader(&stream)
	r.skipContinued = false
	pkt, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, big, pkt.Data)

	pkt, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "end", string(pkt.Data))
}

func TestOggPacketReader_DropsFragmentWhenJoinedMidPacket(t *testing.T) {
	var stream bytes.Buffer
	stream.Write(oggRawPage(oggFlagContinued, 1, 9, []byte{4, 4}, []byte("tailnext")))

	r := newOggPacketReader(&stream)
	pkt, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "next", string(pkt.Data))
}

func TestDetectOggCodec_Unknown(t *testing.T) {
	_, err := detectOggCodec([]byte("\x7fFLAC"))
	assert.ErrorIs(t, err, errUnknownOggCodec)
}

func TestVorbisCodec_HeaderValidation(t *testing.T) {
	_, err := newVorbisCodec([]byte("\x01vorbis"))
	assert.ErrorIs(t, err, errInvalidVorbisHeader)

	ident := make([]byte, 30)
	ident[0] = 0x01
	copy(ident[1:], "vorbis")
	ident[11] = 2
	binary.LittleEndian.PutUint32(ident[12:], 44100)
	c, err := newVorbisCodec(ident)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Channels())
	assert.Equal(t, 44100, c.SampleRate())

	complete, err := c.AddHeaderPacket(nil)
	require.NoError(t, err)
	assert.False(t, complete)

	_, err = c.Decode([]byte{0}, make([]float32, 16))
	assert.ErrorIs(t, err, errVorbisNotReady)
}

func TestOpusCodec_HeaderValidation(t *testing.T) {
	_, err := newOpusCodec([]byte("OpusHead"))
	assert.ErrorIs(t, err, errInvalidOpusHead)

	head := make([]byte, 19)
	copy(head, "OpusHead")
	head[8] = 2
	_, err = newOpusCodec(head)
	assert.ErrorIs(t, err, errUnsupportedOpus)
}

func TestDecodeOgg_UnknownCodec(t *testing.T) {
	page := oggPage(oggFlagBOS, 1, 0, []byte("not a codec header"))
	_, _, err := decodeOgg(bytes.NewReader(page))
	assert.ErrorIs(t, err, errUnknownOggCodec)
}
