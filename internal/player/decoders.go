package player

import (
	"errors"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/llehouerou/go-mp3"

	"github.com/llehouerou/airwaves/internal/stream"
)

type decodeFunc func(io.Reader) (beep.Streamer, beep.Format, error)

// nativeDecoders are the codecs decoded in-process. Every other kind is
// piped through ffmpeg.
var nativeDecoders = map[stream.Kind]decodeFunc{
	stream.KindMP3:  decodeMP3,
	stream.KindFLAC: decodeFLAC,
	stream.KindOgg:  decodeOgg,
	stream.KindOpus: decodeOgg,
}

// decodeMP3 always yields 16-bit stereo, whatever the stream's channel
// count.
func decodeMP3(r io.Reader) (beep.Streamer, beep.Format, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if dec.SampleRate() <= 0 {
		return nil, beep.Format{}, errors.New("mp3: no sample rate in first frame")
	}
	format := beep.Format{SampleRate: beep.SampleRate(dec.SampleRate()), NumChannels: 2, Precision: 2}
	return newPCMStreamer(dec, 2), format, nil
}

func decodeFLAC(r io.Reader) (beep.Streamer, beep.Format, error) {
	s, format, err := flac.Decode(r)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return s, format, nil
}
