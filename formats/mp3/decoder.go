// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audclip/audio"
)

var ErrNotMp3File = fmt.Errorf("%w: not an MP3 stream", audio.ErrUnsupportedFormat)

// go-mp3 always produces 16-bit little-endian stereo.
const (
	outChannels = 2
	outBits     = 16
)

// mp3Reader is the part of gomp3.Decoder the package uses.
type mp3Reader interface {
	io.Reader
	SampleRate() int
	Length() int64
}

// Decoder decodes MPEG audio through go-mp3. Mono files are upmixed to
// stereo by the library.
type Decoder struct{}

// Sniff accepts an ID3v2 tag or an MPEG frame sync with a valid layer.
func (Decoder) Sniff(header []byte) bool {
	if len(header) >= 3 && bytes.Equal(header[:3], []byte("ID3")) {
		return true
	}

	return len(header) >= 2 &&
		header[0] == 0xFF &&
		header[1]&0xE0 == 0xE0 &&
		header[1]&0x06 != 0
}

func (d Decoder) ReadFileFormat(r io.Reader) (*audio.FileFormat, error) {
	dec, err := open(r)
	if err != nil {
		return nil, err
	}

	return fileFormat(dec), nil
}

// Decode returns the decoded PCM. When r is not seekable the frame length
// is unknown.
func (d Decoder) Decode(r io.Reader) (*audio.Stream, error) {
	dec, err := open(r)
	if err != nil {
		return nil, err
	}

	ff := fileFormat(dec)
	return audio.NewStream(dec, ff.Format, ff.FrameLength), nil
}

func open(r io.Reader) (*gomp3.Decoder, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMp3File, err)
	}

	return dec, nil
}

func fileFormat(dec mp3Reader) *audio.FileFormat {
	f := audio.Format{
		Encoding:      audio.PCMSigned,
		SampleRate:    float64(dec.SampleRate()),
		BitsPerSample: outBits,
		Channels:      outChannels,
	}

	frames := audio.NotSpecified
	if n := dec.Length(); n >= 0 {
		frames = n / int64(f.FrameSize())
	}

	return &audio.FileFormat{
		Type:         audio.MP3,
		ByteLength:   audio.NotSpecified,
		Format:       f,
		FrameLength:  frames,
		HeaderLength: audio.NotSpecified,
	}
}
