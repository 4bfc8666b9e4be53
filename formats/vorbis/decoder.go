// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/utils"
)

var ErrNotVorbisFile = fmt.Errorf("%w: not an Ogg Vorbis stream", audio.ErrUnsupportedFormat)

const outBits = 16

// oggReader is the part of oggvorbis.Reader the package uses.
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

// Decoder decodes Ogg Vorbis through jfreymuth/oggvorbis.
type Decoder struct{}

func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 4 && bytes.Equal(header[:4], []byte("OggS"))
}

func (d Decoder) ReadFileFormat(r io.Reader) (*audio.FileFormat, error) {
	dec, err := open(r)
	if err != nil {
		return nil, err
	}

	return fileFormat(dec), nil
}

// Decode returns the stream as 16-bit little-endian PCM.
func (d Decoder) Decode(r io.Reader) (*audio.Stream, error) {
	dec, err := open(r)
	if err != nil {
		return nil, err
	}

	ff := fileFormat(dec)
	return audio.NewStream(newPCMReader(dec), ff.Format, ff.FrameLength), nil
}

func open(r io.Reader) (*oggvorbis.Reader, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotVorbisFile, err)
	}

	return dec, nil
}

func fileFormat(dec oggReader) *audio.FileFormat {
	// oggvorbis reports zero when the input cannot seek.
	frames := dec.Length()
	if frames <= 0 {
		frames = audio.NotSpecified
	}

	return &audio.FileFormat{
		Type:       audio.Vorbis,
		ByteLength: audio.NotSpecified,
		Format: audio.Format{
			Encoding:      audio.PCMSigned,
			SampleRate:    float64(dec.SampleRate()),
			BitsPerSample: outBits,
			Channels:      dec.Channels(),
		},
		FrameLength:  frames,
		HeaderLength: audio.NotSpecified,
	}
}

// pcmReader turns decoded float samples into 16-bit little-endian bytes.
type pcmReader struct {
	dec     oggReader
	samples []float32
	buf     []byte
	out     []byte
	err     error
}

func newPCMReader(dec oggReader) *pcmReader {
	return &pcmReader{
		dec:     dec,
		samples: make([]float32, 4096*dec.Channels()),
	}
}

func (p *pcmReader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	if len(p.out) == 0 && p.err == nil {
		n, err := p.dec.Read(p.samples)
		p.err = err

		if cap(p.buf) < 2*n {
			p.buf = make([]byte, 2*n)
		}
		p.buf = p.buf[:2*n]
		for i, v := range p.samples[:n] {
			binary.LittleEndian.PutUint16(p.buf[2*i:], uint16(utils.Float32ToInt16(v)))
		}
		p.out = p.buf
	}

	if len(p.out) > 0 {
		n := copy(b, p.out)
		p.out = p.out[n:]
		return n, nil
	}

	return 0, p.err
}
