// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	goflac "github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audclip/audio"
)

var ErrNotFlacFile = fmt.Errorf("%w: not a FLAC stream", audio.ErrUnsupportedFormat)

// frameParser is the part of flac.Stream the package uses.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
}

// Decoder decodes FLAC through mewkiz/flac. Samples keep their depth,
// rounded up to whole bytes, and are written signed little-endian.
type Decoder struct{}

func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 4 && bytes.Equal(header[:4], []byte("fLaC"))
}

func (d Decoder) ReadFileFormat(r io.Reader) (*audio.FileFormat, error) {
	stream, err := open(r)
	if err != nil {
		return nil, err
	}

	return fileFormat(stream), nil
}

func (d Decoder) Decode(r io.Reader) (*audio.Stream, error) {
	stream, err := open(r)
	if err != nil {
		return nil, err
	}

	ff := fileFormat(stream)
	pr := newPCMReader(stream, ff.Format.Channels, int(stream.Info.BitsPerSample))
	return audio.NewStream(pr, ff.Format, ff.FrameLength), nil
}

func open(r io.Reader) (*goflac.Stream, error) {
	stream, err := goflac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotFlacFile, err)
	}
	if stream.Info == nil || stream.Info.NChannels == 0 || stream.Info.BitsPerSample == 0 {
		return nil, fmt.Errorf("%w: invalid STREAMINFO", ErrNotFlacFile)
	}

	return stream, nil
}

func fileFormat(stream *goflac.Stream) *audio.FileFormat {
	info := stream.Info

	frames := int64(info.NSamples)
	if frames == 0 {
		frames = audio.NotSpecified
	}

	return &audio.FileFormat{
		Type:       audio.FLAC,
		ByteLength: audio.NotSpecified,
		Format: audio.Format{
			Encoding:      audio.PCMSigned,
			SampleRate:    float64(info.SampleRate),
			BitsPerSample: containerBits(int(info.BitsPerSample)),
			Channels:      int(info.NChannels),
		},
		FrameLength:  frames,
		HeaderLength: audio.NotSpecified,
	}
}

func containerBits(bits int) int {
	return (bits + 7) / 8 * 8
}

// pcmReader interleaves decoded subframes into little-endian bytes.
type pcmReader struct {
	frames   frameParser
	channels int
	width    int // bytes per sample
	shift    uint
	buf      []byte
	out      []byte
	err      error
}

func newPCMReader(frames frameParser, channels, bits int) *pcmReader {
	container := containerBits(bits)
	return &pcmReader{
		frames:   frames,
		channels: channels,
		width:    container / 8,
		shift:    uint(container - bits),
	}
}

func (p *pcmReader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}

	if len(p.out) == 0 && p.err == nil {
		f, err := p.frames.ParseNext()
		if err != nil {
			p.err = err
		} else if err := p.fill(f); err != nil {
			p.err = err
		}
	}

	if len(p.out) > 0 {
		n := copy(b, p.out)
		p.out = p.out[n:]
		return n, nil
	}

	return 0, p.err
}

func (p *pcmReader) fill(f *frame.Frame) error {
	if len(f.Subframes) != p.channels {
		return fmt.Errorf("flac frame has %d channels, stream has %d", len(f.Subframes), p.channels)
	}

	n := int(f.BlockSize)
	size := n * p.channels * p.width
	if cap(p.buf) < size {
		p.buf = make([]byte, size)
	}
	p.buf = p.buf[:size]

	var tmp [4]byte
	at := 0
	for i := range n {
		for _, sub := range f.Subframes {
			binary.LittleEndian.PutUint32(tmp[:], uint32(sub.Samples[i]<<p.shift))
			at += copy(p.buf[at:at+p.width], tmp[:p.width])
		}
	}
	p.out = p.buf

	return nil
}
