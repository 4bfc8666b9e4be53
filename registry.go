// SPDX-License-Identifier: EPL-2.0

package audclip

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/formats/aiff"
	"github.com/ik5/audclip/formats/au"
	"github.com/ik5/audclip/formats/flac"
	"github.com/ik5/audclip/formats/mp3"
	"github.com/ik5/audclip/formats/vorbis"
	"github.com/ik5/audclip/formats/wav"
)

// ErrUnknownFormat is returned when no registered decoder accepts the
// leading bytes of the input.
var ErrUnknownFormat = fmt.Errorf("%w: no decoder recognizes the input", audio.ErrUnsupportedFormat)

// NewRegistry returns a registry holding every decoder of this module. The
// sampled containers are tried before the compressed formats.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("aiff", aiff.Decoder{})
	r.Register("au", au.Decoder{})
	r.Register("wav", wav.Decoder{})
	r.Register("flac", flac.Decoder{})
	r.Register("vorbis", vorbis.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	return r
}

// LoadAndAnalyze detects the container of r and parses its header.
func LoadAndAnalyze(r io.Reader) (*audio.FileFormat, error) {
	_, d, r, err := detect(NewRegistry(), r)
	if err != nil {
		return nil, err
	}
	return d.ReadFileFormat(r)
}

// Decode detects the container of r and returns its payload as stored,
// without conversion.
func Decode(r io.Reader) (*audio.Stream, error) {
	_, d, r, err := detect(NewRegistry(), r)
	if err != nil {
		return nil, err
	}
	return d.Decode(r)
}

// detect sniffs the first audio.SniffLen bytes of r. The returned reader
// starts at the same byte r did: a seeker is moved back, anything else is
// buffered.
func detect(reg *audio.Registry, r io.Reader) (string, audio.Decoder, io.Reader, error) {
	var header []byte

	if rs, ok := r.(io.ReadSeeker); ok {
		start, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return "", nil, nil, fmt.Errorf("locating input: %w", err)
		}

		buf := make([]byte, audio.SniffLen)
		n, err := io.ReadFull(rs, buf)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return "", nil, nil, fmt.Errorf("reading file header: %w", err)
		}
		header = buf[:n]

		if _, err := rs.Seek(start, io.SeekStart); err != nil {
			return "", nil, nil, fmt.Errorf("rewinding input: %w", err)
		}
	} else {
		br := bufio.NewReader(r)
		var err error
		header, err = br.Peek(audio.SniffLen)
		if err != nil && !errors.Is(err, io.EOF) {
			return "", nil, nil, fmt.Errorf("reading file header: %w", err)
		}
		r = br
	}

	name, d, ok := reg.Detect(header)
	if !ok {
		return "", nil, nil, ErrUnknownFormat
	}

	return name, d, r, nil
}
