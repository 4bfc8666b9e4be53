// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audclip/audio"
)

const extensibleFormat = 0xFFFE

// Decoder reads RIFF/WAVE files through go-audio/wav. go-audio needs to
// seek, so input that is not an io.ReadSeeker is read into memory first.
type Decoder struct{}

func (Decoder) Sniff(header []byte) bool {
	return len(header) >= 12 &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

// ReadFileFormat parses the header and leaves r positioned at the first
// sample byte when r is seekable.
func (d Decoder) ReadFileFormat(r io.Reader) (*audio.FileFormat, error) {
	ff, _, err := d.open(r)
	return ff, err
}

func (d Decoder) Decode(r io.Reader) (*audio.Stream, error) {
	ff, data, err := d.open(r)
	if err != nil {
		return nil, err
	}

	return audio.NewStream(data, ff.Format, ff.FrameLength), nil
}

func (d Decoder) open(r io.Reader) (*audio.FileFormat, io.Reader, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		b, err := io.ReadAll(r)
		if err != nil {
			return nil, nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(b)
	}

	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, nil, fmt.Errorf("locating wav header: %w", err)
	}

	var hdr [12]byte
	if _, err := io.ReadFull(rs, hdr[:]); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if !d.Sniff(hdr[:]) {
		return nil, nil, ErrNotWavFile
	}
	if _, err := rs.Seek(start, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("rewinding wav header: %w", err)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if dec.NumChans == 0 {
		return nil, nil, fmt.Errorf("%w: missing fmt chunk", ErrNotWavFile)
	}

	format, err := sampleFormat(dec)
	if err != nil {
		return nil, nil, err
	}

	if err := dec.FwdToPCM(); err != nil || dec.PCMChunk == nil {
		return nil, nil, ErrMissingData
	}

	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, nil, fmt.Errorf("locating wav data: %w", err)
	}

	// go-audio rounds odd chunk sizes up to the pad byte, so the stored
	// length is read back from the chunk header.
	var size [4]byte
	if _, err := rs.Seek(pos-4, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("reading data length: %w", err)
	}
	if _, err := io.ReadFull(rs, size[:]); err != nil {
		return nil, nil, fmt.Errorf("reading data length: %w", err)
	}
	dataLen := int64(binary.LittleEndian.Uint32(size[:]))

	ff := &audio.FileFormat{
		Type:         audio.WAVE,
		ByteLength:   int64(binary.LittleEndian.Uint32(hdr[4:8])) + 8,
		Format:       format,
		FrameLength:  dataLen / int64(format.FrameSize()),
		HeaderLength: pos - start,
	}

	return ff, dec.PCMChunk, nil
}

func sampleFormat(dec *gowav.Decoder) (audio.Format, error) {
	gf := dec.Format()
	f := audio.Format{
		SampleRate:    float64(gf.SampleRate),
		BitsPerSample: int(dec.BitDepth),
		Channels:      gf.NumChannels,
	}

	switch dec.WavAudioFormat {
	case FormatPCM, extensibleFormat:
		f.Encoding = audio.PCMSigned
		if f.BitsPerSample <= 8 {
			f.Encoding = audio.PCMUnsigned
		}
	case FormatFloat:
		f.Encoding = audio.PCMFloat
	case FormatALaw:
		f.Encoding = audio.ALaw
		f.BitsPerSample = 8
	case FormatULaw:
		f.Encoding = audio.ULaw
		f.BitsPerSample = 8
	default:
		return f, fmt.Errorf("%w: format code %d", ErrUnsupportedWavEncoding, dec.WavAudioFormat)
	}

	if f.BitsPerSample < 1 || f.BitsPerSample > 64 || f.SampleRate <= 0 {
		return f, fmt.Errorf("%w: %d bits at %v Hz", ErrUnsupportedWavEncoding, f.BitsPerSample, f.SampleRate)
	}

	return f, nil
}
