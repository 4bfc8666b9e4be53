// SPDX-License-Identifier: EPL-2.0

package au

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audclip/audio"
)

// HeaderSize is the length of the fixed AU header.
const HeaderSize = 24

var (
	magic         = []byte(".snd")
	reversedMagic = []byte("dns.")
)

// unknownSize is the data size written by producers that stream.
const unknownSize = 0xFFFFFFFF

// Encoding codes from the Sun/NeXT header.
const (
	EncodingULaw     = 1
	EncodingLinear8  = 2
	EncodingLinear16 = 3
	EncodingLinear24 = 4
	EncodingLinear32 = 5
	EncodingFloat32  = 6
	EncodingALaw     = 27
)

var encodings = map[uint32]struct {
	encoding audio.Encoding
	bits     int
}{
	EncodingULaw:     {audio.ULaw, 8},
	EncodingLinear8:  {audio.PCMSigned, 8},
	EncodingLinear16: {audio.PCMSigned, 16},
	EncodingLinear24: {audio.PCMSigned, 24},
	EncodingLinear32: {audio.PCMSigned, 32},
	EncodingFloat32:  {audio.PCMFloat, 32},
	EncodingALaw:     {audio.ALaw, 8},
}

// Decoder reads Sun/NeXT AU files. Files that store the magic byte-reversed
// are little-endian throughout.
type Decoder struct{}

func (Decoder) Sniff(header []byte) bool {
	if len(header) < 4 {
		return false
	}

	return bytes.Equal(header[:4], magic) || bytes.Equal(header[:4], reversedMagic)
}

// ReadFileFormat parses the header and skips any annotation that follows
// it, leaving r at the first sample byte.
func (Decoder) ReadFileFormat(r io.Reader) (*audio.FileFormat, error) {
	return readHeader(r)
}

func (Decoder) Decode(r io.Reader) (*audio.Stream, error) {
	ff, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	return audio.NewStream(r, ff.Format, ff.FrameLength), nil
}

func readHeader(r io.Reader) (*audio.FileFormat, error) {
	var b [HeaderSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAuFile, err)
	}

	if !(Decoder{}).Sniff(b[:]) {
		return nil, ErrNotAuFile
	}

	bigEndian := bytes.Equal(b[0:4], magic)
	var order binary.ByteOrder = binary.LittleEndian
	if bigEndian {
		order = binary.BigEndian
	}

	headerSize := int64(order.Uint32(b[4:8]))
	dataSize := order.Uint32(b[8:12])
	code := order.Uint32(b[12:16])
	rate := int32(order.Uint32(b[16:20]))
	channels := int32(order.Uint32(b[20:24]))

	enc, ok := encodings[code]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEncoding, code)
	}
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}
	if rate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if headerSize < HeaderSize {
		return nil, ErrInvalidHeaderSize
	}

	format := audio.Format{
		Encoding:      enc.encoding,
		SampleRate:    float64(rate),
		BitsPerSample: enc.bits,
		Channels:      int(channels),
		BigEndian:     bigEndian,
	}

	ff := &audio.FileFormat{
		Type:         audio.AU,
		ByteLength:   audio.NotSpecified,
		Format:       format,
		FrameLength:  audio.NotSpecified,
		HeaderLength: headerSize,
	}
	if dataSize != unknownSize && int32(dataSize) >= 0 {
		ff.ByteLength = headerSize + int64(dataSize)
		ff.FrameLength = int64(dataSize) / int64(format.FrameSize())
	}

	if skip := headerSize - HeaderSize; skip > 0 {
		if _, err := io.CopyN(io.Discard, r, skip); err != nil {
			return nil, fmt.Errorf("skipping AU annotation: %w", err)
		}
	}

	return ff, nil
}
