// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/utils"
)

var (
	formID = []byte("FORM")
	aiffID = []byte("AIFF")
	aifcID = []byte("AIFC")
)

const (
	fverID = "FVER"
	commID = "COMM"
	ssndID = "SSND"
)

// compressions maps AIFF-C compression types to sample encodings. A zero
// bits value keeps the depth declared in COMM.
var compressions = map[string]struct {
	encoding  audio.Encoding
	bits      int
	bigEndian bool
}{
	"NONE": {audio.PCMSigned, 0, true},
	"twos": {audio.PCMSigned, 0, true},
	"sowt": {audio.PCMSigned, 0, false},
	"fl32": {audio.PCMFloat, 32, true},
	"FL32": {audio.PCMFloat, 32, true},
	"ulaw": {audio.ULaw, 8, true},
	"ULAW": {audio.ULaw, 8, true},
	"alaw": {audio.ALaw, 8, true},
	"ALAW": {audio.ALaw, 8, true},
}

// chunkCursor is the parse state carried across chunks.
type chunkCursor struct {
	consumed   int64
	aifc       bool
	soundFound bool
}

func (c *chunkCursor) skip(r io.Reader, n int64) error {
	if n <= 0 {
		return nil
	}

	skipped, err := io.CopyN(io.Discard, r, n)
	c.consumed += skipped
	return err
}

// Decoder reads AIFF and AIFF-C files. Samples are passed through in the
// file's own encoding; use codec.ToPCM to get little-endian PCM.
type Decoder struct{}

// Sniff reports whether header starts with FORM followed by AIFF or AIFC.
func (Decoder) Sniff(header []byte) bool {
	if len(header) < 12 || !bytes.Equal(header[0:4], formID) {
		return false
	}

	return bytes.Equal(header[8:12], aiffID) || bytes.Equal(header[8:12], aifcID)
}

// ReadFileFormat parses the header and leaves r positioned at the first
// sample byte.
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
	var hdr [12]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAiffFile, err)
	}
	if !(Decoder{}).Sniff(hdr[:]) {
		return nil, ErrNotAiffFile
	}

	declared := int64(int32(binary.BigEndian.Uint32(hdr[4:8])))
	cur := chunkCursor{
		consumed: 12,
		aifc:     bytes.Equal(hdr[8:12], aifcID),
	}

	var (
		format     *audio.Format
		dataLength int64 = audio.NotSpecified
	)

	for !cur.soundFound {
		var ch [8]byte
		if _, err := io.ReadFull(r, ch[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("reading chunk header: %w", err)
		}
		cur.consumed += 8

		id := string(ch[0:4])
		chunkLen := int64(int32(binary.BigEndian.Uint32(ch[4:8])))
		var read int64

		switch id {
		case fverID:
		case commID:
			f, n, err := readComm(r, chunkLen, cur.aifc)
			cur.consumed += n
			if err != nil {
				return nil, err
			}
			read = n
			format = f
		case ssndID:
			var ss [8]byte
			if _, err := io.ReadFull(r, ss[:]); err != nil {
				return nil, fmt.Errorf("reading SSND chunk: %w", err)
			}
			cur.consumed += 8
			cur.soundFound = true

			if chunkLen < declared {
				dataLength = chunkLen - 8
			} else {
				dataLength = declared - cur.consumed
			}

			if offset := int64(binary.BigEndian.Uint32(ss[0:4])); offset > 0 {
				if err := cur.skip(r, offset); err != nil {
					return nil, fmt.Errorf("skipping SSND offset: %w", err)
				}
				dataLength -= offset
			}

			continue
		}

		// Chunks are padded to an even length.
		if err := cur.skip(r, chunkLen-read+chunkLen&1); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("skipping %q chunk: %w", id, err)
		}
	}

	if format == nil {
		return nil, ErrMissingComm
	}

	ff := &audio.FileFormat{
		Type:         audio.AIFF,
		ByteLength:   audio.NotSpecified,
		Format:       *format,
		FrameLength:  audio.NotSpecified,
		HeaderLength: cur.consumed,
	}
	if cur.aifc {
		ff.Type = audio.AIFC
	}
	if declared > 0 {
		ff.ByteLength = declared + 8
		if cur.soundFound && dataLength >= 0 {
			ff.FrameLength = dataLength / int64(format.FrameSize())
		}
	}

	return ff, nil
}

// readComm parses a COMM chunk body and returns the number of bytes read.
func readComm(r io.Reader, chunkLen int64, aifc bool) (*audio.Format, int64, error) {
	if (!aifc && chunkLen < 18) || (aifc && chunkLen < 22) {
		return nil, 0, ErrInvalidCommSize
	}

	var b [22]byte
	size := 18
	if aifc {
		size = 22
	}
	if _, err := io.ReadFull(r, b[:size]); err != nil {
		return nil, 0, fmt.Errorf("reading COMM chunk: %w", err)
	}

	channels := int(binary.BigEndian.Uint16(b[0:2]))
	if channels <= 0 {
		return nil, int64(size), ErrInvalidChannels
	}

	// b[2:6] holds the frame count; the SSND length is used instead.
	bits := int(binary.BigEndian.Uint16(b[6:8]))
	if bits < 1 || bits > 32 {
		return nil, int64(size), ErrInvalidBitDepth
	}

	f := &audio.Format{
		Encoding:      audio.PCMSigned,
		SampleRate:    utils.DecodeExtended([utils.ExtendedSize]byte(b[8:18])),
		BitsPerSample: bits,
		Channels:      channels,
		BigEndian:     true,
	}

	if aifc {
		tag := string(b[18:22])
		c, ok := compressions[tag]
		if !ok {
			return nil, int64(size), fmt.Errorf("%w: %q", ErrUnsupportedCompression, tag)
		}
		f.Encoding = c.encoding
		f.BigEndian = c.bigEndian
		if c.bits != 0 {
			f.BitsPerSample = c.bits
		}
	}

	return f, int64(size), nil
}
