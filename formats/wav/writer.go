// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/codec"
)

// Format codes stored in the fmt chunk.
const (
	FormatPCM   = 1
	FormatFloat = 3
	FormatALaw  = 6
	FormatULaw  = 7
)

// TargetFormat returns the format Write stores for f: little-endian, with
// signed 8-bit turned unsigned and float reduced to 16-bit PCM. u-law and
// A-law are kept as they are.
func TargetFormat(f audio.Format) audio.Format {
	t := f
	t.BigEndian = false

	switch f.Encoding {
	case audio.PCMSigned:
		if f.BitsPerSample == 8 {
			t.Encoding = audio.PCMUnsigned
		}
	case audio.PCMFloat:
		t.Encoding = audio.PCMSigned
		t.BitsPerSample = 16
	}

	return t
}

func formatCode(f audio.Format) uint16 {
	switch f.Encoding {
	case audio.ULaw:
		return FormatULaw
	case audio.ALaw:
		return FormatALaw
	default:
		return FormatPCM
	}
}

// Write stores s as a WAVE file and returns the number of bytes written.
//
// WAVE needs the data size in its header. If the stream length is unknown
// and w is an io.WriteSeeker, a zero size is written first and both size
// fields are patched after the samples; any other writer gets
// ErrLengthNotSpecified before a single byte is written.
func Write(w io.Writer, s *audio.Stream) (int64, error) {
	target := TargetFormat(s.Format())

	ws, seekable := w.(io.WriteSeeker)
	if s.FrameLength() == audio.NotSpecified && !seekable {
		return 0, ErrLengthNotSpecified
	}

	src, err := codec.Convert(s, target)
	if err != nil {
		return 0, err
	}

	dataLen := src.ByteLength()

	var start int64
	if dataLen == audio.NotSpecified {
		if start, err = ws.Seek(0, io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("locating header: %w", err)
		}
	}

	hdr := header(target, dataLen)
	n, err := w.Write(hdr)
	total := int64(n)
	if err != nil {
		return total, fmt.Errorf("writing header: %w", err)
	}

	var copied int64
	if dataLen == audio.NotSpecified {
		copied, err = io.Copy(w, src)
	} else {
		copied, err = io.CopyN(w, src, dataLen)
	}
	total += copied
	if err != nil {
		return total, fmt.Errorf("writing samples: %w", err)
	}

	// The pad byte is not counted in the data chunk length.
	if copied&1 == 1 {
		if _, err := w.Write([]byte{0}); err != nil {
			return total, fmt.Errorf("writing pad byte: %w", err)
		}
		total++
	}

	if dataLen == audio.NotSpecified {
		if err := patch(ws, start, len(hdr), copied); err != nil {
			return total, err
		}
	}

	return total, nil
}

func header(f audio.Format, dataLen int64) []byte {
	if dataLen == audio.NotSpecified {
		dataLen = 0
	}

	code := formatCode(f)
	fmtLen := 16
	if code != FormatPCM {
		fmtLen = 18
	}

	b := make([]byte, 12+8+fmtLen+8)
	copy(b[0:4], "RIFF")
	copy(b[8:12], "WAVE")

	copy(b[12:16], "fmt ")
	binary.LittleEndian.PutUint32(b[16:20], uint32(fmtLen))
	binary.LittleEndian.PutUint16(b[20:22], code)
	binary.LittleEndian.PutUint16(b[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(b[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(b[28:32], uint32(f.BytesPerSecond()))
	binary.LittleEndian.PutUint16(b[32:34], uint16(f.FrameSize()))
	binary.LittleEndian.PutUint16(b[34:36], uint16(f.BitsPerSample))
	// A non-PCM fmt chunk ends with a zero extension size.

	copy(b[len(b)-8:], "data")
	putSizes(b, dataLen)

	return b
}

// putSizes fills the RIFF length and the data chunk length of a header.
func putSizes(b []byte, dataLen int64) {
	binary.LittleEndian.PutUint32(b[4:8], uint32(int64(len(b))-8+dataLen+dataLen&1))
	binary.LittleEndian.PutUint32(b[len(b)-4:], uint32(dataLen))
}

func patch(ws io.WriteSeeker, start int64, headerLen int, dataLen int64) error {
	end, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("patching header: %w", err)
	}

	b := make([]byte, headerLen)
	putSizes(b, dataLen)

	for _, at := range []int{4, headerLen - 4} {
		if _, err := ws.Seek(start+int64(at), io.SeekStart); err != nil {
			return fmt.Errorf("patching header: %w", err)
		}
		if _, err := ws.Write(b[at : at+4]); err != nil {
			return fmt.Errorf("patching header: %w", err)
		}
	}

	if _, err := ws.Seek(end, io.SeekStart); err != nil {
		return fmt.Errorf("patching header: %w", err)
	}

	return nil
}
