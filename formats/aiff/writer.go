// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/codec"
	"github.com/ik5/audclip/utils"
)

// headerSize covers FORM, a bare 18-byte COMM chunk and the SSND chunk
// header with its offset and block size fields.
const headerSize = 12 + 8 + 18 + 8 + 8

// Field offsets patched after an unknown-length write.
const (
	formLenAt = 4
	framesAt  = 22
	ssndLenAt = 42
	sizesEnd  = 46
)

// TargetFormat returns the big-endian signed PCM format Write stores for f.
func TargetFormat(f audio.Format) audio.Format {
	t := f
	t.BigEndian = true

	switch f.Encoding {
	case audio.ULaw, audio.ALaw, audio.PCMFloat:
		t.Encoding = audio.PCMSigned
		t.BitsPerSample = 16
	case audio.PCMUnsigned:
		t.Encoding = audio.PCMSigned
	}

	return t
}

// Write stores s as an uncompressed AIFF file and returns the number of
// bytes written. Companded and float input is expanded to 16-bit PCM.
//
// When the stream length is unknown, w must be an io.WriteSeeker: a
// placeholder header is written first and its size fields are patched once
// the payload is copied. Otherwise ErrLengthNotSpecified is returned before
// anything is written.
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

	var start int64
	if seekable && src.FrameLength() == audio.NotSpecified {
		if start, err = ws.Seek(0, io.SeekCurrent); err != nil {
			return 0, fmt.Errorf("locating header: %w", err)
		}
	}

	dataLen := src.ByteLength()
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

	if copied&1 == 1 {
		if _, err := w.Write([]byte{0}); err != nil {
			return total, fmt.Errorf("writing pad byte: %w", err)
		}
		total++
	}

	if dataLen == audio.NotSpecified {
		if err := patch(ws, start, target, copied); err != nil {
			return total, err
		}
	}

	return total, nil
}

func header(f audio.Format, dataLen int64) []byte {
	if dataLen == audio.NotSpecified {
		dataLen = 0
	}

	b := make([]byte, headerSize)
	copy(b[0:4], formID)
	putSizes(b, f, dataLen)
	copy(b[8:12], aiffID)

	copy(b[12:16], commID)
	binary.BigEndian.PutUint32(b[16:20], 18)
	binary.BigEndian.PutUint16(b[20:22], uint16(f.Channels))
	binary.BigEndian.PutUint16(b[26:28], uint16(f.BitsPerSample))
	rate := utils.EncodeExtended(f.SampleRate)
	copy(b[28:38], rate[:])

	copy(b[38:42], ssndID)
	// Offset and block size stay zero.

	return b
}

// putSizes fills the FORM length, COMM frame count and SSND length.
func putSizes(b []byte, f audio.Format, dataLen int64) {
	binary.BigEndian.PutUint32(b[formLenAt:], uint32(headerSize-8+dataLen+dataLen&1))
	binary.BigEndian.PutUint32(b[framesAt:], uint32(dataLen/int64(f.FrameSize())))
	binary.BigEndian.PutUint32(b[ssndLenAt:], uint32(8+dataLen))
}

func patch(ws io.WriteSeeker, start int64, f audio.Format, dataLen int64) error {
	end, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("patching header: %w", err)
	}

	b := make([]byte, sizesEnd)
	putSizes(b, f, dataLen)

	for _, at := range []int64{formLenAt, framesAt, ssndLenAt} {
		if _, err := ws.Seek(start+at, io.SeekStart); err != nil {
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
