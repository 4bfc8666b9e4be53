// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"io"

	"github.com/ik5/audclip/audio"
)

// Convert returns a stream that yields the samples of s in format to. The
// pair of formats is checked up front; an unsupported pair returns
// *audio.UnsupportedConversionError and nothing is read from s.
func Convert(s *audio.Stream, to audio.Format) (*audio.Stream, error) {
	from := s.Format()
	if sameLayout(from, to) {
		return s, nil
	}

	fn, err := transformFor(from, to)
	if err != nil {
		return nil, err
	}

	r := newTranscoder(s, from.FrameSize(), to.FrameSize(), fn)
	return audio.NewStream(r, to, s.FrameLength()), nil
}

// Canonical returns the little-endian linear format output lines play for f:
// companded and float samples become signed 16-bit, signed 8-bit becomes
// unsigned, wider PCM keeps its depth. Integer depths that are not a whole
// number of bytes are widened to their container, since the samples are
// stored left-justified.
func Canonical(f audio.Format) audio.Format {
	c := f
	c.BigEndian = false

	switch f.Encoding {
	case audio.ULaw, audio.ALaw, audio.PCMFloat:
		c.Encoding = audio.PCMSigned
		c.BitsPerSample = 16
	case audio.PCMSigned, audio.PCMUnsigned:
		c.BitsPerSample = f.SampleSize() * 8
		if c.BitsPerSample == 8 {
			c.Encoding = audio.PCMUnsigned
		}
	}

	return c
}

// ToPCM converts s to its Canonical format.
func ToPCM(s *audio.Stream) (*audio.Stream, error) {
	return Convert(s, Canonical(s.Format()))
}

func sameLayout(a, b audio.Format) bool {
	if a.Encoding != b.Encoding || a.BitsPerSample != b.BitsPerSample ||
		a.Channels != b.Channels || a.SampleRate != b.SampleRate {
		return false
	}

	return a.BigEndian == b.BigEndian || a.SampleSize() <= 1
}

func isPCM16(f audio.Format) bool {
	return f.Encoding == audio.PCMSigned && f.BitsPerSample == 16
}

func isPCM8(f audio.Format) bool {
	return (f.Encoding == audio.PCMSigned || f.Encoding == audio.PCMUnsigned) && f.SampleSize() == 1
}

// sameContainer reports whether to only relabels or byte-swaps the samples
// of from: same encoding and sample size, with to at least as deep.
func sameContainer(from, to audio.Format) bool {
	return from.Encoding.IsPCM() && from.Encoding == to.Encoding &&
		from.SampleSize() == to.SampleSize() && from.BitsPerSample <= to.BitsPerSample
}

func transformFor(from, to audio.Format) (transform, error) {
	if from.Channels == to.Channels && from.SampleRate == to.SampleRate {
		switch {
		case from.Encoding == audio.ULaw && isPCM16(to):
			return decodeULaw(to.BigEndian), nil
		case isPCM16(from) && to.Encoding == audio.ULaw:
			return encodeULaw(from.BigEndian), nil
		case from.Encoding == audio.ALaw && isPCM16(to):
			return decodeALaw(to.BigEndian), nil
		case isPCM16(from) && to.Encoding == audio.ALaw:
			return encodeALaw(from.BigEndian), nil
		case isPCM8(from) && isPCM8(to) && from.Encoding != to.Encoding:
			return flipSign8, nil
		case sameContainer(from, to) && from.BigEndian != to.BigEndian && from.SampleSize() > 1:
			return swapOrder(from.SampleSize()), nil
		case sameContainer(from, to):
			return copySamples, nil
		case from.Encoding == audio.PCMFloat && from.BitsPerSample == 32 && isPCM16(to):
			return float32ToInt16(from.BigEndian, to.BigEndian), nil
		}
	}

	return nil, &audio.UnsupportedConversionError{From: from, To: to}
}

// transcoder applies a transform to whole frames read from src. Bytes of an
// incomplete trailing frame are held back until the rest arrives and
// dropped at EOF. Converted bytes that do not fit the caller's buffer are
// served on the next Read.
type transcoder struct {
	src      io.Reader
	inFrame  int
	outFrame int
	fn       transform

	in      []byte
	pending int
	outBuf  []byte
	out     []byte
	err     error
}

func newTranscoder(src io.Reader, inFrame, outFrame int, fn transform) *transcoder {
	return &transcoder{
		src:      src,
		inFrame:  inFrame,
		outFrame: outFrame,
		fn:       fn,
	}
}

func (t *transcoder) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	if len(t.out) == 0 && t.err == nil {
		t.fill(len(p))
	}
	if len(t.out) > 0 {
		n := copy(p, t.out)
		t.out = t.out[n:]
		return n, nil
	}

	return 0, t.err
}

func (t *transcoder) fill(size int) {
	frames := max(size/t.outFrame, 1)
	need := frames * t.inFrame
	if cap(t.in) < need {
		grown := make([]byte, need)
		copy(grown, t.in[:t.pending])
		t.in = grown
	}
	t.in = t.in[:need]

	n, err := t.src.Read(t.in[t.pending:])
	total := t.pending + n
	whole := total / t.inFrame

	if cap(t.outBuf) < whole*t.outFrame {
		t.outBuf = make([]byte, whole*t.outFrame)
	}
	t.out = t.outBuf[:whole*t.outFrame]
	t.fn(t.out, t.in[:whole*t.inFrame])

	t.pending = copy(t.in, t.in[whole*t.inFrame:total])
	if err != nil {
		t.err = err
		t.pending = 0
	}
}
