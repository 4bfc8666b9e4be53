// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"math"
	"testing"
	"testing/iotest"

	"github.com/ik5/audclip/audio"
)

func pcm16(rate float64, channels int, bigEndian bool) audio.Format {
	return audio.Format{
		Encoding:      audio.PCMSigned,
		SampleRate:    rate,
		BitsPerSample: 16,
		Channels:      channels,
		BigEndian:     bigEndian,
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   audio.Format
		want audio.Format
	}{
		{
			name: "ulaw",
			in:   audio.Format{Encoding: audio.ULaw, SampleRate: 8000, BitsPerSample: 8, Channels: 1},
			want: pcm16(8000, 1, false),
		},
		{
			name: "alaw",
			in:   audio.Format{Encoding: audio.ALaw, SampleRate: 8000, BitsPerSample: 8, Channels: 2},
			want: pcm16(8000, 2, false),
		},
		{
			name: "float32 big endian",
			in:   audio.Format{Encoding: audio.PCMFloat, SampleRate: 44100, BitsPerSample: 32, Channels: 1, BigEndian: true},
			want: pcm16(44100, 1, false),
		},
		{
			name: "signed 8",
			in:   audio.Format{Encoding: audio.PCMSigned, SampleRate: 11025, BitsPerSample: 8, Channels: 1, BigEndian: true},
			want: audio.Format{Encoding: audio.PCMUnsigned, SampleRate: 11025, BitsPerSample: 8, Channels: 1},
		},
		{
			name: "signed 24 big endian",
			in:   audio.Format{Encoding: audio.PCMSigned, SampleRate: 48000, BitsPerSample: 24, Channels: 2, BigEndian: true},
			want: audio.Format{Encoding: audio.PCMSigned, SampleRate: 48000, BitsPerSample: 24, Channels: 2},
		},
		{
			name: "signed 12 big endian",
			in:   audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 12, Channels: 1, BigEndian: true},
			want: audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 16, Channels: 1},
		},
		{
			name: "signed 20",
			in:   audio.Format{Encoding: audio.PCMSigned, SampleRate: 44100, BitsPerSample: 20, Channels: 2},
			want: audio.Format{Encoding: audio.PCMSigned, SampleRate: 44100, BitsPerSample: 24, Channels: 2},
		},
		{
			name: "signed 4",
			in:   audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 4, Channels: 1, BigEndian: true},
			want: audio.Format{Encoding: audio.PCMUnsigned, SampleRate: 8000, BitsPerSample: 8, Channels: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Canonical(tt.in); got != tt.want {
				t.Errorf("Canonical() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConvert_SameLayoutReturnsInput(t *testing.T) {
	t.Parallel()

	s := audio.NewStream(bytes.NewReader([]byte{1, 2, 3, 4}), pcm16(8000, 1, false), 2)

	got, err := Convert(s, pcm16(8000, 1, false))
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != s {
		t.Error("Convert() returned a new stream for an identical format")
	}
}

func TestConvert_Unsupported(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from audio.Format
		to   audio.Format
	}{
		{"channel change", pcm16(8000, 1, false), pcm16(8000, 2, false)},
		{"rate change", pcm16(8000, 1, false), pcm16(16000, 1, false)},
		{
			"float64",
			audio.Format{Encoding: audio.PCMFloat, SampleRate: 8000, BitsPerSample: 64, Channels: 1},
			pcm16(8000, 1, false),
		},
		{
			"ulaw to alaw",
			audio.Format{Encoding: audio.ULaw, SampleRate: 8000, BitsPerSample: 8, Channels: 1},
			audio.Format{Encoding: audio.ALaw, SampleRate: 8000, BitsPerSample: 8, Channels: 1},
		},
		{
			"container narrowing",
			pcm16(8000, 1, false),
			audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 12, Channels: 1},
		},
		{
			"depth change",
			audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 24, Channels: 1},
			pcm16(8000, 1, false),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := audio.NewStream(bytes.NewReader(nil), tt.from, audio.NotSpecified)
			_, err := Convert(s, tt.to)
			if !errors.Is(err, audio.ErrUnsupportedConversion) {
				t.Fatalf("Convert() error = %v, want ErrUnsupportedConversion", err)
			}

			var convErr *audio.UnsupportedConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("Convert() error type = %T", err)
			}
			if convErr.From != tt.from || convErr.To != tt.to {
				t.Errorf("error formats = %v -> %v", convErr.From, convErr.To)
			}
		})
	}
}

func TestToPCM_ULaw(t *testing.T) {
	t.Parallel()

	src := []byte{0x00, 0x80, 0xFF, 0xF0}
	format := audio.Format{Encoding: audio.ULaw, SampleRate: 8000, BitsPerSample: 8, Channels: 1}
	s := audio.NewStream(iotest.OneByteReader(bytes.NewReader(src)), format, int64(len(src)))

	pcm, err := ToPCM(s)
	if err != nil {
		t.Fatalf("ToPCM() error = %v", err)
	}
	if pcm.Format() != pcm16(8000, 1, false) {
		t.Errorf("Format() = %v", pcm.Format())
	}
	if pcm.FrameLength() != 4 {
		t.Errorf("FrameLength() = %d, want 4", pcm.FrameLength())
	}

	out, err := io.ReadAll(pcm)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := []int16{-32124, 32124, 0, 120}
	if len(out) != 2*len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), 2*len(want))
	}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(out[2*i:])); got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestConvert_PCM16ToULawAndBack(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 1000, -1000, 20000, -20000}
	raw := make([]byte, 2*len(samples))
	for i, v := range samples {
		binary.BigEndian.PutUint16(raw[2*i:], uint16(v))
	}

	ulaw := audio.Format{Encoding: audio.ULaw, SampleRate: 8000, BitsPerSample: 8, Channels: 1}
	s := audio.NewStream(bytes.NewReader(raw), pcm16(8000, 1, true), audio.NotSpecified)

	enc, err := Convert(s, ulaw)
	if err != nil {
		t.Fatalf("Convert() to ulaw error = %v", err)
	}
	dec, err := Convert(enc, pcm16(8000, 1, true))
	if err != nil {
		t.Fatalf("Convert() to pcm error = %v", err)
	}

	out, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(out) != len(raw) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(raw))
	}
	for i, v := range samples {
		got := int(int16(binary.BigEndian.Uint16(out[2*i:])))
		if d := abs(got - int(v)); d > abs(int(v))/32+5 {
			t.Errorf("sample %d = %d, want about %d", i, got, v)
		}
	}
}

func TestConvert_ALawRoundTrip(t *testing.T) {
	t.Parallel()

	raw := make([]byte, 0, 8)
	for _, v := range []int16{0, 4096, -4096, 30000} {
		raw = binary.LittleEndian.AppendUint16(raw, uint16(v))
	}

	alaw := audio.Format{Encoding: audio.ALaw, SampleRate: 8000, BitsPerSample: 8, Channels: 2}
	s := audio.NewStream(bytes.NewReader(raw), pcm16(8000, 2, false), 2)

	enc, err := Convert(s, alaw)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	codes, err := io.ReadAll(enc)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(codes) != 4 {
		t.Fatalf("len(codes) = %d, want 4", len(codes))
	}
	for i, c := range codes {
		want := LinearToALaw(int16(binary.LittleEndian.Uint16(raw[2*i:])))
		if c != want {
			t.Errorf("code %d = %#02x, want %#02x", i, c, want)
		}
	}
}

func TestConvert_Signed8ToUnsigned(t *testing.T) {
	t.Parallel()

	from := audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 8, Channels: 1}
	s := audio.NewStream(bytes.NewReader([]byte{0x00, 0x7F, 0x80, 0xFF}), from, 4)

	pcm, err := ToPCM(s)
	if err != nil {
		t.Fatalf("ToPCM() error = %v", err)
	}
	out, _ := io.ReadAll(pcm)

	want := []byte{0x80, 0xFF, 0x00, 0x7F}
	if !bytes.Equal(out, want) {
		t.Errorf("out = % x, want % x", out, want)
	}
}

func TestConvert_SwapsByteOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits int
		in   []byte
		want []byte
	}{
		{16, []byte{0x01, 0x02, 0x03, 0x04}, []byte{0x02, 0x01, 0x04, 0x03}},
		{24, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, []byte{0x03, 0x02, 0x01, 0x06, 0x05, 0x04}},
		{32, []byte{0x01, 0x02, 0x03, 0x04}, []byte{0x04, 0x03, 0x02, 0x01}},
	}

	for _, tt := range tests {
		from := audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: tt.bits, Channels: 1, BigEndian: true}
		s := audio.NewStream(bytes.NewReader(tt.in), from, audio.NotSpecified)

		pcm, err := ToPCM(s)
		if err != nil {
			t.Fatalf("%d bit: ToPCM() error = %v", tt.bits, err)
		}
		out, _ := io.ReadAll(pcm)
		if !bytes.Equal(out, tt.want) {
			t.Errorf("%d bit: out = % x, want % x", tt.bits, out, tt.want)
		}
	}
}

func TestConvert_Float32(t *testing.T) {
	t.Parallel()

	values := []float32{0, 1, -1, -0.5, 2}
	raw := make([]byte, 0, 4*len(values))
	for _, v := range values {
		raw = binary.BigEndian.AppendUint32(raw, math.Float32bits(v))
	}

	from := audio.Format{Encoding: audio.PCMFloat, SampleRate: 44100, BitsPerSample: 32, Channels: 1, BigEndian: true}
	pcm, err := ToPCM(audio.NewStream(bytes.NewReader(raw), from, audio.NotSpecified))
	if err != nil {
		t.Fatalf("ToPCM() error = %v", err)
	}
	out, _ := io.ReadAll(pcm)

	want := []int16{0, 32767, -32768, -16384, 32767}
	if len(out) != 2*len(want) {
		t.Fatalf("len(out) = %d, want %d", len(out), 2*len(want))
	}
	for i, w := range want {
		if got := int16(binary.LittleEndian.Uint16(out[2*i:])); got != w {
			t.Errorf("sample %d = %d, want %d", i, got, w)
		}
	}
}

func TestTranscoder_CarriesPartialFrames(t *testing.T) {
	t.Parallel()

	// Stereo 16-bit big endian: four bytes per frame, ten bytes in total.
	in := []byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00, 0x05}
	s := audio.NewStream(iotest.OneByteReader(bytes.NewReader(in)), pcm16(8000, 2, true), audio.NotSpecified)

	pcm, err := ToPCM(s)
	if err != nil {
		t.Fatalf("ToPCM() error = %v", err)
	}

	out, err := io.ReadAll(pcm)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00}
	if !bytes.Equal(out, want) {
		t.Errorf("out = % x, want % x", out, want)
	}
}

func TestTranscoder_TinyReadBuffers(t *testing.T) {
	t.Parallel()

	// 24-bit mono frames do not divide most buffer sizes.
	in := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}
	from := audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 24, Channels: 1, BigEndian: true}

	pcm, err := ToPCM(audio.NewStream(bytes.NewReader(in), from, 2))
	if err != nil {
		t.Fatalf("ToPCM() error = %v", err)
	}

	out, err := io.ReadAll(iotest.OneByteReader(pcm))
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := []byte{0x03, 0x02, 0x01, 0x06, 0x05, 0x04}
	if !bytes.Equal(out, want) {
		t.Errorf("out = % x, want % x", out, want)
	}

}

func TestTranscoder_EmptyRead(t *testing.T) {
	t.Parallel()

	from := audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 16, Channels: 1, BigEndian: true}
	tc := newTranscoder(bytes.NewReader([]byte{0x01, 0x02}), 2, 2, swapOrder(2))

	if n, err := tc.Read(nil); n != 0 || err != nil {
		t.Errorf("Read(nil) = %d, %v", n, err)
	}

	pcm, err := ToPCM(audio.NewStream(bytes.NewReader([]byte{0x01, 0x02}), from, 1))
	if err != nil {
		t.Fatalf("ToPCM() error = %v", err)
	}
	out, err := io.ReadAll(pcm)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(out, []byte{0x02, 0x01}) {
		t.Errorf("out = % x after an empty read", out)
	}
}

func TestToPCM_WidensPartialBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from audio.Format
		in   []byte
		want []byte
	}{
		{
			name: "12 bit big endian",
			from: audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 12, Channels: 1, BigEndian: true},
			in:   []byte{0x12, 0x30, 0xFF, 0xF0},
			want: []byte{0x30, 0x12, 0xF0, 0xFF},
		},
		{
			name: "20 bit little endian",
			from: audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 20, Channels: 1},
			in:   []byte{0x10, 0x02, 0x03},
			want: []byte{0x10, 0x02, 0x03},
		},
		{
			name: "4 bit signed",
			from: audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 4, Channels: 1},
			in:   []byte{0x70, 0x80},
			want: []byte{0xF0, 0x00},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			frames := int64(len(tt.in) / tt.from.FrameSize())
			pcm, err := ToPCM(audio.NewStream(bytes.NewReader(tt.in), tt.from, frames))
			if err != nil {
				t.Fatalf("ToPCM() error = %v", err)
			}
			if got := pcm.Format().BitsPerSample; got != tt.from.SampleSize()*8 {
				t.Errorf("BitsPerSample = %d, want %d", got, tt.from.SampleSize()*8)
			}

			out, err := io.ReadAll(pcm)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if !bytes.Equal(out, tt.want) {
				t.Errorf("out = % x, want % x", out, tt.want)
			}
		})
	}
}
