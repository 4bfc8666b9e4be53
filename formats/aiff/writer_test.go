// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audclip/audio"
)

func pcmStream(data []byte, f audio.Format, frames int64) *audio.Stream {
	return audio.NewStream(bytes.NewReader(data), f, frames)
}

func TestWrite_RoundTrip(t *testing.T) {
	t.Parallel()

	f := audio.Format{Encoding: audio.PCMSigned, SampleRate: 44100, BitsPerSample: 16, Channels: 2, BigEndian: true}
	data := []byte{0x00, 0x01, 0x00, 0x02, 0xFF, 0xFE, 0x7F, 0xFF}

	buf := new(bytes.Buffer)
	n, err := Write(buf, pcmStream(data, f, 2))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != int64(buf.Len()) || n != headerSize+int64(len(data)) {
		t.Errorf("Write() = %d, buffer holds %d", n, buf.Len())
	}

	s, err := Decoder{}.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if s.Format() != f {
		t.Errorf("Format() = %v, want %v", s.Format(), f)
	}
	if s.FrameLength() != 2 {
		t.Errorf("FrameLength() = %d, want 2", s.FrameLength())
	}

	got, _ := io.ReadAll(s)
	if !bytes.Equal(got, data) {
		t.Errorf("payload = % x, want % x", got, data)
	}
}

func TestWrite_ReadableByGoAudio(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 1000, -1000, 32767, -32768, 42}
	data := make([]byte, 0, 2*len(samples))
	for _, v := range samples {
		data = binary.LittleEndian.AppendUint16(data, uint16(v))
	}

	f := audio.Format{Encoding: audio.PCMSigned, SampleRate: 22050, BitsPerSample: 16, Channels: 1}
	buf := new(bytes.Buffer)
	if _, err := Write(buf, pcmStream(data, f, int64(len(samples)))); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	dec := goaiff.NewDecoder(bytes.NewReader(buf.Bytes()))
	if !dec.IsValidFile() {
		t.Fatal("go-audio/aiff rejected the file")
	}
	dec.ReadInfo()

	format := dec.Format()
	if format.SampleRate != 22050 || format.NumChannels != 1 {
		t.Errorf("go-audio format = %d Hz %d ch", format.SampleRate, format.NumChannels)
	}
	if dec.BitDepth != 16 {
		t.Errorf("BitDepth = %d, want 16", dec.BitDepth)
	}

	ib := &goaudio.IntBuffer{Data: make([]int, len(samples)), Format: format}
	n, err := dec.PCMBuffer(ib)
	if err != nil && err != io.EOF {
		t.Fatalf("PCMBuffer() error = %v", err)
	}
	if n != len(samples) {
		t.Fatalf("PCMBuffer() = %d samples, want %d", n, len(samples))
	}
	for i, v := range samples {
		if ib.Data[i] != int(v) {
			t.Errorf("sample %d = %d, want %d", i, ib.Data[i], v)
		}
	}
}

func TestWrite_TranscodesToSignedBigEndian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    audio.Format
		in   []byte
		want []byte
	}{
		{
			name: "unsigned 8",
			f:    audio.Format{Encoding: audio.PCMUnsigned, SampleRate: 8000, BitsPerSample: 8, Channels: 1},
			in:   []byte{0x80, 0xFF, 0x00, 0x10},
			want: []byte{0x00, 0x7F, 0x80, 0x90},
		},
		{
			name: "little endian 16",
			f:    audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 16, Channels: 1},
			in:   []byte{0x01, 0x02, 0x03, 0x04},
			want: []byte{0x02, 0x01, 0x04, 0x03},
		},
		{
			name: "ulaw",
			f:    audio.Format{Encoding: audio.ULaw, SampleRate: 8000, BitsPerSample: 8, Channels: 1},
			in:   []byte{0xFF, 0x80},
			want: []byte{0x00, 0x00, 0x7D, 0x7C},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			frames := int64(len(tt.in) / tt.f.FrameSize())
			buf := new(bytes.Buffer)
			if _, err := Write(buf, pcmStream(tt.in, tt.f, frames)); err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			out := buf.Bytes()
			if got := out[headerSize : headerSize+len(tt.want)]; !bytes.Equal(got, tt.want) {
				t.Errorf("payload = % x, want % x", got, tt.want)
			}

			ff, err := Decoder{}.ReadFileFormat(bytes.NewReader(out))
			if err != nil {
				t.Fatalf("ReadFileFormat() error = %v", err)
			}
			if ff.FrameLength != frames {
				t.Errorf("FrameLength = %d, want %d", ff.FrameLength, frames)
			}
			if ff.Format.Encoding != audio.PCMSigned || !ff.Format.BigEndian {
				t.Errorf("Format = %v", ff.Format)
			}
		})
	}
}

func TestWrite_PadsOddPayload(t *testing.T) {
	t.Parallel()

	f := audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 8, Channels: 1, BigEndian: true}

	buf := new(bytes.Buffer)
	n, err := Write(buf, pcmStream([]byte{1, 2, 3}, f, 3))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != headerSize+4 {
		t.Errorf("Write() = %d, want %d", n, headerSize+4)
	}

	out := buf.Bytes()
	if got := binary.BigEndian.Uint32(out[4:8]); got != uint32(len(out)-8) {
		t.Errorf("FORM length = %d, want %d", got, len(out)-8)
	}
	if got := binary.BigEndian.Uint32(out[ssndLenAt:]); got != 11 {
		t.Errorf("SSND length = %d, want 11", got)
	}
}

func TestWrite_UnknownLengthNotSeekable(t *testing.T) {
	t.Parallel()

	f := audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 16, Channels: 1, BigEndian: true}
	buf := new(bytes.Buffer)

	_, err := Write(buf, pcmStream(make([]byte, 8), f, audio.NotSpecified))
	if !errors.Is(err, ErrLengthNotSpecified) {
		t.Fatalf("Write() error = %v, want ErrLengthNotSpecified", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Write() wrote %d bytes before failing", buf.Len())
	}
}

func TestWrite_UnknownLengthPatchesHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.aiff")
	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	f := audio.Format{Encoding: audio.PCMSigned, SampleRate: 48000, BitsPerSample: 16, Channels: 2, BigEndian: true}
	data := bytes.Repeat([]byte{0x12, 0x34}, 50)

	n, err := Write(file, pcmStream(data, f, audio.NotSpecified))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := file.Close(); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if int64(len(out)) != n {
		t.Errorf("file holds %d bytes, Write() = %d", len(out), n)
	}

	ff, err := Decoder{}.ReadFileFormat(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("ReadFileFormat() error = %v", err)
	}
	if ff.FrameLength != 25 {
		t.Errorf("FrameLength = %d, want 25", ff.FrameLength)
	}
	if ff.ByteLength != int64(len(out)) {
		t.Errorf("ByteLength = %d, want %d", ff.ByteLength, len(out))
	}
	if got := binary.BigEndian.Uint32(out[framesAt:]); got != 25 {
		t.Errorf("COMM frames = %d, want 25", got)
	}
}

func TestWrite_UnsupportedInput(t *testing.T) {
	t.Parallel()

	f := audio.Format{Encoding: audio.PCMFloat, SampleRate: 8000, BitsPerSample: 64, Channels: 1}
	_, err := Write(new(bytes.Buffer), pcmStream(make([]byte, 16), f, 2))
	if !errors.Is(err, audio.ErrUnsupportedConversion) {
		t.Errorf("Write() error = %v, want ErrUnsupportedConversion", err)
	}
}
