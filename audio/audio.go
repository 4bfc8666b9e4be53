// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"
	"sync"
)

// NotSpecified marks a length, frame count or rate that is unknown.
const NotSpecified int64 = -1

// Encoding identifies how samples are represented.
type Encoding int

const (
	PCMSigned Encoding = iota
	PCMUnsigned
	PCMFloat
	ULaw
	ALaw
)

func (e Encoding) String() string {
	switch e {
	case PCMSigned:
		return "PCM_SIGNED"
	case PCMUnsigned:
		return "PCM_UNSIGNED"
	case PCMFloat:
		return "PCM_FLOAT"
	case ULaw:
		return "ULAW"
	case ALaw:
		return "ALAW"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// IsPCM reports whether samples are linear.
func (e Encoding) IsPCM() bool {
	return e == PCMSigned || e == PCMUnsigned || e == PCMFloat
}

// Format describes a sampled audio stream.
type Format struct {
	Encoding      Encoding
	SampleRate    float64 // frames per second
	BitsPerSample int
	Channels      int
	BigEndian     bool
}

// FrameSize returns the number of bytes in one frame.
// Companded encodings always use one byte per channel.
func (f Format) FrameSize() int {
	if f.Encoding == ULaw || f.Encoding == ALaw {
		return f.Channels
	}

	return f.Channels * ((f.BitsPerSample + 7) / 8)
}

// SampleSize returns the number of bytes in one sample of one channel.
func (f Format) SampleSize() int {
	if f.Channels == 0 {
		return 0
	}

	return f.FrameSize() / f.Channels
}

// BytesPerSecond returns the stream data rate, rounded down.
func (f Format) BytesPerSecond() int {
	return int(f.SampleRate) * f.FrameSize()
}

func (f Format) String() string {
	order := "little-endian"
	if f.BigEndian {
		order = "big-endian"
	}

	return fmt.Sprintf("%s %.1f Hz, %d bit, %d channels, %d bytes/frame, %s",
		f.Encoding, f.SampleRate, f.BitsPerSample, f.Channels, f.FrameSize(), order)
}

// FileType identifies a container.
type FileType string

const (
	AIFF   FileType = "AIFF"
	AIFC   FileType = "AIFF-C"
	AU     FileType = "AU"
	WAVE   FileType = "WAVE"
	FLAC   FileType = "FLAC"
	Vorbis FileType = "OGG-VORBIS"
	MP3    FileType = "MP3"
)

// FileFormat is the result of parsing a container header. It is built once
// per parse and never modified afterwards.
type FileFormat struct {
	Type FileType
	// ByteLength is the total container size, or NotSpecified.
	ByteLength int64
	Format     Format
	// FrameLength is the number of sample frames, or NotSpecified.
	FrameLength int64
	// HeaderLength is the offset of the first sample byte.
	HeaderLength int64
}

// DataLength returns the payload size in bytes, or NotSpecified.
func (ff *FileFormat) DataLength() int64 {
	if ff.FrameLength == NotSpecified {
		return NotSpecified
	}

	return ff.FrameLength * int64(ff.Format.FrameSize())
}

// Stream is a reader positioned at the first sample byte of an audio payload.
type Stream struct {
	r           io.Reader
	format      Format
	frameLength int64
}

// NewStream wraps r. When frameLength is known, reads stop after
// frameLength frames even if r holds more data.
func NewStream(r io.Reader, format Format, frameLength int64) *Stream {
	if frameLength != NotSpecified && format.FrameSize() > 0 {
		r = io.LimitReader(r, frameLength*int64(format.FrameSize()))
	}

	return &Stream{
		r:           r,
		format:      format,
		frameLength: frameLength,
	}
}

func (s *Stream) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s *Stream) Format() Format             { return s.format }
func (s *Stream) FrameLength() int64         { return s.frameLength }

// ByteLength returns the payload size in bytes, or NotSpecified.
func (s *Stream) ByteLength() int64 {
	if s.frameLength == NotSpecified {
		return NotSpecified
	}

	return s.frameLength * int64(s.format.FrameSize())
}

// Decoder recognizes and opens one kind of audio file.
type Decoder interface {
	// Sniff reports whether header (the first bytes of a file, possibly
	// fewer than requested) carries this decoder's magic.
	Sniff(header []byte) bool
	// ReadFileFormat parses the file header.
	ReadFileFormat(r io.Reader) (*FileFormat, error)
	// Decode parses the header and returns a stream over the payload.
	Decode(r io.Reader) (*Stream, error)
}

// SniffLen is the number of leading bytes decoders need for Sniff.
const SniffLen = 12

// Registry for decoders by format key (e.g., "aiff", "au", "wav"). Detect
// tries decoders in registration order.
type Registry struct {
	codecs map[string]Decoder
	order  []string

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs: make(map[string]Decoder),
		mtx:    &sync.Mutex{},
	}
}

func (r *Registry) Register(format string, d Decoder) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d
}

func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.codecs[format]
	return d, ok
}

// Formats returns the registered keys in detection order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]string(nil), r.order...)
}

// Detect returns the first decoder whose Sniff accepts header.
func (r *Registry) Detect(header []byte) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, name := range r.order {
		d := r.codecs[name]
		if d.Sniff(header) {
			return name, d, true
		}
	}

	return "", nil, false
}
