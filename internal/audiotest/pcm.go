// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"math"
)

// PCM16 renders frames of signed 16-bit little-endian PCM. waveform returns
// a value in [-1,1] for a frame index and channel.
func PCM16(channels, frames int, waveform func(frame, channel int) float64) []byte {
	b := make([]byte, 2*channels*frames)
	for f := range frames {
		for ch := range channels {
			v := waveform(f, ch)
			binary.LittleEndian.PutUint16(b[2*(f*channels+ch):], uint16(int16(v*math.MaxInt16)))
		}
	}
	return b
}

// Sine renders a sine tone at frequency Hz on every channel.
func Sine(sampleRate, channels, frames int, frequency float64) []byte {
	return PCM16(channels, frames, func(frame, _ int) float64 {
		return math.Sin(2 * math.Pi * frequency * float64(frame) / float64(sampleRate))
	})
}

// Ramp renders a sawtooth, handy for spotting reordered or repeated blocks.
func Ramp(channels, frames int) []byte {
	return PCM16(channels, frames, func(frame, _ int) float64 {
		return float64(frame%200)/100 - 1
	})
}

// Silence renders zero samples.
func Silence(channels, frames int) []byte {
	return make([]byte, 2*channels*frames)
}
