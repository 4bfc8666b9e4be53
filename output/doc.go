// SPDX-License-Identifier: EPL-2.0

// Package output provides playback.Line implementations for real audio
// devices.
//
// Oto plays through github.com/ebitengine/oto/v3 and Malgo through
// github.com/gen2brain/malgo (miniaudio). Both queue written PCM in a Ring
// that the device drains from its own goroutine or callback, padding with
// silence when the ring runs dry. Write blocks while the ring is full.
//
//	line := output.NewMalgo()
//	p := playback.NewBufferedPusher(line, format, pcm, playback.Config{})
//	err := p.Start(false)
package output
