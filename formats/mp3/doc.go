// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III files with
// github.com/hajimehoshi/go-mp3.
//
// Decode always yields 16-bit little-endian stereo PCM; mono files are
// duplicated across both channels. The frame length is known only when
// the input is an io.ReadSeeker, since go-mp3 has to scan every frame to
// count them.
package mp3
