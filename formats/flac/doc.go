// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files with github.com/mewkiz/flac.
//
// Decode interleaves each frame's subframes into signed little-endian PCM.
// Sample depths that are not a whole number of bytes are shifted up to
// the next byte boundary, so a 20-bit file plays as 24-bit.
package flac
