// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// Decoded float samples are converted to 16-bit little-endian PCM. The
// frame length is known only for seekable input.
package vorbis
