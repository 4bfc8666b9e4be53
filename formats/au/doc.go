// SPDX-License-Identifier: EPL-2.0

// Package au reads Sun/NeXT AU (.au, .snd) files.
//
// The header is a fixed 24 bytes: magic, header size, data size, encoding
// code, sample rate and channel count. Anything between byte 24 and the
// declared header size is an annotation and is skipped. A data size of
// 0xFFFFFFFF (or any value with the sign bit set) means the length is
// unknown and the stream runs to EOF.
//
// Supported encoding codes are 1 (u-law), 2-5 (signed PCM, 8 to 32 bits),
// 6 (32-bit float) and 27 (A-law).
package au
