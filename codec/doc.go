// SPDX-License-Identifier: EPL-2.0

// Package codec converts audio streams between sample encodings.
//
// It covers G.711 u-law and A-law companding to and from signed 16-bit PCM,
// signed/unsigned 8-bit PCM, byte order swaps and 32-bit float to 16-bit
// PCM. Channel count and sample rate are never changed; asking for that
// returns *audio.UnsupportedConversionError.
//
// The usual entry point is ToPCM, which turns whatever a container decoder
// produced into the little-endian linear form the output lines accept:
//
//	s, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//		return err
//	}
//	pcm, err := codec.ToPCM(s)
package codec
