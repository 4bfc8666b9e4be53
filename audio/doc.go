// SPDX-License-Identifier: EPL-2.0

// Package audio provides the data model shared by all audclip packages.
//
// This package contains:
//   - Format describing a sampled stream (encoding, rate, bit depth, channels, byte order)
//   - FileFormat describing a parsed container header
//   - Stream, a reader positioned at the first sample byte of a payload
//   - Decoder interface and a Registry for container detection
//   - Sentinel errors shared by the parsers, codecs and output lines
//
// # Lengths
//
// Lengths that a container does not declare are NotSpecified (-1). Code
// compares against the constant before doing arithmetic:
//
//	if ff.FrameLength == audio.NotSpecified {
//	    // read to EOF
//	}
//
// # Frame Size
//
// Frame size is channels * ceil(bits/8). u-law and A-law always use one
// byte per channel.
//
//	f := audio.Format{Encoding: audio.PCMSigned, SampleRate: 8000, BitsPerSample: 12, Channels: 2}
//	f.FrameSize() // 4
//
// # Format Registry
//
// The registry keeps decoders in registration order; Detect returns the
// first decoder whose Sniff accepts the leading bytes of a file:
//
//	registry := audio.NewRegistry()
//	registry.Register("aiff", aiff.Decoder{})
//	registry.Register("au", au.Decoder{})
//
//	name, dec, ok := registry.Detect(header)
//
// # Errors
//
// Parsers wrap ErrUnsupportedFormat, codecs return *UnsupportedConversionError
// (which matches ErrUnsupportedConversion) and output lines wrap
// ErrDeviceUnavailable, so callers can classify failures with errors.Is.
package audio
