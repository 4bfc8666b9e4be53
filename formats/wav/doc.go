// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// The Decoder is built on github.com/go-audio/wav and accepts PCM (8 to 32
// bit), IEEE float, A-law and u-law data. Decode returns an audio.Stream
// positioned at the first sample byte:
//
//	s, err := wav.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(s.Format(), s.FrameLength())
//
// Write stores any stream codec.Convert can bring to a WAVE layout:
// little-endian PCM, unsigned 8-bit, A-law or u-law. Float input is reduced
// to 16-bit PCM.
//
//	n, err := wav.Write(out, s)
//
// A stream of unknown length can only be written to an io.WriteSeeker; the
// header is patched once the samples are in place. Other writers get
// ErrLengthNotSpecified before anything is written.
package wav
