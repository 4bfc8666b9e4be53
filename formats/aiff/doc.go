// SPDX-License-Identifier: EPL-2.0

// Package aiff reads and writes AIFF and AIFF-C files.
//
// # Reading
//
// Decoder walks the FORM container chunk by chunk. FVER and unknown chunks
// are skipped, COMM supplies the sample format and SSND marks the start of
// the payload:
//
//	f, _ := os.Open("click.aiff")
//	s, err := aiff.Decoder{}.Decode(f)
//	if err != nil {
//	    // errors.Is(err, audio.ErrUnsupportedFormat) holds for every
//	    // header problem
//	}
//	fmt.Println(s.Format(), s.FrameLength())
//
// Samples come out exactly as stored: big-endian signed PCM for AIFF, or
// whatever the AIFF-C compression type names (NONE, twos, sowt, fl32, ulaw,
// alaw). Pass the stream through codec.ToPCM for playback.
//
// The payload length is taken from the SSND chunk when it is smaller than
// the declared FORM length and from the FORM length otherwise, since some
// writers leave a bogus SSND size. A FORM length of zero or less makes both
// the byte length and the frame length audio.NotSpecified.
//
// # Writing
//
// Write stores any stream the codec package can turn into signed big-endian
// PCM as a plain AIFF file. The sample rate is encoded with
// utils.EncodeExtended, which only covers common audio rates exactly.
package aiff
