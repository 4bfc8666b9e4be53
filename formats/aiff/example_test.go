// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/ik5/audclip/audio"
	"github.com/ik5/audclip/formats/aiff"
)

func Example() {
	// 4 frames of 16-bit stereo silence.
	format := audio.Format{
		Encoding:      audio.PCMSigned,
		SampleRate:    44100,
		BitsPerSample: 16,
		Channels:      2,
		BigEndian:     true,
	}
	src := audio.NewStream(bytes.NewReader(make([]byte, 16)), format, 4)

	var file bytes.Buffer
	if _, err := aiff.Write(&file, src); err != nil {
		log.Fatal(err)
	}

	ff, err := aiff.Decoder{}.ReadFileFormat(bytes.NewReader(file.Bytes()))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(ff.Type, ff.Format.SampleRate, ff.Format.Channels, ff.FrameLength)
	// Output:
	// AIFF 44100 2 4
}

func ExampleDecoder_Decode_errorHandling() {
	_, err := aiff.Decoder{}.Decode(bytes.NewReader([]byte("not an aiff file")))
	fmt.Println(err)
	// Output:
	// unsupported audio format: not an AIFF file
}
