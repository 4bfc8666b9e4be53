// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audclip/utils"
)

// transform converts whole samples from src into dst. dst is sized by the
// caller for the number of samples in src.
type transform func(dst, src []byte)

func readInt16(b []byte, bigEndian bool) int16 {
	if bigEndian {
		return int16(binary.BigEndian.Uint16(b))
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func putInt16(b []byte, v int16, bigEndian bool) {
	if bigEndian {
		binary.BigEndian.PutUint16(b, uint16(v))
		return
	}
	binary.LittleEndian.PutUint16(b, uint16(v))
}

func copySamples(dst, src []byte) {
	copy(dst, src)
}

// flipSign8 turns signed 8-bit PCM into unsigned and back.
func flipSign8(dst, src []byte) {
	for i, b := range src {
		dst[i] = b ^ 0x80
	}
}

func swapOrder(sampleSize int) transform {
	return func(dst, src []byte) {
		for i := 0; i+sampleSize <= len(src); i += sampleSize {
			for j := range sampleSize {
				dst[i+j] = src[i+sampleSize-1-j]
			}
		}
	}
}

func float32ToInt16(srcBig, dstBig bool) transform {
	return func(dst, src []byte) {
		for i := range len(src) / 4 {
			var bits uint32
			if srcBig {
				bits = binary.BigEndian.Uint32(src[4*i:])
			} else {
				bits = binary.LittleEndian.Uint32(src[4*i:])
			}
			putInt16(dst[2*i:], utils.Float32ToInt16(math.Float32frombits(bits)), dstBig)
		}
	}
}
