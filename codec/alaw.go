// SPDX-License-Identifier: EPL-2.0

package codec

import "sync"

var alawTable = sync.OnceValue(func() *lawTable {
	t := &lawTable{}
	for i := range 256 {
		input := i ^ 0x55
		mantissa := (input & quantMask) << 4
		segment := (input & segMask) >> segShift
		v := mantissa + 8
		if segment >= 1 {
			v += 0x100
		}
		if segment > 1 {
			v <<= segment - 1
		}
		if input&signBit == 0 {
			v = -v
		}
		t.hi[i] = byte(v >> 8)
		t.lo[i] = byte(v)
	}
	return t
})

// ALawToLinear expands one A-law byte.
func ALawToLinear(a byte) int16 {
	return alawTable().linear(a)
}

// LinearToALaw compresses one 16-bit sample. Negative input is offset by 8
// before the segment search and clamped at zero, so -1 through -8 encode as
// 0x55. The G.711 reference encoder rounds some of those differently.
func LinearToALaw(pcm int16) byte {
	val := int(pcm)
	mask := 0xD5
	if val < 0 {
		mask = 0x55
		val = -val - 8
		if val < 0 {
			val = 0
		}
	}

	seg := searchSegment(val)
	if seg >= len(segEnd) {
		return byte(0x7F ^ mask)
	}

	aval := seg << segShift
	if seg < 2 {
		aval |= (val >> 4) & quantMask
	} else {
		aval |= (val >> (seg + 3)) & quantMask
	}

	return byte(aval ^ mask)
}

func decodeALaw(bigEndian bool) transform {
	t := alawTable()
	return func(dst, src []byte) {
		t.decode(dst, src, bigEndian)
	}
}

func encodeALaw(bigEndian bool) transform {
	return func(dst, src []byte) {
		for i := range len(src) / 2 {
			dst[i] = LinearToALaw(readInt16(src[2*i:], bigEndian))
		}
	}
}
