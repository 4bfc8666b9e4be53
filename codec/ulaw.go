// SPDX-License-Identifier: EPL-2.0

package codec

import "sync"

const (
	signBit   = 0x80
	quantMask = 0x0F
	segShift  = 4
	segMask   = 0x70
	ulawBias  = 0x84
)

// segEnd holds the upper bound of each of the eight companding segments.
var segEnd = [8]int{0xFF, 0x1FF, 0x3FF, 0x7FF, 0xFFF, 0x1FFF, 0x3FFF, 0x7FFF}

// lawTable splits each 16-bit linear value into its high and low byte so a
// decoder can emit either byte order without shifting.
type lawTable struct {
	hi [256]byte
	lo [256]byte
}

func (t *lawTable) linear(b byte) int16 {
	return int16(uint16(t.hi[b])<<8 | uint16(t.lo[b]))
}

func (t *lawTable) decode(dst, src []byte, bigEndian bool) {
	for i, b := range src {
		if bigEndian {
			dst[2*i] = t.hi[b]
			dst[2*i+1] = t.lo[b]
		} else {
			dst[2*i] = t.lo[b]
			dst[2*i+1] = t.hi[b]
		}
	}
}

// ulawTable is built on first use and read-only afterwards.
var ulawTable = sync.OnceValue(func() *lawTable {
	t := &lawTable{}
	for i := range 256 {
		ulaw := ^i & 0xFF
		v := ((ulaw & quantMask) << 3) + ulawBias
		v <<= (ulaw & segMask) >> segShift
		if ulaw&signBit != 0 {
			v = ulawBias - v
		} else {
			v -= ulawBias
		}
		t.hi[i] = byte(v >> 8)
		t.lo[i] = byte(v)
	}
	return t
})

// searchSegment returns the first segment whose bound is >= val, or 8.
func searchSegment(val int) int {
	for i, end := range segEnd {
		if val <= end {
			return i
		}
	}
	return len(segEnd)
}

// ULawToLinear expands one u-law byte.
func ULawToLinear(u byte) int16 {
	return ulawTable().linear(u)
}

// LinearToULaw compresses one 16-bit sample. Magnitudes beyond the last
// segment map to the loudest code of the sample's sign.
func LinearToULaw(pcm int16) byte {
	val := int(pcm)
	mask := 0xFF
	if val < 0 {
		val = ulawBias - val
		mask = 0x7F
	} else {
		val += ulawBias
	}

	seg := searchSegment(val)
	if seg >= len(segEnd) {
		return byte(0x7F ^ mask)
	}

	return byte(((seg << 4) | ((val >> (seg + 3)) & 0xF)) ^ mask)
}

func decodeULaw(bigEndian bool) transform {
	t := ulawTable()
	return func(dst, src []byte) {
		t.decode(dst, src, bigEndian)
	}
}

func encodeULaw(bigEndian bool) transform {
	return func(dst, src []byte) {
		for i := range len(src) / 2 {
			dst[i] = LinearToULaw(readInt16(src[2*i:], bigEndian))
		}
	}
}
