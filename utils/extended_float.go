// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"encoding/binary"
	"math"
)

// ExtendedSize is the length of an 80-bit extended float on the wire.
const ExtendedSize = 10

// ExtendedHuge is returned by DecodeExtended for the all-ones exponent. It is
// the largest float32, not an IEEE infinity.
const ExtendedHuge = 3.40282346638528860e+38

// DecodeExtended converts a big-endian 80-bit extended float, as stored in the
// AIFF COMM chunk, to a float64. The sign bit is not treated specially.
func DecodeExtended(b [ExtendedSize]byte) float64 {
	expon := int(binary.BigEndian.Uint16(b[0:2]))
	hiMant := binary.BigEndian.Uint32(b[2:6])
	loMant := binary.BigEndian.Uint32(b[6:10])

	if expon == 0 && hiMant == 0 && loMant == 0 {
		return 0
	}
	if expon == 0x7FFF {
		return ExtendedHuge
	}

	expon -= 16383 + 31
	f := math.Ldexp(float64(hiMant), expon)
	expon -= 32
	f += math.Ldexp(float64(loMant), expon)

	return f
}

// EncodeExtended converts v to the 80-bit layout used by AIFF writers.
//
// This is not a general encoder. The value is doubled until it reaches 44000
// and only the integer part of the result goes into the top 16 bits of the
// high mantissa word; the low word is always zero. Rates whose doubled value
// is whole and below 65536 round-trip exactly through DecodeExtended (8000,
// 11025, 22050, 44100, 48000 ...). Others are truncated or overflow the high
// word the same way legacy writers did. Zero, negative, NaN and infinite
// inputs encode as zero.
func EncodeExtended(v float64) [ExtendedSize]byte {
	var out [ExtendedSize]byte
	if !(v > 0) || math.IsInf(v, 0) {
		return out
	}

	exponent := 16398
	for v < 44000 {
		v *= 2
		exponent--
	}

	hi := int32(math.MaxInt32)
	if v < math.MaxInt32 {
		hi = int32(v)
	}

	binary.BigEndian.PutUint16(out[0:2], uint16(exponent))
	binary.BigEndian.PutUint32(out[2:6], uint32(hi)<<16)
	binary.BigEndian.PutUint32(out[6:10], 0)

	return out
}
