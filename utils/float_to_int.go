// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1,1] to 16-bit PCM. Values outside
// the range are clamped; NaN becomes silence.
func Float32ToInt16(x float32) int16 {
	switch {
	case x != x:
		return 0
	case x >= 1:
		return 32767
	case x <= -1:
		return -32768
	case x < 0:
		return int16(x * 32768.0)
	default:
		return int16(x * 32767.0)
	}
}
