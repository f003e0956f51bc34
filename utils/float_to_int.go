// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1, 1] to signed 16-bit, clamping
// values outside the range.
func Float32ToInt16(x float32) int16 {
	return int16(Clamp(x, -1, 1) * 32767.0)
}

// Float32ToUint8 converts a sample in [-1, 1] to unsigned 8-bit centred on
// 0x80.
func Float32ToUint8(x float32) uint8 {
	return uint8(int(Clamp(x, -1, 1)*127.0) + 128)
}

// Int16ToFloat32 is the inverse of Float32ToInt16.
func Int16ToFloat32(s int16) float32 {
	return Clamp(float32(s)/32767.0, -1, 1)
}

// Uint8ToFloat32 is the inverse of Float32ToUint8.
func Uint8ToFloat32(s uint8) float32 {
	return Clamp(float32(int(s)-128)/127.0, -1, 1)
}

// Clamp limits x to [lo, hi].
func Clamp[T ~int | ~int32 | ~float32 | ~float64](x, lo, hi T) T {
	return min(max(x, lo), hi)
}
