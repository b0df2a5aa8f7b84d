// Package fixed provides the fixed-point texture coordinate math shared by
// every column and span drawer.
//
// Two coordinate spaces are used. Column drawers step texel-space positions
// whose integer part is pos >> bits (16.16 for sprites, wider for walls).
// Span and sky drawers step normalized 0.32 fractions, where the full uint32
// range covers the texture once and overflow is the wrap.
package fixed

import "math/bits"

const (
	// FracBits is the number of fractional bits in a 16.16 value.
	FracBits = 16
	// Unit is 1.0 in 16.16.
	Unit = 1 << FracBits
)

// Index returns frac >> bits. For a normalized coordinate over a texture of
// 2^k texels, bits is 32-k and the result is always in [0, 2^k).
func Index(frac uint32, bits uint) int {
	return int(frac >> bits)
}

// Scaled maps a normalized coordinate onto a texture of any size using the
// multiply-shift form ((frac>>16)*size)>>16. The result is in [0, size) for
// sizes up to 65535.
func Scaled(frac uint32, size int) int {
	return int(((frac >> FracBits) * uint32(size)) >> FracBits)
}

// Log2 returns k when size is 2^k.
func Log2(size int) (k uint, ok bool) {
	if size <= 0 || size&(size-1) != 0 {
		return 0, false
	}
	return uint(bits.TrailingZeros(uint(size))), true
}

// Ceil2 returns the smallest k such that 2^k >= size.
func Ceil2(size int) uint {
	if size <= 1 {
		return 0
	}
	return uint(bits.Len(uint(size - 1)))
}

// FromFloat converts a float to 16.16.
func FromFloat(f float64) int32 {
	return int32(f * Unit)
}

// Norm converts a texture coordinate measured in whole textures (1.0 is one
// full repeat) into a normalized 0.32 fraction. Values outside [0, 1) wrap.
func Norm(f float64) uint32 {
	return uint32(int64(f * (1 << 32)))
}

// SpanIndex returns the column-major texel index for a span sample at
// normalized (xfrac, yfrac) on a w x h texture. xfrac picks the column.
func SpanIndex(xfrac, yfrac uint32, w, h int) int {
	return Scaled(xfrac, w)*h + Scaled(yfrac, h)
}

// SpanIndexPow2 is SpanIndex for a 2^xbits x 2^ybits texture.
func SpanIndexPow2(xfrac, yfrac uint32, xbits, ybits uint) int {
	return int((xfrac>>(32-xbits))<<ybits | yfrac>>(32-ybits))
}

// SpanIndex64 is the 64x64 fast path.
func SpanIndex64(xfrac, yfrac uint32) int {
	return int((xfrac>>20)&(63*64) + yfrac>>26)
}
