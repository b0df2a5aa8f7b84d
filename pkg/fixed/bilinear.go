package fixed

// Taps are the two neighbouring texels along one axis and the 4-bit weight
// (0..15) of the second one.
type Taps struct {
	I0, I1 int
	W      uint32
}

// ColumnTaps returns the bilinear taps for a texel-space position with the
// given fractional bits on a texture of size texels. The half-texel bias is
// applied here; callers pass the same position they would use for nearest
// sampling.
func ColumnTaps(pos uint32, bits uint, size int) Taps {
	if bits > 0 {
		half := uint32(1) << (bits - 1)
		if pos >= half {
			pos -= half
		} else {
			pos = uint32(uint64(size)<<bits - uint64(half-pos))
		}
	}
	i0 := int(pos>>bits) % size
	var w uint32
	if bits >= 4 {
		w = (pos >> (bits - 4)) & 15
	}
	return Taps{I0: i0, I1: (i0 + 1) % size, W: w}
}

// SpanTaps returns the bilinear taps for a normalized 0.32 coordinate on a
// texture of any size.
func SpanTaps(frac uint32, size int) Taps {
	frac -= HalfTexel(size)
	pos := (frac >> FracBits) * uint32(size)
	i0 := int(pos >> FracBits)
	return Taps{I0: i0, I1: (i0 + 1) % size, W: (pos >> (FracBits - 4)) & 15}
}

// HalfTexel is half of one texel in normalized 0.32 units, rounded up.
func HalfTexel(size int) uint32 {
	return uint32((0x80000000 + uint64(size) - 1) / uint64(size))
}

// Lerp4 combines four 0xAARRGGBB texels with 4-bit weights. p00 and p01 are
// the two rows of the first column, p10 and p11 of the second. wy weights the
// second row and wx the second column. Every channel is rounded with +127>>8.
func Lerp4(p00, p01, p10, p11 uint32, wy, wx uint32) uint32 {
	a := 16 - wy
	b := 16 - wx
	w00 := a * b
	w01 := wy * b
	w10 := a * wx
	w11 := wy * wx

	var out uint32
	for shift := uint(0); shift < 32; shift += 8 {
		c := ((p00>>shift)&0xff)*w00 +
			((p01>>shift)&0xff)*w01 +
			((p10>>shift)&0xff)*w10 +
			((p11>>shift)&0xff)*w11
		out |= ((c + 127) >> 8) << shift
	}
	return out
}
