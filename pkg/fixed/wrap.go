package fixed

import "iter"

// Run is a stretch of pixels whose texel positions pos, pos+step, ...
// stay below the wrap boundary, so the texel index is pos >> bits with no
// modulo inside the run.
type Run struct {
	Pos   uint32
	Count int
}

// UVMax returns the wrap boundary size << bits for a column texture, or
// 1<<32 when the coordinate wraps naturally on uint32 overflow.
func UVMax(size int, bits uint) uint64 {
	m := uint64(size) << bits
	if m > 1<<32 {
		return 1 << 32
	}
	return m
}

// WallBits returns the fractional bits for a wall texture of the given height:
// the widest precision where height << bits still fits 32 bits. Power of two
// heights get height << bits == 1<<32 and wrap for free.
func WallBits(height int) uint {
	return 32 - Ceil2(height)
}

// WallPos converts a normalized 0.32 texture coordinate into wall space for
// a texture of the given height.
func WallPos(v uint32, height int, bits uint) uint32 {
	return uint32((uint64(v) * uint64(height)) >> (32 - bits))
}

// WrapRuns splits count pixels into runs bounded by the next crossing of
// uvMax. It is equivalent to wrapping pos modulo uvMax after every step, but
// the modulo happens once per run instead of once per pixel.
//
// A uvMax of 1<<32 or a zero step yields a single run.
func WrapRuns(pos, step uint32, uvMax uint64, count int) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		if count <= 0 {
			return
		}
		if uvMax >= 1<<32 || uvMax == 0 || step == 0 {
			if step == 0 && uvMax > 0 && uvMax < 1<<32 {
				pos = uint32(uint64(pos) % uvMax)
			}
			yield(Run{Pos: pos, Count: count})
			return
		}

		p := uint64(pos) % uvMax
		s := uint64(step)
		left := count
		for left > 0 {
			avail := uvMax - p
			n := int((avail + s - 1) / s)
			if n > left {
				n = left
			}
			if !yield(Run{Pos: uint32(p), Count: n}) {
				return
			}
			p = (p + s*uint64(n)) % uvMax
			left -= n
		}
	}
}
