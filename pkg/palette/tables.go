package palette

import (
	"sync/atomic"
	"time"

	"github.com/taigrr/swdraw"
)

// Weighted colour layout: three 10-bit fields, green in bits 0-9, blue in
// 10-19 and red in 20-29. Each field holds channel*level/16, so a level of
// 64 stores the channel times 4 and the top 5 bits of the field are the
// RGB555 component.
const (
	// CarryGuard sets the low 5 bits of each field before indexing.
	CarryGuard = 0x01f07c1f
	// OverflowBits are the bits just above each field.
	OverflowBits = 0x40100400
	// LessPrecisionMask clears the lowest bit of the red and blue fields so
	// an overflow lands cleanly in OverflowBits.
	LessPrecisionMask = 0x3feffbff
	// Levels is the number of discrete translucency levels (0..64).
	Levels = 65
)

// Tables are the palette quantization lookups used by 8-bit blending.
type Tables struct {
	Palette Palette

	// RGB32k maps r<<10|g<<5|b (5 bits each) to the nearest palette index.
	RGB32k [32768]uint8
	// RGB256k maps r<<12|g<<6|b (6 bits each) to the nearest palette index.
	RGB256k [262144]uint8

	// Col2RGB8 holds every palette colour weighted by level/64 in the
	// packed field layout.
	Col2RGB8 [Levels][256]uint32
	// Col2RGB8LessPrecision is Col2RGB8 with LessPrecisionMask applied to
	// levels 1..63, for the saturating add and subtract tricks.
	Col2RGB8LessPrecision [Levels][256]uint32
}

// BuildTables computes all quantization tables for pal.
func BuildTables(pal *Palette) *Tables {
	start := time.Now()
	t := &Tables{Palette: *pal}

	for r := range 64 {
		for g := range 64 {
			for b := range 64 {
				t.RGB256k[r<<12|g<<6|b] = pal.Nearest(r<<2|r>>4, g<<2|g>>4, b<<2|b>>4)
			}
		}
	}
	for r := range 32 {
		for g := range 32 {
			for b := range 32 {
				t.RGB32k[r<<10|g<<5|b] = pal.Nearest(r<<3|r>>2, g<<3|g>>2, b<<3|b>>2)
			}
		}
	}

	for x := range Levels {
		for y, c := range pal {
			r, g, b := uint32(c.R), uint32(c.G), uint32(c.B)
			v := ((r*uint32(x))>>4)<<20 | (g*uint32(x))>>4 | ((b*uint32(x))>>4)<<10
			t.Col2RGB8[x][y] = v
			if x > 0 && x < Levels-1 {
				v &= LessPrecisionMask
			}
			t.Col2RGB8LessPrecision[x][y] = v
		}
	}

	swdraw.Logger().Info("palette tables built", "elapsed", time.Since(start))
	return t
}

// Quantize returns the palette index nearest to 0xRRGGBB via RGB256k.
func (t *Tables) Quantize(rgb uint32) uint8 {
	r := (rgb >> 18) & 0x3f
	g := (rgb >> 10) & 0x3f
	b := (rgb >> 2) & 0x3f
	return t.RGB256k[r<<12|g<<6|b]
}

// Quantize6 returns the palette index for 6-bit channels.
func (t *Tables) Quantize6(r, g, b uint32) uint8 {
	return t.RGB256k[r<<12|g<<6|b]
}

// Packed resolves a carry-guarded weighted sum to a palette index.
func (t *Tables) Packed(a uint32) uint8 {
	return t.RGB32k[(a&(a>>15))&0x7fff]
}

// AddClamp is the saturating sum of two weighted colours taken from
// Col2RGB8LessPrecision.
func AddClamp(fg, bg uint32) uint32 {
	a := fg + bg
	b := a
	a |= CarryGuard
	b &= OverflowBits
	a &= 0x3fffffff
	b = b - (b >> 5)
	return a | b
}

// SubClamp is max(fg-bg, 0) per field on weighted colours taken from
// Col2RGB8LessPrecision.
func SubClamp(fg, bg uint32) uint32 {
	a := (fg | OverflowBits) - bg
	b := a & OverflowBits
	b -= b >> 5
	a &= b
	return a | CarryGuard
}

// Add is the plain sum of weighted colours whose levels add up to 64 or less.
func Add(fg, bg uint32) uint32 {
	return (fg + bg) | CarryGuard
}

var current atomic.Pointer[Tables]

// Current returns the process-wide tables, building them for the default
// palette on first use.
func Current() *Tables {
	if t := current.Load(); t != nil {
		return t
	}
	t := BuildTables(Default())
	if current.CompareAndSwap(nil, t) {
		return t
	}
	return current.Load()
}

// SetPalette rebuilds the process-wide tables for pal. Call it between
// frames; drawers in flight keep the tables they were given.
func SetPalette(pal *Palette) *Tables {
	t := BuildTables(pal)
	current.Store(t)
	return t
}
