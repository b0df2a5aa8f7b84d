// Package palette builds the colour quantization tables, colormaps, shade
// tables and translations used by the 8-bit drawers.
package palette

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Transparent is the palette index masked drawers skip.
const Transparent = 0

// Palette is a 256 entry RGB palette. Alpha is ignored.
type Palette [256]color.RGBA

// RGB returns entry i packed as 0xRRGGBB.
func (p *Palette) RGB(i uint8) uint32 {
	c := p[i]
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Nearest returns the index of the entry closest to (r, g, b) by squared RGB
// distance. Index 0 is never returned so quantized colours stay opaque for
// masked drawing.
func (p *Palette) Nearest(r, g, b int) uint8 {
	best := 1
	bestDist := int(^uint(0) >> 1)
	for i := 1; i < 256; i++ {
		c := p[i]
		dr := int(c.R) - r
		dg := int(c.G) - g
		db := int(c.B) - b
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	return uint8(best)
}

// ColorPalette converts to an image/color palette for paletted images.
func (p *Palette) ColorPalette() color.Palette {
	out := make(color.Palette, 256)
	for i, c := range p {
		out[i] = color.RGBA{c.R, c.G, c.B, 255}
	}
	return out
}

// FromColorPalette copies up to 256 colours from an image palette.
func FromColorPalette(cp color.Palette) *Palette {
	var p Palette
	for i := 0; i < len(cp) && i < 256; i++ {
		r, g, b, _ := cp[i].RGBA()
		p[i] = color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), 255}
	}
	return &p
}

// Ramp describes a run of palette entries shading one hue from light to dark.
type Ramp struct {
	Hue    float64 // degrees
	Chroma float64 // 0..1
	Len    int
}

// DefaultRamps lays out 15 hue ramps of 16 shades after the grey ramp.
func DefaultRamps() []Ramp {
	ramps := make([]Ramp, 0, 15)
	for i := range 15 {
		ramps = append(ramps, Ramp{Hue: float64(i) * 24, Chroma: 0.35 + 0.05*float64(i%3), Len: 16})
	}
	return ramps
}

// Generate builds a palette from perceptual HCL ramps. Entry 0 is black and
// reserved as the transparent index, entries 1..15 form a grey ramp, then
// each ramp runs from light to dark.
func Generate(ramps []Ramp) *Palette {
	var p Palette
	p[0] = color.RGBA{0, 0, 0, 255}
	for i := 1; i < 16; i++ {
		v := uint8(255 - (i-1)*255/14)
		p[i] = color.RGBA{v, v, v, 255}
	}

	idx := 16
	for _, r := range ramps {
		for j := 0; j < r.Len && idx < 256; j++ {
			l := 0.92 - 0.85*float64(j)/float64(max(r.Len-1, 1))
			c := colorful.Hcl(r.Hue, r.Chroma, l).Clamped()
			cr, cg, cb := c.RGB255()
			p[idx] = color.RGBA{cr, cg, cb, 255}
			idx++
		}
	}
	for ; idx < 256; idx++ {
		p[idx] = p[idx-16]
	}
	return &p
}

// Default returns the built in palette.
func Default() *Palette {
	return Generate(DefaultRamps())
}

// RampStart returns the first index of ramp n in a palette built by Generate
// with 16 entry ramps.
func RampStart(n int) uint8 {
	return uint8(16 + n*16)
}
