package palette

import (
	"image/color"

	"github.com/taigrr/swdraw/pkg/fixed"
)

const (
	// NumLevels is the number of light levels in a colormap.
	NumLevels = 32
	// MaxLightVis caps the visibility term of the diminishing light formula.
	MaxLightVis = 24.0
)

// ShadeConstants describe how a colormap tints colours: a light colour, a
// fade colour approached in the dark and a desaturation amount. Channels
// are 0..256 coefficients.
type ShadeConstants struct {
	LightR, LightG, LightB     uint32
	FadeR, FadeG, FadeB, FadeA uint32
	Desaturate                 uint32

	// Simple is set for white light, black fade and no desaturation, where
	// shading is a plain multiply.
	Simple bool
}

// NewShadeConstants derives the constants for a light and fade colour.
// desaturate is 0..255.
func NewShadeConstants(light, fade color.RGBA, desaturate int) ShadeConstants {
	desaturate = min(max(desaturate, 0), 255)
	return ShadeConstants{
		LightR:     uint32(light.R) * 256 / 255,
		LightG:     uint32(light.G) * 256 / 255,
		LightB:     uint32(light.B) * 256 / 255,
		FadeR:      uint32(fade.R),
		FadeG:      uint32(fade.G),
		FadeB:      uint32(fade.B),
		FadeA:      uint32(fade.A) * 256 / 255,
		Desaturate: uint32(desaturate) * 256 / 255,
		Simple: light.R == 255 && light.G == 255 && light.B == 255 &&
			fade.R == 0 && fade.G == 0 && fade.B == 0 && desaturate == 0,
	}
}

// Shade applies the constants to a 0xAARRGGBB colour at brightness light
// (0..256). Alpha is preserved.
func (sc *ShadeConstants) Shade(c uint32, light uint32) uint32 {
	r := (c >> 16) & 0xff
	g := (c >> 8) & 0xff
	b := c & 0xff
	a := c & 0xff000000

	if sc.Simple {
		return a | (r*light>>8)<<16 | (g*light>>8)<<8 | b*light>>8
	}

	if sc.Desaturate != 0 {
		inv := 256 - sc.Desaturate
		gray := (r*77 + g*143 + b*37) >> 8 * sc.Desaturate
		r = (r*inv + gray) >> 8
		g = (g*inv + gray) >> 8
		b = (b*inv + gray) >> 8
	}

	r = r * light >> 8 * sc.LightR >> 8
	g = g * light >> 8 * sc.LightG >> 8
	b = b * light >> 8 * sc.LightB >> 8

	// The fade colour shows through where the light has gone.
	if fade := sc.FadeA * (256 - light) >> 8; fade != 0 {
		r = min(r+sc.FadeR*fade>>8, 255)
		g = min(g+sc.FadeG*fade>>8, 255)
		b = min(b+sc.FadeB*fade>>8, 255)
	}
	return a | r<<16 | g<<8 | b
}

// Colormap is a set of NumLevels remapping tables, level 0 brightest.
type Colormap struct {
	Maps      [NumLevels * 256]uint8
	Constants ShadeConstants
}

// BuildColormap shades every palette entry at every level through the
// constants and quantizes the results.
func BuildColormap(t *Tables, light, fade color.RGBA, desaturate int) *Colormap {
	cm := &Colormap{Constants: NewShadeConstants(light, fade, desaturate)}
	for level := range NumLevels {
		l := LevelLight(int32(level) << fixed.FracBits)
		for i := range 256 {
			c := cm.Constants.Shade(t.Palette.RGB(uint8(i)), l)
			cm.Maps[level*256+i] = t.Quantize(c)
		}
	}
	// The transparent index maps to itself at every level.
	for level := range NumLevels {
		cm.Maps[level*256] = Transparent
	}
	return cm
}

// Level returns the 256 entry table for a light level, clamped to range.
func (c *Colormap) Level(level int) []uint8 {
	level = min(max(level, 0), NumLevels-1)
	return c.Maps[level*256 : level*256+256]
}

// LevelLight converts a 16.16 colormap level (0 bright, 31 dark) into a
// 0..256 brightness multiplier.
func LevelLight(shade int32) uint32 {
	shade = min(max(shade, 0), NumLevels<<fixed.FracBits)
	return 256 - uint32(shade>>(fixed.FracBits-3))
}

// LightToShade converts a 0..255 sector light level into the 16.16 shade
// used by the diminishing light formula.
func LightToShade(light int) int32 {
	return (NumLevels * 2 * fixed.Unit) - int32(light+12)*(fixed.Unit*NumLevels/128)
}

// ShadeAt returns the 16.16 colormap level for a visibility term and a
// shade from LightToShade, clamped to [0, 31].
func ShadeAt(vis float64, shade int32) int32 {
	s := shade - fixed.FromFloat(min(vis, MaxLightVis))
	return min(max(s, 0), (NumLevels-1)<<fixed.FracBits)
}
