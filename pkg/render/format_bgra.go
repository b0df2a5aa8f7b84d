package render

import (
	"github.com/taigrr/swdraw/pkg/fixed"
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/palette"
)

// BGRA is the 32-bit true colour format. Pixels are 0xAARRGGBB, which is
// B, G, R, A in little endian memory order. Alpha 0 marks a transparent
// texel; blended and shaded output is opaque.
type BGRA struct {
	// Tables supply the palette for indexed sources such as translated
	// sprites.
	Tables *palette.Tables
}

// NewBGRA returns the true colour format.
func NewBGRA(t *palette.Tables) *BGRA {
	return &BGRA{Tables: t}
}

func (f *BGRA) Name() string { return "bgra32" }

func (f *BGRA) Shade(texel uint32, s Shade) uint32 {
	if s.Colormap == nil {
		return texel
	}
	return s.Colormap.Constants.Shade(texel, palette.LevelLight(s.Light))
}

func (f *BGRA) Lit(texel, shaded uint32, lit light.RGB) uint32 {
	return light.Apply(shaded, texel, lit)
}

func (f *BGRA) Index(i uint8) uint32 {
	if i == palette.Transparent {
		return 0
	}
	return 0xff000000 | f.Tables.Palette.RGB(i)
}

func (f *BGRA) Unpack(p uint32) uint32 { return p & 0xffffff }

func (f *BGRA) Pack(rgb uint32) uint32 { return 0xff000000 | rgb&0xffffff }

func (f *BGRA) Transparent(p uint32) bool { return p>>24 == 0 }

func (f *BGRA) PrepareBlend(op Op, src, dest uint32) BlendState {
	return BlendState{
		Op:   op,
		Src:  min(src, fixed.Unit) >> 8,
		Dest: min(dest, fixed.Unit) >> 8,
	}
}

func (f *BGRA) Blend(st *BlendState, fg, bg uint32) uint32 {
	sa, da := st.Src, st.Dest
	out := uint32(0xff000000)
	switch st.Op {
	case OpAdd, OpAddClamp:
		for shift := uint(0); shift < 24; shift += 8 {
			c := (((fg>>shift)&0xff)*sa + ((bg>>shift)&0xff)*da) >> 8
			out |= min(c, 255) << shift
		}
	case OpSubClamp:
		for shift := uint(0); shift < 24; shift += 8 {
			out |= subChannel(((fg>>shift)&0xff)*sa, ((bg>>shift)&0xff)*da) << shift
		}
	case OpRevSubClamp:
		for shift := uint(0); shift < 24; shift += 8 {
			out |= subChannel(((bg>>shift)&0xff)*da, ((fg>>shift)&0xff)*sa) << shift
		}
	default:
		return fg
	}
	return out
}

func subChannel(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return min((a-b)>>8, 255)
}

func (f *BGRA) Wash(color, dest uint32, alpha uint32, clamp bool) uint32 {
	a := min(alpha, 64) << 2
	out := uint32(0xff000000)
	for shift := uint(0); shift < 24; shift += 8 {
		c := (color >> shift) & 0xff
		d := (dest >> shift) & 0xff
		var v uint32
		if clamp {
			v = min(d+(c*a)>>8, 255)
		} else {
			v = (c*a + d*(256-a)) >> 8
		}
		out |= v << shift
	}
	return out
}

func (f *BGRA) Filter(p00, p01, p10, p11 uint32, wy, wx uint32) uint32 {
	return fixed.Lerp4(p00, p01, p10, p11, wy, wx)
}
