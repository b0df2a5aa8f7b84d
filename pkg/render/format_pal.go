package render

import (
	"github.com/taigrr/swdraw/pkg/fixed"
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/palette"
)

// Pal8 is the palette indexed format.
type Pal8 struct {
	Tables *palette.Tables
	Method BlendMethod
}

// NewPal8 returns the 8-bit format for a set of tables.
func NewPal8(t *palette.Tables, method BlendMethod) *Pal8 {
	return &Pal8{Tables: t, Method: method}
}

func (f *Pal8) Name() string {
	if f.Method == BlendDirect {
		return "pal8/direct"
	}
	return "pal8/packed"
}

func (f *Pal8) Shade(texel uint8, s Shade) uint8 {
	if s.Colormap == nil {
		return texel
	}
	return s.Colormap.Level(s.level())[texel]
}

func (f *Pal8) Lit(texel, shaded uint8, lit light.RGB) uint8 {
	if lit.IsZero() {
		return shaded
	}
	pal := &f.Tables.Palette
	return f.Tables.Quantize(light.Apply(pal.RGB(shaded), pal.RGB(texel), lit))
}

func (f *Pal8) Index(i uint8) uint8 { return i }

func (f *Pal8) Unpack(p uint8) uint32 { return f.Tables.Palette.RGB(p) }

func (f *Pal8) Pack(rgb uint32) uint8 { return f.Tables.Quantize(rgb) }

func (f *Pal8) Transparent(p uint8) bool { return p == palette.Transparent }

// level converts a 16.16 alpha to a Col2RGB8 level.
func level(alpha uint32) uint32 {
	return min(alpha>>10, palette.Levels-1)
}

func (f *Pal8) PrepareBlend(op Op, src, dest uint32) BlendState {
	src = min(src, fixed.Unit)
	dest = min(dest, fixed.Unit)
	st := BlendState{Op: op, Src: src, Dest: dest}
	if f.Method == BlendDirect {
		return st
	}

	sa, da := level(src), level(dest)
	// A plain sum only stays inside the fields while the levels add up to
	// 64 or less.
	if op == OpAdd && sa+da > palette.Levels-1 {
		st.Op = OpAddClamp
	}
	switch st.Op {
	case OpAdd:
		st.fg, st.bg = &f.Tables.Col2RGB8[sa], &f.Tables.Col2RGB8[da]
	case OpAddClamp, OpSubClamp, OpRevSubClamp:
		st.fg, st.bg = &f.Tables.Col2RGB8LessPrecision[sa], &f.Tables.Col2RGB8LessPrecision[da]
	}
	st.Src, st.Dest = sa, da
	return st
}

func (f *Pal8) Blend(st *BlendState, fg, bg uint8) uint8 {
	if st.Op == OpCopy {
		return fg
	}
	if f.Method == BlendDirect {
		return f.blendDirect(st, fg, bg)
	}
	t := f.Tables
	switch st.Op {
	case OpAdd:
		return t.Packed(palette.Add(st.fg[fg], st.bg[bg]))
	case OpAddClamp:
		return t.Packed(palette.AddClamp(st.fg[fg], st.bg[bg]))
	case OpSubClamp:
		return t.Packed(palette.SubClamp(st.fg[fg], st.bg[bg]))
	case OpRevSubClamp:
		return t.Packed(palette.SubClamp(st.bg[bg], st.fg[fg]))
	}
	return fg
}

// blendDirect works on palette RGB. Channels times 16.16 alphas shifted
// right by 18 land on the 6-bit RGB256k scale.
func (f *Pal8) blendDirect(st *BlendState, fg, bg uint8) uint8 {
	r, g, b, ok := f.directRGB(st, fg, bg)
	if !ok {
		return fg
	}
	return f.Tables.Quantize6(r, g, b)
}

// directRGB returns the blended 6-bit channels before they are mapped back
// to the palette.
func (f *Pal8) directRGB(st *BlendState, fg, bg uint8) (r, g, b uint32, ok bool) {
	pal := &f.Tables.Palette
	x, y := pal[fg], pal[bg]
	sa, da := st.Src, st.Dest
	var ch func(x, y uint8) uint32
	switch st.Op {
	case OpAdd, OpAddClamp:
		ch = func(x, y uint8) uint32 {
			return min((uint32(x)*sa+uint32(y)*da)>>18, 63)
		}
	case OpSubClamp:
		ch = func(x, y uint8) uint32 {
			return sub6(uint32(x)*sa, uint32(y)*da)
		}
	case OpRevSubClamp:
		ch = func(x, y uint8) uint32 {
			return sub6(uint32(y)*da, uint32(x)*sa)
		}
	default:
		return 0, 0, 0, false
	}
	return ch(x.R, y.R), ch(x.G, y.G), ch(x.B, y.B), true
}

func sub6(a, b uint32) uint32 {
	if b >= a {
		return 0
	}
	return min((a-b)>>18, 63)
}

func (f *Pal8) Wash(color, dest uint8, alpha uint32, clamp bool) uint8 {
	alpha = min(alpha, 64)
	t := f.Tables
	if f.Method == BlendPacked {
		if clamp {
			return t.Packed(palette.AddClamp(t.Col2RGB8LessPrecision[alpha][color], t.Col2RGB8LessPrecision[64][dest]))
		}
		return t.Packed(palette.Add(t.Col2RGB8[alpha][color], t.Col2RGB8[64-alpha][dest]))
	}
	st := BlendState{Op: OpAddClamp, Src: alpha << 10, Dest: (64 - alpha) << 10}
	if clamp {
		st.Dest = fixed.Unit
	}
	return f.blendDirect(&st, color, dest)
}

func (f *Pal8) Filter(p00, _, _, _ uint8, _, _ uint32) uint8 { return p00 }
