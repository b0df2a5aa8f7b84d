package render

import (
	"github.com/taigrr/swdraw/pkg/fixed"
	"github.com/taigrr/swdraw/pkg/light"
)

// spanSampler picks the texel index function for a texture once per call.
type spanSampler struct {
	w, h         int
	xbits, ybits uint
	kind         uint8 // 0 general, 1 power of two, 2 64x64
}

func newSpanSampler(w, h int) spanSampler {
	s := spanSampler{w: w, h: h}
	xb, okx := fixed.Log2(w)
	yb, oky := fixed.Log2(h)
	switch {
	case w == 64 && h == 64:
		s.kind = 2
	case okx && oky:
		s.kind = 1
		s.xbits, s.ybits = xb, yb
	}
	return s
}

func (s *spanSampler) index(xfrac, yfrac uint32) int {
	switch s.kind {
	case 2:
		return fixed.SpanIndex64(xfrac, yfrac)
	case 1:
		return fixed.SpanIndexPow2(xfrac, yfrac, s.xbits, s.ybits)
	}
	return fixed.SpanIndex(xfrac, yfrac, s.w, s.h)
}

// sample reads the texel at (xfrac, yfrac), filtering when asked.
func sample[P Pixel](f Format[P], src []P, s *spanSampler, xfrac, yfrac uint32, bilinear bool) P {
	if !bilinear {
		return src[s.index(xfrac, yfrac)]
	}
	i00, i01, i10, i11, wy, wx := s.taps(xfrac, yfrac)
	return f.Filter(src[i00], src[i01], src[i10], src[i11], wy, wx)
}

func (s *spanSampler) taps(xfrac, yfrac uint32) (i00, i01, i10, i11 int, wy, wx uint32) {
	tx := fixed.SpanTaps(xfrac, s.w)
	ty := fixed.SpanTaps(yfrac, s.h)
	c0 := tx.I0 * s.h
	c1 := tx.I1 * s.h
	return c0 + ty.I0, c0 + ty.I1, c1 + ty.I0, c1 + ty.I1, ty.W, tx.W
}

// span is the loop behind every textured span drawer.
func (d *Drawers[P]) span(a *SpanArgs[P], op Op, masked bool) {
	count := a.X2 - a.X1 + 1
	if count <= 0 {
		return
	}
	f := d.f
	st := f.PrepareBlend(op, a.SrcAlpha, a.DestAlpha)
	s := newSpanSampler(a.Width, a.Height)
	bilinear := d.filter == FilterBilinear
	dst := a.Dest.Pix[a.Dest.Offset(a.X1, a.Y):][:count]
	xfrac, yfrac := a.XFrac, a.YFrac
	vx := a.ViewX

	for i := range dst {
		texel := spanTexel(f, a.Source, &s, xfrac, yfrac, bilinear, masked)
		if !masked || !f.Transparent(texel) {
			c := f.Shade(texel, a.Shade)
			if len(a.Lights) > 0 {
				c = f.Lit(texel, c, light.Accumulate(a.Lights, vx))
			}
			dst[i] = f.Blend(&st, c, dst[i])
		}
		xfrac += a.XStep
		yfrac += a.YStep
		vx += a.ViewXStep
	}
}

// spanTexel samples for a span. Masked spans test the nearest texel and
// filter with it standing in for transparent neighbours.
func spanTexel[P Pixel](f Format[P], source []P, s *spanSampler, xfrac, yfrac uint32, bilinear, masked bool) P {
	if !masked {
		return sample(f, source, s, xfrac, yfrac, bilinear)
	}
	t := source[s.index(xfrac, yfrac)]
	if f.Transparent(t) || !bilinear {
		return t
	}
	i00, i01, i10, i11, wy, wx := s.taps(xfrac, yfrac)
	return filterOpaque(f, t, source[i00], source[i01], source[i10], source[i11], wy, wx)
}

// filterOpaque filters four taps with centre in place of any transparent
// one.
func filterOpaque[P Pixel](f Format[P], centre, p00, p01, p10, p11 P, wy, wx uint32) P {
	taps := [4]P{p00, p01, p10, p11}
	for i, p := range taps {
		if f.Transparent(p) {
			taps[i] = centre
		}
	}
	return f.Filter(taps[0], taps[1], taps[2], taps[3], wy, wx)
}

// DrawSpan draws an opaque floor or ceiling row.
func (d *Drawers[P]) DrawSpan(a *SpanArgs[P]) { d.span(a, OpCopy, false) }

// DrawSpanMasked skips transparent texels.
func (d *Drawers[P]) DrawSpanMasked(a *SpanArgs[P]) { d.span(a, OpCopy, true) }

// DrawSpanTranslucent blends with SrcAlpha and DestAlpha.
func (d *Drawers[P]) DrawSpanTranslucent(a *SpanArgs[P]) { d.span(a, OpAdd, false) }

func (d *Drawers[P]) DrawSpanMaskedTranslucent(a *SpanArgs[P]) { d.span(a, OpAdd, true) }

func (d *Drawers[P]) DrawSpanAddClamp(a *SpanArgs[P]) { d.span(a, OpAddClamp, false) }

func (d *Drawers[P]) DrawSpanMaskedAddClamp(a *SpanArgs[P]) { d.span(a, OpAddClamp, true) }

// FillSpan writes Color across the row.
func (d *Drawers[P]) FillSpan(a *SpanArgs[P]) {
	count := a.X2 - a.X1 + 1
	if count <= 0 {
		return
	}
	dst := a.Dest.Pix[a.Dest.Offset(a.X1, a.Y):][:count]
	for i := range dst {
		dst[i] = a.Color
	}
}

// DrawColoredSpan writes Color shaded by the row's light.
func (d *Drawers[P]) DrawColoredSpan(a *SpanArgs[P]) {
	count := a.X2 - a.X1 + 1
	if count <= 0 {
		return
	}
	c := d.f.Shade(a.Color, a.Shade)
	dst := a.Dest.Pix[a.Dest.Offset(a.X1, a.Y):][:count]
	for i := range dst {
		dst[i] = c
	}
}

// DrawFogBoundaryLine shades the pixels already in the row, darkening
// geometry drawn behind a fog boundary.
func (d *Drawers[P]) DrawFogBoundaryLine(a *SpanArgs[P]) {
	count := a.X2 - a.X1 + 1
	if count <= 0 {
		return
	}
	dst := a.Dest.Pix[a.Dest.Offset(a.X1, a.Y):][:count]
	for i, p := range dst {
		dst[i] = d.f.Shade(p, a.Shade)
	}
}
