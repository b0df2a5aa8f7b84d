package render

import (
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/palette"
)

const (
	// MaxScreenWidth bounds the per-column scratch buffers.
	MaxScreenWidth = 4096
	// SpanSize is the distance between exact perspective divisions on a
	// tilted span.
	SpanSize = 16
)

// TiltBuffer holds the per-column 16.16 light levels of one tilted row.
type TiltBuffer struct {
	light [MaxScreenWidth]int32
}

// CalcTiltedLighting ramps the colormap level linearly from visibility
// lstart at x1 to lend at x1+width, one entry per screen column.
func (b *TiltBuffer) CalcTiltedLighting(x1, width int, lstart, lend float64, planeShade int32) {
	if x1 < 0 || x1 >= MaxScreenWidth {
		return
	}
	width = min(width, MaxScreenWidth-1-x1)
	if width <= 0 || lstart == lend {
		level := palette.ShadeAt(lstart, planeShade)
		for i := range max(width, 0) + 1 {
			b.light[x1+i] = level
		}
		return
	}
	step := (lend - lstart) / float64(width)
	for i := range width + 1 {
		b.light[x1+i] = palette.ShadeAt(lstart+float64(i)*step, planeShade)
	}
}

// Fill sets a constant level for columns x1..x2.
func (b *TiltBuffer) Fill(x1, x2 int, level int32) {
	x1 = max(x1, 0)
	x2 = min(x2, MaxScreenWidth-1)
	for x := x1; x <= x2; x++ {
		b.light[x] = level
	}
}

// Level returns the light level stored for column x.
func (b *TiltBuffer) Level(x int) int32 {
	return b.light[x]
}

// tiltedSampler resolves a normalized (u, v) pair to a texel index using
// the power of two shift/mask form when it can.
type tiltedSampler struct {
	ushift, vshift uint
	umask          uint32
	pow2           bool
	span           spanSampler
}

func newTiltedSampler(w, h int) tiltedSampler {
	s := tiltedSampler{span: newSpanSampler(w, h)}
	if s.span.kind != 0 {
		xbits, ybits := s.span.xbits, s.span.ybits
		if s.span.kind == 2 {
			xbits, ybits = 6, 6
		}
		s.pow2 = true
		s.vshift = 32 - ybits
		s.ushift = s.vshift - xbits
		s.umask = ((1 << xbits) - 1) << ybits
	}
	return s
}

func (s *tiltedSampler) index(u, v uint32) int {
	if s.pow2 {
		return int(v>>s.vshift | (u>>s.ushift)&s.umask)
	}
	return s.span.index(u, v)
}

// DrawTiltedSpan draws a perspective correct row on a sloped plane. U/Z,
// V/Z and 1/Z are exact every SpanSize pixels and interpolated linearly in
// between; the final partial stride gets its own exact step.
func (d *Drawers[P]) DrawTiltedSpan(a *TiltedArgs[P]) {
	width := a.X2 - a.X1
	if width < 0 || a.X1 < 0 || a.X2 >= MaxScreenWidth {
		return
	}
	f := d.f
	tilt := d.tilt
	dy := a.CenterY - float64(a.Y)
	dx := float64(a.X1) - a.CenterX
	iz := a.SZ[2] + a.SZ[1]*dy + a.SZ[0]*dx

	if a.PlaneLight != 0 && a.Shade.Colormap != nil {
		lend := (iz + a.SZ[0]*float64(width)) * a.PlaneLight
		tilt.CalcTiltedLighting(a.X1, width, iz*a.PlaneLight, lend, a.PlaneShade)
	} else {
		tilt.Fill(a.X1, a.X2, a.Shade.Light)
	}

	uz := a.SU[2] + a.SU[1]*dy + a.SU[0]*dx
	vz := a.SV[2] + a.SV[1]*dy + a.SV[0]*dx

	s := newTiltedSampler(a.Width, a.Height)
	dst := a.Dest.Pix[a.Dest.Offset(a.X1, a.Y):][:width+1]
	shade := a.Shade
	pos := a.ViewPos
	x := 0

	plot := func(u, v uint32) {
		texel := a.Source[s.index(u, v)]
		shade.Light = tilt.light[a.X1+x]
		c := f.Shade(texel, shade)
		if len(a.Lights) > 0 {
			c = f.Lit(texel, c, light.Tilted(a.Lights, pos, a.Normal))
			pos = pos.Add(a.ViewPosStep)
		}
		dst[x] = c
		x++
	}

	if width == 0 {
		z := 1 / iz
		plot(uint32(int64(uz*z))+a.PViewX, uint32(int64(vz*z))+a.PViewY)
		return
	}

	startz := 1 / iz
	startu := uz * startz
	startv := vz * startz
	izstep := a.SZ[0] * SpanSize
	uzstep := a.SU[0] * SpanSize
	vzstep := a.SV[0] * SpanSize

	width++
	for width >= SpanSize {
		iz += izstep
		uz += uzstep
		vz += vzstep

		endz := 1 / iz
		endu := uz * endz
		endv := vz * endz
		stepu := uint32(int64((endu - startu) / SpanSize))
		stepv := uint32(int64((endv - startv) / SpanSize))
		u := uint32(int64(startu)) + a.PViewX
		v := uint32(int64(startv)) + a.PViewY

		for range SpanSize {
			plot(u, v)
			u += stepu
			v += stepv
		}
		startu, startv = endu, endv
		width -= SpanSize
	}

	switch {
	case width == 1:
		plot(uint32(int64(startu))+a.PViewX, uint32(int64(startv))+a.PViewY)
	case width > 1:
		left := float64(width)
		iz += a.SZ[0] * left
		uz += a.SU[0] * left
		vz += a.SV[0] * left

		endz := 1 / iz
		endu := uz * endz
		endv := vz * endz
		stepu := uint32(int64((endu - startu) / left))
		stepv := uint32(int64((endv - startv) / left))
		u := uint32(int64(startu)) + a.PViewX
		v := uint32(int64(startv)) + a.PViewY
		for range width {
			plot(u, v)
			u += stepu
			v += stepv
		}
	}
}
