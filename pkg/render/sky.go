package render

const (
	skyStartFade  = 2
	skyFadeLength = 1 << (24 - skyStartFade)
	skyEnd        = 2 << 24
)

// skyIndex maps the sky position onto a texture of height h. Only the low
// 24 bits of frac matter, so the sky tiles every 1<<24.
func skyIndex(frac int32, h int) int {
	return int((((uint32(frac) << 8) >> 16) * uint32(h)) >> 16)
}

// skyBands returns where the top fade starts and ends and where the
// bottom fade starts and ends, as pixel counts from the top of the column.
func skyBands(frac, step int32, count int) (topStart, topEnd, bottomStart, bottomEnd int) {
	if step <= 0 {
		return 0, 0, count, count
	}
	clamp := func(v int32) int {
		return min(max(int(v), 0), count)
	}
	topStart = clamp(-frac / step)
	topEnd = clamp((skyFadeLength - frac) / step)
	bottomStart = clamp((skyEnd - skyFadeLength - frac) / step)
	bottomEnd = clamp((skyEnd - frac) / step)
	return
}

// skyColumn draws the three bands. texel returns the sky pixel for a
// position.
func (d *Drawers[P]) skyColumn(a *SkyArgs[P], texel func(frac int32) P) {
	if a.Count <= 0 {
		return
	}
	f := d.f
	dst := a.Dest.Pix
	pitch := a.Dest.Pitch
	off := a.Dest.Offset(a.X, a.Y)
	frac := a.TexFrac

	if !a.FadeSky {
		for range a.Count {
			dst[off] = texel(frac)
			off += pitch
			frac += a.TexStep
		}
		return
	}

	top, bottom := f.Pack(a.TopColor), f.Pack(a.BottomColor)
	topStart, topEnd, bottomStart, bottomEnd := skyBands(frac, a.TexStep, a.Count)
	for i := range a.Count {
		var c P
		switch {
		case i < topStart:
			c = top
		case i < topEnd:
			alpha := uint32(min(max(frac>>(16-skyStartFade), 0), 256))
			c = f.Pack(lerpRGB(a.TopColor, f.Unpack(texel(frac)), alpha))
		case i < bottomStart:
			c = texel(frac)
		case i < bottomEnd:
			alpha := uint32(min(max((skyEnd-frac)>>(16-skyStartFade), 0), 256))
			c = f.Pack(lerpRGB(a.BottomColor, f.Unpack(texel(frac)), alpha))
		default:
			c = bottom
		}
		dst[off] = c
		off += pitch
		frac += a.TexStep
	}
}

// DrawSingleSkyColumn draws one sky layer.
func (d *Drawers[P]) DrawSingleSkyColumn(a *SkyArgs[P]) {
	d.skyColumn(a, func(frac int32) P {
		return a.Front[skyIndex(frac, a.FrontHeight)]
	})
}

// DrawDoubleSkyColumn draws the front layer over the back layer, which
// shows wherever the front texel is transparent.
func (d *Drawers[P]) DrawDoubleSkyColumn(a *SkyArgs[P]) {
	if a.Back == nil || a.BackHeight <= 0 {
		d.DrawSingleSkyColumn(a)
		return
	}
	d.skyColumn(a, func(frac int32) P {
		i := skyIndex(frac, a.FrontHeight)
		if c := a.Front[i]; !d.f.Transparent(c) {
			return c
		}
		return a.Back[min(i, a.BackHeight-1)]
	})
}
