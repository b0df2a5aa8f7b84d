package render

import (
	"github.com/taigrr/swdraw/pkg/fixed"
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/palette"
)

// column is the loop behind every textured column drawer. Masked columns
// skip transparent texels but still advance.
func (d *Drawers[P]) column(a *ColumnArgs[P], op Op, masked bool) {
	if a.Count <= 0 {
		return
	}
	f := d.f
	st := f.PrepareBlend(op, a.SrcAlpha, a.DestAlpha)
	bits := a.bits()
	dst := a.Dest.Pix
	pitch := a.Dest.Pitch
	off := a.Dest.Offset(a.X, a.Y)
	bilinear := d.filter == FilterBilinear && a.Indexed == nil && a.Source2 != nil

	var flat light.RGB
	if a.DynLight != 0 && len(a.Lights) == 0 {
		flat = light.Flat(a.DynLight, palette.LevelLight(a.Shade.Light))
	}
	z := a.ViewZ

	for run := range fixed.WrapRuns(a.TexFrac, a.TexStep, fixed.UVMax(a.Height, bits), a.Count) {
		pos := run.Pos
		for range run.Count {
			var texel P
			skip := false
			if a.Indexed != nil {
				i := a.Indexed[pos>>bits]
				skip = masked && i == palette.Transparent
				if a.Translation != nil {
					i = a.Translation[i]
				}
				texel = f.Index(i)
			} else {
				texel = a.Source[pos>>bits]
				skip = masked && f.Transparent(texel)
				if bilinear && !skip {
					t := fixed.ColumnTaps(pos, bits, a.Height)
					p00, p01, p10, p11 := a.Source[t.I0], a.Source[t.I1], a.Source2[t.I0], a.Source2[t.I1]
					if masked {
						texel = filterOpaque(f, texel, p00, p01, p10, p11, t.W, a.FilterX)
					} else {
						texel = f.Filter(p00, p01, p10, p11, t.W, a.FilterX)
					}
				}
			}

			if !skip {
				c := f.Shade(texel, a.Shade)
				switch {
				case len(a.Lights) > 0:
					c = f.Lit(texel, c, light.Accumulate(a.Lights, z))
				case !flat.IsZero():
					c = f.Lit(texel, c, flat)
				}
				dst[off] = f.Blend(&st, c, dst[off])
			}

			pos += a.TexStep
			off += pitch
			z += a.ViewZStep
		}
	}
}

// fill blends a solid colour down the column.
func (d *Drawers[P]) fill(a *ColumnArgs[P], op Op) {
	if a.Count <= 0 {
		return
	}
	st := d.f.PrepareBlend(op, a.SrcAlpha, a.DestAlpha)
	dst := a.Dest.Pix
	off := a.Dest.Offset(a.X, a.Y)
	for range a.Count {
		dst[off] = d.f.Blend(&st, a.Color, dst[off])
		off += a.Dest.Pitch
	}
}

// shaded washes Color over the column using the Indexed texels, through
// Mask, as the strength.
func (d *Drawers[P]) shaded(a *ColumnArgs[P], clamp bool) {
	if a.Count <= 0 || a.Mask == nil {
		return
	}
	bits := a.bits()
	dst := a.Dest.Pix
	off := a.Dest.Offset(a.X, a.Y)
	for run := range fixed.WrapRuns(a.TexFrac, a.TexStep, fixed.UVMax(a.Height, bits), a.Count) {
		pos := run.Pos
		for range run.Count {
			if alpha := a.Mask[a.Indexed[pos>>bits]]; alpha != 0 {
				dst[off] = d.f.Wash(a.Color, dst[off], uint32(alpha), clamp)
			}
			pos += a.TexStep
			off += a.Dest.Pitch
		}
	}
}

// DrawWall draws an opaque wall slice.
func (d *Drawers[P]) DrawWall(a *ColumnArgs[P]) { d.column(a, OpCopy, false) }

// DrawWallMasked draws a wall slice skipping transparent texels.
func (d *Drawers[P]) DrawWallMasked(a *ColumnArgs[P]) { d.column(a, OpCopy, true) }

// DrawWallAdd draws a masked translucent wall slice.
func (d *Drawers[P]) DrawWallAdd(a *ColumnArgs[P]) { d.column(a, OpAdd, true) }

func (d *Drawers[P]) DrawWallAddClamp(a *ColumnArgs[P]) { d.column(a, OpAddClamp, true) }

func (d *Drawers[P]) DrawWallSubClamp(a *ColumnArgs[P]) { d.column(a, OpSubClamp, true) }

func (d *Drawers[P]) DrawWallRevSubClamp(a *ColumnArgs[P]) { d.column(a, OpRevSubClamp, true) }

// DrawColumn draws a sprite post.
func (d *Drawers[P]) DrawColumn(a *ColumnArgs[P]) { d.column(a, OpCopy, false) }

// DrawTranslatedColumn draws a sprite post from Indexed through
// Translation.
func (d *Drawers[P]) DrawTranslatedColumn(a *ColumnArgs[P]) { d.column(a, OpCopy, false) }

func (d *Drawers[P]) DrawAddColumn(a *ColumnArgs[P]) { d.column(a, OpAdd, false) }

func (d *Drawers[P]) DrawTranslatedAddColumn(a *ColumnArgs[P]) { d.column(a, OpAdd, false) }

func (d *Drawers[P]) DrawAddClampColumn(a *ColumnArgs[P]) { d.column(a, OpAddClamp, false) }

func (d *Drawers[P]) DrawAddClampTranslatedColumn(a *ColumnArgs[P]) {
	d.column(a, OpAddClamp, false)
}

func (d *Drawers[P]) DrawSubClampColumn(a *ColumnArgs[P]) { d.column(a, OpSubClamp, false) }

func (d *Drawers[P]) DrawSubClampTranslatedColumn(a *ColumnArgs[P]) {
	d.column(a, OpSubClamp, false)
}

func (d *Drawers[P]) DrawRevSubClampColumn(a *ColumnArgs[P]) { d.column(a, OpRevSubClamp, false) }

func (d *Drawers[P]) DrawRevSubClampTranslatedColumn(a *ColumnArgs[P]) {
	d.column(a, OpRevSubClamp, false)
}

// DrawShadedColumn washes Color over the destination with Indexed texels
// as the mask, as used for shadows.
func (d *Drawers[P]) DrawShadedColumn(a *ColumnArgs[P]) { d.shaded(a, false) }

// DrawAddClampShadedColumn adds the masked Color onto the destination.
func (d *Drawers[P]) DrawAddClampShadedColumn(a *ColumnArgs[P]) { d.shaded(a, true) }

// FillColumn writes Color down the column.
func (d *Drawers[P]) FillColumn(a *ColumnArgs[P]) { d.fill(a, OpCopy) }

func (d *Drawers[P]) FillAddColumn(a *ColumnArgs[P]) { d.fill(a, OpAdd) }

func (d *Drawers[P]) FillAddClampColumn(a *ColumnArgs[P]) { d.fill(a, OpAddClamp) }

func (d *Drawers[P]) FillSubClampColumn(a *ColumnArgs[P]) { d.fill(a, OpSubClamp) }

func (d *Drawers[P]) FillRevSubClampColumn(a *ColumnArgs[P]) { d.fill(a, OpRevSubClamp) }

// DrawParticleColumn blends Color at SrcAlpha over the destination at the
// complementary alpha.
func (d *Drawers[P]) DrawParticleColumn(a *ColumnArgs[P]) {
	p := *a
	p.SrcAlpha = min(p.SrcAlpha, fixed.Unit)
	p.DestAlpha = fixed.Unit - p.SrcAlpha
	d.fill(&p, OpAdd)
}
