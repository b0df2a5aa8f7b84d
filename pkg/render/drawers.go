package render

import (
	"github.com/taigrr/swdraw"
	"github.com/taigrr/swdraw/pkg/palette"
)

func (m FilterMode) String() string {
	if m == FilterBilinear {
		return "bilinear"
	}
	return "nearest"
}

func (m BlendMethod) String() string {
	if m == BlendDirect {
		return "direct"
	}
	return "packed"
}

// Drawers bundles a pixel format with the scratch buffers its drawers
// reuse between calls. A Drawers value belongs to one worker; use Worker to
// get another for a second goroutine.
type Drawers[P Pixel] struct {
	f      Format[P]
	filter FilterMode
	tilt   *TiltBuffer
}

// NewDrawers returns drawers for any format.
func NewDrawers[P Pixel](f Format[P], filter FilterMode) *Drawers[P] {
	swdraw.Logger().Debug("drawers selected", "format", f.Name(), "filter", filter)
	return &Drawers[P]{f: f, filter: filter, tilt: new(TiltBuffer)}
}

// NewPalDrawers returns 8-bit drawers. Palette targets always sample
// nearest.
func NewPalDrawers(t *palette.Tables, method BlendMethod) *Drawers[uint8] {
	return NewDrawers[uint8](NewPal8(t, method), FilterNearest)
}

// NewBGRADrawers returns true colour drawers.
func NewBGRADrawers(t *palette.Tables, filter FilterMode) *Drawers[uint32] {
	return NewDrawers[uint32](NewBGRA(t), filter)
}

// Format returns the pixel format.
func (d *Drawers[P]) Format() Format[P] { return d.f }

// Filter returns the sampling mode.
func (d *Drawers[P]) Filter() FilterMode { return d.filter }

// Worker returns drawers sharing the format with fresh scratch buffers.
func (d *Drawers[P]) Worker() *Drawers[P] {
	return &Drawers[P]{f: d.f, filter: d.filter, tilt: new(TiltBuffer)}
}
