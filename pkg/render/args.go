package render

import (
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/math3d"
	"github.com/taigrr/swdraw/pkg/palette"
)

// ColumnArgs describe one vertical run: a wall slice, sprite post or fill.
// The caller owns the value; drawers only read it.
type ColumnArgs[P Pixel] struct {
	Dest        *Canvas[P]
	X, Y, Count int

	// Source is one texture column of Height texels.
	Source []P
	Height int
	// FracBits is the number of fractional bits of TexFrac. Zero means
	// 16.16; walls use fixed.WallBits.
	FracBits uint
	// TexFrac and TexStep are the texel-space start position and the
	// per-pixel step.
	TexFrac, TexStep uint32

	// Source2 is the next texture column, for bilinear filtering, and
	// FilterX the 4-bit weight toward it.
	Source2 []P
	FilterX uint32

	// Indexed replaces Source for translated and shaded columns.
	Indexed     []uint8
	Translation *palette.Translation
	// Mask maps an Indexed texel to a wash strength 0..64 for shaded
	// columns.
	Mask *[256]uint8

	Shade Shade
	// SrcAlpha and DestAlpha are 16.16 blend coefficients.
	SrcAlpha, DestAlpha uint32
	// Color is the fill or wash colour.
	Color P

	// Lights are prepared for this column. ViewZ is the height of the
	// first pixel and ViewZStep the change per pixel.
	Lights          []light.Prepared
	ViewZ, ViewZStep float64
	// DynLight is a single light colour (0xRRGGBB) for sprites. It tops
	// the shaded brightness up toward full.
	DynLight uint32
}

func (a *ColumnArgs[P]) bits() uint {
	if a.FracBits == 0 {
		return 16
	}
	return a.FracBits
}

// SpanArgs describe one horizontal run from X1 to X2 inclusive.
type SpanArgs[P Pixel] struct {
	Dest      *Canvas[P]
	Y, X1, X2 int

	// Source is a column-major Width x Height texture.
	Source        []P
	Width, Height int
	// XFrac, YFrac and their steps are normalized 0.32 coordinates.
	XFrac, YFrac uint32
	XStep, YStep uint32

	Shade               Shade
	SrcAlpha, DestAlpha uint32
	Color               P

	// Lights are prepared for this row. ViewX is the coordinate of the
	// first pixel along the row and ViewXStep the change per pixel.
	Lights           []light.Prepared
	ViewX, ViewXStep float64
}

// TiltedArgs describe a span on a sloped plane. SZ, SU and SV are the
// plane gradients: index 0 per screen x, 1 per screen y, 2 the value at the
// view centre. U/Z and V/Z yield normalized 0.32 coordinates.
type TiltedArgs[P Pixel] struct {
	Dest      *Canvas[P]
	Y, X1, X2 int

	Source        []P
	Width, Height int

	SZ, SU, SV       [3]float64
	CenterX, CenterY float64
	PViewX, PViewY   uint32

	Shade Shade
	// PlaneShade is the LightToShade value and PlaneLight the visibility
	// per unit of 1/z. A zero PlaneLight uses Shade.Light for the row.
	PlaneShade int32
	PlaneLight float64

	// Lights in view space, with the position of the first pixel and the
	// change per pixel, and the plane normal.
	Lights      []light.Light
	ViewPos     math3d.Vec3
	ViewPosStep math3d.Vec3
	Normal      math3d.Vec3
}

// SkyArgs describe one sky column. TexFrac runs over 0..2<<24 for the
// visible sky; one texture repeat is 1<<24.
type SkyArgs[P Pixel] struct {
	Dest        *Canvas[P]
	X, Y, Count int

	Front       []P
	FrontHeight int
	Back        []P
	BackHeight  int

	TexFrac, TexStep int32
	// TopColor and BottomColor are 0xRRGGBB.
	TopColor, BottomColor uint32
	FadeSky               bool
}

// FuzzArgs describe one fuzz column.
type FuzzArgs[P Pixel] struct {
	Dest        *Canvas[P]
	X, Y, Count int
	// ViewHeight bounds the rows fuzz may touch. Zero means the canvas
	// height.
	ViewHeight int
	Colormap   *palette.Colormap
}
