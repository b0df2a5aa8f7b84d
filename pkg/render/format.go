// Package render holds the column, span, sky and fuzz drawers.
//
// Every drawer is written once and parameterized over a pixel Format: Pal8
// for palette indexed targets and BGRA for 32-bit true colour. A Drawers
// value bundles a format with the per-worker scratch buffers and exposes one
// method per shape and blend mode.
package render

import (
	"github.com/taigrr/swdraw/pkg/fixed"
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/palette"
)

// Pixel is a texture or canvas pixel: a palette index or 0xAARRGGBB.
type Pixel interface {
	~uint8 | ~uint32
}

// Op is the arithmetic used to combine a foreground with the destination.
type Op uint8

const (
	OpCopy        Op = iota // write the foreground
	OpAdd                   // src*sa + dst*da
	OpAddClamp              // saturating src*sa + dst*da
	OpSubClamp              // max(src*sa - dst*da, 0)
	OpRevSubClamp           // max(dst*da - src*sa, 0)
)

func (op Op) String() string {
	switch op {
	case OpCopy:
		return "copy"
	case OpAdd:
		return "add"
	case OpAddClamp:
		return "addclamp"
	case OpSubClamp:
		return "subclamp"
	case OpRevSubClamp:
		return "revsubclamp"
	}
	return "unknown"
}

// BlendMethod selects how the 8-bit format blends.
type BlendMethod int

const (
	// BlendPacked sums weighted colours from Col2RGB8 and resolves the sum
	// through RGB32k.
	BlendPacked BlendMethod = iota
	// BlendDirect blends palette RGB with 16.16 alphas and quantizes
	// through RGB256k.
	BlendDirect
)

// FilterMode determines how textures are sampled.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation, true colour only
)

// Shade selects the light for a drawer call.
type Shade struct {
	// Colormap is the light/fade descriptor. nil draws fullbright.
	Colormap *palette.Colormap
	// Light is a 16.16 colormap level: 0 is brightest, 31<<16 darkest.
	Light int32
}

// Fullbright is the zero Shade.
var Fullbright = Shade{}

// level returns the whole colormap level clamped to range.
func (s Shade) level() int {
	return int(s.Light >> fixed.FracBits)
}

// BlendState is a blend prepared once per drawer call. Its fields are
// format specific weights.
type BlendState struct {
	Op        Op
	Src, Dest uint32
	fg, bg    *[256]uint32
}

// Format is the pixel format capability the drawers are written against.
type Format[P Pixel] interface {
	Name() string

	// Shade applies a colormap level to a texel.
	Shade(texel P, s Shade) P
	// Lit adds accumulated dynamic light to a shaded texel, using the
	// unshaded texel as the material colour.
	Lit(texel, shaded P, lit light.RGB) P
	// Index converts a palette index to a pixel. Index 0 maps to a
	// transparent pixel.
	Index(i uint8) P
	// Unpack returns the colour of p as 0xRRGGBB.
	Unpack(p P) uint32
	// Pack returns the pixel nearest to 0xRRGGBB.
	Pack(rgb uint32) P
	// Transparent reports whether masked drawers skip p.
	Transparent(p P) bool

	// PrepareBlend resolves an op and 16.16 source and destination
	// alphas into a BlendState.
	PrepareBlend(op Op, src, dest uint32) BlendState
	// Blend combines a foreground with the destination pixel.
	Blend(st *BlendState, fg, bg P) P
	// Wash lays color over dest with strength alpha (0..64). With clamp
	// the destination keeps full weight and the sum saturates.
	Wash(color, dest P, alpha uint32, clamp bool) P
	// Filter combines four texels with 4-bit weights. Formats that cannot
	// filter return p00.
	Filter(p00, p01, p10, p11 P, wy, wx uint32) P
}
