package render

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/taigrr/swdraw/pkg/fixed"
	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/math3d"
	"github.com/taigrr/swdraw/pkg/palette"
)

// flatTilted returns a tilted span with constant depth whose u and v are
// exact integers at every pixel, and the affine span that should match it.
func flatTilted[P Pixel](canvas *Canvas[P], src []P, w, h, x1, x2 int, shade Shade) (*TiltedArgs[P], *SpanArgs[P]) {
	du, u0 := int64(0x01234567), int64(0x10000000)
	dv, v0 := int64(-0x00345678), int64(0x7fedcba9)
	const pviewX, pviewY = 0x08000000, 0x00abcdef
	ta := &TiltedArgs[P]{
		Dest: canvas, Y: 3, X1: x1, X2: x2,
		Source: src, Width: w, Height: h,
		SZ:      [3]float64{0, 0, 1},
		SU:      [3]float64{float64(du), 0, float64(u0)},
		SV:      [3]float64{float64(dv), 0, float64(v0)},
		CenterX: 0, CenterY: 3,
		PViewX: pviewX, PViewY: pviewY,
		Shade: shade,
	}
	sa := &SpanArgs[P]{
		Dest: canvas, Y: 3, X1: x1, X2: x2,
		Source: src, Width: w, Height: h,
		XFrac: uint32(u0+du*int64(x1)) + pviewX,
		YFrac: uint32(v0+dv*int64(x1)) + pviewY,
		XStep: uint32(du),
		YStep: uint32(dv),
		Shade: shade,
	}
	return ta, sa
}

func TestTiltedFlatMatchesAffine(t *testing.T) {
	rng := rand.New(rand.NewPCG(15, 16))
	tb := palette.Current()
	cm := testColormap()
	shade := Shade{Colormap: cm, Light: 7 << fixed.FracBits}
	ranges := [][2]int{{3, 42}, {0, 0}, {5, 20}, {0, 16}, {10, 26}, {1, 200}}

	t.Run("pal8", func(t *testing.T) {
		d := NewPalDrawers(tb, BlendPacked)
		for _, size := range [][2]int{{64, 64}, {32, 128}} {
			src := randomIndexed(rng, size[0]*size[1])
			for _, r := range ranges {
				tilted := NewCanvas[uint8](256, 8)
				affine := NewCanvas[uint8](256, 8)
				ta, _ := flatTilted(tilted, src, size[0], size[1], r[0], r[1], shade)
				_, sa := flatTilted(affine, src, size[0], size[1], r[0], r[1], shade)
				d.DrawTiltedSpan(ta)
				d.DrawSpan(sa)
				if !slices.Equal(tilted.Pix, affine.Pix) {
					t.Errorf("%v x %d..%d: tilted output differs from affine", size, r[0], r[1])
				}
			}
		}
	})

	t.Run("bgra", func(t *testing.T) {
		d := NewBGRADrawers(tb, FilterNearest)
		src := randomBGRA(rng, 64*64)
		for _, r := range ranges {
			tilted := NewCanvas[uint32](256, 8)
			affine := NewCanvas[uint32](256, 8)
			ta, _ := flatTilted(tilted, src, 64, 64, r[0], r[1], shade)
			_, sa := flatTilted(affine, src, 64, 64, r[0], r[1], shade)
			d.DrawTiltedSpan(ta)
			d.DrawSpan(sa)
			if !slices.Equal(tilted.Pix, affine.Pix) {
				t.Errorf("x %d..%d: tilted output differs from affine", r[0], r[1])
			}
		}
	})
}

func TestTiltedSpanBounds(t *testing.T) {
	d := NewPalDrawers(palette.Current(), BlendPacked)
	canvas := NewCanvas[uint8](8, 8)
	src := make([]uint8, 64*64)
	for i := range src {
		src[i] = 9
	}
	// Reversed and negative ranges are ignored.
	for _, r := range [][2]int{{5, 4}, {-1, 3}} {
		ta, _ := flatTilted(canvas, src, 64, 64, r[0], r[1], Fullbright)
		d.DrawTiltedSpan(ta)
	}
	for _, p := range canvas.Pix {
		if p != 0 {
			t.Fatal("invalid range wrote pixels")
		}
	}
}

func TestCalcTiltedLighting(t *testing.T) {
	var b TiltBuffer
	shade := palette.LightToShade(160)
	b.CalcTiltedLighting(10, 40, 0, 20, shade)
	if b.Level(10) != palette.ShadeAt(0, shade) {
		t.Errorf("start level = %d, want %d", b.Level(10), palette.ShadeAt(0, shade))
	}
	if b.Level(50) != palette.ShadeAt(20, shade) {
		t.Errorf("end level = %d, want %d", b.Level(50), palette.ShadeAt(20, shade))
	}
	for x := 11; x <= 50; x++ {
		if b.Level(x) > b.Level(x-1) {
			t.Fatalf("level rises at x=%d while visibility grows", x)
		}
	}

	b.CalcTiltedLighting(5, 3, 4, 4, shade)
	for x := 5; x <= 8; x++ {
		if b.Level(x) != palette.ShadeAt(4, shade) {
			t.Errorf("flat ramp x=%d = %d", x, b.Level(x))
		}
	}
}

func TestTiltedDynamicLight(t *testing.T) {
	d := NewBGRADrawers(palette.Current(), FilterNearest)
	src := make([]uint32, 64*64)
	for i := range src {
		src[i] = 0xff202020
	}
	canvas := NewCanvas[uint32](64, 8)
	ta, _ := flatTilted(canvas, src, 64, 64, 0, 63, Fullbright)
	ta.Lights = []light.Light{{Pos: math3d.V3(0, 0, 1), Color: 0xffffff, Radius: 32}}
	ta.ViewPos = math3d.V3(0, 0, 0)
	ta.ViewPosStep = math3d.V3(1, 0, 0)
	ta.Normal = math3d.V3(0, 0, 1)
	d.DrawTiltedSpan(ta)

	near := canvas.At(0, 3) & 0xff
	far := canvas.At(40, 3) & 0xff
	if near <= 0x20 || far != 0x20 {
		t.Errorf("near %#x should be lit and far %#x unlit", near, far)
	}
}

func BenchmarkTiltedSpan(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 3))
	d := NewPalDrawers(palette.Current(), BlendPacked)
	canvas := NewCanvas[uint8](320, 8)
	ta, _ := flatTilted(canvas, randomIndexed(rng, 64*64), 64, 64, 0, 319, Shade{Colormap: testColormap()})
	ta.SZ = [3]float64{0.0001, 0, 0.5}
	for range b.N {
		d.DrawTiltedSpan(ta)
	}
}
