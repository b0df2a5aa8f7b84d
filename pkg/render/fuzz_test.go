package render

import (
	"slices"
	"testing"

	"github.com/taigrr/swdraw/pkg/palette"
)

func fuzzCanvas(h int) *Canvas[uint32] {
	c := NewCanvas[uint32](2, h)
	c.Clear(0xff808080)
	return c
}

func TestFuzzStateAdvance(t *testing.T) {
	s := NewFuzzState(1)
	s.Advance(-1)
	if s.Pos != FuzzTable-1 {
		t.Errorf("Advance(-1) from 0 = %d", s.Pos)
	}
	s.Advance(121)
	if s.Pos != 20 {
		t.Errorf("Pos = %d, want 20", s.Pos)
	}
	s.NextFrame()
	if s.Frame != 1 || s.Pos != 21 {
		t.Errorf("NextFrame: frame %d pos %d", s.Frame, s.Pos)
	}
	for _, v := range s.randomX {
		if v < 0 || v >= FuzzTable {
			t.Fatalf("random offset %d out of range", v)
		}
	}
	if NewFuzzState(7).randomX != NewFuzzState(7).randomX {
		t.Error("same seed gave different tables")
	}
}

func TestSafeFuzz(t *testing.T) {
	d := NewBGRADrawers(palette.Current(), FilterNearest)
	cm := testColormap()
	canvas := fuzzCanvas(10)
	s := NewFuzzState(1)
	s.Pos = 45

	d.DrawFuzzColumn(&FuzzArgs[uint32]{Dest: canvas, X: 1, Y: 0, Count: 10, ViewHeight: 8, Colormap: cm}, s)

	// Rows 1..7 are drawn; row 0 and rows past the view are not.
	pos := 45
	for y := range 10 {
		got := canvas.At(1, y)
		want := uint32(0xff808080)
		if y >= 1 && y <= 7 {
			want = d.Format().Shade(0xff808080, Shade{Colormap: cm, Light: fuzzShade(fuzzOffsets[pos]).Light})
			pos = (pos + 1) % FuzzTable
		}
		if got != want {
			t.Errorf("row %d = %#x, want %#x", y, got, want)
		}
		if canvas.At(0, y) != 0xff808080 {
			t.Fatalf("row %d: column 0 touched", y)
		}
	}
	if s.Pos != (45+7)%FuzzTable {
		t.Errorf("state pos = %d, want %d", s.Pos, (45+7)%FuzzTable)
	}
}

func TestFuzzOffscreenIsNoop(t *testing.T) {
	d := NewBGRADrawers(palette.Current(), FilterNearest)
	for _, mode := range []FuzzMode{FuzzSafe, FuzzScaled, FuzzOriginal} {
		t.Run(mode.String(), func(t *testing.T) {
			s := NewFuzzState(2)
			for _, a := range []FuzzArgs[uint32]{
				{X: 0, Y: 0, Count: 1},
				{X: 0, Y: 10, Count: 5},
				{X: 5, Y: 2, Count: 3},
				{X: 0, Y: 3, Count: 0},
			} {
				canvas := fuzzCanvas(10)
				a.Dest = canvas
				d.DrawFuzz(mode, &a, s)
				if slices.ContainsFunc(canvas.Pix, func(p uint32) bool { return p != 0xff808080 }) {
					t.Errorf("%+v wrote pixels", a)
				}
			}
			if s.Pos != 0 {
				t.Errorf("state advanced to %d", s.Pos)
			}
		})
	}
}

func TestOriginalFuzzEdges(t *testing.T) {
	d := NewBGRADrawers(palette.Current(), FilterNearest)
	canvas := NewCanvas[uint32](1, 6)
	for y := range 6 {
		canvas.Set(0, y, 0xff000000|uint32(0x20*(y+1))*0x010101)
	}
	before := canvas.Clone()
	s := NewFuzzState(3)
	// The column covers the whole canvas, so the last row reads below the
	// bottom edge and has to be clamped.
	d.DrawOriginalFuzzColumn(&FuzzArgs[uint32]{Dest: canvas, Count: 6, Colormap: testColormap()}, s)

	if canvas.At(0, 0) != before.At(0, 0) {
		t.Error("row 0 was drawn")
	}
	brightest := before.At(0, 5) & 0xff
	for y := 1; y < 6; y++ {
		if c := canvas.At(0, y) & 0xff; c >= brightest {
			t.Errorf("row %d = %#x is not darkened", y, c)
		}
	}
	if s.Pos != 5 {
		t.Errorf("state pos = %d, want 5", s.Pos)
	}
}

func TestScaledFuzz(t *testing.T) {
	d := NewBGRADrawers(palette.Current(), FilterNearest)
	cm := testColormap()
	for _, h := range []int{8, 200, 1000} {
		a := canvasFuzz(h, cm)
		b := canvasFuzz(h, cm)
		s1, s2 := NewFuzzState(9), NewFuzzState(9)
		s1.Pos, s2.Pos = 13, 40
		d.DrawScaledFuzzColumn(a, s1)
		d.DrawScaledFuzzColumn(b, s2)
		if s1.Pos != 13 || s2.Pos != 40 {
			t.Errorf("h=%d: scaled fuzz advanced the state", h)
		}
		// The pattern depends on column, row and frame only.
		if !slices.Equal(a.Dest.Pix, b.Dest.Pix) {
			t.Errorf("h=%d: output depends on table position", h)
		}
		if a.Dest.At(1, 0) != 0xff808080 {
			t.Errorf("h=%d: row 0 drawn", h)
		}
		for y := 1; y < h; y++ {
			if a.Dest.At(1, y) == 0xff808080 {
				t.Fatalf("h=%d row %d not drawn", h, y)
			}
		}
	}
}

func canvasFuzz(h int, cm *palette.Colormap) *FuzzArgs[uint32] {
	return &FuzzArgs[uint32]{Dest: fuzzCanvas(h), X: 1, Count: h, Colormap: cm}
}

func TestFuzzPal8(t *testing.T) {
	tb := palette.Current()
	cm := testColormap()
	d := NewPalDrawers(tb, BlendPacked)
	canvas := NewCanvas[uint8](1, 20)
	white := tb.Quantize(0xffffff)
	canvas.Clear(white)
	d.DrawFuzz(FuzzSafe, &FuzzArgs[uint8]{Dest: canvas, Count: 20, Colormap: cm}, NewFuzzState(0))
	for y := 1; y < 20; y++ {
		p := canvas.At(0, y)
		if p != cm.Level(fuzzLight)[white] && p != cm.Level(fuzzDark)[white] {
			t.Errorf("row %d = %d is not a fuzz level of white", y, p)
		}
	}
}

func BenchmarkFuzz(b *testing.B) {
	d := NewPalDrawers(palette.Current(), BlendPacked)
	canvas := NewCanvas[uint8](1, 200)
	s := NewFuzzState(0)
	a := &FuzzArgs[uint8]{Dest: canvas, Count: 200, Colormap: testColormap()}
	for _, mode := range []FuzzMode{FuzzSafe, FuzzScaled, FuzzOriginal} {
		b.Run(mode.String(), func(b *testing.B) {
			for range b.N {
				d.DrawFuzz(mode, a, s)
			}
		})
	}
}
