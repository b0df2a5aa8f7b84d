package palette

import (
	"image/color"
	"sync"
	"testing"
)

var (
	testTablesOnce sync.Once
	testTablesVal  *Tables
)

func testTables(t testing.TB) *Tables {
	t.Helper()
	testTablesOnce.Do(func() {
		testTablesVal = BuildTables(Default())
	})
	return testTablesVal
}

func TestGenerate(t *testing.T) {
	p := Default()
	if p[0] != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("entry 0 = %v, want opaque black", p[0])
	}
	if p[1] != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("entry 1 = %v, want white", p[1])
	}
	// Ramps darken from start to end.
	for n := range 15 {
		first := p[RampStart(n)]
		last := p[RampStart(n)+15]
		if lum(first) <= lum(last) {
			t.Errorf("ramp %d does not darken: %v -> %v", n, first, last)
		}
	}
}

func lum(c color.RGBA) int {
	return int(c.R)*77 + int(c.G)*143 + int(c.B)*37
}

func TestNearestSkipsTransparent(t *testing.T) {
	p := Default()
	if got := p.Nearest(0, 0, 0); got == Transparent {
		t.Error("Nearest returned the transparent index")
	}
	for _, i := range []uint8{1, 20, 77, 200, 255} {
		c := p[i]
		got := p.Nearest(int(c.R), int(c.G), int(c.B))
		if p[got] != c {
			t.Errorf("Nearest(%v) = %d (%v), want an entry equal to %d", c, got, p[got], i)
		}
	}
}

func TestQuantizeRoundTrip(t *testing.T) {
	tb := testTables(t)
	for i := 1; i < 256; i++ {
		got := tb.Quantize(tb.Palette.RGB(uint8(i)))
		if got == Transparent {
			t.Fatalf("Quantize(entry %d) returned the transparent index", i)
		}
		want := tb.Palette[i]
		have := tb.Palette[got]
		if absDiff(want.R, have.R) > 12 || absDiff(want.G, have.G) > 12 || absDiff(want.B, have.B) > 12 {
			t.Errorf("Quantize(entry %d %v) = %d %v", i, want, got, have)
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestPackedBlendRange(t *testing.T) {
	tb := testTables(t)
	for _, level := range []int{0, 16, 32, 48, 64} {
		for fg := range 256 {
			for bg := 0; bg < 256; bg += 3 {
				f := tb.Col2RGB8LessPrecision[level][fg]
				b := tb.Col2RGB8LessPrecision[64-level][bg]
				for _, v := range []uint32{AddClamp(f, b), SubClamp(f, b)} {
					if idx := (v & (v >> 15)) & 0x7fff; idx != v&(v>>15) {
						t.Fatalf("level %d fg %d bg %d: index %#x exceeds 15 bits", level, fg, bg, v&(v>>15))
					}
				}
				a := Add(tb.Col2RGB8[level][fg], tb.Col2RGB8[64-level][bg])
				if a&(a>>15) > 0x7fff {
					t.Fatalf("Add level %d fg %d bg %d overflowed", level, fg, bg)
				}
			}
		}
	}
}

func TestAddClampSaturates(t *testing.T) {
	tb := testTables(t)
	white := tb.Quantize(0xffffff)
	f := tb.Col2RGB8LessPrecision[64][white]
	if got := tb.Packed(AddClamp(f, f)); tb.Palette[got] != tb.Palette[white] {
		t.Errorf("white+white = %v, want white", tb.Palette[got])
	}
	if got := tb.Packed(SubClamp(f, f)); lum(tb.Palette[got]) > lum(color.RGBA{16, 16, 16, 255}) {
		t.Errorf("white-white = %v, want black", tb.Palette[got])
	}
}

func TestColormapLevels(t *testing.T) {
	tb := testTables(t)
	cm := BuildColormap(tb, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255}, 0)
	if !cm.Constants.Simple {
		t.Error("white light with black fade should be simple")
	}
	for i := 1; i < 256; i++ {
		bright := tb.Palette[cm.Level(0)[i]]
		dark := tb.Palette[cm.Level(NumLevels - 1)[i]]
		if lum(dark) > lum(bright) {
			t.Errorf("entry %d: darkest level %v brighter than level 0 %v", i, dark, bright)
		}
	}
	if cm.Level(12)[Transparent] != Transparent {
		t.Error("transparent index must map to itself")
	}
	if len(cm.Level(-3)) != 256 || len(cm.Level(99)) != 256 {
		t.Error("Level should clamp out of range levels")
	}
}

func TestShadeConstants(t *testing.T) {
	simple := NewShadeConstants(color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 0}, 0)
	full := simple
	full.Simple = false

	for _, c := range []uint32{0xff000000, 0xff102030, 0xffffffff, 0x80ff8040} {
		for _, l := range []uint32{0, 64, 200, 256} {
			if a, b := simple.Shade(c, l), full.Shade(c, l); a != b {
				t.Errorf("Shade(%#x, %d): simple %#x, full %#x", c, l, a, b)
			}
		}
	}

	gray := NewShadeConstants(color.RGBA{255, 255, 255, 255}, color.RGBA{}, 255)
	out := gray.Shade(0xffff0000, 256)
	r, g, b := (out>>16)&0xff, (out>>8)&0xff, out&0xff
	if r != g || g != b {
		t.Errorf("fully desaturated red = %#x, want gray", out)
	}

	fog := NewShadeConstants(color.RGBA{255, 255, 255, 255}, color.RGBA{100, 100, 100, 255}, 0)
	if got := fog.Shade(0xff000000, 0); got&0xffffff == 0 {
		t.Error("fade colour should show at zero light")
	}
}

func TestLighting(t *testing.T) {
	tests := []struct {
		name  string
		vis   float64
		light int
		want  int
	}{
		{"bright sector far away", 0, 255, 0},
		{"dark sector", 0, 0, NumLevels - 1},
		{"visibility capped", 1000, 128, int(ShadeAt(MaxLightVis, LightToShade(128)) >> 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := int(ShadeAt(tt.vis, LightToShade(tt.light)) >> 16); got != tt.want {
				t.Errorf("colormap level = %d, want %d", got, tt.want)
			}
		})
	}
	if LevelLight(0) != 256 || LevelLight(NumLevels<<16) != 0 {
		t.Error("LevelLight endpoints wrong")
	}
}

func TestShadeTables(t *testing.T) {
	st := BuildShadeTables()
	for a := range ShadeAlphas {
		for l := range NumLevels {
			tbl := st.Table(a, l)
			for k := 1; k < 256; k++ {
				if tbl[k] > 64 {
					t.Fatalf("alpha %d level %d texel %d = %d > 64", a, l, k, tbl[k])
				}
				if tbl[k] < tbl[k-1] {
					t.Fatalf("alpha %d level %d not monotonic at %d", a, l, k)
				}
			}
		}
	}
	if st.Table(0, 0)[255] != 64 {
		t.Errorf("opaque bright table peak = %d, want 64", st.Table(0, 0)[255])
	}
}

func TestRangeTranslation(t *testing.T) {
	tr := RangeTranslation(112, 127, 32, 47)
	for i := 112; i <= 127; i++ {
		if int(tr[i]) != i-80 {
			t.Errorf("tr[%d] = %d, want %d", i, tr[i], i-80)
		}
	}
	if tr[5] != 5 || tr[200] != 200 {
		t.Error("indices outside the range must be unchanged")
	}
	back := tr.Then(RangeTranslation(32, 47, 112, 127))
	if back[120] != 120 {
		t.Errorf("composed translation [120] = %d", back[120])
	}
}

func TestCurrentAndSetPalette(t *testing.T) {
	a := Current()
	if a == nil || Current() != a {
		t.Fatal("Current should build once and stay stable")
	}
	p := Default()
	p[1] = color.RGBA{250, 0, 0, 255}
	b := SetPalette(p)
	if Current() != b || b.Palette[1] != p[1] {
		t.Error("SetPalette should swap the current tables")
	}
	SetPalette(Default())
}
