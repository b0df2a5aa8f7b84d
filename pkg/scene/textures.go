package scene

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/swdraw"
	"github.com/taigrr/swdraw/pkg/assets"
	"github.com/taigrr/swdraw/pkg/palette"
	"github.com/taigrr/swdraw/pkg/render"
)

// Palette ramps used by the procedural textures.
const (
	rampRed    = 0
	rampOrange = 2
	rampGreen  = 5
	rampCyan   = 8
	rampBlue   = 10
	rampPurple = 12
)

// Textures holds every texture a scene samples, converted to the target
// format. Sprites stay indexed so they can be translated and used as shade
// masks.
type Textures[P render.Pixel] struct {
	Walls []*render.Texture[P]
	Grate *render.Texture[P]
	Glass *render.Texture[P]
	Floor *render.Texture[P]

	// Sky is opaque. Clouds has transparent gaps that show Stars behind
	// it when the double sky is on.
	Sky    *render.Texture[P]
	Clouds *render.Texture[P]
	Stars  *render.Texture[P]

	Sprites [numSprites]*render.IndexedTexture
	// Posts lists the opaque runs of every sprite column.
	Posts [numSprites][][]post
	// Translation recolours translated sprites.
	Translation *palette.Translation
	// Mask turns blob texels into wash strengths for shadows and glows.
	Mask *[256]uint8
}

// post is a run of opaque texels [Top, Bottom) in one sprite column.
type post struct {
	Top, Bottom int
}

// NewTextures builds the procedural textures and replaces any whose name
// matches an image in pack. pack may be nil.
func NewTextures[P render.Pixel](f render.Format[P], pack *assets.Pack) *Textures[P] {
	t := &Textures[P]{
		Walls: []*render.Texture[P]{
			render.Convert(bricks(rampOrange, 1), f),
			render.Convert(bricks(rampRed, 2), f),
			render.Convert(panels(rampBlue, 3), f),
			render.Convert(panels(rampGreen, 4), f),
			render.Convert(bricks(rampPurple, 5), f),
		},
		Grate:  render.Convert(grate(), f),
		Glass:  render.Convert(glass(), f),
		Floor:  render.Convert(floor(), f),
		Sky:    render.Convert(clouds(rampBlue, false), f),
		Clouds: render.Convert(clouds(rampCyan, true), f),
		Stars:  render.Convert(stars(), f),
	}
	t.Sprites[SpriteFigure] = figure()
	t.Sprites[SpriteBarrel] = barrel()
	t.Sprites[SpriteLamp] = lamp()
	t.Sprites[SpriteBlob] = blob()
	for i, s := range t.Sprites {
		t.Posts[i] = spritePosts(s)
	}

	g := palette.RampStart(rampGreen)
	r := palette.RampStart(rampRed)
	t.Translation = palette.RangeTranslation(g, g+15, r, r+15)
	t.Mask = palette.BuildShadeTables().Table(4, 0)

	if pack != nil {
		t.override(f, pack)
	}
	return t
}

// override swaps in pack images named wall0..wall4, grate, glass, floor,
// sky, clouds and stars.
func (t *Textures[P]) override(f render.Format[P], pack *assets.Pack) {
	set := func(name string, dst **render.Texture[P]) {
		if img, ok := pack.Image(name); ok {
			*dst = render.TextureFromImage(img, f)
			swdraw.Logger().Debug("texture replaced", "name", name, "pack", pack.Name)
		}
	}
	for i := range t.Walls {
		set("wall"+string(rune('0'+i)), &t.Walls[i])
	}
	set("grate", &t.Grate)
	set("glass", &t.Glass)
	set("floor", &t.Floor)
	set("sky", &t.Sky)
	set("clouds", &t.Clouds)
	set("stars", &t.Stars)
}

func spritePosts(s *render.IndexedTexture) [][]post {
	cols := make([][]post, s.Width)
	for x := range s.Width {
		col := s.Column(x)
		for y := 0; y < len(col); {
			if col[y] == palette.Transparent {
				y++
				continue
			}
			top := y
			for y < len(col) && col[y] != palette.Transparent {
				y++
			}
			cols[x] = append(cols[x], post{top, y})
		}
	}
	return cols
}

// shadeOf picks entry n (0 light .. 15 dark) of a ramp.
func shadeOf(ramp, n int) uint8 {
	return palette.RampStart(ramp) + uint8(min(max(n, 0), 15))
}

func bricks(ramp int, seed uint64) *render.IndexedTexture {
	rng := rand.New(rand.NewPCG(seed, 0xb1c))
	t := render.NewTexture[uint8](64, 64)
	var tint [8][4]int
	for i := range tint {
		for j := range tint[i] {
			tint[i][j] = 4 + rng.IntN(4)
		}
	}
	for x := range 64 {
		for y := range 64 {
			row := y / 8
			bx := (x + (row%2)*16) % 64
			if y%8 == 7 || bx%32 == 31 {
				t.Set(x, y, 10)
				continue
			}
			t.Set(x, y, shadeOf(ramp, tint[row][bx/16]+rng.IntN(2)))
		}
	}
	return t
}

func panels(ramp int, seed uint64) *render.IndexedTexture {
	rng := rand.New(rand.NewPCG(seed, 0x9a7))
	t := render.NewTexture[uint8](64, 64)
	for x := range 64 {
		for y := range 64 {
			px, py := x%32, y%32
			n := 6 + rng.IntN(2)
			switch {
			case px == 0 || py == 0:
				n = 2
			case px == 31 || py == 31:
				n = 12
			case (px == 4 || px == 27) && (py == 4 || py == 27):
				n = 0
			}
			t.Set(x, y, shadeOf(ramp, n))
		}
	}
	return t
}

// grate is a lattice of bars with transparent holes.
func grate() *render.IndexedTexture {
	t := render.NewTexture[uint8](64, 64)
	for x := range 64 {
		for y := range 64 {
			if x%16 < 4 || y%16 < 4 {
				t.Set(x, y, uint8(4+(x%16+y%16)/3))
			}
		}
	}
	return t
}

func glass() *render.IndexedTexture {
	t := render.NewTexture[uint8](64, 64)
	for x := range 64 {
		for y := range 64 {
			n := 8
			if (x+y)%24 < 3 {
				n = 2
			}
			t.Set(x, y, shadeOf(rampCyan, n))
		}
	}
	return t
}

func floor() *render.IndexedTexture {
	light, dark := shadeOf(rampOrange, 9), shadeOf(rampOrange, 11)
	return render.NewCheckerTexture(64, 64, 16, light, dark)
}

// clouds is a tiling noise field. With gaps set the thin parts are
// transparent.
func clouds(ramp int, gaps bool) *render.IndexedTexture {
	const w, h = 256, 128
	t := render.NewTexture[uint8](w, h)
	for x := range w {
		for y := range h {
			a := 2 * math.Pi * float64(x) / w
			b := 2 * math.Pi * float64(y) / h
			v := math.Sin(a*3+math.Sin(b*2)) + math.Sin(b*3+math.Cos(a*5)) + 0.5*math.Sin(a*7+b*4)
			if gaps && v < 0.4 {
				continue
			}
			t.Set(x, y, shadeOf(ramp, 7-int(v*2)))
		}
	}
	return t
}

func stars() *render.IndexedTexture {
	const w, h = 256, 128
	rng := rand.New(rand.NewPCG(7, 7))
	t := render.NewTexture[uint8](w, h)
	for i := range t.Pixels {
		t.Pixels[i] = shadeOf(rampBlue, 15)
	}
	for range 300 {
		t.Set(rng.IntN(w), rng.IntN(h), uint8(1+rng.IntN(4)))
	}
	return t
}

// figure is a 32x56 humanoid whose clothes use the green ramp.
func figure() *render.IndexedTexture {
	t := render.NewTexture[uint8](32, 56)
	for x := range 32 {
		dx := math.Abs(float64(x) - 15.5)
		for y := range 56 {
			switch {
			case y < 12 && math.Hypot(dx, float64(y)-6) < 5.5:
				t.Set(x, y, shadeOf(rampOrange, 3+int(dx)/2))
			case y >= 13 && y < 36 && dx < 10:
				t.Set(x, y, shadeOf(rampGreen, 3+int(dx)/2+(y-13)/8))
			case y >= 36 && dx > 2 && dx < 8:
				t.Set(x, y, uint8(9+(y-36)/8))
			}
		}
	}
	return t
}

func barrel() *render.IndexedTexture {
	t := render.NewTexture[uint8](32, 40)
	for x := 2; x < 30; x++ {
		dx := math.Abs(float64(x) - 15.5)
		for y := range 40 {
			n := 4 + int(dx)/3
			if y%13 < 2 {
				n = 13
			}
			t.Set(x, y, shadeOf(rampOrange, n))
		}
	}
	return t
}

// lamp is a bright orb on a pole.
func lamp() *render.IndexedTexture {
	t := render.NewTexture[uint8](16, 60)
	for x := range 16 {
		dx := float64(x) - 7.5
		for y := range 60 {
			switch {
			case math.Hypot(dx, float64(y)-7.5) < 7:
				t.Set(x, y, shadeOf(rampOrange, int(math.Hypot(dx, float64(y)-7.5))/2))
			case y >= 14 && math.Abs(dx) < 1.5:
				t.Set(x, y, 12)
			}
		}
	}
	return t
}

// blob is a soft disc whose texels are wash strengths rather than colours.
func blob() *render.IndexedTexture {
	t := render.NewTexture[uint8](48, 24)
	for x := range 48 {
		for y := range 24 {
			d := math.Hypot((float64(x)-23.5)/24, (float64(y)-11.5)/12)
			if d < 1 {
				t.Set(x, y, uint8(1+254*(1-d)))
			}
		}
	}
	return t
}
