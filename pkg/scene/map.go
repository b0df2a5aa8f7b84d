// Package scene renders a small grid world through the column, span, sky
// and fuzz drawers. It is the workload the CLI and the tests drive: walls
// are raycast per screen column, floors are drawn per row, and sprites are
// projected billboards clipped against the wall depth of each column.
package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/taigrr/swdraw/pkg/light"
	"github.com/taigrr/swdraw/pkg/math3d"
)

// CellSize is the width of a map cell and the height of a wall in world
// units.
const CellSize = 64

// EyeHeight is the camera height above the floor.
const EyeHeight = 32

// ErrBadMap is returned when a map cannot be parsed.
var ErrBadMap = errors.New("bad map")

// Kind is what occupies a map cell.
type Kind uint8

const (
	Empty Kind = iota
	Solid
	// Grate cells are masked walls the ray continues through.
	Grate
	// Glass cells are additive translucent walls.
	Glass
)

// Cell is one grid square.
type Cell struct {
	Kind Kind
	// Tex selects the wall texture for solid cells.
	Tex int
}

// Style selects how a sprite is blended.
type Style int

const (
	StyleNormal Style = iota
	StyleTranslated
	StyleAdd
	StyleAddClamp
	StyleSubClamp
	StyleRevSubClamp
	StyleShadow
	StyleGlow
	StyleFuzz
)

func (s Style) String() string {
	switch s {
	case StyleTranslated:
		return "translated"
	case StyleAdd:
		return "add"
	case StyleAddClamp:
		return "addclamp"
	case StyleSubClamp:
		return "subclamp"
	case StyleRevSubClamp:
		return "revsubclamp"
	case StyleShadow:
		return "shadow"
	case StyleGlow:
		return "glow"
	case StyleFuzz:
		return "fuzz"
	}
	return "normal"
}

// Sprite indices into Textures.Sprites.
const (
	SpriteFigure = iota
	SpriteBarrel
	SpriteLamp
	SpriteBlob
	numSprites
)

// Thing is a billboard standing on the floor.
type Thing struct {
	Pos    math3d.Vec3
	Style  Style
	Sprite int
}

// Map is a parsed grid world. Row 0 of the text is y 0.
type Map struct {
	Width, Height int
	Cells         []Cell

	Start    math3d.Vec3
	StartYaw float64

	Things []Thing
	Lights []light.Light
}

// DefaultMap is the built in world.
const DefaultMap = `
################
#P.....a...t...#
#..............#
#..1111..%%%...#
#..1..1........#
#..1..1..L..c..#
#..11=1........#
#.......s...g..#
#..+....-...r..#
#....f.....*...#
#..2222..3333..#
#.........4....#
################
`

// thingStyles maps map letters to sprites.
var thingStyles = map[byte]Thing{
	'a': {Style: StyleNormal, Sprite: SpriteFigure},
	't': {Style: StyleTranslated, Sprite: SpriteFigure},
	'+': {Style: StyleAdd, Sprite: SpriteBarrel},
	'c': {Style: StyleAddClamp, Sprite: SpriteBarrel},
	'-': {Style: StyleSubClamp, Sprite: SpriteBarrel},
	'r': {Style: StyleRevSubClamp, Sprite: SpriteFigure},
	's': {Style: StyleShadow, Sprite: SpriteBlob},
	'g': {Style: StyleGlow, Sprite: SpriteBlob},
	'f': {Style: StyleFuzz, Sprite: SpriteFigure},
	'L': {Style: StyleNormal, Sprite: SpriteLamp},
}

// Light colours for '*' cells and lamps.
const (
	pointLightColor = 0xff9040
	lampLightColor  = 0xfff0b0
)

// ParseMap reads a map. Legend:
//
//	#, 1-4   solid walls with texture 0-4
//	=        grate
//	%        glass
//	.        floor
//	P        player start facing +x
//	*        point light
//	L        lamp sprite with a simple light
//	a t + c - r s g f  sprites, see thingStyles
//
// Blank lines are skipped and short rows are padded with floor. The map is
// enclosed in solid cells when read through At.
func ParseMap(r io.Reader) (*Map, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read map: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadMap)
	}

	m := &Map{Height: len(rows)}
	for _, row := range rows {
		m.Width = max(m.Width, len(row))
	}
	m.Cells = make([]Cell, m.Width*m.Height)

	started := false
	for y, row := range rows {
		for x := range m.Width {
			ch := byte('.')
			if x < len(row) {
				ch = row[x]
			}
			centre := math3d.V3((float64(x)+0.5)*CellSize, (float64(y)+0.5)*CellSize, 0)
			cell := &m.Cells[y*m.Width+x]
			switch {
			case ch == '#':
				cell.Kind = Solid
			case ch >= '1' && ch <= '4':
				cell.Kind, cell.Tex = Solid, int(ch-'0')
			case ch == '=':
				cell.Kind = Grate
			case ch == '%':
				cell.Kind = Glass
			case ch == '.' || ch == ' ':
			case ch == 'P':
				if started {
					return nil, fmt.Errorf("%w: second start at %d,%d", ErrBadMap, x, y)
				}
				started = true
				m.Start = centre.Add(math3d.V3(0, 0, EyeHeight))
			case ch == '*':
				m.Lights = append(m.Lights, light.Light{
					Pos: centre.Add(math3d.V3(0, 0, 48)), Color: pointLightColor, Radius: 192,
				})
			default:
				th, ok := thingStyles[ch]
				if !ok {
					return nil, fmt.Errorf("%w: unknown cell %q at %d,%d", ErrBadMap, ch, x, y)
				}
				th.Pos = centre
				m.Things = append(m.Things, th)
				if ch == 'L' {
					m.Lights = append(m.Lights, light.Light{
						Pos: centre.Add(math3d.V3(0, 0, 50)), Color: lampLightColor, Radius: 160, Simple: true,
					})
				}
			}
		}
	}
	if !started {
		return nil, fmt.Errorf("%w: no start", ErrBadMap)
	}
	return m, nil
}

// LoadMap reads a map file. An empty path loads DefaultMap.
func LoadMap(path string) (*Map, error) {
	if path == "" {
		return ParseMap(strings.NewReader(DefaultMap))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map: %w", err)
	}
	defer f.Close()
	return ParseMap(f)
}

// At returns the cell at grid position (x, y). Cells outside the map are
// solid.
func (m *Map) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return Cell{Kind: Solid}
	}
	return m.Cells[y*m.Width+x]
}

// Walkable reports whether a world position is inside an empty cell.
func (m *Map) Walkable(p math3d.Vec3) bool {
	return m.At(int(math.Floor(p.X/CellSize)), int(math.Floor(p.Y/CellSize))).Kind == Empty
}
