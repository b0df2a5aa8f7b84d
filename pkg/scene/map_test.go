package scene

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/taigrr/swdraw/pkg/math3d"
)

func TestParseDefaultMap(t *testing.T) {
	m, err := ParseMap(strings.NewReader(DefaultMap))
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	if m.Width != 16 || m.Height != 13 {
		t.Errorf("size = %dx%d, want 16x13", m.Width, m.Height)
	}
	if want := math3d.V3(96, 96, EyeHeight); m.Start != want {
		t.Errorf("start = %v, want %v", m.Start, want)
	}
	if len(m.Things) != 10 {
		t.Errorf("things = %d, want 10", len(m.Things))
	}
	if len(m.Lights) != 2 {
		t.Errorf("lights = %d, want 2", len(m.Lights))
	}

	tests := []struct {
		x, y int
		kind Kind
		tex  int
	}{
		{0, 0, Solid, 0},
		{1, 1, Empty, 0},
		{3, 3, Solid, 1},
		{5, 6, Grate, 0},
		{9, 3, Glass, 0},
		{3, 10, Solid, 2},
		{10, 11, Solid, 4},
		{-1, 4, Solid, 0},
		{16, 4, Solid, 0},
	}
	for _, tc := range tests {
		if c := m.At(tc.x, tc.y); c.Kind != tc.kind || c.Tex != tc.tex {
			t.Errorf("At(%d, %d) = %+v, want kind %d tex %d", tc.x, tc.y, c, tc.kind, tc.tex)
		}
	}
}

func TestParseMapThings(t *testing.T) {
	m, err := ParseMap(strings.NewReader("#####\n#PtL#\n#*  \n#####"))
	if err != nil {
		t.Fatalf("ParseMap: %v", err)
	}
	if m.Width != 5 || m.At(4, 2).Kind != Empty {
		t.Errorf("short rows should pad with floor, width %d", m.Width)
	}
	if len(m.Things) != 2 {
		t.Fatalf("things = %+v", m.Things)
	}
	if th := m.Things[0]; th.Style != StyleTranslated || th.Sprite != SpriteFigure || th.Pos != math3d.V3(160, 96, 0) {
		t.Errorf("translated thing = %+v", th)
	}
	if th := m.Things[1]; th.Sprite != SpriteLamp {
		t.Errorf("lamp thing = %+v", th)
	}
	var simple, point int
	for _, l := range m.Lights {
		if l.Simple {
			simple++
		} else {
			point++
		}
	}
	if simple != 1 || point != 1 {
		t.Errorf("lights = %+v", m.Lights)
	}
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", "\n\n"},
		{"no start", "###\n#.#\n###"},
		{"two starts", "####\n#PP#\n####"},
		{"unknown cell", "####\n#P?#\n####"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseMap(strings.NewReader(tc.src)); !errors.Is(err, ErrBadMap) {
				t.Errorf("err = %v, want ErrBadMap", err)
			}
		})
	}
}

func TestLoadMap(t *testing.T) {
	m, err := LoadMap("")
	if err != nil || m.Width != 16 {
		t.Fatalf("LoadMap(\"\") = %v, %v", m, err)
	}
	if _, err := LoadMap("/nonexistent/map.txt"); err == nil {
		t.Error("missing map file should fail")
	}
}

func TestCameraMovement(t *testing.T) {
	m, err := ParseMap(strings.NewReader("#####\n#P..#\n#####"))
	if err != nil {
		t.Fatal(err)
	}
	c := NewCamera(m.Start, 0, 90)
	c.MoveForward(m, 50)
	if c.Position.X != 146 || c.Position.Y != 96 {
		t.Errorf("after forward: %v", c.Position)
	}
	// The far wall stops x; the move is dropped on that axis.
	c.MoveForward(m, 200)
	if c.Position.X != 146 {
		t.Errorf("walked into a wall: %v", c.Position)
	}
	// Strafing right from yaw 0 moves toward -y, into the wall.
	c.Strafe(m, 40)
	if c.Position.Y != 96 {
		t.Errorf("strafed into a wall: %v", c.Position)
	}
	c.Strafe(m, 20)
	if c.Position.Y != 76 {
		t.Errorf("strafe right: %v", c.Position)
	}

	c.Turn(-math.Pi / 2)
	if math.Abs(c.Yaw-3*math.Pi/2) > 1e-9 {
		t.Errorf("yaw = %v, want 3pi/2", c.Yaw)
	}
}

func TestCameraViewMatrix(t *testing.T) {
	for _, yaw := range []float64{0, 0.7, math.Pi, 4} {
		c := NewCamera(math3d.V3(100, 50, EyeHeight), yaw, 66)
		fwd := c.ToView(c.Position.Add(c.Forward().Scale(10)))
		right := c.ToView(c.Position.Add(c.Right().Scale(3)))
		up := c.ToView(c.Position.Add(math3d.V3(0, 0, 5)))
		for name, got := range map[string][2]math3d.Vec3{
			"forward": {fwd, math3d.V3(0, 10, 0)},
			"right":   {right, math3d.V3(3, 0, 0)},
			"up":      {up, math3d.V3(0, 0, 5)},
		} {
			if got[0].Distance(got[1]) > 1e-9 {
				t.Errorf("yaw %v: %s maps to %v, want %v", yaw, name, got[0], got[1])
			}
		}
	}
}
