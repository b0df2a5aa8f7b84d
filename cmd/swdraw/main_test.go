package main

import (
	"image"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/swdraw/pkg/config"
	"github.com/taigrr/swdraw/pkg/palette"
	"github.com/taigrr/swdraw/pkg/render"
	"github.com/taigrr/swdraw/pkg/scene"
)

func TestOutputFile(t *testing.T) {
	tests := []struct {
		path   string
		frames int
		want   string
	}{
		{"out.png", 1, "out.png"},
		{"out.png", 8, "out.gif"},
		{"out.gif", 8, "out.gif"},
		{"out.gif", 1, "out.png"},
		{"dir/out", 3, "dir/out.gif"},
		{"OUT.PNG", 1, "OUT.PNG"},
	}
	for _, tc := range tests {
		if got := outputFile(tc.path, tc.frames); got != tc.want {
			t.Errorf("outputFile(%q, %d) = %q, want %q", tc.path, tc.frames, got, tc.want)
		}
	}
}

func TestAxisDecays(t *testing.T) {
	a := NewAxis(30)
	a.Push(2)
	if got := a.Update(); got != 2 {
		t.Fatalf("first step = %v, want 2", got)
	}
	total := 2.0
	for range 300 {
		total += a.Update()
	}
	if math.Abs(a.Velocity) > 1e-3 {
		t.Errorf("velocity after 10s = %v, want ~0", a.Velocity)
	}
	if total <= 2 {
		t.Errorf("axis travelled %v, want more than the first step", total)
	}
}

func TestFrameLabel(t *testing.T) {
	cfg := config.Default()
	if got := frameLabel(cfg, false, 3); got != "" {
		t.Errorf("disabled label = %q", got)
	}
	if got := frameLabel(cfg, true, 0); got != "bgra32 fuzz=safe" {
		t.Errorf("single frame label = %q", got)
	}
	cfg.Output.Frames = 4
	if got := frameLabel(cfg, true, 2); got != "bgra32 fuzz=safe #2" {
		t.Errorf("animation label = %q", got)
	}
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	tb := palette.Current()
	pal := tb.Palette.ColorPalette()

	for _, frames := range []int{1, 3} {
		cfg := config.Default()
		cfg.Render.Width, cfg.Render.Height = 48, 30
		cfg.Output.Path = filepath.Join(dir, "pal8.png")
		cfg.Output.Frames = frames
		cfg.Output.Scale = 1

		d := render.NewPalDrawers(tb, render.BlendPacked)
		m, err := scene.LoadMap("")
		if err != nil {
			t.Fatal(err)
		}
		opts := scene.DefaultOptions()
		opts.Workers = 2
		r := scene.NewRenderer(d, tb, m, scene.NewTextures(d.Format(), nil), opts)
		err = exportFrames(cfg, r, func(c *render.Canvas[uint8]) image.Image {
			return render.ToPaletted(c, pal)
		})
		r.Close()
		if err != nil {
			t.Fatalf("%d frames: %v", frames, err)
		}
		path := outputFile(cfg.Output.Path, frames)
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("%d frames: %s not written: %v", frames, path, err)
		}
	}
}
