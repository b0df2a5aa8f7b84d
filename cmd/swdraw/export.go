package main

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/taigrr/swdraw/pkg/config"
	"github.com/taigrr/swdraw/pkg/export"
	"github.com/taigrr/swdraw/pkg/palette"
	"github.com/taigrr/swdraw/pkg/render"
	"github.com/taigrr/swdraw/pkg/scene"
)

// exportFrames renders cfg.Output.Frames frames, turning the camera between them.
// One frame is saved as a PNG, more as a GIF.
func exportFrames[P render.Pixel](cfg *config.Config, r *scene.Renderer[P], toImage func(*render.Canvas[P]) image.Image) error {
	out := cfg.Output
	canvas := render.NewCanvas[P](cfg.Render.Width, cfg.Render.Height)
	path := outputFile(out.Path, out.Frames)

	if out.Frames == 1 {
		r.Render(canvas)
		return export.SavePNG(path, toImage(canvas), out.Scale, frameLabel(cfg, out.Label, 0))
	}

	rec := export.NewRecorder(palette.Current().Palette.ColorPalette(), out.Scale, out.Delay)
	for i := range out.Frames {
		r.Render(canvas)
		rec.Add(toImage(canvas), frameLabel(cfg, out.Label, i))
		r.Camera.Turn(*turnRate)
	}
	return rec.Save(path)
}

// outputFile swaps a .png extension for .gif when several frames are
// recorded, and the other way round for a single frame.
func outputFile(path string, frames int) string {
	ext := strings.ToLower(filepath.Ext(path))
	base := strings.TrimSuffix(path, filepath.Ext(path))
	switch {
	case frames > 1 && ext != ".gif":
		return base + ".gif"
	case frames == 1 && ext != ".png":
		return base + ".png"
	}
	return path
}

func frameLabel(cfg *config.Config, enabled bool, frame int) string {
	if !enabled {
		return ""
	}
	s := fmt.Sprintf("%s fuzz=%s", cfg.Render.Format, cfg.Render.Fuzz)
	if cfg.Output.Frames > 1 {
		s += fmt.Sprintf(" #%d", frame)
	}
	return s
}
