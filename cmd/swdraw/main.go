// swdraw - software column and span renderer
// Draws a grid scene with the 8-bit or true colour drawers and writes it to
// a PNG or GIF, or shows it live in the terminal.
//
// Controls (with -term):
//
//	W/S or Up/Down    - Walk forward/back
//	A/D               - Strafe left/right
//	Left/Right or Q/E - Turn
//	F                 - Cycle fuzz mode
//	L                 - Toggle dynamic lights
//	K                 - Toggle tilted floor
//	+/-               - Brighter/darker
//	?                 - Toggle HUD overlay
//	Esc               - Quit
package main

import (
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"

	"github.com/taigrr/swdraw"
	"github.com/taigrr/swdraw/pkg/assets"
	"github.com/taigrr/swdraw/pkg/config"
	"github.com/taigrr/swdraw/pkg/palette"
	"github.com/taigrr/swdraw/pkg/render"
	"github.com/taigrr/swdraw/pkg/scene"
)

var (
	configPath = flag.String("config", "swdraw.toml", "Path to TOML config")
	outputPath = flag.String("o", "", "Output file (overrides config)")
	frames     = flag.Int("frames", 0, "Frames to export; more than one writes a GIF (overrides config)")
	format     = flag.String("format", "", "Pixel format: pal8 or bgra32 (overrides config)")
	termView   = flag.Bool("term", false, "Show the scene in the terminal instead of exporting")
	targetFPS  = flag.Int("fps", 30, "Target FPS for -term")
	turnRate   = flag.Float64("turn", 0.05, "Radians turned per exported frame")
	verbose    = flag.Bool("v", false, "Debug logging to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "swdraw - software column and span renderer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: swdraw [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls (-term):\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Walk and strafe\n")
		fmt.Fprintf(os.Stderr, "  Left/Right  - Turn\n")
		fmt.Fprintf(os.Stderr, "  F           - Cycle fuzz mode\n")
		fmt.Fprintf(os.Stderr, "  L           - Toggle dynamic lights\n")
		fmt.Fprintf(os.Stderr, "  K           - Toggle tilted floor\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Light level\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if *verbose {
		swdraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}

	tables := palette.Current()
	switch cfg.Render.Format {
	case config.FormatPal8:
		method, _ := cfg.Render.Method()
		pal := tables.Palette.ColorPalette()
		return start(cfg, render.NewPalDrawers(tables, method), func(c *render.Canvas[uint8]) image.Image {
			return render.ToPaletted(c, pal)
		})
	default:
		filter, _ := cfg.Render.FilterMode()
		f := render.NewBGRA(tables)
		return start(cfg, render.NewBGRADrawers(tables, filter), func(c *render.Canvas[uint32]) image.Image {
			return c.ToImage(f)
		})
	}
}

// applyFlags copies command line overrides into cfg and revalidates it.
func applyFlags(cfg *config.Config) error {
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if *frames > 0 {
		cfg.Output.Frames = *frames
	}
	if *format != "" {
		cfg.Render.Format = *format
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	return nil
}

// start builds the scene for one pixel format and hands it to the viewer or
// the exporter.
func start[P render.Pixel](cfg *config.Config, d *render.Drawers[P], toImage func(*render.Canvas[P]) image.Image) error {
	m, err := scene.LoadMap(cfg.Scene.Map)
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}

	var pack *assets.Pack
	if cfg.Scene.Assets != "" {
		pack, err = assets.Load(cfg.Scene.Assets)
		if err != nil {
			return fmt.Errorf("load assets: %w", err)
		}
		m.Lights = append(m.Lights, pack.Lights...)
	}

	opts, err := scene.OptionsFromConfig(cfg)
	if err != nil {
		return err
	}
	opts.Workers = cfg.Render.Workers

	r := scene.NewRenderer(d, palette.Current(), m, scene.NewTextures(d.Format(), pack), opts)
	defer r.Close()

	swdraw.Logger().Info("scene ready", "format", d.Format().Name(), "filter", d.Filter(),
		"cells", m.Width*m.Height, "things", len(m.Things), "lights", len(m.Lights))

	if *termView {
		return view(cfg, r)
	}
	return exportFrames(cfg, r, toImage)
}
