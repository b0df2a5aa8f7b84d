// Package config loads the renderer knobs from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/swdraw/pkg/render"
)

var (
	ErrUnknownFormat      = errors.New("unknown pixel format")
	ErrUnknownBlendMethod = errors.New("unknown blend method")
	ErrUnknownFilter      = errors.New("unknown filter")
	ErrUnknownFuzz        = errors.New("unknown fuzz mode")
	ErrBadColor           = errors.New("invalid colour")
	ErrBadSize            = errors.New("invalid size")
)

// Pixel format names.
const (
	FormatPal8   = "pal8"
	FormatBGRA32 = "bgra32"
)

type RenderConfig struct {
	Format        string `toml:"format"`
	BlendMethod   string `toml:"blend_method"`
	Filter        string `toml:"filter"`
	FadeSky       bool   `toml:"fade_sky"`
	DoubleSky     bool   `toml:"double_sky"`
	TiltedFloor   bool   `toml:"tilted_floor"`
	Crosshair     bool   `toml:"crosshair"`
	Fuzz          string `toml:"fuzz"`
	DynamicLights bool   `toml:"dynamic_lights"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	Workers       int    `toml:"workers"` // 0 = one per CPU
}

type SceneConfig struct {
	Map            string  `toml:"map"`    // text map file, empty = built in
	Assets         string  `toml:"assets"` // glTF/GLB texture and light pack
	FOV            float64 `toml:"fov"`    // degrees
	SkyColorTop    string  `toml:"sky_color_top"`
	SkyColorBottom string  `toml:"sky_color_bottom"`
	FogColor       string  `toml:"fog_color"`
	LightLevel     int     `toml:"light_level"` // 0..255
}

type OutputConfig struct {
	Path   string `toml:"path"`
	Scale  int    `toml:"scale"`
	Frames int    `toml:"frames"`
	Delay  int    `toml:"delay"` // GIF frame delay in 1/100 s
	Label  bool   `toml:"label"`
}

type Config struct {
	Render RenderConfig `toml:"render"`
	Scene  SceneConfig  `toml:"scene"`
	Output OutputConfig `toml:"output"`
}

// Default returns the built in configuration.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Format:        FormatBGRA32,
			BlendMethod:   "packed",
			Filter:        "nearest",
			FadeSky:       true,
			DoubleSky:     true,
			Fuzz:          "safe",
			DynamicLights: true,
			Width:         320,
			Height:        200,
		},
		Scene: SceneConfig{
			FOV:            66,
			SkyColorTop:    "#1c2a55",
			SkyColorBottom: "#c97b4a",
			FogColor:       "#000000",
			LightLevel:     176,
		},
		Output: OutputConfig{
			Path:   "swdraw.png",
			Scale:  2,
			Frames: 1,
			Delay:  6,
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every enumerated knob and colour.
func (c *Config) Validate() error {
	r := &c.Render
	switch r.Format {
	case FormatPal8, FormatBGRA32:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, r.Format)
	}
	if _, err := r.Method(); err != nil {
		return err
	}
	if _, err := r.FilterMode(); err != nil {
		return err
	}
	if _, err := r.FuzzMode(); err != nil {
		return err
	}
	if r.Width <= 0 || r.Height <= 0 || r.Width > render.MaxScreenWidth {
		return fmt.Errorf("%w: %dx%d", ErrBadSize, r.Width, r.Height)
	}
	if _, _, _, err := c.Scene.Colors(); err != nil {
		return err
	}
	if c.Output.Scale < 1 || c.Output.Frames < 1 {
		return fmt.Errorf("%w: scale %d, frames %d", ErrBadSize, c.Output.Scale, c.Output.Frames)
	}
	return nil
}

// Method returns the palette blend method.
func (r RenderConfig) Method() (render.BlendMethod, error) {
	switch strings.ToLower(r.BlendMethod) {
	case "", "packed":
		return render.BlendPacked, nil
	case "direct":
		return render.BlendDirect, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBlendMethod, r.BlendMethod)
}

// FilterMode returns the true colour sampling mode.
func (r RenderConfig) FilterMode() (render.FilterMode, error) {
	switch strings.ToLower(r.Filter) {
	case "", "nearest":
		return render.FilterNearest, nil
	case "bilinear":
		return render.FilterBilinear, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFilter, r.Filter)
}

// FuzzMode returns the fuzz variant.
func (r RenderConfig) FuzzMode() (render.FuzzMode, error) {
	switch strings.ToLower(r.Fuzz) {
	case "", "safe":
		return render.FuzzSafe, nil
	case "scaled":
		return render.FuzzScaled, nil
	case "original":
		return render.FuzzOriginal, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFuzz, r.Fuzz)
}

// Colors returns the sky gradient and fog colours as 0xRRGGBB.
func (s SceneConfig) Colors() (top, bottom, fog uint32, err error) {
	if top, err = ParseColor(s.SkyColorTop); err != nil {
		return
	}
	if bottom, err = ParseColor(s.SkyColorBottom); err != nil {
		return
	}
	fog, err = ParseColor(s.FogColor)
	return
}

// ParseColor parses a #rrggbb hex colour into 0xRRGGBB.
func ParseColor(hex string) (uint32, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrBadColor, hex, err)
	}
	r, g, b := c.RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b), nil
}
