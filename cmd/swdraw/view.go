package main

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/swdraw"
	"github.com/taigrr/swdraw/pkg/config"
	"github.com/taigrr/swdraw/pkg/render"
	"github.com/taigrr/swdraw/pkg/scene"
)

// Axis is one degree of camera motion whose velocity springs back to zero
// after each push.
type Axis struct {
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewAxis creates a critically damped axis stepped at fps.
func NewAxis(fps int) Axis {
	return Axis{velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Push adds to the velocity.
func (a *Axis) Push(v float64) {
	a.Velocity += v
}

// Update returns the step for this frame and decays the velocity.
func (a *Axis) Update() float64 {
	step := a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
	return step
}

// Motion is the walk, strafe and turn state of the viewer.
type Motion struct {
	Walk, Strafe, Turn Axis
}

func NewMotion(fps int) *Motion {
	return &Motion{Walk: NewAxis(fps), Strafe: NewAxis(fps), Turn: NewAxis(fps)}
}

// step moves the camera by one frame of motion.
func step[P render.Pixel](m *Motion, r *scene.Renderer[P]) {
	r.Camera.MoveForward(r.Map, m.Walk.Update())
	r.Camera.Strafe(r.Map, m.Strafe.Update())
	r.Camera.Turn(m.Turn.Update())
}

var fuzzModes = []render.FuzzMode{render.FuzzSafe, render.FuzzScaled, render.FuzzOriginal}

// HUD tracks the frame rate shown in the overlay.
type HUD struct {
	show      bool
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Draw writes the overlay into the top and bottom terminal rows.
func (h *HUD) Draw(scr uv.Screen, width, height int, status string) {
	if !h.show || height < 2 {
		return
	}
	bg := color.RGBA{0, 0, 0, 255}
	drawText(scr, 0, 0, width, fmt.Sprintf(" %.0f FPS ", h.fps), color.RGBA{80, 255, 120, 255}, bg)
	drawText(scr, 0, height-1, width, " "+status+" ", color.RGBA{255, 255, 255, 255}, bg)
}

func drawText(scr uv.Screen, x, y, width int, s string, fg, bg color.Color) {
	for _, ch := range s {
		if x >= width {
			return
		}
		scr.SetCell(x, y, &uv.Cell{Content: string(ch), Width: 1, Style: uv.Style{Fg: fg, Bg: bg}})
		x++
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// view runs the interactive terminal viewer until Esc, ctrl+c or a signal.
func view[P render.Pixel](cfg *config.Config, r *scene.Renderer[P]) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	// Terminal events and config reloads are handed to the frame loop so
	// the renderer is only touched between frames.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	reloads := make(chan *config.Config, 1)
	go func() {
		err := config.Watch(ctx, *configPath, 150*time.Millisecond, func(c *config.Config, err error) {
			if err != nil {
				return
			}
			select {
			case reloads <- c:
			default:
			}
		})
		if err != nil {
			swdraw.Logger().Warn("config watch stopped", "error", err)
		}
	}()

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}

	const (
		walkStep   = 3.0
		turnStep   = 0.03
		lightDelta = 16
	)
	fps := max(*targetFPS, 1)
	motion := NewMotion(fps)
	hud := &HUD{show: true, fpsTime: time.Now()}
	canvas := render.NewCanvas[P](width, height*2)

	targetDuration := time.Second / time.Duration(fps)
	for {
		select {
		case <-ctx.Done():
			cleanup()
			return nil
		case c := <-reloads:
			applyReload(cfg, c, r)
		default:
		}

	drain:
		for {
			select {
			case ev := <-events:
				switch ev := ev.(type) {
				case uv.WindowSizeEvent:
					width, height = ev.Width, ev.Height
					term.Erase()
					term.Resize(width, height)
					canvas = render.NewCanvas[P](width, height*2)

				case uv.KeyPressEvent:
					switch {
					case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
						cancel()
					case ev.MatchString("w", "up"):
						motion.Walk.Push(walkStep)
					case ev.MatchString("s", "down"):
						motion.Walk.Push(-walkStep)
					case ev.MatchString("a"):
						motion.Strafe.Push(-walkStep)
					case ev.MatchString("d"):
						motion.Strafe.Push(walkStep)
					case ev.MatchString("left", "q"):
						motion.Turn.Push(turnStep)
					case ev.MatchString("right", "e"):
						motion.Turn.Push(-turnStep)
					case ev.MatchString("f"):
						r.Options.Fuzz = fuzzModes[(int(r.Options.Fuzz)+1)%len(fuzzModes)]
					case ev.MatchString("l"):
						r.Options.DynamicLights = !r.Options.DynamicLights
					case ev.MatchString("k"):
						r.Options.TiltedFloor = !r.Options.TiltedFloor
					case ev.MatchString("+", "="):
						r.SetLightLevel(min(r.Options.LightLevel+lightDelta, 255))
					case ev.MatchString("-", "_"):
						r.SetLightLevel(max(r.Options.LightLevel-lightDelta, 0))
					case ev.MatchString("?"), ev.MatchString("shift+/"):
						hud.show = !hud.show
					}
				}
			default:
				break drain
			}
		}

		now := time.Now()
		step(motion, r)

		r.Render(canvas)
		render.Draw(term, uv.Rect(0, 0, width, height), canvas, r.Format())
		hud.UpdateFPS()
		hud.Draw(term, width, height, fmt.Sprintf("%s  fuzz %s  lights %s  tilted %s  light %d",
			r.Format().Name(), r.Options.Fuzz, onOff(r.Options.DynamicLights),
			onOff(r.Options.TiltedFloor), r.Options.LightLevel))
		if err := term.Display(); err != nil {
			cleanup()
			return fmt.Errorf("display: %w", err)
		}

		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}

// applyReload swaps in the knobs of a reloaded config. The pixel format,
// map and worker count need a restart.
func applyReload[P render.Pixel](cfg, next *config.Config, r *scene.Renderer[P]) {
	if err := applyFlags(next); err != nil {
		swdraw.Logger().Warn("ignoring reloaded config", "error", err)
		return
	}
	opts, err := scene.OptionsFromConfig(next)
	if err != nil {
		swdraw.Logger().Warn("ignoring reloaded config", "error", err)
		return
	}
	if next.Render.Format != cfg.Render.Format || next.Scene.Map != cfg.Scene.Map {
		swdraw.Logger().Warn("format and map changes need a restart")
		next.Render.Format, next.Scene.Map = cfg.Render.Format, cfg.Scene.Map
	}
	opts.Workers = r.Options.Workers
	r.Options = opts
	r.SetLightLevel(opts.LightLevel)
	*cfg = *next
}
