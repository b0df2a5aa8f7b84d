// Package export writes rendered frames as PNG stills and animated GIFs,
// optionally upscaled and labelled.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"

	"github.com/taigrr/swdraw"
)

// ErrNoFrames is returned when saving an animation with nothing recorded.
var ErrNoFrames = errors.New("no frames recorded")

// Scale upscales img by an integer factor with nearest neighbour sampling,
// keeping the pixel look. Paletted images stay paletted.
func Scale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	r := image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor)
	var dst draw.Image
	if p, ok := img.(*image.Paletted); ok {
		dst = image.NewPaletted(r, p.Palette)
	} else {
		dst = image.NewRGBA(r)
	}
	draw.NearestNeighbor.Scale(dst, r, img, b, draw.Src, nil)
	return dst
}

// Label draws s with a one pixel dark outline in the top left corner.
func Label(g draw.Image, s string) {
	if s == "" {
		return
	}
	b := g.Bounds()
	drawShadowedString(g, image.White, fixed.Point26_6{X: fixed.I(b.Min.X + 4), Y: fixed.I(b.Min.Y + 4 + 12)}, s)
}

func drawShadowedString(g draw.Image, clr image.Image, dot fixed.Point26_6, s string) {
	for oy := -1; oy <= 1; oy++ {
		for ox := -1; ox <= 1; ox++ {
			(&font.Drawer{
				Dst:  g,
				Src:  image.Black,
				Face: inconsolata.Bold8x16,
				Dot:  fixed.Point26_6{X: dot.X + fixed.I(ox), Y: dot.Y + fixed.I(oy)},
			}).DrawString(s)
		}
	}
	(&font.Drawer{
		Dst:  g,
		Src:  clr,
		Face: inconsolata.Bold8x16,
		Dot:  dot,
	}).DrawString(s)
}

// SavePNG upscales and labels img, then writes it to path.
func SavePNG(path string, img image.Image, scale int, label string) error {
	out := Scale(img, scale)
	if label != "" {
		if _, ok := out.(draw.Image); !ok || out == img {
			out = toRGBA(out)
		}
		Label(out.(draw.Image), label)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 0x100000)
	if err := png.Encode(bw, out); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	swdraw.Logger().Info("wrote png", "path", path, "size", out.Bounds().Size())
	return nil
}

func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Recorder collects frames for an animated GIF. True colour frames are
// dithered onto Palette; paletted frames are kept as they are.
type Recorder struct {
	Palette color.Palette
	Scale   int
	Delay   int // 1/100 s per frame

	anim gif.GIF
}

// NewRecorder returns a recorder that quantizes to pal.
func NewRecorder(pal color.Palette, scale, delay int) *Recorder {
	return &Recorder{Palette: pal, Scale: scale, Delay: delay}
}

// Add appends a frame with an optional label.
func (r *Recorder) Add(img image.Image, label string) {
	scaled := Scale(img, r.Scale)
	frame, ok := scaled.(*image.Paletted)
	if !ok || frame == img {
		b := scaled.Bounds()
		frame = image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), r.palette(img))
		if _, ok := scaled.(*image.Paletted); ok {
			draw.Draw(frame, frame.Bounds(), scaled, b.Min, draw.Src)
		} else {
			draw.FloydSteinberg.Draw(frame, frame.Bounds(), scaled, b.Min)
		}
	}
	Label(frame, label)
	r.anim.Image = append(r.anim.Image, frame)
	r.anim.Delay = append(r.anim.Delay, r.Delay)
	r.anim.Disposal = append(r.anim.Disposal, gif.DisposalNone)
}

func (r *Recorder) palette(img image.Image) color.Palette {
	if p, ok := img.(*image.Paletted); ok {
		return p.Palette
	}
	return r.Palette
}

// Len returns the number of recorded frames.
func (r *Recorder) Len() int { return len(r.anim.Image) }

// Save writes the animation to path.
func (r *Recorder) Save(path string) error {
	if len(r.anim.Image) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriterSize(f, 0x100000)
	if err := gif.EncodeAll(bw, &r.anim); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	swdraw.Logger().Info("wrote gif", "path", path, "frames", len(r.anim.Image))
	return nil
}
