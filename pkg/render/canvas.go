package render

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Canvas is a render target. Rows are Pitch pixels apart so a canvas can
// view part of a wider buffer.
type Canvas[P Pixel] struct {
	Width  int
	Height int
	Pitch  int
	Pix    []P // Row-major pixel data
}

// NewCanvas creates a canvas whose pitch equals its width.
func NewCanvas[P Pixel](width, height int) *Canvas[P] {
	return &Canvas[P]{
		Width:  width,
		Height: height,
		Pitch:  width,
		Pix:    make([]P, width*height),
	}
}

// Sub returns a canvas viewing the rectangle at (x, y) of size w x h,
// sharing pixels with c. The rectangle is clipped to c.
func (c *Canvas[P]) Sub(x, y, w, h int) *Canvas[P] {
	x = min(max(x, 0), c.Width)
	y = min(max(y, 0), c.Height)
	w = min(w, c.Width-x)
	h = min(h, c.Height-y)
	if w <= 0 || h <= 0 {
		return &Canvas[P]{Pitch: c.Pitch}
	}
	start := y*c.Pitch + x
	end := (y+h-1)*c.Pitch + x + w
	return &Canvas[P]{Width: w, Height: h, Pitch: c.Pitch, Pix: c.Pix[start:end]}
}

// Clear fills the canvas with p.
func (c *Canvas[P]) Clear(p P) {
	for y := range c.Height {
		row := c.Pix[y*c.Pitch : y*c.Pitch+c.Width]
		for i := range row {
			row[i] = p
		}
	}
}

// Offset returns the index of (x, y) in Pix.
func (c *Canvas[P]) Offset(x, y int) int {
	return y*c.Pitch + x
}

// Set writes a pixel. Out of bounds writes are ignored.
func (c *Canvas[P]) Set(x, y int, p P) {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return
	}
	c.Pix[y*c.Pitch+x] = p
}

// At returns the pixel at (x, y), or zero when out of bounds.
func (c *Canvas[P]) At(x, y int) P {
	if x < 0 || x >= c.Width || y < 0 || y >= c.Height {
		return 0
	}
	return c.Pix[y*c.Pitch+x]
}

// Clone returns a copy of the canvas with a compact pitch.
func (c *Canvas[P]) Clone() *Canvas[P] {
	out := NewCanvas[P](c.Width, c.Height)
	for y := range c.Height {
		copy(out.Pix[y*out.Pitch:(y+1)*out.Pitch], c.Pix[y*c.Pitch:y*c.Pitch+c.Width])
	}
	return out
}

// ToImage converts the canvas to an opaque image.RGBA through the format.
func (c *Canvas[P]) ToImage(f Format[P]) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	for y := range c.Height {
		for x := range c.Width {
			rgb := f.Unpack(c.Pix[y*c.Pitch+x])
			img.SetRGBA(x, y, color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 255})
		}
	}
	return img
}

// ToPaletted converts an 8-bit canvas to a paletted image without
// requantizing.
func ToPaletted(c *Canvas[uint8], pal color.Palette) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width, c.Height), pal)
	for y := range c.Height {
		copy(img.Pix[y*img.Stride:y*img.Stride+c.Width], c.Pix[y*c.Pitch:y*c.Pitch+c.Width])
	}
	return img
}

// SavePNG saves the canvas as a PNG file.
func (c *Canvas[P]) SavePNG(path string, f Format[P]) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := png.Encode(w, c.ToImage(f)); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return w.Flush()
}
