package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"
)

// Texture holds pixels in column-major order, the layout column drawers
// read: texel (x, y) is Pixels[x*Height+y].
type Texture[P Pixel] struct {
	Width  int
	Height int
	Pixels []P
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture[P Pixel](width, height int) *Texture[P] {
	return &Texture[P]{
		Width:  width,
		Height: height,
		Pixels: make([]P, width*height),
	}
}

// Column returns texture column x, wrapping x onto the texture.
func (t *Texture[P]) Column(x int) []P {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	return t.Pixels[x*t.Height : (x+1)*t.Height]
}

// Set sets a texel. Out of range writes are ignored.
func (t *Texture[P]) Set(x, y int, p P) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[x*t.Height+y] = p
}

// At returns the texel at (x, y) with bounds checking.
func (t *Texture[P]) At(x, y int) P {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return 0
	}
	return t.Pixels[x*t.Height+y]
}

// LoadTexture loads a texture from an image file.
func LoadTexture[P Pixel](path string, f Format[P]) (*Texture[P], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return TextureFromImage(img, f), nil
}

// TextureFromImage converts an image through the format. Pixels with
// alpha below one half become transparent.
func TextureFromImage[P Pixel](img image.Image, f Format[P]) *Texture[P] {
	bounds := img.Bounds()
	tex := NewTexture[P](bounds.Dx(), bounds.Dy())
	transparent := f.Index(0)
	for x := range tex.Width {
		for y := range tex.Height {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a < 0x8000 {
				tex.Set(x, y, transparent)
				continue
			}
			// RGBA is premultiplied and 16-bit
			if a != 0xffff {
				r = r * 0xffff / a
				g = g * 0xffff / a
				b = b * 0xffff / a
			}
			tex.Set(x, y, f.Pack((r>>8)<<16|(g>>8)<<8|b>>8))
		}
	}
	return tex
}

// IndexedTexture holds palette indices regardless of the target format,
// for translated sprites and shade masks.
type IndexedTexture = Texture[uint8]

// Convert maps an indexed texture into a format.
func Convert[P Pixel](src *IndexedTexture, f Format[P]) *Texture[P] {
	tex := NewTexture[P](src.Width, src.Height)
	for i, v := range src.Pixels {
		tex.Pixels[i] = f.Index(v)
	}
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture[P Pixel](width, height, checkSize int, c1, c2 P) *Texture[P] {
	tex := NewTexture[P](width, height)
	for x := range width {
		for y := range height {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.Set(x, y, c1)
			} else {
				tex.Set(x, y, c2)
			}
		}
	}
	return tex
}

// NewGradientTexture creates a vertical gradient from top to bottom
// (0xRRGGBB), packed through the format.
func NewGradientTexture[P Pixel](width, height int, top, bottom uint32, f Format[P]) *Texture[P] {
	tex := NewTexture[P](width, height)
	for y := range height {
		t := uint32(0)
		if height > 1 {
			t = uint32(y * 256 / (height - 1))
		}
		p := f.Pack(lerpRGB(top, bottom, t))
		for x := range width {
			tex.Set(x, y, p)
		}
	}
	return tex
}

// lerpRGB blends 0xRRGGBB colours; t is 0..256 toward b.
func lerpRGB(a, b, t uint32) uint32 {
	var out uint32
	for shift := uint(0); shift < 24; shift += 8 {
		ca := (a >> shift) & 0xff
		cb := (b >> shift) & 0xff
		out |= ((ca*(256-t) + cb*t) >> 8) << shift
	}
	return out
}
