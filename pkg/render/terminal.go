package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts a canvas to terminal cells and draws them on the screen.
// Each terminal row shows two canvas rows, so the canvas height should be
// twice the area height.
func Draw[P Pixel](scr uv.Screen, area uv.Rectangle, c *Canvas[P], f Format[P]) {
	// ▀ (upper half block) with fg=top row and bg=bottom row
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= c.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= c.Width {
				break
			}
			bg := color.Color(nil)
			if botY < c.Height {
				bg = rgbColor(f.Unpack(c.At(x, botY)))
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbColor(f.Unpack(c.At(x, topY))),
					Bg: bg,
				},
			})
		}
	}
}

func rgbColor(rgb uint32) color.Color {
	return color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 255}
}

// RGB packs 8-bit channels as 0xRRGGBB.
func RGB(r, g, b uint8) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}
