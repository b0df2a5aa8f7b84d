package workq

// Strip is a half-open range [X0, X1) of screen columns or rows.
type Strip struct {
	X0, X1 int
}

// Width returns the number of columns in the strip.
func (s Strip) Width() int { return s.X1 - s.X0 }

// Strips splits [0, width) into at most n contiguous strips of nearly equal
// size. Strips never overlap, so drawers working on different strips never
// touch the same pixel.
func Strips(width, n int) []Strip {
	if width <= 0 {
		return nil
	}
	n = min(max(n, 1), width)
	out := make([]Strip, 0, n)
	x := 0
	for i := range n {
		w := width / n
		if i < width%n {
			w++
		}
		out = append(out, Strip{X0: x, X1: x + w})
		x += w
	}
	return out
}
