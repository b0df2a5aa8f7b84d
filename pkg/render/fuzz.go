package render

import (
	"math/rand/v2"

	"github.com/taigrr/swdraw/pkg/fixed"
)

const (
	// FuzzTable is the length of the fuzz offset cycle.
	FuzzTable = 50
	// FuzzRandomX is the length of the per-column offset table used by
	// scaled fuzz.
	FuzzRandomX = 100

	fuzzLight = 6  // colormap level for a +1 entry
	fuzzDark  = 11 // colormap level for a -1 entry
)

// fuzzOffsets is the classic cycle of up and down offsets.
var fuzzOffsets = [FuzzTable]int8{
	1, -1, 1, -1, 1, 1, -1,
	1, 1, -1, 1, 1, 1, -1,
	1, 1, 1, -1, -1, -1, -1,
	1, -1, -1, 1, 1, 1, 1, -1,
	1, -1, 1, 1, -1, -1, 1,
	1, -1, -1, -1, -1, 1, 1,
	1, 1, -1, 1, 1, -1, 1,
}

// FuzzMode selects the fuzz variant.
type FuzzMode int

const (
	// FuzzSafe darkens the target pixel itself by a table driven amount.
	FuzzSafe FuzzMode = iota
	// FuzzScaled steps the table at a resolution independent rate with a
	// random start per screen column.
	FuzzScaled
	// FuzzOriginal copies the pixel one row above or below, clamped to the
	// canvas, darkened.
	FuzzOriginal
)

func (m FuzzMode) String() string {
	switch m {
	case FuzzScaled:
		return "scaled"
	case FuzzOriginal:
		return "original"
	}
	return "safe"
}

// FuzzState is the animation phase of the fuzz effect. The renderer owns
// it and threads it through fuzz calls; those calls must not run
// concurrently.
type FuzzState struct {
	// Pos is the current index into the offset table.
	Pos int
	// Frame shifts the scaled fuzz pattern once per frame.
	Frame int

	randomX [FuzzRandomX]int
}

// NewFuzzState returns a state with a deterministic per-column table.
func NewFuzzState(seed uint64) *FuzzState {
	s := &FuzzState{}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range s.randomX {
		s.randomX[i] = rng.IntN(FuzzTable)
	}
	return s
}

// Advance moves the phase n pixels along the table.
func (s *FuzzState) Advance(n int) {
	s.Pos = ((s.Pos+n)%FuzzTable + FuzzTable) % FuzzTable
}

// NextFrame moves to the next animation frame.
func (s *FuzzState) NextFrame() {
	s.Frame = (s.Frame + 1) % FuzzTable
	s.Advance(1)
}

func viewHeight[P Pixel](a *FuzzArgs[P]) int {
	if a.ViewHeight <= 0 || a.ViewHeight > a.Dest.Height {
		return a.Dest.Height
	}
	return a.ViewHeight
}

// fuzzRange clamps the column to rows [1, viewheight).
func fuzzRange[P Pixel](a *FuzzArgs[P]) (yl, yh int) {
	yl = max(a.Y, 1)
	yh = min(a.Y+a.Count-1, viewHeight(a)-1)
	return yl, yh
}

func fuzzShade(offset int8) Shade {
	if offset > 0 {
		return Shade{Light: fuzzLight << fixed.FracBits}
	}
	return Shade{Light: fuzzDark << fixed.FracBits}
}

// DrawFuzzColumn darkens the pixels of the column in place.
func (d *Drawers[P]) DrawFuzzColumn(a *FuzzArgs[P], s *FuzzState) {
	yl, yh := fuzzRange(a)
	if yh < yl || a.X < 0 || a.X >= a.Dest.Width {
		return
	}
	dst := a.Dest.Pix
	off := a.Dest.Offset(a.X, yl)
	pos := s.Pos
	for range yh - yl + 1 {
		sh := fuzzShade(fuzzOffsets[pos])
		sh.Colormap = a.Colormap
		dst[off] = d.f.Shade(dst[off], sh)
		off += a.Dest.Pitch
		pos++
		if pos == FuzzTable {
			pos = 0
		}
	}
	s.Pos = pos
}

// DrawScaledFuzzColumn steps the table so the pattern keeps its size at
// any resolution. It does not advance the state; the pattern is a function
// of the column, row and frame.
func (d *Drawers[P]) DrawScaledFuzzColumn(a *FuzzArgs[P], s *FuzzState) {
	yl, yh := fuzzRange(a)
	if yh < yl || a.X < 0 || a.X >= a.Dest.Width {
		return
	}
	step := (200 << fixed.FracBits) / viewHeight(a)
	const cycle = FuzzTable << fixed.FracBits
	start := (s.randomX[a.X%FuzzRandomX] + s.Frame) % FuzzTable
	fuzz := (start<<fixed.FracBits + yl*step) % cycle

	dst := a.Dest.Pix
	off := a.Dest.Offset(a.X, yl)
	for range yh - yl + 1 {
		sh := fuzzShade(fuzzOffsets[fuzz>>fixed.FracBits])
		sh.Colormap = a.Colormap
		dst[off] = d.f.Shade(dst[off], sh)
		off += a.Dest.Pitch
		fuzz = (fuzz + step) % cycle
	}
}

// DrawOriginalFuzzColumn copies the neighbouring row selected by the table
// and darkens it. Reads are clamped to the canvas, so rows 0 and the last
// row are never read past.
func (d *Drawers[P]) DrawOriginalFuzzColumn(a *FuzzArgs[P], s *FuzzState) {
	yl, yh := fuzzRange(a)
	if yh < yl || a.X < 0 || a.X >= a.Dest.Width {
		return
	}
	c := a.Dest
	sh := Shade{Colormap: a.Colormap, Light: fuzzLight << fixed.FracBits}
	pos := s.Pos
	for y := yl; y <= yh; y++ {
		src := min(max(y+int(fuzzOffsets[pos]), 0), c.Height-1)
		c.Pix[c.Offset(a.X, y)] = d.f.Shade(c.Pix[c.Offset(a.X, src)], sh)
		pos++
		if pos == FuzzTable {
			pos = 0
		}
	}
	s.Pos = pos
}

// DrawFuzz dispatches to the variant selected by mode.
func (d *Drawers[P]) DrawFuzz(mode FuzzMode, a *FuzzArgs[P], s *FuzzState) {
	switch mode {
	case FuzzScaled:
		d.DrawScaledFuzzColumn(a, s)
	case FuzzOriginal:
		d.DrawOriginalFuzzColumn(a, s)
	default:
		d.DrawFuzzColumn(a, s)
	}
}
