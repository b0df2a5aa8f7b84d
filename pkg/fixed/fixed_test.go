package fixed

import (
	"math/rand/v2"
	"testing"
)

func TestIndexRangePow2(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for k := uint(0); k <= 10; k++ {
		size := 1 << k
		bits := 32 - k
		for range 200 {
			frac := rng.Uint32()
			step := rng.Uint32()
			for range 100 {
				i := Index(frac, bits)
				if i < 0 || i >= size {
					t.Fatalf("Index(%#x, %d) = %d, out of [0, %d)", frac, bits, i, size)
				}
				frac += step
			}
		}
	}
}

func TestScaledRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for range 2000 {
		size := 1 + rng.IntN(1024)
		frac := rng.Uint32()
		step := rng.Uint32()
		for range 64 {
			i := Scaled(frac, size)
			if i < 0 || i >= size {
				t.Fatalf("Scaled(%#x, %d) = %d", frac, size, i)
			}
			frac += step
		}
	}
}

func TestScaledMatchesShiftForPow2(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	for k := uint(1); k <= 8; k++ {
		for range 500 {
			frac := rng.Uint32()
			if got, want := Scaled(frac, 1<<k), Index(frac, 32-k); got != want {
				t.Fatalf("size %d frac %#x: Scaled=%d Index=%d", 1<<k, frac, got, want)
			}
		}
	}
}

func TestSpanIndexFastPaths(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for range 5000 {
		x, y := rng.Uint32(), rng.Uint32()
		general := SpanIndex(x, y, 64, 64)
		if got := SpanIndex64(x, y); got != general {
			t.Fatalf("SpanIndex64(%#x, %#x) = %d, want %d", x, y, got, general)
		}
		if got := SpanIndexPow2(x, y, 6, 6); got != general {
			t.Fatalf("SpanIndexPow2(%#x, %#x) = %d, want %d", x, y, got, general)
		}
	}
}

func TestSpanIndexRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 10))
	for range 2000 {
		w, h := 1+rng.IntN(300), 1+rng.IntN(300)
		x, y := rng.Uint32(), rng.Uint32()
		xs, ys := rng.Uint32(), rng.Uint32()
		for range 32 {
			if i := SpanIndex(x, y, w, h); i < 0 || i >= w*h {
				t.Fatalf("SpanIndex out of range: %d for %dx%d", i, w, h)
			}
			x += xs
			y += ys
		}
	}
}

func TestLog2(t *testing.T) {
	tests := []struct {
		size int
		k    uint
		ok   bool
	}{
		{1, 0, true},
		{2, 1, true},
		{64, 6, true},
		{96, 0, false},
		{0, 0, false},
		{-4, 0, false},
	}
	for _, tt := range tests {
		k, ok := Log2(tt.size)
		if k != tt.k || ok != tt.ok {
			t.Errorf("Log2(%d) = %d, %v; want %d, %v", tt.size, k, ok, tt.k, tt.ok)
		}
	}
}

func TestFromFloat(t *testing.T) {
	for _, f := range []float64{0, 1, -1, 0.5, 12.25, -3.75} {
		if got := FromFloat(f); float64(got) != f*Unit {
			t.Errorf("FromFloat(%v) = %#x", f, got)
		}
	}
}
