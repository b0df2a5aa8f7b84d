package workq

import (
	"sync/atomic"
	"testing"
)

func TestQueueRunsEveryItem(t *testing.T) {
	var sum atomic.Int64
	var seen [4]atomic.Int32
	q := NewQ[int](4, 16, func(id int, n int) {
		sum.Add(int64(n))
		seen[id].Add(1)
	})
	defer q.Close()

	for i := 1; i <= 100; i++ {
		q.Submit(i)
	}
	q.Wait()
	if got := sum.Load(); got != 5050 {
		t.Errorf("sum = %d, want 5050", got)
	}
	var total int32
	for i := range seen {
		total += seen[i].Load()
	}
	if total != 100 {
		t.Errorf("handled %d items, want 100", total)
	}
}

func TestQueueDoubleClose(t *testing.T) {
	q := NewQ[struct{}](1, 0, func(int, struct{}) {})
	q.Close()
	q.Close()
}

func TestNewQPanics(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		fn      WorkerFunc[int]
	}{
		{"nil worker", 1, nil},
		{"no workers", 0, func(int, int) {}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			NewQ(tc.workers, 1, tc.fn)
		})
	}
}

func TestStrips(t *testing.T) {
	tests := []struct {
		width, n int
		expected []Strip
	}{
		{10, 3, []Strip{{0, 4}, {4, 7}, {7, 10}}},
		{4, 8, []Strip{{0, 1}, {1, 2}, {2, 3}, {3, 4}}},
		{5, 0, []Strip{{0, 5}}},
		{0, 4, nil},
	}
	for _, tc := range tests {
		got := Strips(tc.width, tc.n)
		if len(got) != len(tc.expected) {
			t.Errorf("Strips(%d, %d) = %v, want %v", tc.width, tc.n, got, tc.expected)
			continue
		}
		for i := range got {
			if got[i] != tc.expected[i] {
				t.Errorf("Strips(%d, %d) = %v, want %v", tc.width, tc.n, got, tc.expected)
				break
			}
		}
	}
}

func BenchmarkQueue(b *testing.B) {
	q := NewQ[int](4, 64, func(int, int) {})
	defer q.Close()
	for i := range b.N {
		q.Submit(i)
	}
	q.Wait()
}
