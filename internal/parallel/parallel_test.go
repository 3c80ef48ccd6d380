package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := Workers(4)

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_EachIndexOnce(t *testing.T) {
	cfg := Workers(8)
	n := 257
	hits := make([]int32, n)

	For(n, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	}, cfg)

	for i, h := range hits {
		if h != 1 {
			t.Errorf("index %d visited %d times", i, h)
		}
	}
}

func TestForGrid(t *testing.T) {
	cfg := Workers(4)

	rows, cols := 4, 8
	results := make([][]bool, rows)
	for r := range results {
		results[r] = make([]bool, cols)
	}

	ForGrid(rows, cols, func(r, c int) {
		results[r][c] = true
	}, cfg)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if !results[r][c] {
				t.Errorf("Missing result at [%d][%d]", r, c)
			}
		}
	}
}

func TestForGrid_EmptyColumns(t *testing.T) {
	called := false
	ForGrid(3, 0, func(_, _ int) { called = true }, Workers(2))
	if called {
		t.Error("ForGrid with zero columns must not call f")
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Sequential()

	order := make([]int, 0, 100)
	For(100, func(i int) {
		order = append(order, i)
	}, cfg)

	for i, v := range order {
		if v != i {
			t.Fatalf("sequential order broken at %d: got %d", i, v)
		}
	}
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestWorkers_DisablesBelowTwo(t *testing.T) {
	if Workers(1).Enabled || Workers(0).Enabled {
		t.Error("Workers(n<=1) must disable parallelism")
	}
	if Workers(0).NumWorkers != 1 {
		t.Errorf("Workers(0).NumWorkers = %d, want 1", Workers(0).NumWorkers)
	}
}

func BenchmarkForGrid(b *testing.B) {
	cfg := DefaultConfig()
	rows, cols := 16, 64

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			ForGrid(rows, cols, func(r, c int) {
				atomic.AddInt64(&sum, int64(r*cols+c))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			ForGrid(rows, cols, func(r, c int) {
				atomic.AddInt64(&sum, int64(r*cols+c))
			}, Sequential())
		}
	})
}
