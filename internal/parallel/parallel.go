// Package parallel fans independent kernel iterations out across goroutines.
//
// Layer kernels write every output element exactly once, so splitting the
// outer loops needs no synchronization beyond waiting for completion.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	return Workers(runtime.NumCPU())
}

// Workers returns a config using n goroutines. n <= 1 disables parallelism.
func Workers(n int) Config {
	return Config{
		Enabled:      n > 1,
		NumWorkers:   max(n, 1),
		MinChunkSize: 4, // Items are whole output rows, not single elements.
	}
}

// Sequential returns a config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{NumWorkers: 1}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*max(cfg.MinChunkSize, 1) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForGrid executes f(r, c) over a rows x cols grid.
// Convolution and pooling use it as (output channel, output row).
func ForGrid(rows, cols int, f func(r, c int), cfg Config) {
	if cols <= 0 {
		return
	}
	For(rows*cols, func(k int) {
		f(k/cols, k%cols)
	}, cfg)
}
