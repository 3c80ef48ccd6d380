package nn

import "github.com/born-ml/convnet/internal/parallel"

// Stabilization selects the reference value Softmax subtracts before
// exponentiating.
type Stabilization int

const (
	// StabilizeMax subtracts the true maximum of the vector.
	StabilizeMax Stabilization = iota
	// StabilizeFirstPair subtracts max(x[0], x[1]) only. The normalized
	// result is mathematically identical, but exp may overflow when a later
	// element exceeds both.
	StabilizeFirstPair
)

// String returns the config-file spelling of the mode.
func (s Stabilization) String() string {
	switch s {
	case StabilizeMax:
		return "max"
	case StabilizeFirstPair:
		return "first-pair"
	default:
		return "unknown"
	}
}

type options struct {
	par           parallel.Config
	stabilization Stabilization
}

// Option configures optional layer behavior. Options that do not apply to
// a layer are ignored by it.
type Option func(*options)

// WithParallel sets the worker fan-out used by the Conv2D and MaxPool2D
// kernels. The default is sequential execution.
func WithParallel(cfg parallel.Config) Option {
	return func(o *options) {
		o.par = cfg
	}
}

// WithWorkers is shorthand for WithParallel(parallel.Workers(n)).
func WithWorkers(n int) Option {
	return WithParallel(parallel.Workers(n))
}

// WithStabilization selects the Softmax reference value.
func WithStabilization(s Stabilization) Option {
	return func(o *options) {
		o.stabilization = s
	}
}

func buildOptions(opts []Option) options {
	o := options{
		par:           parallel.Sequential(),
		stabilization: StabilizeMax,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
