package factorial

import (
	"fmt"
	"runtime"

	"github.com/agbru/factcalc/internal/bigint"
)

// Options configures the strategies. The zero value is valid and selects the
// defaults documented on each field.
type Options struct {
	// Workers bounds the number of goroutines evaluating subranges at once,
	// the calling goroutine included. Zero means runtime.GOMAXPROCS(0).
	Workers int

	// ParallelCutoff is the range length below which the fork-join engine
	// stops forking. Zero means DefaultParallelCutoff; 1 forks down to the
	// single-factor leaves.
	ParallelCutoff uint64

	// FFTThreshold is the operand size in bits above which FFT
	// multiplication is used. Zero means DefaultFFTThreshold; a negative
	// value disables FFT.
	FFTThreshold int

	// Batches is the number of batches the flat reduction splits its input
	// into. Zero lets the reduction pick a default from GOMAXPROCS.
	Batches int

	// AdaptiveFFT lets the fork-join engine move the FFT threshold during a
	// run from the timings of its own merges. Ignored when FFT is disabled.
	AdaptiveFFT bool
}

// Validate reports options that cannot be normalized.
func (o Options) Validate() error {
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidOptions, o.Workers)
	}
	if o.Batches < 0 {
		return fmt.Errorf("%w: batches must be >= 0, got %d", ErrInvalidOptions, o.Batches)
	}
	return nil
}

// normalize fills zero fields with their defaults.
func (o Options) normalize() Options {
	if o.Workers == 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.ParallelCutoff == 0 {
		o.ParallelCutoff = DefaultParallelCutoff
	}
	if o.FFTThreshold == 0 {
		o.FFTThreshold = DefaultFFTThreshold
	}
	return o
}

// multiplier returns the bigint.Multiplier selected by o.
func (o Options) multiplier() bigint.Multiplier {
	o = o.normalize()
	if o.FFTThreshold < 0 {
		return bigint.Multiplier{}
	}
	return bigint.Multiplier{FFTThreshold: o.FFTThreshold}
}
