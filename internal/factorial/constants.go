package factorial

import "github.com/agbru/factcalc/internal/bigint"

// ─────────────────────────────────────────────────────────────────────────────
// Performance Tuning Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultParallelCutoff is the range length (number of factors) below
	// which the fork-join engine stops forking and finishes the subrange with
	// the sequential recursion. Below it the product is a few thousand bits
	// and goroutine hand-off costs more than the multiplications.
	DefaultParallelCutoff = 2048

	// DefaultFFTThreshold mirrors bigint.DefaultFFTThreshold so callers
	// configuring Options need only this package.
	DefaultFFTThreshold = bigint.DefaultFFTThreshold

	// cancelCheckInterval is how many factors the iterative fold multiplies
	// between two context checks.
	cancelCheckInterval = 1024

	// DefaultN is the reference benchmark input.
	DefaultN = 999_999
)
