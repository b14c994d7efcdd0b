package factorial

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/factcalc/internal/bigint"
	"github.com/agbru/factcalc/internal/progress"
)

//go:generate mockgen -source=calculator.go -destination=mocks/mock_calculator.go -package=mocks

// Calculator computes n! with one strategy. It is the interface consumed by
// the orchestration layer.
type Calculator interface {
	// Calculate computes n! and sends progress updates tagged with calcIndex
	// on progressChan, which may be nil. The returned integer belongs to the
	// caller.
	Calculate(ctx context.Context, progressChan chan<- progress.Update, calcIndex int, n uint64, opts Options) (*big.Int, error)

	// Name returns a human-readable name for display.
	Name() string
}

// coreCalculator is implemented by each strategy. It computes the product
// of 1..n and reports progress through a plain callback.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter progress.Callback, n uint64, opts Options) (bigint.Value, error)
	Name() string
}

// FactCalculator adapts a strategy to the Calculator interface: it validates
// options, bridges progress to a channel, and converts the result.
type FactCalculator struct {
	core   coreCalculator
	logger zerolog.Logger
}

// NewCalculator wraps core in a FactCalculator.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("factorial: nil strategy")
	}
	return &FactCalculator{core: core, logger: zerolog.Nop()}
}

// Name returns the strategy name.
func (c *FactCalculator) Name() string {
	return c.core.Name()
}

// SetLogger configures the logger used for calculation events.
func (c *FactCalculator) SetLogger(l zerolog.Logger) {
	c.logger = l
}

// Calculate implements Calculator.
func (c *FactCalculator) Calculate(ctx context.Context, progressChan chan<- progress.Update, calcIndex int, n uint64, opts Options) (*big.Int, error) {
	v, err := c.CalculateWithCallback(ctx, progress.ChannelCallback(progressChan, calcIndex), n, opts)
	if err != nil {
		return nil, err
	}
	return v.Big(), nil
}

// CalculateWithCallback computes n! reporting progress to reporter, which
// may be nil. A final 1.0 is reported on success.
func (c *FactCalculator) CalculateWithCallback(ctx context.Context, reporter progress.Callback, n uint64, opts Options) (bigint.Value, error) {
	if err := opts.Validate(); err != nil {
		return bigint.Value{}, err
	}
	if reporter == nil {
		reporter = func(float64) {}
	}

	start := time.Now()
	v, err := c.core.CalculateCore(ctx, reporter, n, opts)
	if err != nil {
		c.logger.Debug().Str("algo", c.Name()).Uint64("n", n).Err(err).Msg("calculation failed")
		return bigint.Value{}, fmt.Errorf("%s: %w", c.Name(), err)
	}
	reporter(1.0)
	c.logger.Debug().
		Str("algo", c.Name()).
		Uint64("n", n).
		Int("bits", v.BitLen()).
		Dur("elapsed", time.Since(start)).
		Msg("calculation done")
	return v, nil
}

// IterativeCalculator folds 1..n into a running product, one factor at a
// time, on the calling goroutine.
type IterativeCalculator struct{}

// Name returns the display name.
func (IterativeCalculator) Name() string { return "Sequential Fold" }

// CalculateCore computes n!.
func (IterativeCalculator) CalculateCore(ctx context.Context, reporter progress.Callback, n uint64, opts Options) (bigint.Value, error) {
	r := Range{A: 1, B: n}
	return iterativeProduct(ctx, r, opts.multiplier(), progress.NewTracker(r.Len(), reporter))
}

// ReduceCalculator maps 1..n to values concurrently and multiplies them with
// a flat parallel reduction. Since the reduction has no identity, 0! fails
// with ErrEmptyReduction.
type ReduceCalculator struct{}

// Name returns the display name.
func (ReduceCalculator) Name() string { return "Flat Parallel Reduction" }

// CalculateCore computes n!.
func (ReduceCalculator) CalculateCore(ctx context.Context, reporter progress.Callback, n uint64, opts Options) (bigint.Value, error) {
	r := Range{A: 1, B: n}
	return parallelReduceRange(ctx, r, opts, progress.NewTracker(r.Len(), reporter))
}

// RecursiveCalculator splits 1..n at its midpoint recursively and multiplies
// the halves, on the calling goroutine.
type RecursiveCalculator struct{}

// Name returns the display name.
func (RecursiveCalculator) Name() string { return "Divide & Conquer" }

// CalculateCore computes n!.
func (RecursiveCalculator) CalculateCore(ctx context.Context, reporter progress.Callback, n uint64, opts Options) (bigint.Value, error) {
	r := Range{A: 1, B: n}
	if r.Empty() {
		return bigint.One(), nil
	}
	return recursiveProduct(ctx, r, opts.multiplier(), progress.NewTracker(r.Len(), reporter))
}

// ForkJoinCalculator is the divide-and-conquer split with both halves
// evaluated as parallel tasks on a bounded worker pool.
type ForkJoinCalculator struct {
	logger zerolog.Logger
}

// NewForkJoinCalculator returns a ForkJoinCalculator whose engines log to l.
func NewForkJoinCalculator(l zerolog.Logger) *ForkJoinCalculator {
	return &ForkJoinCalculator{logger: l}
}

// Name returns the display name.
func (*ForkJoinCalculator) Name() string { return "Parallel Divide & Conquer (fork-join)" }

// CalculateCore computes n!.
func (c *ForkJoinCalculator) CalculateCore(ctx context.Context, reporter progress.Callback, n uint64, opts Options) (bigint.Value, error) {
	e, err := NewEngine(opts)
	if err != nil {
		return bigint.Value{}, err
	}
	e.SetLogger(c.logger)
	return e.RangeProductWithProgress(ctx, 1, n, reporter)
}

// Factorial returns n! computed by the fork-join engine.
func Factorial(ctx context.Context, n uint64, opts Options) (bigint.Value, error) {
	e, err := NewEngine(opts)
	if err != nil {
		return bigint.Value{}, err
	}
	return e.RangeProduct(ctx, 1, n)
}
