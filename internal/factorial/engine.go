package factorial

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/agbru/factcalc/internal/bigint"
	"github.com/agbru/factcalc/internal/factorial/threshold"
	"github.com/agbru/factcalc/internal/progress"
)

// Engine evaluates range products by parallel divide-and-conquer.
//
// A range is split at its midpoint and the two halves are evaluated as
// independent tasks, then multiplied once both are done. Forks draw from a
// weighted semaphore holding Workers-1 permits (the caller is the remaining
// worker), so concurrency stays bounded whatever the recursion depth. When
// no permit is free the frame evaluates both halves itself instead of
// waiting, which means a joining frame always keeps doing useful work.
//
// An Engine is safe for concurrent use; concurrent RangeProduct calls share
// the same worker budget.
type Engine struct {
	opts   Options
	mul    bigint.Multiplier
	sem    *semaphore.Weighted
	logger zerolog.Logger

	// thresholds is nil unless Options.AdaptiveFFT is set and FFT is on.
	thresholds *threshold.Manager

	forked  atomic.Int64
	inlined atomic.Int64
}

// EngineStats reports how often the engine forked a subtask versus ran it
// inline because every worker was busy, and the FFT threshold merges are
// currently using.
type EngineStats struct {
	Forked       int64
	Inlined      int64
	FFTThreshold int
	Adjustments  int
}

// NewEngine returns an Engine configured by opts.
func NewEngine(opts Options) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.normalize()
	e := &Engine{
		opts:   opts,
		mul:    opts.multiplier(),
		sem:    semaphore.NewWeighted(int64(opts.Workers - 1)),
		logger: zerolog.Nop(),
	}
	if opts.AdaptiveFFT {
		e.thresholds = threshold.NewManager(e.mul.FFTThreshold)
	}
	return e, nil
}

// SetLogger configures the logger for engine events.
func (e *Engine) SetLogger(l zerolog.Logger) {
	e.logger = l
	if e.thresholds != nil {
		e.thresholds.SetLogger(l)
	}
}

// Workers returns the effective worker count.
func (e *Engine) Workers() int {
	return e.opts.Workers
}

// Stats returns the cumulative fork statistics of e.
func (e *Engine) Stats() EngineStats {
	stats := EngineStats{
		Forked:       e.forked.Load(),
		Inlined:      e.inlined.Load(),
		FFTThreshold: e.mul.FFTThreshold,
	}
	if e.thresholds != nil {
		ts := e.thresholds.Stats()
		stats.FFTThreshold = ts.CurrentFFT
		stats.Adjustments = ts.Adjustments
	}
	return stats
}

// RangeProduct returns a × (a+1) × … × b. A range with a > b is empty and
// yields 1. The only errors are ctx's: once ctx is done every outstanding
// subtask stops and no partial product is returned.
func (e *Engine) RangeProduct(ctx context.Context, a, b uint64) (bigint.Value, error) {
	return e.RangeProductWithProgress(ctx, a, b, nil)
}

// RangeProductWithProgress is RangeProduct reporting the fraction of
// factors folded into finished subproducts to reporter.
func (e *Engine) RangeProductWithProgress(ctx context.Context, a, b uint64, reporter progress.Callback) (bigint.Value, error) {
	r := Range{A: a, B: b}
	if r.Empty() {
		return bigint.One(), nil
	}
	start := time.Now()
	tr := progress.NewTracker(r.Len(), reporter)

	v, err := e.product(ctx, r, tr)
	if err != nil {
		e.logger.Debug().Err(err).Stringer("range", r).Msg("range product aborted")
		return bigint.Value{}, err
	}
	stats := e.Stats()
	e.logger.Debug().
		Stringer("range", r).
		Int("workers", e.opts.Workers).
		Int64("forked", stats.Forked).
		Int64("inlined", stats.Inlined).
		Int("fft_threshold", stats.FFTThreshold).
		Int("bits", v.BitLen()).
		Dur("elapsed", time.Since(start)).
		Msg("range product done")
	return v, nil
}

// product evaluates a non-empty range.
func (e *Engine) product(ctx context.Context, r Range, tr *progress.Tracker) (bigint.Value, error) {
	if err := ctx.Err(); err != nil {
		return bigint.Value{}, err
	}
	if r.A == r.B {
		tr.Add(1)
		return bigint.FromNative(r.A), nil
	}
	if r.Len() < e.opts.ParallelCutoff {
		v, err := recursiveProduct(ctx, r, e.mul, nil)
		if err != nil {
			return bigint.Value{}, err
		}
		tr.Add(r.Len())
		return v, nil
	}

	left, right := r.Split()
	if !e.sem.TryAcquire(1) {
		e.inlined.Add(1)
		lv, err := e.product(ctx, left, tr)
		if err != nil {
			return bigint.Value{}, err
		}
		rv, err := e.product(ctx, right, tr)
		if err != nil {
			return bigint.Value{}, err
		}
		return e.merge(lv, rv), nil
	}
	e.forked.Add(1)
	return e.fork(ctx, left, right, tr)
}

// fork evaluates right on a new goroutine holding an already acquired permit
// and left on the current one, then joins. A failure on either side cancels
// the other, and its result is dropped rather than merged.
func (e *Engine) fork(ctx context.Context, left, right Range, tr *progress.Tracker) (bigint.Value, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		rv   bigint.Value
		rerr error
		p    any
	)
	done := make(chan struct{})
	go func() {
		defer func() {
			p = recover()
			e.sem.Release(1)
			close(done)
		}()
		rv, rerr = e.product(ctx, right, tr)
		if rerr != nil {
			cancel()
		}
	}()

	lv, lerr := e.product(ctx, left, tr)
	if lerr != nil {
		cancel()
	}
	<-done

	if p != nil {
		panic(p)
	}
	if lerr != nil {
		return bigint.Value{}, lerr
	}
	if rerr != nil {
		return bigint.Value{}, rerr
	}
	return e.merge(lv, rv), nil
}

// merge multiplies two finished subproducts. With adaptive FFT on, merges
// near the threshold are timed and fed back to the threshold manager.
func (e *Engine) merge(lv, rv bigint.Value) bigint.Value {
	if e.thresholds == nil {
		return e.mul.Mul(lv, rv)
	}
	mul := bigint.Multiplier{FFTThreshold: e.thresholds.FFTThreshold()}
	lb, rb := lv.BitLen(), rv.BitLen()
	if !e.thresholds.Tracks(lb, rb) {
		return mul.Mul(lv, rv)
	}
	start := time.Now()
	v := mul.Mul(lv, rv)
	e.thresholds.Record(threshold.MergeMetric{
		Bits:     v.BitLen(),
		Duration: time.Since(start),
		UsedFFT:  mul.UsesFFT(lb, rb),
	})
	return v
}
