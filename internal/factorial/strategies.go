package factorial

import (
	"context"
	"math"
	"sync/atomic"

	"github.com/exascience/pargo/parallel"

	"github.com/agbru/factcalc/internal/bigint"
	"github.com/agbru/factcalc/internal/progress"
)

// recursionCheckGrain is the smallest subrange at which the sequential
// recursion polls its context.
const recursionCheckGrain = 64

// SequentialProduct multiplies the factors of r one at a time into a running
// product that starts at 1. An empty range yields 1.
func SequentialProduct(ctx context.Context, r Range, opts Options) (bigint.Value, error) {
	return iterativeProduct(ctx, r, opts.multiplier(), nil)
}

func iterativeProduct(ctx context.Context, r Range, mul bigint.Multiplier, tr *progress.Tracker) (bigint.Value, error) {
	acc := bigint.One()
	if r.Empty() {
		return acc, nil
	}
	var k uint64
	for i := r.A; ; i++ {
		acc = mul.Mul(acc, bigint.FromNative(i))
		k++
		if k%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return bigint.Value{}, err
			}
			tr.Add(cancelCheckInterval)
		}
		if i == r.B {
			break
		}
	}
	tr.Add(k % cancelCheckInterval)
	return acc, nil
}

// RecursiveProduct evaluates r by sequential divide-and-conquer: the range
// is split at its midpoint and the product of the two halves is returned.
// An empty range yields 1.
func RecursiveProduct(ctx context.Context, r Range, opts Options) (bigint.Value, error) {
	if r.Empty() {
		return bigint.One(), nil
	}
	return recursiveProduct(ctx, r, opts.multiplier(), nil)
}

// recursiveProduct evaluates a non-empty range.
func recursiveProduct(ctx context.Context, r Range, mul bigint.Multiplier, tr *progress.Tracker) (bigint.Value, error) {
	if r.A == r.B {
		tr.Add(1)
		return bigint.FromNative(r.A), nil
	}
	if r.Len() >= recursionCheckGrain {
		if err := ctx.Err(); err != nil {
			return bigint.Value{}, err
		}
	}
	left, right := r.Split()
	lv, err := recursiveProduct(ctx, left, mul, tr)
	if err != nil {
		return bigint.Value{}, err
	}
	rv, err := recursiveProduct(ctx, right, mul, tr)
	if err != nil {
		return bigint.Value{}, err
	}
	return mul.Mul(lv, rv), nil
}

// ReduceValues combines values with multiplication using a flat parallel
// reduction. The input is cut into batches that are reduced concurrently
// and the batch results are multiplied pairwise. Multiplication being
// associative, the result does not depend on the batching.
//
// No identity is supplied, so an empty input fails with ErrEmptyReduction.
func ReduceValues(ctx context.Context, values []bigint.Value, opts Options) (bigint.Value, error) {
	return reduceValues(ctx, values, opts.Batches, opts.multiplier(), nil)
}

func reduceValues(ctx context.Context, values []bigint.Value, batches int, mul bigint.Multiplier, tr *progress.Tracker) (bigint.Value, error) {
	if len(values) == 0 {
		return bigint.Value{}, ErrEmptyReduction
	}
	if err := ctx.Err(); err != nil {
		return bigint.Value{}, err
	}

	// A failed batch yields nil. The first failure is kept and every later
	// join short-circuits on it.
	var firstErr atomic.Pointer[error]
	fail := func(err error) {
		firstErr.CompareAndSwap(nil, &err)
	}
	result := parallel.RangeReduce(
		0, len(values), batches,
		func(low, high int) interface{} {
			if firstErr.Load() != nil {
				return nil
			}
			if err := ctx.Err(); err != nil {
				fail(err)
				return nil
			}
			v, err := productOf(ctx, values[low:high], mul)
			if err != nil {
				fail(err)
				return nil
			}
			tr.Add(uint64(high - low))
			return v
		},
		func(x, y interface{}) interface{} {
			if x == nil || y == nil || firstErr.Load() != nil {
				return nil
			}
			if err := ctx.Err(); err != nil {
				fail(err)
				return nil
			}
			return mul.Mul(x.(bigint.Value), y.(bigint.Value))
		},
	)
	if p := firstErr.Load(); p != nil {
		return bigint.Value{}, *p
	}
	if err := ctx.Err(); err != nil {
		return bigint.Value{}, err
	}
	v, ok := result.(bigint.Value)
	if !ok {
		return bigint.Value{}, ErrEmptyReduction
	}
	return v, nil
}

// productOf multiplies a batch by halving it, so operands stay balanced
// inside a batch as well.
func productOf(ctx context.Context, values []bigint.Value, mul bigint.Multiplier) (bigint.Value, error) {
	switch len(values) {
	case 0:
		return bigint.One(), nil
	case 1:
		return values[0], nil
	}
	if len(values) >= recursionCheckGrain {
		if err := ctx.Err(); err != nil {
			return bigint.Value{}, err
		}
	}
	half := len(values) / 2
	lv, err := productOf(ctx, values[:half], mul)
	if err != nil {
		return bigint.Value{}, err
	}
	rv, err := productOf(ctx, values[half:], mul)
	if err != nil {
		return bigint.Value{}, err
	}
	return mul.Mul(lv, rv), nil
}

// ParallelReduceRange maps every factor of r to a value concurrently and
// combines them with ReduceValues. An empty range is an empty sequence and
// fails with ErrEmptyReduction.
func ParallelReduceRange(ctx context.Context, r Range, opts Options) (bigint.Value, error) {
	return parallelReduceRange(ctx, r, opts, nil)
}

func parallelReduceRange(ctx context.Context, r Range, opts Options, tr *progress.Tracker) (bigint.Value, error) {
	if r.Empty() {
		return bigint.Value{}, ErrEmptyReduction
	}
	n := r.Len()
	if n == 0 || n > math.MaxInt32 {
		return bigint.Value{}, ErrRangeTooLarge
	}

	values := make([]bigint.Value, int(n))
	parallel.Range(0, int(n), opts.Batches, func(low, high int) {
		if ctx.Err() != nil {
			return
		}
		arena := bigint.NewArena(high - low)
		for i := low; i < high; i++ {
			values[i] = arena.FromNative(r.A + uint64(i))
		}
	})
	if err := ctx.Err(); err != nil {
		return bigint.Value{}, err
	}
	return reduceValues(ctx, values, opts.Batches, opts.multiplier(), tr)
}
