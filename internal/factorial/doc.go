// Package factorial computes products of contiguous integer ranges, and so
// N!, with four interchangeable strategies:
//
//   - iterative: a left-to-right fold of 1..N into a running product;
//   - reduce: every factor mapped to a value concurrently, then combined by a
//     flat parallel multiply-reduction;
//   - recursive: divide-and-conquer, splitting [a, b] at mid = (a+b)/2 and
//     multiplying the two halves;
//   - forkjoin: the same recursion with both halves evaluated concurrently on
//     a bounded set of workers.
//
// The divide-and-conquer strategies keep the two operands of every
// multiplication at comparable sizes, which is what lets the FFT tier of
// bigint.Multiplier pay off on large inputs.
//
// Strategies are exposed as Calculator values obtained from a
// CalculatorFactory; Engine exposes the fork-join range product directly.
package factorial
