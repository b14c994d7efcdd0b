// Package bigint provides Value, an immutable arbitrary-precision non-negative
// integer used by the factorial strategies.
//
// math/big mutates its receivers in place. Value wraps a *big.Int and never
// exposes it for writing: every operation allocates and returns a new Value,
// so two goroutines may hold the same Value without synchronization.
package bigint
