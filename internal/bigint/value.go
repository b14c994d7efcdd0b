package bigint

import (
	"math/big"
)

// Value is an immutable arbitrary-precision integer. The zero Value is 0.
type Value struct {
	i *big.Int
}

var (
	zero = new(big.Int)
	one  = big.NewInt(1)
)

// FromNative returns the Value equal to n.
func FromNative(n uint64) Value {
	return Value{i: new(big.Int).SetUint64(n)}
}

// One returns the multiplicative identity.
func One() Value {
	return Value{i: one}
}

// FromBig returns a Value holding a copy of x. A nil x yields 0.
func FromBig(x *big.Int) Value {
	if x == nil {
		return Value{}
	}
	return Value{i: new(big.Int).Set(x)}
}

// wrap takes ownership of x. The caller must not touch x afterwards.
func wrap(x *big.Int) Value {
	return Value{i: x}
}

// big returns the backing integer for read-only use.
func (v Value) big() *big.Int {
	if v.i == nil {
		return zero
	}
	return v.i
}

// Big returns a copy of v as a *big.Int that the caller may mutate freely.
func (v Value) Big() *big.Int {
	return new(big.Int).Set(v.big())
}

// BitLen returns the length of the absolute value of v in bits.
func (v Value) BitLen() int {
	return v.big().BitLen()
}

// Sign returns -1, 0 or +1 depending on the sign of v.
func (v Value) Sign() int {
	return v.big().Sign()
}

// Cmp compares v and w and returns -1, 0 or +1.
func (v Value) Cmp(w Value) int {
	return v.big().Cmp(w.big())
}

// Equal reports whether v and w hold the same integer.
func (v Value) Equal(w Value) bool {
	return v.Cmp(w) == 0
}

// IsUint64 reports whether v can be represented as a uint64.
func (v Value) IsUint64() bool {
	return v.big().IsUint64()
}

// Uint64 returns the uint64 representation of v. The result is undefined
// if v does not fit; check IsUint64 first.
func (v Value) Uint64() uint64 {
	return v.big().Uint64()
}

// String returns the decimal representation of v.
func (v Value) String() string {
	return v.big().String()
}

// Text returns the representation of v in the given base.
func (v Value) Text(base int) string {
	return v.big().Text(base)
}

// Digits returns the number of decimal digits of v. It formats the whole
// number, which takes noticeable time for results with millions of digits.
func (v Value) Digits() int {
	if v.Sign() == 0 {
		return 1
	}
	return len(v.big().Text(10))
}
