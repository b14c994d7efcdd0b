package bigint

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"
)

// DefaultFFTThreshold is the operand size in bits above which multiplication
// switches from math/big (Karatsuba) to FFT-based multiplication. Both
// operands must exceed it: FFT does not pay off when one side is small.
const DefaultFFTThreshold = 500_000

// Multiplier chooses a multiplication algorithm from the operand sizes.
// The zero Multiplier always uses the native backend.
type Multiplier struct {
	// FFTThreshold is the bit length both operands must exceed before FFT
	// multiplication is used. Zero disables FFT.
	FFTThreshold int
}

// DefaultMultiplier is the Multiplier used by Mul.
var DefaultMultiplier = Multiplier{FFTThreshold: DefaultFFTThreshold}

// Mul returns x*y. Neither operand is modified.
func (m Multiplier) Mul(x, y Value) Value {
	bx, by := x.big(), y.big()

	// Tier 1: FFT for very large operands of comparable size
	if m.FFTThreshold > 0 && bx.BitLen() > m.FFTThreshold && by.BitLen() > m.FFTThreshold {
		return wrap(bigfft.Mul(bx, by))
	}

	// Tier 2: native backend (math/big, or GMP with -tags gmp)
	return wrap(nativeMul(bx, by))
}

// UsesFFT reports whether Mul would take the FFT path for operands of the
// given bit lengths.
func (m Multiplier) UsesFFT(xBits, yBits int) bool {
	return m.FFTThreshold > 0 && xBits > m.FFTThreshold && yBits > m.FFTThreshold
}

// Mul returns x*y using DefaultMultiplier.
func Mul(x, y Value) Value {
	return DefaultMultiplier.Mul(x, y)
}

// mulStd is the math/big multiplication every backend falls back to.
func mulStd(x, y *big.Int) *big.Int {
	return new(big.Int).Mul(x, y)
}
