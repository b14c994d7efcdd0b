//go:build gmp

// GMP multiplication backend, compiled only with -tags gmp. It needs libgmp
// (libgmp-dev on Debian/Ubuntu, `brew install gmp` on macOS).

package bigint

import (
	"math/big"

	"github.com/ncw/gmp"
)

// BackendName identifies the native multiplication backend.
const BackendName = "gmp"

// gmpMinBits is the operand size below which the byte conversions to and
// from GMP cost more than they save.
const gmpMinBits = 64 * 1024

func nativeMul(x, y *big.Int) *big.Int {
	if x.BitLen() < gmpMinBits || y.BitLen() < gmpMinBits {
		return mulStd(x, y)
	}
	gx := new(gmp.Int).SetBytes(x.Bytes())
	gy := new(gmp.Int).SetBytes(y.Bytes())
	gz := new(gmp.Int).Mul(gx, gy)
	return new(big.Int).SetBytes(gz.Bytes())
}
