//go:build !gmp

package bigint

import "math/big"

// BackendName identifies the native multiplication backend.
const BackendName = "math/big"

func nativeMul(x, y *big.Int) *big.Int {
	return mulStd(x, y)
}
