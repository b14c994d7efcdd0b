package bigint

import "math"

// EstimateFactorialDigits estimates the number of decimal digits of n! from
// Stirling's approximation, evaluated through math.Lgamma. The estimate is
// exact or off by one for every n the float64 log-gamma resolves.
func EstimateFactorialDigits(n uint64) uint64 {
	if n < 2 {
		return 1
	}
	lg, _ := math.Lgamma(float64(n) + 1)
	return uint64(math.Floor(lg/math.Ln10)) + 1
}

// EstimateFactorialBits estimates the bit length of n!.
func EstimateFactorialBits(n uint64) uint64 {
	if n < 2 {
		return 1
	}
	lg, _ := math.Lgamma(float64(n) + 1)
	return uint64(math.Floor(lg/math.Ln2)) + 1
}
