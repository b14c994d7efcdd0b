package memory

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/agbru/factcalc/internal/bigint"
)

const (
	// liveResultMultiple is the peak number of result-sized buffers held
	// during the final multiplication: both operands, the product, and the
	// FFT or Karatsuba scratch space.
	liveResultMultiple = 5

	// perFactorBytes is the cost of one materialized factor in the flat
	// reduction: the Value, its big.Int header and one word of digits.
	perFactorBytes = 48
)

// MemoryEstimate is the predicted peak heap usage of computing N!.
type MemoryEstimate struct {
	N           uint64
	ResultBytes uint64
	FactorBytes uint64
	TotalBytes  uint64
}

// EstimateMemoryUsage predicts the peak heap usage of computing n! from the
// Stirling estimate of its size. The factor array of the flat reduction is
// included so the estimate bounds every strategy.
func EstimateMemoryUsage(n uint64) MemoryEstimate {
	bits := bigint.EstimateFactorialBits(n)
	result := uint64(bits/8) + 1
	factors := n * perFactorBytes
	return MemoryEstimate{
		N:           n,
		ResultBytes: result,
		FactorBytes: factors,
		TotalBytes:  result*liveResultMultiple + factors,
	}
}

// ParseMemoryLimit parses a size such as "8GB", "512MiB" or "1024". An
// empty string means no limit and yields 0.
func ParseMemoryLimit(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid memory limit %q: %w", s, err)
	}
	return v, nil
}

// FormatMemoryEstimate renders est for display.
func FormatMemoryEstimate(est MemoryEstimate) string {
	return fmt.Sprintf("%s (result %s, factors %s)",
		humanize.IBytes(est.TotalBytes),
		humanize.IBytes(est.ResultBytes),
		humanize.IBytes(est.FactorBytes))
}
