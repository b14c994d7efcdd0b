package calibration

import (
	"runtime"

	"github.com/agbru/factcalc/internal/config"
)

// GenerateCutoffs returns the fork-join cutoffs to benchmark, sized to the
// number of cores. Few cores favor coarse tasks since each fork costs more
// than the work it spreads.
func GenerateCutoffs() []uint64 {
	switch numCPU := runtime.NumCPU(); {
	case numCPU == 1:
		// Forks run inline on one core, the cutoff barely matters.
		return []uint64{config.EstimateOptimalCutoff()}
	case numCPU <= 4:
		return []uint64{1024, 2048, 4096, 8192, 16384}
	case numCPU <= 8:
		return []uint64{512, 1024, 2048, 4096, 8192, 16384}
	case numCPU <= 16:
		return []uint64{256, 512, 1024, 2048, 4096, 8192, 16384}
	default:
		return []uint64{128, 256, 512, 1024, 2048, 4096, 8192, 16384}
	}
}
