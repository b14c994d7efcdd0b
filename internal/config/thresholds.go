package config

import "runtime"

// Cutoff resolution, highest priority first:
//  1. -cutoff flag
//  2. FACTCALC_CUTOFF
//  3. cached calibration profile
//  4. EstimateOptimalCutoff

// ApplyAdaptiveDefaults fills the tuning fields left at zero from the
// hardware. ParallelCutoff is only set when cachedCutoff is zero, so a
// calibration profile wins over the estimate.
func ApplyAdaptiveDefaults(cfg AppConfig, cachedCutoff uint64) AppConfig {
	if cfg.ParallelCutoff == 0 {
		cfg.ParallelCutoff = cachedCutoff
	}
	if cfg.ParallelCutoff == 0 {
		cfg.ParallelCutoff = EstimateOptimalCutoff()
	}
	if cfg.FFTThreshold == 0 {
		cfg.FFTThreshold = EstimateOptimalFFTThreshold()
	}
	return cfg
}

// EstimateOptimalCutoff guesses the fork-join cutoff from the core count:
// more cores favor finer-grained forking.
func EstimateOptimalCutoff() uint64 {
	switch numCPU := runtime.NumCPU(); {
	case numCPU <= 2:
		return 8192
	case numCPU <= 4:
		return 4096
	case numCPU <= 8:
		return 2048
	case numCPU <= 16:
		return 1024
	default:
		return 512
	}
}

// EstimateOptimalFFTThreshold returns the FFT threshold in bits for the
// machine word size.
func EstimateOptimalFFTThreshold() int {
	if wordSize := 32 << (^uint(0) >> 63); wordSize == 64 {
		return 500_000
	}
	return 250_000
}
