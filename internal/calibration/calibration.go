// Package calibration benchmarks fork-join cutoffs on the current machine
// and caches the fastest one in a JSON profile.
package calibration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/factcalc/internal/bigint"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/logging"
)

// Defaults for a calibration run.
const (
	DefaultCalibrationN uint64 = 100_000
	DefaultRounds              = 3
)

// ErrNoUsableCutoff is returned when every candidate cutoff failed.
var ErrNoUsableCutoff = errors.New("calibration: no cutoff completed")

// Options configures RunCalibration. Zero fields select defaults.
type Options struct {
	// N is the factorial computed for each measurement.
	N uint64
	// Cutoffs are the candidates; nil means GenerateCutoffs.
	Cutoffs []uint64
	// Rounds is the number of measurements per cutoff; the fastest counts.
	Rounds int
	// Workers and FFTThreshold are passed to the engine unchanged.
	Workers      int
	FFTThreshold int
	// ProfilePath is where the profile is saved; empty means
	// GetDefaultProfilePath. Saving is skipped when DryRun is set.
	ProfilePath string
	DryRun      bool
}

func (o Options) withDefaults() Options {
	if o.N == 0 {
		o.N = DefaultCalibrationN
	}
	if len(o.Cutoffs) == 0 {
		o.Cutoffs = GenerateCutoffs()
	}
	if o.Rounds <= 0 {
		o.Rounds = DefaultRounds
	}
	return o
}

type calibrationResult struct {
	Cutoff   uint64
	Duration time.Duration
	Err      error
}

// RunCalibration times the fork-join engine on opts.N! for each candidate
// cutoff, prints a summary to out and saves the winner in a profile. Every
// measurement must produce the same product as the first one; a differing
// product marks that cutoff as failed.
func RunCalibration(ctx context.Context, opts Options, out io.Writer, logger logging.Logger) (*CalibrationProfile, error) {
	opts = opts.withDefaults()
	fmt.Fprintf(out, "Calibrating fork-join cutoff on %d! (%d candidates, %d rounds each)...\n",
		opts.N, len(opts.Cutoffs), opts.Rounds)

	start := time.Now()
	var reference bigint.Value
	haveReference := false
	results := make([]calibrationResult, 0, len(opts.Cutoffs))
	for _, cutoff := range opts.Cutoffs {
		res := calibrationResult{Cutoff: cutoff}
		for round := 0; round < opts.Rounds; round++ {
			d, v, err := measure(ctx, opts, cutoff)
			if err != nil {
				res.Err = err
				break
			}
			if !haveReference {
				reference, haveReference = v, true
			} else if !v.Equal(reference) {
				res.Err = fmt.Errorf("cutoff %d produced a different product", cutoff)
				break
			}
			if res.Duration == 0 || d < res.Duration {
				res.Duration = d
			}
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if res.Err != nil {
			logger.Error("cutoff failed", res.Err, logging.Uint64("cutoff", cutoff))
		} else {
			logger.Debug("cutoff measured", logging.Uint64("cutoff", cutoff), logging.Duration("best", res.Duration))
		}
		results = append(results, res)
	}

	best, ok := bestResult(results)
	printCalibrationResults(out, results, best.Cutoff)
	if !ok {
		return nil, ErrNoUsableCutoff
	}

	profile := NewProfile()
	profile.OptimalCutoff = best.Cutoff
	profile.OptimalFFTThreshold = opts.FFTThreshold
	profile.CalibrationN = opts.N
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()

	if !opts.DryRun {
		path := ResolveProfilePath(opts.ProfilePath)
		if err := profile.SaveProfile(path); err != nil {
			return profile, err
		}
		logger.Info("calibration profile saved", logging.String("path", path), logging.Uint64("cutoff", best.Cutoff))
	}
	printCalibrationOutput(out, profile)
	return profile, nil
}

func measure(ctx context.Context, opts Options, cutoff uint64) (time.Duration, bigint.Value, error) {
	fo := factorial.Options{
		Workers:        opts.Workers,
		ParallelCutoff: cutoff,
		FFTThreshold:   opts.FFTThreshold,
	}
	start := time.Now()
	v, err := factorial.Factorial(ctx, opts.N, fo)
	return time.Since(start), v, err
}

// bestResult returns the fastest successful result. Ties go to the larger
// cutoff, which forks less.
func bestResult(results []calibrationResult) (calibrationResult, bool) {
	var best calibrationResult
	found := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if !found || r.Duration < best.Duration || (r.Duration == best.Duration && r.Cutoff > best.Cutoff) {
			best, found = r, true
		}
	}
	return best, found
}
