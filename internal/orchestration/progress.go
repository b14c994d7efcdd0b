package orchestration

import (
	"time"

	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/progress"
)

// ProgressAggregator folds progress updates from several calculators into
// one average with an ETA. It wraps format.ProgressWithETA so the CLI
// reporter and the orchestrator share the same aggregation.
type ProgressAggregator struct {
	state          *format.ProgressWithETA
	numCalculators int
}

// NewProgressAggregator creates an aggregator for the given number of
// calculators.
//
// Parameters:
//   - numCalculators: The number of calculators reporting progress.
//
// Returns:
//   - *ProgressAggregator: The aggregator, or nil if numCalculators <= 0.
func NewProgressAggregator(numCalculators int) *ProgressAggregator {
	if numCalculators <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:          format.NewProgressWithETA(numCalculators),
		numCalculators: numCalculators,
	}
}

// AggregatedProgress is the view after one update.
type AggregatedProgress struct {
	// CalculatorIndex is the index of the calculator that sent the update.
	CalculatorIndex int
	// Value is the raw progress of that calculator, in [0, 1].
	Value float64
	// AverageProgress is the average across all calculators.
	AverageProgress float64
	// ETA is the estimated time remaining from the smoothed rate.
	ETA time.Duration
}

// Update applies one progress update.
//
// Parameters:
//   - update: The update received from a calculator.
//
// Returns:
//   - AggregatedProgress: The average and ETA after the update.
func (a *ProgressAggregator) Update(update progress.Update) AggregatedProgress {
	avg, eta := a.state.UpdateWithETA(update.CalculatorIndex, update.Value)
	return AggregatedProgress{
		CalculatorIndex: update.CalculatorIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average progress without updating.
// The CLI ticker uses it to refresh between updates.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current ETA without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// Elapsed returns the time since the aggregator was created.
func (a *ProgressAggregator) Elapsed() time.Duration {
	return a.state.Elapsed()
}

// NumCalculators returns the number of tracked calculators.
func (a *ProgressAggregator) NumCalculators() int {
	return a.numCalculators
}

// IsMultiCalculator reports whether more than one calculator is tracked.
func (a *ProgressAggregator) IsMultiCalculator() bool {
	return a.numCalculators > 1
}

// DrainChannel reads all updates from progressChan without processing them
// and returns once it is closed. Use it when there is no aggregator.
//
// Parameters:
//   - progressChan: The channel to drain.
func DrainChannel(progressChan <-chan progress.Update) {
	for range progressChan {
	}
}
