package orchestration

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/progress"
)

// scriptedCalculator simulates calculator behaviors for deadlock testing.
type scriptedCalculator struct {
	name     string
	behavior string // "instant", "slow", "error", "progress_flood"
	delay    time.Duration
}

func (m *scriptedCalculator) Calculate(ctx context.Context, progressChan chan<- progress.Update, calcIndex int, n uint64, opts factorial.Options) (*big.Int, error) {
	switch m.behavior {
	case "slow":
		for i := 0; i < 100; i++ {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case progressChan <- progress.Update{CalculatorIndex: calcIndex, Value: float64(i) / 100.0}:
			default:
			}
			time.Sleep(m.delay)
		}
	case "error":
		return nil, fmt.Errorf("simulated error")
	case "progress_flood":
		for i := 0; i < 10000; i++ {
			select {
			case progressChan <- progress.Update{CalculatorIndex: calcIndex, Value: float64(i) / 10000.0}:
			default:
			}
		}
	}
	return big.NewInt(1), nil
}

func (m *scriptedCalculator) Name() string {
	return m.name
}

// slowReporter drains the channel with a delay per update.
type slowReporter struct{}

func (slowReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.Update, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
		time.Sleep(10 * time.Microsecond)
	}
}

func TestOrchestrationNoDeadlock_MixedBehaviors(t *testing.T) {
	testCases := []struct {
		name        string
		calculators []factorial.Calculator
		limit       int
	}{
		{
			name: "all_instant",
			calculators: []factorial.Calculator{
				&scriptedCalculator{name: "c1", behavior: "instant"},
				&scriptedCalculator{name: "c2", behavior: "instant"},
				&scriptedCalculator{name: "c3", behavior: "instant"},
			},
		},
		{
			name: "mixed_instant_and_slow",
			calculators: []factorial.Calculator{
				&scriptedCalculator{name: "fast", behavior: "instant"},
				&scriptedCalculator{name: "slow", behavior: "slow", delay: time.Millisecond},
			},
		},
		{
			name: "mixed_with_errors",
			calculators: []factorial.Calculator{
				&scriptedCalculator{name: "ok", behavior: "instant"},
				&scriptedCalculator{name: "err", behavior: "error"},
			},
		},
		{
			name: "progress_flood",
			calculators: []factorial.Calculator{
				&scriptedCalculator{name: "flood1", behavior: "progress_flood"},
				&scriptedCalculator{name: "flood2", behavior: "progress_flood"},
			},
		},
		{
			name: "flood_with_limit_one",
			calculators: []factorial.Calculator{
				&scriptedCalculator{name: "flood1", behavior: "progress_flood"},
				&scriptedCalculator{name: "slow", behavior: "slow", delay: time.Microsecond},
				&scriptedCalculator{name: "flood2", behavior: "progress_flood"},
			},
			limit: 1,
		},
		{
			name: "single_calculator",
			calculators: []factorial.Calculator{
				&scriptedCalculator{name: "solo", behavior: "instant"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			done := make(chan struct{})
			go func() {
				defer close(done)
				ExecuteCalculations(ctx, tc.calculators, config.AppConfig{N: 100}, slowReporter{}, io.Discard,
					WithMaxConcurrency(tc.limit))
			}()

			select {
			case <-done:
			case <-time.After(10 * time.Second):
				t.Fatal("DEADLOCK: ExecuteCalculations did not complete within timeout")
			}
		})
	}
}

func TestOrchestrationNoDeadlock_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calcs := []factorial.Calculator{
		&scriptedCalculator{name: "slow1", behavior: "slow", delay: 100 * time.Millisecond},
		&scriptedCalculator{name: "slow2", behavior: "slow", delay: 100 * time.Millisecond},
	}

	done := make(chan []CalculationResult)
	go func() {
		done <- ExecuteCalculations(ctx, calcs, config.AppConfig{N: 100}, NullProgressReporter{}, io.Discard)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case results := <-done:
		for _, r := range results {
			if r.Err == nil {
				t.Errorf("%s finished despite cancellation", r.Name)
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("DEADLOCK after context cancellation")
	}
}

func TestOrchestration_RealEngineCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	factory := factorial.NewDefaultFactory()
	calcs := GetCalculatorsToRun(config.AppConfig{Algo: "all"}, factory)

	done := make(chan []CalculationResult)
	go func() {
		done <- ExecuteCalculations(ctx, calcs, config.AppConfig{N: 1_000_000, Workers: 2}, NullProgressReporter{}, io.Discard)
	}()

	select {
	case results := <-done:
		for _, r := range results {
			if r.Err == nil {
				t.Errorf("%s: expected a context error", r.Name)
			}
		}
	case <-time.After(30 * time.Second):
		t.Fatal("strategies did not honor cancellation")
	}
}
