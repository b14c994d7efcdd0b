package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/progress"
	"github.com/agbru/factcalc/internal/telemetry"
)

// ProgressBufferMultiplier sizes the progress channel per calculator. A
// larger buffer means fewer dropped updates when the display lags.
const ProgressBufferMultiplier = 5

type execSettings struct {
	maxConcurrency int
	recorder       *metrics.Recorder
	logger         logging.Logger
	tracer         trace.Tracer
}

// ExecOption customizes ExecuteCalculations.
type ExecOption func(*execSettings)

// WithMaxConcurrency bounds how many calculators run at once. Zero or a
// negative value runs them all together.
func WithMaxConcurrency(n int) ExecOption {
	return func(s *execSettings) {
		s.maxConcurrency = n
	}
}

// WithRecorder records every run on r.
func WithRecorder(r *metrics.Recorder) ExecOption {
	return func(s *execSettings) {
		s.recorder = r
	}
}

// WithLogger logs run boundaries to l.
func WithLogger(l logging.Logger) ExecOption {
	return func(s *execSettings) {
		s.logger = l
	}
}

// WithTracer replaces the global factcalc tracer.
func WithTracer(t trace.Tracer) ExecOption {
	return func(s *execSettings) {
		s.tracer = t
	}
}

// ExecuteCalculations runs calculators concurrently on cfg.N and returns
// their results in input order.
//
// Progress from every calculator is multiplexed onto one channel read by
// progressReporter, which is given out to write to. A failing calculator
// does not stop the others; its error is kept in its result.
func ExecuteCalculations(ctx context.Context, calculators []factorial.Calculator, cfg config.AppConfig, progressReporter ProgressReporter, out io.Writer, opts ...ExecOption) []CalculationResult {
	s := execSettings{logger: logging.NewZerologAdapter(zerolog.Nop())}
	for _, opt := range opts {
		opt(&s)
	}
	if s.tracer == nil {
		s.tracer = telemetry.Tracer()
	}

	g, ctx := errgroup.WithContext(ctx)
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan progress.Update, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	calcOpts := cfg.ToFactorialOptions()
	for i, calc := range calculators {
		idx, calculator := i, calc
		g.Go(func() error {
			results[idx] = runOne(ctx, &s, calculator, progressChan, idx, cfg.N, calcOpts)
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

func runOne(ctx context.Context, s *execSettings, calc factorial.Calculator, progressChan chan<- progress.Update, idx int, n uint64, opts factorial.Options) CalculationResult {
	name := calc.Name()
	ctx, span := s.tracer.Start(ctx, "factcalc.calculate",
		trace.WithAttributes(
			attribute.String("algorithm", name),
			attribute.Int64("n", int64(n)),
			attribute.Int("workers", opts.Workers),
		),
	)
	defer span.End()

	var (
		mc     *metrics.MemoryCollector
		before metrics.MemorySnapshot
	)
	if s.recorder != nil {
		defer s.recorder.StartRun(n)()
		mc = metrics.NewMemoryCollector()
		before = mc.Snapshot()
	}

	s.logger.Debug("run started", logging.String("algo", name), logging.Uint64("n", n))
	start := time.Now()
	res, err := calc.Calculate(ctx, progressChan, idx, n, opts)
	elapsed := time.Since(start)

	bits := 0
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Debug("run failed", logging.String("algo", name), logging.Err(err), logging.Duration("elapsed", elapsed))
	} else {
		bits = res.BitLen()
		span.SetAttributes(attribute.Int("result.bits", bits))
		s.logger.Debug("run finished", logging.String("algo", name), logging.Int("bits", bits), logging.Duration("elapsed", elapsed))
	}
	if s.recorder != nil {
		s.recorder.ObserveRun(name, elapsed, bits, err)
		s.recorder.ObserveMemory(name, mc.Snapshot().Since(before))
	}
	return CalculationResult{Name: name, Result: res, Duration: elapsed, Err: err}
}

// SortResults orders results with successes first, then by duration.
func SortResults(results []CalculationResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})
}

// CheckConsistency returns a MismatchError naming every successful result
// that differs from the first successful one, or nil when they all agree.
func CheckConsistency(results []CalculationResult, n uint64) error {
	var ref *CalculationResult
	var disagree []string
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.Result == nil {
			continue
		}
		if ref == nil {
			ref = r
			continue
		}
		if r.Result.Cmp(ref.Result) != 0 {
			disagree = append(disagree, r.Name)
		}
	}
	if len(disagree) == 0 {
		return nil
	}
	return apperrors.MismatchError{N: n, Algorithms: append([]string{ref.Name}, disagree...)}
}

// AnalyzeComparisonResults sorts results, prints the comparison table and
// the global status, checks that every successful strategy agrees, and
// presents the fastest result. It returns the process exit code.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	SortResults(results)

	var firstValid *CalculationResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		if firstValid == nil {
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	if err := CheckConsistency(results, opts.N); err != nil {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %v\n", err)
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValid, opts.N, opts.Verbose, opts.Details, opts.ShowValue, out)
	return apperrors.ExitSuccess
}
