package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/factcalc/internal/cli"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial/memory"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/sysmon"
	"github.com/agbru/factcalc/internal/ui"
)

// runCalculate computes N! with the selected strategies and presents the
// outcome.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	if err := a.checkMemoryBudget(out); err != nil {
		return apperrors.HandleCalculationError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}

	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculators := orchestration.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		fmt.Fprintf(a.ErrWriter, "no strategy matches %q\n", a.Config.Algo)
		return apperrors.ExitErrorConfig
	}

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	gc := memory.NewGCController(a.Config.GCMode, a.Config.N)
	gc.SetLogger(a.Logger)
	recorder := metrics.NewRecorder()
	collector := metrics.NewMemoryCollector()
	before := collector.Snapshot()

	logger := logging.NewZerologAdapter(a.Logger)
	gc.Begin()
	results := orchestration.ExecuteCalculations(ctx, calculators, a.Config, reporter, progressOut,
		orchestration.WithRecorder(recorder),
		orchestration.WithMaxConcurrency(a.Config.ParallelRuns),
		orchestration.WithLogger(logger),
	)
	gc.End()
	after := collector.Snapshot()

	if a.Config.MetricsFile != "" {
		if err := recorder.WriteTextfile(a.Config.MetricsFile); err != nil {
			logger.Error("writing metrics", err, logging.String("path", a.Config.MetricsFile))
		}
	}

	code := a.presentResults(results, out)
	if a.Config.Details && !a.Config.Quiet {
		cli.DisplayMemoryStats(after, after.Since(before), out)
	}
	return code
}

// checkMemoryBudget refuses runs whose estimate exceeds -memory-limit.
func (a *Application) checkMemoryBudget(out io.Writer) error {
	limit, err := memory.ParseMemoryLimit(a.Config.MemoryLimit)
	if err != nil {
		return apperrors.NewConfigError("invalid -memory-limit: %v", err)
	}
	if limit == 0 {
		return nil
	}
	est := memory.EstimateMemoryUsage(a.Config.N)
	if est.TotalBytes > limit {
		return apperrors.MemoryError{
			Requested: est.TotalBytes,
			Available: sysmon.Sample().MemFree,
			Limit:     limit,
		}
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Memory estimate: %s (limit: %s)\n", memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
	}
	return nil
}

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		ShowValue:  a.Config.ShowValue,
		Details:    a.Config.Details,
	}
}

func (a *Application) presentResults(results []orchestration.CalculationResult, out io.Writer) int {
	if len(results) == 1 {
		return a.presentSingle(results[0], out)
	}

	if a.Config.Quiet {
		if err := orchestration.CheckConsistency(results, a.Config.N); err != nil {
			fmt.Fprintln(a.ErrWriter, err)
			return apperrors.ExitErrorMismatch
		}
		best := findBestResult(results)
		if best == nil {
			return apperrors.HandleCalculationError(firstError(results), 0, a.ErrWriter, cli.CLIColorProvider{})
		}
		return a.presentSingle(*best, out)
	}

	presOpts := orchestration.PresentationOptions{
		N:         a.Config.N,
		Verbose:   a.Config.Verbose,
		Details:   a.Config.Details,
		ShowValue: a.Config.ShowValue,
	}
	presenter := cli.CLIResultPresenter{}
	code := orchestration.AnalyzeComparisonResults(results, presOpts, presenter, presenter, out)
	if code != apperrors.ExitSuccess || a.Config.OutputFile == "" {
		return code
	}

	best := findBestResult(results)
	cfg := a.outputConfig()
	if err := cli.WriteResultToFile(best.Result, a.Config.N, best.Duration, best.Name, cfg); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	return code
}

func (a *Application) presentSingle(res orchestration.CalculationResult, out io.Writer) int {
	if res.Err != nil {
		errOut := out
		if a.Config.Quiet {
			errOut = a.ErrWriter
		}
		return cli.CLIResultPresenter{}.HandleError(res.Err, res.Duration, errOut)
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\n%s completed in %s\n", res.Name, cli.CLIResultPresenter{}.FormatDuration(res.Duration))
	}
	if err := cli.DisplayResultWithConfig(out, res.Result, a.Config.N, res.Duration, res.Name, a.outputConfig()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func findBestResult(results []orchestration.CalculationResult) *orchestration.CalculationResult {
	var best *orchestration.CalculationResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if best == nil || results[i].Duration < best.Duration {
			best = &results[i]
		}
	}
	return best
}

func firstError(results []orchestration.CalculationResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
