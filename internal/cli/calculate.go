package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/factcalc/internal/bigint"
	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/factorial/memory"
	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/sysmon"
	"github.com/agbru/factcalc/internal/ui"
)

// PrintExecutionConfig prints the run banner: target, timeout, host and the
// tuning parameters in effect.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	host := sysmon.DescribeHost()
	stats := sysmon.Sample()
	est := memory.EstimateMemoryUsage(cfg.N)

	fmt.Fprintln(out, ui.RenderHeader("Execution Configuration"))
	fmt.Fprintf(out, "Calculating %s%d!%s with a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.N, ui.ColorReset(), ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%s%s, %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), host.ModelName, ui.ColorReset(),
		ui.ColorCyan(), host.Cores, ui.ColorReset(),
		ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "CPU features: %s%s%s. System load: CPU %.1f%%, memory %.1f%%.\n",
		ui.ColorCyan(), sysmon.FeatureString(), ui.ColorReset(), stats.CPUPercent, stats.MemPercent)
	fmt.Fprintf(out, "Tuning: workers=%s%s%s, cutoff=%s%d%s factors, FFT=%s%d%s bits.\n",
		ui.ColorCyan(), workersLabel(cfg.Workers), ui.ColorReset(),
		ui.ColorCyan(), cfg.ParallelCutoff, ui.ColorReset(),
		ui.ColorCyan(), cfg.FFTThreshold, ui.ColorReset())
	fmt.Fprintf(out, "Estimated result size: %s%s%s digits, %s.\n",
		ui.ColorCyan(), format.FormatNumber(bigint.EstimateFactorialDigits(cfg.N)), ui.ColorReset(), memory.FormatMemoryEstimate(est))
}

func workersLabel(workers int) string {
	if workers <= 0 {
		return fmt.Sprintf("%d (auto)", runtime.GOMAXPROCS(0))
	}
	return fmt.Sprint(workers)
}

// PrintExecutionMode announces whether one strategy runs or all of them are
// compared.
func PrintExecutionMode(calculators []factorial.Calculator, out io.Writer) {
	var modeDesc string
	if len(calculators) > 1 {
		modeDesc = fmt.Sprintf("Parallel comparison of %d strategies", len(calculators))
	} else {
		modeDesc = fmt.Sprintf("Single calculation with the %s%s%s strategy",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n%s\n", ui.RenderDim("--- Starting Execution ---"))
}
