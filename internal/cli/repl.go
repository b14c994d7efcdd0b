package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/progress"
	"github.com/agbru/factcalc/internal/ui"
)

// REPLConfig configures an interactive session.
type REPLConfig struct {
	// DefaultAlgo is the initial strategy key; "all" or empty picks the
	// first registered one.
	DefaultAlgo string
	// Timeout bounds each calculation.
	Timeout time.Duration
	// Options tune the strategies.
	Options factorial.Options
	// HexOutput prints results in base 16.
	HexOutput bool
}

// REPL is an interactive factorial session.
type REPL struct {
	config      REPLConfig
	factory     factorial.CalculatorFactory
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL returns a REPL reading stdin and writing stdout.
func NewREPL(factory factorial.CalculatorFactory, cfg REPLConfig) *REPL {
	current := cfg.DefaultAlgo
	if current == "" || current == config.DefaultAlgo {
		if keys := factory.List(); len(keys) > 0 {
			current = keys[0]
		}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultTimeout
	}
	return &REPL{
		config:      cfg,
		factory:     factory,
		currentAlgo: current,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput replaces the input reader.
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput replaces the output writer.
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start reads and executes commands until exit or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"fact> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		line := strings.TrimSpace(input)
		if line != "" && !r.processCommand(line) {
			return
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s\n\n", ui.RenderHeader("Factorial Calculator - Interactive Mode"))
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, c := range [][2]string{
		{"calc <n>", "Calculate n! with the current strategy"},
		{"algo <name>", "Change strategy (" + strings.Join(r.factory.List(), ", ") + ")"},
		{"compare <n>", "Run every strategy on n! and check they agree"},
		{"workers <k>", "Set the worker count (0 = all CPUs)"},
		{"list", "List available strategies"},
		{"hex", "Toggle hexadecimal display"},
		{"status", "Display current configuration"},
		{"help", "Display this help"},
		{"exit", "Leave interactive mode"},
	} {
		fmt.Fprintf(r.out, "  %s%-12s%s - %s\n", ui.ColorYellow(), c[0], ui.ColorReset(), c[1])
	}
}

// processCommand runs one command line and reports whether to continue.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "calc", "c":
		if n, ok := r.parseN(args, "calc"); ok {
			r.calculate(n)
		}
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		if n, ok := r.parseN(args, "compare"); ok {
			r.compare(n)
		}
	case "workers", "w":
		r.cmdWorkers(args)
	case "list", "ls":
		r.cmdList()
	case "hex":
		r.config.HexOutput = !r.config.HexOutput
		fmt.Fprintf(r.out, "Hexadecimal display: %s%s%s\n", ui.ColorGreen(), onOff(r.config.HexOutput), ui.ColorReset())
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if n, err := strconv.ParseUint(cmd, 10, 64); err == nil {
			r.calculate(n)
			return true
		}
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) parseN(args []string, cmd string) (uint64, bool) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: %s <n>%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		return 0, false
	}
	n, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return 0, false
	}
	return n, true
}

func (r *REPL) calculate(n uint64) {
	calc, err := r.factory.Get(r.currentAlgo)
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Calculating %s%d!%s with %s%s%s...\n",
		ui.ColorMagenta(), n, ui.ColorReset(), ui.ColorCyan(), calc.Name(), ui.ColorReset())

	progressChan := make(chan progress.Update, orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	start := time.Now()
	result, err := calc.Calculate(ctx, progressChan, 0, n, r.config.Options)
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	digits := result.String()
	fmt.Fprintf(r.out, "\n%sResult:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Time:   %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Bits:   %s%d%s\n", ui.ColorCyan(), result.BitLen(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Digits: %s%d%s\n", ui.ColorCyan(), len(digits), ui.ColorReset())

	switch {
	case r.config.HexOutput:
		hex := result.Text(16)
		fmt.Fprintf(r.out, "  %d! = %s0x%s%s\n", n, ui.ColorGreen(),
			format.Truncate(hex, 2*HexDisplayEdges, HexDisplayEdges), ui.ColorReset())
	case len(digits) > TruncationLimit:
		fmt.Fprintf(r.out, "  %d! = %s%s%s (truncated)\n", n, ui.ColorGreen(),
			format.Truncate(digits, TruncationLimit, DisplayEdges), ui.ColorReset())
	default:
		fmt.Fprintf(r.out, "  %d! = %s%s%s\n", n, ui.ColorGreen(), digits, ui.ColorReset())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) compare(n uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	keys := r.factory.List()
	calcs := make([]factorial.Calculator, 0, len(keys))
	for _, k := range keys {
		if c, err := r.factory.Get(k); err == nil {
			calcs = append(calcs, c)
		}
	}
	cfg := config.AppConfig{
		N:              n,
		Workers:        r.config.Options.Workers,
		ParallelCutoff: r.config.Options.ParallelCutoff,
		FFTThreshold:   r.config.Options.FFTThreshold,
		Batches:        r.config.Options.Batches,
	}
	results := orchestration.ExecuteCalculations(ctx, calcs, cfg, orchestration.NullProgressReporter{}, r.out)

	fmt.Fprintf(r.out, "\n%sComparison for %d!:%s\n", ui.ColorBold(), n, ui.ColorReset())
	orchestration.SortResults(results)
	CLIResultPresenter{}.PresentComparisonTable(results, r.out)
	if err := orchestration.CheckConsistency(results, n); err != nil {
		fmt.Fprintf(r.out, "%s✗ %v%s\n\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "%s✓ All successful strategies agree.%s\n\n", ui.ColorGreen(), ui.ColorReset())
}

func (r *REPL) cmdAlgo(args []string) {
	available := strings.Join(r.factory.List(), ", ")
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", available)
		return
	}
	name := strings.ToLower(args[0])
	calc, err := r.factory.Get(name)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown strategy: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", available)
		return
	}
	r.currentAlgo = name
	fmt.Fprintf(r.out, "Strategy changed to: %s%s%s\n", ui.ColorGreen(), calc.Name(), ui.ColorReset())
}

func (r *REPL) cmdWorkers(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: workers <k>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	k, err := strconv.Atoi(args[0])
	if err != nil || k < 0 {
		fmt.Fprintf(r.out, "%sInvalid worker count: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		return
	}
	r.config.Options.Workers = k
	fmt.Fprintf(r.out, "Workers set to: %s%s%s\n", ui.ColorGreen(), workersLabel(k), ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable strategies:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.factory.List() {
		calc, err := r.factory.Get(name)
		if err != nil {
			continue
		}
		marker := "  "
		if name == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-10s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), calc.Name())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	o := r.config.Options
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Strategy:       %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:        %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Workers:        %s%s%s\n", ui.ColorCyan(), workersLabel(o.Workers), ui.ColorReset())
	fmt.Fprintf(r.out, "  Cutoff:         %s%d%s factors\n", ui.ColorCyan(), o.ParallelCutoff, ui.ColorReset())
	fmt.Fprintf(r.out, "  FFT Threshold:  %s%d%s bits\n", ui.ColorCyan(), o.FFTThreshold, ui.ColorReset())
	fmt.Fprintf(r.out, "  Hexadecimal:    %s%s%s\n", ui.ColorCyan(), onOff(r.config.HexOutput), ui.ColorReset())
	fmt.Fprintln(r.out)
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
