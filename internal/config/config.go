// Package config parses the command line and the FACTCALC_ environment into
// an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/factorial/memory"
)

// EnvPrefix prefixes every environment override, e.g. FACTCALC_N.
const EnvPrefix = "FACTCALC_"

// Defaults.
const (
	DefaultTimeout  = 5 * time.Minute
	DefaultAlgo     = "all"
	DefaultGCMode   = "auto"
	DefaultLogLevel = "warn"
)

// AppConfig is the complete run configuration.
type AppConfig struct {
	N       uint64
	Algo    string
	Timeout time.Duration

	// Workers, ParallelCutoff and FFTThreshold tune the strategies; zero
	// selects an adaptive default.
	Workers        int
	ParallelCutoff uint64
	FFTThreshold   int
	Batches        int
	AdaptiveFFT    bool

	// ParallelRuns bounds how many strategies run at once in comparison
	// mode; zero runs them all together.
	ParallelRuns int

	Verbose   bool
	Details   bool
	ShowValue bool
	Quiet     bool
	NoColor   bool

	OutputFile  string
	MetricsFile string
	MemoryLimit string
	GCMode      string
	LogLevel    string

	Calibrate          bool
	CalibrationProfile string

	Completion  string
	Interactive bool
	ShowVersion bool
}

// ToFactorialOptions returns the strategy options selected by c.
func (c AppConfig) ToFactorialOptions() factorial.Options {
	return factorial.Options{
		Workers:        c.Workers,
		ParallelCutoff: c.ParallelCutoff,
		FFTThreshold:   c.FFTThreshold,
		Batches:        c.Batches,
		AdaptiveFFT:    c.AdaptiveFFT,
	}
}

// Validate checks c against the registered algorithms.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers must be >= 0, got %d", c.Workers)
	}
	if c.Batches < 0 {
		return apperrors.NewConfigError("batches must be >= 0, got %d", c.Batches)
	}
	if c.ParallelRuns < 0 {
		return apperrors.NewConfigError("parallel-runs must be >= 0, got %d", c.ParallelRuns)
	}
	if c.Algo != "all" && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unknown algorithm %q (available: all, %s)", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if !memory.ValidGCMode(c.GCMode) {
		return apperrors.NewConfigError("invalid gc mode %q (auto, aggressive, disabled)", c.GCMode)
	}
	if _, err := memory.ParseMemoryLimit(c.MemoryLimit); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return apperrors.NewConfigError("invalid log level %q", c.LogLevel)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("-quiet and -v are mutually exclusive")
	}
	return nil
}

// ParseConfig parses args (without the program name) and applies the
// environment. Priority is flags, then FACTCALC_ variables, then defaults.
// Adaptive defaults for Workers and ParallelCutoff are resolved later, by
// ApplyAdaptiveDefaults.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)

	cfg := AppConfig{}
	fs.Uint64Var(&cfg.N, "n", factorial.DefaultN, "Compute n!.")
	fs.StringVar(&cfg.Algo, "algo", DefaultAlgo, fmt.Sprintf("Strategy to run: all, %s.", strings.Join(availableAlgos, ", ")))
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.IntVar(&cfg.Workers, "workers", 0, "Worker goroutines per parallel strategy (0 = GOMAXPROCS).")
	fs.Uint64Var(&cfg.ParallelCutoff, "cutoff", 0, "Range length below which fork-join stops forking (0 = adaptive).")
	fs.IntVar(&cfg.FFTThreshold, "fft-threshold", 0, "Operand size in bits above which FFT multiplication is used (0 = default, -1 = off).")
	fs.IntVar(&cfg.Batches, "batches", 0, "Batches of the flat reduction (0 = 2 x GOMAXPROCS).")
	fs.BoolVar(&cfg.AdaptiveFFT, "adaptive-fft", false, "Let fork-join tune the FFT threshold from its own merge timings.")
	fs.IntVar(&cfg.ParallelRuns, "parallel-runs", 0, "Strategies running at once in comparison mode (0 = all).")
	fs.BoolVar(&cfg.Verbose, "v", false, "Print the full result.")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Alias for -v.")
	fs.BoolVar(&cfg.Details, "d", false, "Print result details (bits, digits, memory).")
	fs.BoolVar(&cfg.Details, "details", false, "Alias for -d.")
	fs.BoolVar(&cfg.ShowValue, "c", false, "Print the computed value (truncated unless -v).")
	fs.BoolVar(&cfg.ShowValue, "calculate", false, "Alias for -c.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the result.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Alias for -quiet.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Write the result to this file.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Alias for -o.")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file.")
	fs.StringVar(&cfg.MemoryLimit, "memory-limit", "", "Refuse runs whose estimated memory exceeds this size (e.g. 8GB).")
	fs.StringVar(&cfg.GCMode, "gc", DefaultGCMode, "GC control during the run: auto, aggressive, disabled.")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level: debug, info, warn, error, disabled.")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Benchmark fork-join cutoffs and save the best one.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Calibration profile path (default ~/.factcalc_calibration.json).")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a shell completion script: bash, zsh, fish.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start an interactive session.")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Print version information and exit.")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&cfg, fs)
	cfg.Algo = strings.ToLower(cfg.Algo)

	if err := cfg.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, err)
		return cfg, err
	}
	return cfg, nil
}
