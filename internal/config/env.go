package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet reports whether a flag was given on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps one FACTCALC_ variable to the flag names it stands in
// for and a setter. Unparsable values are ignored.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func uintSetter(dst func(*AppConfig) *uint64) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst(c) = parsed
		}
	}
}

func intSetter(dst func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst(c) = parsed
		}
	}
}

func stringSetter(dst func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *dst(c) = v }
}

func boolSetter(dst func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		p := dst(c)
		*p = parseBoolEnv(v, *p)
	}
}

var envOverrides = []envOverride{
	{"N", []string{"n"}, uintSetter(func(c *AppConfig) *uint64 { return &c.N })},
	{"CUTOFF", []string{"cutoff"}, uintSetter(func(c *AppConfig) *uint64 { return &c.ParallelCutoff })},
	{"WORKERS", []string{"workers"}, intSetter(func(c *AppConfig) *int { return &c.Workers })},
	{"FFT_THRESHOLD", []string{"fft-threshold"}, intSetter(func(c *AppConfig) *int { return &c.FFTThreshold })},
	{"BATCHES", []string{"batches"}, intSetter(func(c *AppConfig) *int { return &c.Batches })},
	{"PARALLEL_RUNS", []string{"parallel-runs"}, intSetter(func(c *AppConfig) *int { return &c.ParallelRuns })},

	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.Timeout = parsed
		}
	}},

	{"ALGO", []string{"algo"}, stringSetter(func(c *AppConfig) *string { return &c.Algo })},
	{"OUTPUT", []string{"o", "output"}, stringSetter(func(c *AppConfig) *string { return &c.OutputFile })},
	{"METRICS_FILE", []string{"metrics-file"}, stringSetter(func(c *AppConfig) *string { return &c.MetricsFile })},
	{"MEMORY_LIMIT", []string{"memory-limit"}, stringSetter(func(c *AppConfig) *string { return &c.MemoryLimit })},
	{"GC", []string{"gc"}, stringSetter(func(c *AppConfig) *string { return &c.GCMode })},
	{"LOG_LEVEL", []string{"log-level"}, stringSetter(func(c *AppConfig) *string { return &c.LogLevel })},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, stringSetter(func(c *AppConfig) *string { return &c.CalibrationProfile })},

	{"VERBOSE", []string{"v", "verbose"}, boolSetter(func(c *AppConfig) *bool { return &c.Verbose })},
	{"DETAILS", []string{"d", "details"}, boolSetter(func(c *AppConfig) *bool { return &c.Details })},
	{"CALCULATE", []string{"c", "calculate"}, boolSetter(func(c *AppConfig) *bool { return &c.ShowValue })},
	{"QUIET", []string{"quiet", "q"}, boolSetter(func(c *AppConfig) *bool { return &c.Quiet })},
	{"NO_COLOR", []string{"no-color"}, boolSetter(func(c *AppConfig) *bool { return &c.NoColor })},
	{"CALIBRATE", []string{"calibrate"}, boolSetter(func(c *AppConfig) *bool { return &c.Calibrate })},
	{"ADAPTIVE_FFT", []string{"adaptive-fft"}, boolSetter(func(c *AppConfig) *bool { return &c.AdaptiveFFT })},
}

// parseBoolEnv accepts true/1/yes and false/0/no in any case and returns
// defaultVal for anything else.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies FACTCALC_ variables to every setting whose flag
// was not given explicitly.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
}
