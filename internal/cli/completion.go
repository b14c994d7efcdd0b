package cli

import (
	"fmt"
	"io"
	"strings"
)

// FlagCompletion describes one command-line flag for completion scripts.
type FlagCompletion struct {
	Name      string   // flag name without dashes
	Help      string   // description
	Values    []string // suggested values; nil for booleans and free values
	ValueName string   // value label; empty for booleans
	IsFile    bool     // value is a path
	IsAlgo    bool     // value is a strategy key
}

var flagRegistry = []FlagCompletion{
	{Name: "n", Help: "Compute n!", ValueName: "number"},
	{Name: "algo", Help: "Strategy to run", IsAlgo: true, ValueName: "algorithm"},
	{Name: "timeout", Help: "Maximum duration of the run", Values: []string{"30s", "1m", "5m", "10m", "1h"}, ValueName: "duration"},
	{Name: "workers", Help: "Worker goroutines per parallel strategy", ValueName: "count"},
	{Name: "cutoff", Help: "Range length below which fork-join stops forking", Values: []string{"64", "256", "1024", "4096"}, ValueName: "factors"},
	{Name: "fft-threshold", Help: "Operand bits above which FFT multiplication is used", Values: []string{"-1", "100000", "500000", "1000000"}, ValueName: "bits"},
	{Name: "batches", Help: "Batches of the flat reduction", ValueName: "count"},
	{Name: "adaptive-fft", Help: "Tune the FFT threshold during fork-join runs"},
	{Name: "parallel-runs", Help: "Strategies running at once when comparing", ValueName: "count"},
	{Name: "v", Help: "Print the full result"},
	{Name: "d", Help: "Print result details"},
	{Name: "c", Help: "Print the computed value"},
	{Name: "quiet", Help: "Print only the result"},
	{Name: "no-color", Help: "Disable colored output"},
	{Name: "o", Help: "Write the result to a file", IsFile: true, ValueName: "file"},
	{Name: "metrics-file", Help: "Write Prometheus metrics to a file", IsFile: true, ValueName: "file"},
	{Name: "memory-limit", Help: "Refuse runs estimated above this size", Values: []string{"512MiB", "2GiB", "8GiB"}, ValueName: "size"},
	{Name: "gc", Help: "GC control during the run", Values: []string{"auto", "aggressive", "disabled"}, ValueName: "mode"},
	{Name: "log-level", Help: "Log level", Values: []string{"debug", "info", "warn", "error", "disabled"}, ValueName: "level"},
	{Name: "calibrate", Help: "Benchmark fork-join cutoffs"},
	{Name: "calibration-profile", Help: "Calibration profile path", IsFile: true, ValueName: "file"},
	{Name: "interactive", Help: "Start an interactive session"},
	{Name: "completion", Help: "Print a shell completion script", Values: []string{"bash", "zsh", "fish"}, ValueName: "shell"},
	{Name: "version", Help: "Print version information"},
}

// GenerateCompletion writes a completion script for shell ("bash", "zsh" or
// "fish") offering algorithms as the values of -algo.
func GenerateCompletion(out io.Writer, shell string, algorithms []string) error {
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(algorithms)
	case "zsh":
		script = zshCompletion(algorithms)
	case "fish":
		script = fishCompletion(algorithms)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish)", shell)
	}
	if _, err := io.WriteString(out, script); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", shell, err)
	}
	return nil
}

func algoValues(algorithms []string) string {
	return strings.Join(append(append([]string(nil), algorithms...), "all"), " ")
}

func bashCompletion(algorithms []string) string {
	var opts []string
	var cases strings.Builder
	var files []string
	for _, f := range flagRegistry {
		opts = append(opts, "-"+f.Name)
		switch {
		case f.IsFile:
			files = append(files, "-"+f.Name)
		case f.IsAlgo:
			fmt.Fprintf(&cases, "        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Name, algoValues(algorithms))
		case len(f.Values) > 0:
			fmt.Fprintf(&cases, "        -%s)\n            COMPREPLY=( $(compgen -W \"%s\" -- \"${cur}\") )\n            return 0\n            ;;\n",
				f.Name, strings.Join(f.Values, " "))
		}
	}
	if len(files) > 0 {
		fmt.Fprintf(&cases, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
			strings.Join(files, "|"))
	}

	return fmt.Sprintf(`# Bash completion script for factcalc
# Add this to your ~/.bashrc or ~/.bash_completion

_factcalc_completions() {
    local cur prev opts
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"
    opts="%s"

    case "${prev}" in
%s    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "${opts}" -- "${cur}") )
        return 0
    fi
}

complete -F _factcalc_completions factcalc
`, strings.Join(opts, " "), cases.String())
}

func zshCompletion(algorithms []string) string {
	args := make([]string, 0, len(flagRegistry))
	for _, f := range flagRegistry {
		suffix := ""
		switch {
		case f.IsFile:
			suffix = fmt.Sprintf(":%s:_files", f.ValueName)
		case f.IsAlgo:
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, algoValues(algorithms))
		case len(f.Values) > 0:
			suffix = fmt.Sprintf(":%s:(%s)", f.ValueName, strings.Join(f.Values, " "))
		case f.ValueName != "":
			suffix = fmt.Sprintf(":%s:", f.ValueName)
		}
		args = append(args, fmt.Sprintf("        '-%s[%s]%s'", f.Name, f.Help, suffix))
	}
	return fmt.Sprintf(`#compdef factcalc

# Zsh completion script for factcalc
# Place this file in a directory of $fpath

_factcalc() {
    _arguments \
%s
}

_factcalc "$@"
`, strings.Join(args, " \\\n"))
}

func fishCompletion(algorithms []string) string {
	lines := []string{
		"# Fish completion script for factcalc",
		"# Save as ~/.config/fish/completions/factcalc.fish",
		"",
		"complete -c factcalc -f",
	}
	for _, f := range flagRegistry {
		parts := []string{"complete -c factcalc", "-o " + f.Name, fmt.Sprintf("-d '%s'", f.Help)}
		switch {
		case f.IsFile:
			parts = append(parts, "-rF")
		case f.IsAlgo:
			parts = append(parts, fmt.Sprintf("-xa '%s'", algoValues(algorithms)))
		case len(f.Values) > 0:
			parts = append(parts, fmt.Sprintf("-xa '%s'", strings.Join(f.Values, " ")))
		case f.ValueName != "":
			parts = append(parts, "-x")
		}
		lines = append(lines, strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n") + "\n"
}
