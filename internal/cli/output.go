package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/factcalc/internal/ui"
)

// OutputConfig controls how a single result is emitted.
type OutputConfig struct {
	// OutputFile receives the full result when non-empty.
	OutputFile string
	// Quiet prints only the value.
	Quiet bool
	// Verbose disables truncation.
	Verbose bool
	// ShowValue prints the value in normal mode.
	ShowValue bool
	// Details adds the result analysis in normal mode.
	Details bool
}

// WriteResultToFile writes a calculation result to config.OutputFile with a
// commented header, creating parent directories as needed. It does nothing
// when no file is configured.
//
// Parameters:
//   - result: The computed factorial.
//   - n: The input whose factorial was computed.
//   - duration: The calculation duration.
//   - algo: The strategy name used.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if the directory or file cannot be written.
func WriteResultToFile(result *big.Int, n uint64, duration time.Duration, algo string, config OutputConfig) (err error) {
	if config.OutputFile == "" {
		return nil
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	digits := result.String()
	fmt.Fprintf(file, "# Factorial Calculation Result\n")
	fmt.Fprintf(file, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(file, "# Algorithm: %s\n", algo)
	fmt.Fprintf(file, "# Duration: %s\n", duration)
	fmt.Fprintf(file, "# N: %d\n", n)
	fmt.Fprintf(file, "# Bits: %d\n", result.BitLen())
	fmt.Fprintf(file, "# Digits: %d\n", len(digits))
	fmt.Fprintf(file, "\n")
	if _, err := fmt.Fprintf(file, "%d! =\n%s\n", n, digits); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// FormatQuietResult formats a result for quiet mode output.
// Returns the bare decimal value, suitable for scripting.
//
// Parameters:
//   - result: The computed factorial.
//   - n: The input.
//   - duration: The calculation duration.
//
// Returns:
//   - string: The formatted result string.
func FormatQuietResult(result *big.Int, n uint64, duration time.Duration) string {
	return result.String()
}

// DisplayQuietResult outputs a result in quiet mode, on its own line.
//
// Parameters:
//   - out: The output writer.
//   - result: The computed factorial.
//   - n: The input.
//   - duration: The calculation duration.
func DisplayQuietResult(out io.Writer, result *big.Int, n uint64, duration time.Duration) {
	fmt.Fprintln(out, FormatQuietResult(result, n, duration))
}

// DisplayResultWithConfig displays a result with the given output
// configuration and saves it to config.OutputFile when set.
//
// Parameters:
//   - out: The output writer.
//   - result: The computed factorial.
//   - n: The input.
//   - duration: The calculation duration.
//   - algo: The strategy name.
//   - config: Output configuration.
//
// Returns:
//   - error: An error if file output fails.
func DisplayResultWithConfig(out io.Writer, result *big.Int, n uint64, duration time.Duration, algo string, config OutputConfig) error {
	if config.Quiet {
		DisplayQuietResult(out, result, n, duration)
	} else {
		DisplayResult(result, n, duration, config.Verbose, config.Details, config.ShowValue, out)
	}

	if config.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(result, n, duration, algo, config); err != nil {
		return err
	}
	if !config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
	}
	return nil
}
