package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the escape codes used when printing errors. A nil
// ColorProvider prints without color.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColors struct{}

func (noColors) Red() string    { return "" }
func (noColors) Yellow() string { return "" }
func (noColors) Reset() string  { return "" }

// HandleCalculationError prints a user-facing description of err to out and
// returns the matching exit code. duration is the time spent before the
// failure and is shown when non-zero. A nil err prints nothing.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColors{}
	}
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}

	code := ExitCode(err)
	var memErr MemoryError
	switch {
	case errors.As(err, &memErr):
		fmt.Fprintf(out, "%sMemory budget exceeded: %v%s\n", colors.Red(), err, colors.Reset())
	case code == ExitErrorTimeout:
		fmt.Fprintf(out, "%sStatus: Failure (Timeout). The calculation did not finish in time%s.%s\n",
			colors.Red(), suffix, colors.Reset())
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), suffix, colors.Reset())
	case code == ExitErrorMismatch:
		fmt.Fprintf(out, "%sStatus: CRITICAL ERROR. %v%s\n", colors.Red(), err, colors.Reset())
	case code == ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error: %v%s\n", colors.Red(), err, colors.Reset())
	default:
		fmt.Fprintf(out, "%sStatus: Failure%s. %v%s\n", colors.Red(), suffix, err, colors.Reset())
	}
	return code
}
