package apperrors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Process exit codes.
const (
	ExitSuccess       = 0   // Successful execution.
	ExitErrorGeneric  = 1   // Any other failure.
	ExitErrorTimeout  = 2   // The run exceeded its timeout.
	ExitErrorMismatch = 3   // Strategies disagreed on the result.
	ExitErrorConfig   = 4   // Invalid flags, environment or memory budget.
	ExitErrorCanceled = 130 // Interrupted by SIGINT or SIGTERM.
)

// ConfigError is an invalid user configuration.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError returns a ConfigError with a formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps a failure raised by a strategy.
type CalculationError struct {
	// Algorithm is the strategy that failed, if known.
	Algorithm string
	Cause     error
}

func (e CalculationError) Error() string {
	if e.Algorithm == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Algorithm, e.Cause)
}

func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports that an operation exceeded its time limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// Unwrap lets errors.Is(err, context.DeadlineExceeded) match a TimeoutError.
func (e TimeoutError) Unwrap() error { return context.DeadlineExceeded }

// ValidationError is an input that failed a validation rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// MemoryError reports that the estimated memory of a run exceeds the
// configured budget.
type MemoryError struct {
	Requested uint64
	Available uint64
	Limit     uint64
}

func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// MismatchError reports that successful strategies returned different
// values for the same input.
type MismatchError struct {
	N          uint64
	Algorithms []string
}

func (e MismatchError) Error() string {
	return fmt.Sprintf("results for n=%d disagree between %s", e.N, strings.Join(e.Algorithms, ", "))
}

// WrapError annotates err with a formatted message. It returns nil for a nil
// err.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsContextError reports whether err is a cancellation or deadline error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfgErr      ConfigError
		validErr    ValidationError
		memErr      MemoryError
		mismatchErr MismatchError
	)
	switch {
	case errors.As(err, &mismatchErr):
		return ExitErrorMismatch
	case errors.As(err, &cfgErr), errors.As(err, &validErr), errors.As(err, &memErr):
		return ExitErrorConfig
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
