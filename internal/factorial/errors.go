package factorial

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyReduction is returned when a flat reduction is asked to
	// combine zero values. No identity is supplied to a reduction, so there
	// is no meaningful result.
	ErrEmptyReduction = errors.New("reduction of an empty sequence")

	// ErrInvalidOptions is wrapped by every Options validation failure.
	ErrInvalidOptions = errors.New("invalid options")

	// ErrRangeTooLarge is returned when a strategy must materialize one
	// value per factor and the range does not fit in memory addressing.
	ErrRangeTooLarge = errors.New("range too large to materialize")
)

// UnknownAlgorithmError is returned by the factory for an unregistered name.
type UnknownAlgorithmError struct {
	Name string
}

func (e UnknownAlgorithmError) Error() string {
	return fmt.Sprintf("unknown algorithm %q", e.Name)
}
