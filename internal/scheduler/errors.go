package scheduler

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput is returned when batch input fails basic checks.
	ErrInvalidInput = errors.New("invalid batch input")
)

// InvalidModeError reports an arrangement mode other than dense or sparse.
type InvalidModeError struct {
	Mode string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid arrangement mode %q: want %q or %q", e.Mode, Dense, Sparse)
}
