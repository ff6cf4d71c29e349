package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is wrapped by every ConfigurationError.
	ErrConfiguration = errors.New("configuration error")

	// ErrNoData means no input file produced a usable student row.
	ErrNoData = errors.New("no valid student rows in any input file")
)

// ConfigurationError is a run-fatal problem with the run parameters.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }
