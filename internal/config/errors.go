package config

import (
	"errors"
	"strings"

	"go.uber.org/multierr"
)

// ErrInvalid matches every configuration validation failure.
var ErrInvalid = errors.New("invalid configuration")

// InvalidError lists every hard problem found in a configuration.
type InvalidError struct {
	Problems []error
}

func newInvalidError(err error) *InvalidError {
	return &InvalidError{Problems: multierr.Errors(err)}
}

func (e *InvalidError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.Error()
	}
	return ErrInvalid.Error() + ": " + strings.Join(msgs, "; ")
}

func (e *InvalidError) Is(target error) bool {
	return target == ErrInvalid
}

func (e *InvalidError) Unwrap() []error {
	return e.Problems
}
