package model

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Every store/engine operation either succeeds with a
// consistent state transition or fails with one of these, leaving state untouched.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation")
)

// Validationf wraps ErrValidation with a caller-facing description.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
