package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Concrete errors below wrap one of them so callers can match
// either the kind or the exact cause with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrInvalidTitle      = fmt.Errorf("%w: invalid title", ErrValidation)
	ErrInvalidURL        = fmt.Errorf("%w: invalid url", ErrValidation)
	ErrInvalidOrder      = fmt.Errorf("%w: invalid order", ErrValidation)
	ErrInvalidStyle      = fmt.Errorf("%w: invalid presentation", ErrValidation)
	ErrEmptyPatch        = fmt.Errorf("%w: nothing to update", ErrValidation)
	ErrInvalidRange      = fmt.Errorf("%w: invalid range", ErrValidation)
	ErrShortCodeConflict = fmt.Errorf("%w: short code already exists", ErrConflict)
)
