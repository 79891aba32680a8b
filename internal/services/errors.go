package services

import (
	"errors"
	"strings"
)

// ErrValidationFailed matches every *ValidationFailedError
var ErrValidationFailed = errors.New("validation failed")

// ValidationFailedError carries every problem found in document input
type ValidationFailedError struct {
	Errors []string
}

func (e *ValidationFailedError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func (e *ValidationFailedError) Is(target error) bool {
	return target == ErrValidationFailed
}

func validationFailed(errs ...string) error {
	return &ValidationFailedError{Errors: errs}
}

// ValidationErrors returns the collected messages of a validation failure,
// or nil for any other error
func ValidationErrors(err error) []string {
	var vf *ValidationFailedError
	if errors.As(err, &vf) {
		return vf.Errors
	}
	return nil
}
