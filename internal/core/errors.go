package core

import (
	"errors"
	"fmt"
)

// ValidationError signals a caller-input problem: an unparsable date, a
// non-finite amount, an unknown enum value. It is never produced by
// collaborator I/O failures, which pass through wrapped.
type ValidationError struct {
	Context string // what was being parsed or checked, e.g. "snapshot date"
	Message string
}

func (e *ValidationError) Error() string {
	if e.Context == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Context, e.Message)
}

func newValidationError(context, format string, args ...any) *ValidationError {
	return &ValidationError{Context: context, Message: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err (or anything it wraps) is a
// ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
