package operations

import (
	"errors"
	"fmt"
)

// SkipError tells the manager a step had nothing to do
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "skipped: " + e.Reason
}

// Skip returns a SkipError with the given reason
func Skip(reason string) error {
	return &SkipError{Reason: reason}
}

// IsSkip reports whether err is a SkipError
func IsSkip(err error) bool {
	var skip *SkipError
	return errors.As(err, &skip)
}

// OperationError wraps the error that stopped a run with the failing step
type OperationError struct {
	Step  string
	Cause error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	return fmt.Sprintf("step %s: %v", e.Step, e.Cause)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	return e.Cause
}
