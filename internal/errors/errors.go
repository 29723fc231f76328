package errors

import (
	"errors"
	"fmt"
)

// Process exit codes for the command line tools.
const (
	ExitOK     = 0
	ExitFatal  = 1
	ExitConfig = 2
)

// ExitCode maps an error returned by a pipeline run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type == ErrTypeConfig {
		return ExitConfig
	}
	return ExitFatal
}

// UserMessage returns the single diagnostic line printed to the console when a
// run terminates early.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fmt.Sprintf("Error: %v", err)
	}

	switch appErr.Type {
	case ErrTypeNotFound:
		return fmt.Sprintf("Error: '%v' not found. Please ensure the file is in the working directory or provide the correct path.",
			contextValue(appErr, "resource"))
	case ErrTypeMissingColumn:
		return fmt.Sprintf("Error: %v column not found.", contextValue(appErr, "column"))
	case ErrTypeDecoding:
		return fmt.Sprintf("Error: could not decode '%v' with any of %v.",
			contextValue(appErr, "file"), contextValue(appErr, "encodings"))
	case ErrTypeConfig:
		return fmt.Sprintf("Error: invalid configuration: %s", causeOrMessage(appErr))
	default:
		return fmt.Sprintf("Error: %s", causeOrMessage(appErr))
	}
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

func contextValue(e *AppError, key string) interface{} {
	if v, ok := e.Context[key]; ok {
		return v
	}
	return ""
}

func causeOrMessage(e *AppError) string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}
