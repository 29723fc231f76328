package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salescli/internal/errors"
)

// OutputValidator checks that output directories can be written before a run
// starts producing files
type OutputValidator struct {
	logger *slog.Logger
}

// NewOutputValidator creates a new output validator
func NewOutputValidator(logger *slog.Logger) *OutputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutputValidator{logger: logger}
}

// ValidateOutputDirectory ensures the directory exists or can be created and
// accepts new files
func (v *OutputValidator) ValidateOutputDirectory(dir string) error {
	if dir == "" {
		return errors.NewValidationError(dir, "output directory not set", nil)
	}

	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return errors.NewValidationError(dir, fmt.Sprintf("%s is not a directory", dir), nil)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewValidationError(dir, fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	file, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return errors.NewValidationError(dir, fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	name := file.Name()
	file.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateOutputFile checks the directory that will hold path
func (v *OutputValidator) ValidateOutputFile(path string) error {
	if path == "" {
		return errors.NewValidationError(path, "output file not set", nil)
	}
	return v.ValidateOutputDirectory(filepath.Dir(path))
}
