// Package validation checks report inputs and outputs before any work starts,
// so the report CLI fails fast with a readable message.
package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrNotExist is returned for a missing extract or output parent
	ErrNotExist = errors.New("does not exist")
	// ErrNotAFile is returned when the extract path names a directory
	ErrNotAFile = errors.New("is a directory, not a file")
	// ErrNotADirectory is returned when the output path names a file
	ErrNotADirectory = errors.New("is not a directory")
	// ErrExtension is returned for extracts that are neither .csv nor .xlsx
	ErrExtension = errors.New("unsupported extract extension")
	// ErrEmptyFile is returned for zero-byte extracts
	ErrEmptyFile = errors.New("file is empty")
	// ErrTempFile is returned for Excel lock files such as ~$train.xlsx
	ErrTempFile = errors.New("temporary Excel file")
)

// ExtractExtensions lists the accepted extract file extensions
var ExtractExtensions = []string{".csv", ".xlsx"}

// FileValidator validates report inputs and outputs
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateExtract checks that path is a readable, non-empty CSV or XLSX file
func (v *FileValidator) ValidateExtract(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		return v.fail("extract", path, ErrTempFile)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !isExtractExtension(ext) {
		return v.fail("extract", path, fmt.Errorf("%w %q (want %s)", ErrExtension, ext, strings.Join(ExtractExtensions, " or ")))
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return v.fail("extract", path, ErrNotExist)
	}
	if err != nil {
		return v.fail("extract", path, err)
	}
	if info.IsDir() {
		return v.fail("extract", path, ErrNotAFile)
	}
	if info.Size() == 0 {
		return v.fail("extract", path, ErrEmptyFile)
	}

	f, err := os.Open(path)
	if err != nil {
		return v.fail("extract", path, err)
	}
	f.Close()

	v.logger.Debug("Extract validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory creates dir when missing and verifies it is writable
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		return v.fail("output directory", dir, ErrNotADirectory)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return v.fail("output directory", dir, err)
	}

	scratch, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		return v.fail("output directory", dir, fmt.Errorf("not writable: %w", err))
	}
	scratch.Close()
	os.Remove(scratch.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

func (v *FileValidator) fail(kind, path string, err error) error {
	v.logger.Error("Validation failed",
		slog.String("kind", kind),
		slog.String("path", path),
		slog.String("error", err.Error()))
	return fmt.Errorf("%s %s: %w", kind, path, err)
}

func isExtractExtension(ext string) bool {
	for _, e := range ExtractExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
