package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "gradereport/internal/errors"
)

// FileValidator runs the file checks done before any prompt is shown
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{logger: logger}
}

// ValidateDataset checks that path is a readable regular file the loader can
// parse. Legacy .xls workbooks and Office lock files are rejected.
func (v *FileValidator) ValidateDataset(path string) error {
	base := filepath.Base(path)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Dataset is an Office lock file", slog.String("file", path))
		return v.unreadable(path, "is a temporary Office lock file", nil)
	}
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		v.logger.Error("Legacy Excel format not supported", slog.String("file", path))
		return v.unreadable(path, "uses the legacy .xls format; save it as .xlsx or .csv", nil)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("Dataset does not exist", slog.String("file", path))
		return v.unreadable(path, "does not exist", err)
	}
	if err != nil {
		v.logger.Error("Failed to stat dataset",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return v.unreadable(path, "cannot be inspected", err)
	}
	if info.IsDir() {
		v.logger.Error("Dataset path is a directory", slog.String("path", path))
		return v.unreadable(path, "is a directory, not a file", nil)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("Dataset is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return v.unreadable(path, "is not readable", err)
	}
	file.Close()

	v.logger.Debug("Dataset validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

func (v *FileValidator) unreadable(path, reason string, cause error) error {
	if cause != nil {
		cause = fmt.Errorf("%w: %v", apperrors.ErrDatasetUnreadable, cause)
	} else {
		cause = apperrors.ErrDatasetUnreadable
	}
	return apperrors.NewLoadError(fmt.Sprintf("dataset %s %s", path, reason), cause).
		WithContext("path", path)
}

// ValidateOutputDirectory ensures dir exists and accepts new files
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe, err := os.CreateTemp(dir, ".write_test*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}
