package files

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "gradereport/internal/errors"
)

// Sink receives generated output. The write callback is invoked at most once
// and its writer is only valid for the duration of the call.
type Sink interface {
	WriteFile(path string, write func(io.Writer) error) error
}

// Manager is the file system Sink
type Manager struct {
	logger *slog.Logger
	perm   os.FileMode
}

// NewManager creates a new file manager instance
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{logger: logger, perm: 0644}
}

// WriteFile replaces path with whatever write produces. The destination
// directory is created when missing. Errors returned by write are passed
// through unchanged; file system failures come back as STORAGE errors.
func (m *Manager) WriteFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("failed to create output directory", err).
			WithContext("path", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("failed to create temporary file", err).
			WithContext("path", path)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				m.logger.Warn("Failed to remove temporary file",
					slog.String("path", tmpPath),
					slog.String("error", rmErr.Error()))
			}
		}
	}()

	counter := &countingWriter{w: tmp}
	if err := write(counter); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to sync output", err).WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to close output", err).WithContext("path", path)
	}
	if err := os.Chmod(tmpPath, m.perm); err != nil {
		return apperrors.NewStorageError("failed to set output permissions", err).WithContext("path", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to replace %s", filepath.Base(path)), err).
			WithContext("path", path)
	}
	committed = true

	m.logger.Info("Writing file",
		slog.String("path", path),
		slog.Int64("size_bytes", counter.n))

	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
