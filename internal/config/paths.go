package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Paths holds the absolute locations used by one run.
// Relative entries in PathsConfig are resolved against the base directory,
// which is the working directory for the CLI.
type Paths struct {
	BaseDir   string
	Dataset   string
	Output    string
	Histogram string
}

// ResolvePaths turns the configured paths into absolute ones
func ResolvePaths(cfg PathsConfig, baseDir string) (*Paths, error) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		baseDir = wd
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(baseDir, p)
	}

	return &Paths{
		BaseDir:   baseDir,
		Dataset:   resolve(cfg.Dataset),
		Output:    resolve(cfg.Output),
		Histogram: resolve(cfg.Histogram),
	}, nil
}

// HistogramRef returns the histogram location as the course report refers to
// it: relative to the directory holding the HTML output, "./"-prefixed when it
// sits beside or below it. Locations with no relative form, such as another
// Windows volume, become file URLs.
func (p *Paths) HistogramRef() string {
	rel, err := filepath.Rel(filepath.Dir(p.Output), p.Histogram)
	if err != nil {
		return fileURL(p.Histogram)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return rel
	}
	return "./" + rel
}

// fileURL returns path as an absolute file URL, so C:\charts\a.png becomes
// file:///C:/charts/a.png.
func fileURL(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return (&url.URL{Scheme: "file", Path: slashed}).String()
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Path resolution summary",
		slog.String("base_dir", p.BaseDir),
		slog.Group("files",
			slog.String("dataset", p.Dataset),
			slog.Bool("dataset_exists", FileExists(p.Dataset)),
			slog.String("output", p.Output),
			slog.String("histogram", p.Histogram),
			slog.String("histogram_ref", p.HistogramRef()),
		))
}
