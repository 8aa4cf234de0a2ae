package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gradereport/internal/config"
	"gradereport/internal/dataset"
	apperrors "gradereport/internal/errors"
	"gradereport/internal/files"
	"gradereport/internal/histogram"
	"gradereport/internal/infrastructure"
	"gradereport/internal/validation"
)

const (
	VERSION = "1.0.0"
	AppName = "gradereport"
)

// Options selects the configuration of an Application. Non-empty path
// fields override the loaded configuration.
type Options struct {
	ConfigPath string
	BaseDir    string
	Dataset    string
	Output     string
	Histogram  string
}

// Application represents the main application container
type Application struct {
	Config  *config.Config
	Paths   *config.Paths
	Logger  *slog.Logger
	Tracing *infrastructure.Tracing
	Metrics *infrastructure.Metrics
	Table   *dataset.Table
	Service *Service

	started time.Time
	checks  *validation.FileValidator
}

// NewApplication loads configuration, sets up logging and observability and
// reads the dataset. Any error is fatal for the run.
func NewApplication(ctx context.Context, opts Options) (*Application, error) {
	started := time.Now()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.NewConfigError("invalid configuration", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize logger", err)
	}
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", VERSION))

	paths, err := config.ResolvePaths(cfg.Paths, opts.BaseDir)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to resolve paths", err)
	}
	paths.LogPathResolution(logger)

	validator := validation.NewFileValidator(logger)
	for _, dir := range []string{filepath.Dir(paths.Output), filepath.Dir(paths.Histogram)} {
		if err := validator.ValidateOutputDirectory(dir); err != nil {
			return nil, err
		}
	}

	tracing, err := infrastructure.InitializeTracing(cfg.Tracing, logger)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to initialize tracing", err)
	}

	a := &Application{
		Config:  cfg,
		Paths:   paths,
		Logger:  logger,
		Tracing: tracing,
		Metrics: infrastructure.NewMetrics(),
		started: started,
		checks:  validator,
	}

	table, err := a.loadDataset(ctx)
	if err != nil {
		_ = tracing.Shutdown(ctx)
		return nil, err
	}
	a.Table = table

	a.Service, err = NewService(ServiceOptions{
		Table:    table,
		Sink:     files.NewManager(logger),
		Exporter: histogram.NewExporter(cfg.Chart, logger),
		Paths:    paths,
		Logger:   logger,
		Tracing:  tracing,
		Metrics:  a.Metrics,
	})
	if err != nil {
		_ = tracing.Shutdown(ctx)
		return nil, err
	}

	return a, nil
}

func applyOverrides(cfg *config.Config, opts Options) {
	if opts.Dataset != "" {
		cfg.Paths.Dataset = opts.Dataset
	}
	if opts.Output != "" {
		cfg.Paths.Output = opts.Output
	}
	if opts.Histogram != "" {
		cfg.Paths.Histogram = opts.Histogram
	}
}

func (a *Application) loadDataset(ctx context.Context) (*dataset.Table, error) {
	_, span := a.Tracing.Start(ctx, "dataset.load", attribute.String("path", a.Paths.Dataset))
	defer span.End()

	table, err := a.readDataset()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset load failed")
		a.Logger.ErrorContext(ctx, "Failed to load dataset",
			slog.String("path", a.Paths.Dataset),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(attribute.Int("records", table.Len()))
	a.Metrics.RecordsLoaded.Set(float64(table.Len()))
	a.Logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", a.Paths.Dataset),
		slog.Int("records", table.Len()))

	return table, nil
}

func (a *Application) readDataset() (*dataset.Table, error) {
	if err := a.checks.ValidateDataset(a.Paths.Dataset); err != nil {
		return nil, err
	}
	return dataset.Load(a.Paths.Dataset)
}

// Run answers one request
func (a *Application) Run(ctx context.Context, req Request) (Outcome, error) {
	return a.Service.Run(ctx, req)
}

// Close records run metrics, writes the metrics textfile when configured and
// flushes traces. All steps run even if one fails.
func (a *Application) Close(ctx context.Context) error {
	a.Metrics.ObserveRun(a.started, time.Now())

	var errs []error
	if path := a.Config.Metrics.Textfile; path != "" {
		if err := a.Metrics.WriteTextfile(path); err != nil {
			errs = append(errs, err)
		} else {
			a.Logger.DebugContext(ctx, "Metrics textfile written", slog.String("path", path))
		}
	}
	if err := a.Tracing.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down tracing: %w", err))
	}

	a.Logger.InfoContext(ctx, "Application stopped",
		slog.Duration("elapsed", time.Since(a.started)))
	return errors.Join(errs...)
}
