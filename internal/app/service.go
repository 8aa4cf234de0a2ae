package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"gradereport/internal/config"
	"gradereport/internal/dataset"
	apperrors "gradereport/internal/errors"
	"gradereport/internal/files"
	"gradereport/internal/infrastructure"
	"gradereport/internal/report"
	"gradereport/internal/stats"
)

const (
	ModeStudent = "s"
	ModeCourse  = "c"
)

var requestValidator = validator.New()

// Request is one operator query: a mode letter and the raw id text
type Request struct {
	Mode string `validate:"required,oneof=s c"`
	Key  string
}

// Decision is what a request resolves to before anything is written
type Decision struct {
	View report.View
	// Histogram is set for course reports only
	Histogram *stats.Histogram
	// Err explains why the error page was chosen
	Err error
}

// Kind returns the page kind the decision renders
func (d Decision) Kind() report.Kind {
	return d.View.Kind()
}

// Outcome describes a completed run
type Outcome struct {
	Kind    report.Kind
	Output  string
	Written []string
	Reason  error
}

// ExitCode maps the outcome to the process exit status
func (o Outcome) ExitCode() int {
	if o.Kind == report.KindError {
		return 2
	}
	return 0
}

// ChartExporter publishes a histogram image through a sink
type ChartExporter interface {
	Export(ctx context.Context, sink files.Sink, path string, h stats.Histogram) error
}

// ServiceOptions carries the collaborators of a Service. Logger, Tracing and
// Metrics default to slog.Default(), a no-op tracer and a fresh registry.
type ServiceOptions struct {
	Table    *dataset.Table
	Sink     files.Sink
	Exporter ChartExporter
	Paths    *config.Paths
	Logger   *slog.Logger
	Tracing  *infrastructure.Tracing
	Metrics  *infrastructure.Metrics
}

// Service answers report requests against one loaded dataset
type Service struct {
	table    *dataset.Table
	sink     files.Sink
	exporter ChartExporter
	paths    *config.Paths
	logger   *slog.Logger
	tracing  *infrastructure.Tracing
	metrics  *infrastructure.Metrics
}

// NewService creates a report service
func NewService(opts ServiceOptions) (*Service, error) {
	if opts.Table == nil {
		return nil, fmt.Errorf("dataset table is required")
	}
	if opts.Sink == nil || opts.Exporter == nil {
		return nil, fmt.Errorf("sink and exporter are required")
	}
	if opts.Paths == nil {
		return nil, fmt.Errorf("paths are required")
	}

	s := &Service{
		table:    opts.Table,
		sink:     opts.Sink,
		exporter: opts.Exporter,
		paths:    opts.Paths,
		logger:   opts.Logger,
		tracing:  opts.Tracing,
		metrics:  opts.Metrics,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracing == nil {
		s.tracing, _ = infrastructure.InitializeTracing(config.TracingConfig{}, s.logger)
	}
	if s.metrics == nil {
		s.metrics = infrastructure.NewMetrics()
	}
	return s, nil
}

// Decide resolves req against the dataset without side effects. Invalid
// modes, unparseable ids and empty selections all yield the error page.
func (s *Service) Decide(req Request) Decision {
	req.Mode = strings.TrimSpace(req.Mode)
	if err := requestValidator.Struct(req); err != nil {
		return errorDecision(apperrors.NewInputError(
			fmt.Sprintf("option %q is not recognized", req.Mode), apperrors.ErrInvalidMode))
	}

	id, err := dataset.ParseID(req.Key)
	if err != nil {
		return errorDecision(err)
	}

	if req.Mode == ModeStudent {
		return s.decideStudent(id)
	}
	return s.decideCourse(id)
}

func (s *Service) decideStudent(id int) Decision {
	records := dataset.SelectByStudent(s.table, id)
	if len(records) == 0 {
		return errorDecision(apperrors.NewNotFoundError(fmt.Sprintf("student %d", id)))
	}

	total, err := stats.Total(records)
	if err != nil {
		return errorDecision(err)
	}
	return Decision{View: report.NewStudentView(records, total, s.table.FloatMarks)}
}

func (s *Service) decideCourse(id int) Decision {
	records := dataset.SelectByCourse(s.table, id)
	if len(records) == 0 {
		return errorDecision(apperrors.NewNotFoundError(fmt.Sprintf("course %d", id)))
	}

	summary, err := stats.Summarize(records)
	if err != nil {
		return errorDecision(err)
	}
	hist, err := stats.BuildHistogram(records)
	if err != nil {
		return errorDecision(err)
	}

	return Decision{
		View:      report.NewCourseView(summary, s.table.FloatMarks, s.paths.HistogramRef()),
		Histogram: &hist,
	}
}

func errorDecision(err error) Decision {
	return Decision{View: report.ErrorView{}, Err: err}
}

// Run decides req and writes its outputs: the histogram first for course
// reports, then the HTML page. The error page never writes a histogram.
// A returned error is fatal; recoverable problems surface as an error-page
// Outcome instead.
func (s *Service) Run(ctx context.Context, req Request) (Outcome, error) {
	ctx = infrastructure.EnsureTraceID(ctx)

	_, span := s.tracing.Start(ctx, "report.decide",
		attribute.String("mode", strings.TrimSpace(req.Mode)))
	decision := s.Decide(req)
	span.SetAttributes(attribute.String("kind", string(decision.Kind())))
	if decision.Err != nil {
		span.SetAttributes(attribute.String("reason", decision.Err.Error()))
	}
	span.End()

	outcome := Outcome{Kind: decision.Kind(), Output: s.paths.Output, Reason: decision.Err}

	if decision.Err != nil {
		s.logger.WarnContext(ctx, "Request rejected, writing error page",
			slog.String("mode", req.Mode),
			slog.String("key", req.Key),
			slog.String("error_type", string(apperrors.TypeOf(decision.Err))),
			slog.String("error", decision.Err.Error()))
	}

	if decision.Histogram != nil {
		if err := s.exportHistogram(ctx, *decision.Histogram); err != nil {
			return outcome, err
		}
		outcome.Written = append(outcome.Written, s.paths.Histogram)
	}

	if err := s.writePage(ctx, decision.View); err != nil {
		return outcome, err
	}
	outcome.Written = append(outcome.Written, s.paths.Output)

	s.metrics.ObserveReport(string(outcome.Kind))
	s.logger.InfoContext(ctx, "Report written",
		slog.String("kind", string(outcome.Kind)),
		slog.String("output", s.paths.Output),
		slog.Int("files", len(outcome.Written)))

	return outcome, nil
}

func (s *Service) exportHistogram(ctx context.Context, h stats.Histogram) error {
	ctx, span := s.tracing.Start(ctx, "histogram.export",
		attribute.String("path", s.paths.Histogram),
		attribute.Int("bins", len(h.Bins)))
	defer span.End()

	if err := s.exporter.Export(ctx, s.sink, s.paths.Histogram, h); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "histogram export failed")
		return err
	}
	return nil
}

func (s *Service) writePage(ctx context.Context, view report.View) error {
	_, span := s.tracing.Start(ctx, "report.write",
		attribute.String("path", s.paths.Output),
		attribute.String("kind", string(view.Kind())))
	defer span.End()

	err := s.sink.WriteFile(s.paths.Output, func(w io.Writer) error {
		return report.Render(w, view)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "report write failed")
		s.logger.ErrorContext(ctx, "Failed to write report",
			slog.String("path", s.paths.Output),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
