package app

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"gradereport/internal/config"
	"gradereport/internal/dataset"
	apperrors "gradereport/internal/errors"
	"gradereport/internal/files"
	"gradereport/internal/histogram"
	"gradereport/internal/infrastructure"
	"gradereport/internal/report"
	shared "gradereport/internal/shared/testutil"
	"gradereport/internal/stats"
)

const (
	outputPath    = "/reports/output.html"
	histogramPath = "/reports/bar-chart.png"
)

type mockExporter struct {
	mock.Mock
}

func (m *mockExporter) Export(ctx context.Context, sink files.Sink, path string, h stats.Histogram) error {
	args := m.Called(ctx, sink, path, h)
	return args.Error(0)
}

type ServiceSuite struct {
	suite.Suite

	table   *dataset.Table
	sink    *shared.MemorySink
	spans   *tracetest.InMemoryExporter
	metrics *infrastructure.Metrics
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.table = &dataset.Table{Records: []dataset.Record{
		{StudentID: 1, CourseID: 101, Marks: 80},
		{StudentID: 1001, CourseID: 2001, Marks: 56},
		{StudentID: 1002, CourseID: 2001, Marks: 78},
		{StudentID: 1001, CourseID: 2002, Marks: 91},
		{StudentID: 1003, CourseID: 2001, Marks: 96},
	}}
	s.sink = shared.NewMemorySink()
	s.spans = tracetest.NewInMemoryExporter()
	s.metrics = infrastructure.NewMetrics()
	s.service = s.newService(s.sink, histogram.NewExporter(config.ChartConfig{Width: 320, Height: 200}, nil))
}

func (s *ServiceSuite) newService(sink files.Sink, exporter ChartExporter) *Service {
	logger, _ := shared.NewTestLogger(s.T())
	svc, err := NewService(ServiceOptions{
		Table:    s.table,
		Sink:     sink,
		Exporter: exporter,
		Paths: &config.Paths{
			BaseDir:   "/reports",
			Dataset:   "/reports/data.csv",
			Output:    outputPath,
			Histogram: histogramPath,
		},
		Logger:  logger,
		Tracing: infrastructure.NewTracing(s.spans, nil),
		Metrics: s.metrics,
	})
	s.Require().NoError(err)
	return svc
}

func (s *ServiceSuite) output() string {
	content, ok := s.sink.Get(outputPath)
	s.Require().True(ok, "output not written")
	return string(content)
}

func (s *ServiceSuite) TestDecide_Student() {
	d := s.service.Decide(Request{Mode: "s", Key: "1001"})

	s.Require().NoError(d.Err)
	s.Nil(d.Histogram)
	s.Equal(report.StudentView{
		Rows: []report.RecordRow{
			{StudentID: "1001", CourseID: "2001", Marks: "56"},
			{StudentID: "1001", CourseID: "2002", Marks: "91"},
		},
		Total: "147",
	}, d.View)
}

func (s *ServiceSuite) TestDecide_Course() {
	d := s.service.Decide(Request{Mode: "c", Key: " 2001 "})

	s.Require().NoError(d.Err)
	s.Equal(report.CourseView{
		Average:  "76.66666666666667",
		Maximum:  "96",
		ChartSrc: "./bar-chart.png",
	}, d.View)
	s.Require().NotNil(d.Histogram)
	s.Equal([]stats.Bin{{Value: 56, Count: 1}, {Value: 78, Count: 1}, {Value: 96, Count: 1}}, d.Histogram.Bins)
	s.Equal(50.0, d.Histogram.XMin)
}

func (s *ServiceSuite) TestDecide_ErrorPage() {
	tests := []struct {
		name     string
		req      Request
		sentinel error
		errType  apperrors.ErrorType
	}{
		{name: "unknown mode", req: Request{Mode: "x", Key: "1"}, sentinel: apperrors.ErrInvalidMode, errType: apperrors.ErrTypeInput},
		{name: "empty mode", req: Request{Mode: "", Key: "1"}, sentinel: apperrors.ErrInvalidMode, errType: apperrors.ErrTypeInput},
		{name: "upper case mode", req: Request{Mode: "S", Key: "1"}, sentinel: apperrors.ErrInvalidMode, errType: apperrors.ErrTypeInput},
		{name: "non integer student id", req: Request{Mode: "s", Key: "abc"}, sentinel: apperrors.ErrInvalidID, errType: apperrors.ErrTypeInput},
		{name: "empty course id", req: Request{Mode: "c", Key: ""}, sentinel: apperrors.ErrInvalidID, errType: apperrors.ErrTypeInput},
		{name: "absent student", req: Request{Mode: "s", Key: "999"}, sentinel: apperrors.ErrEmptySelection, errType: apperrors.ErrTypeNotFound},
		{name: "absent course", req: Request{Mode: "c", Key: "999"}, sentinel: apperrors.ErrEmptySelection, errType: apperrors.ErrTypeNotFound},
		{name: "student id used as course", req: Request{Mode: "c", Key: "1001"}, sentinel: apperrors.ErrEmptySelection, errType: apperrors.ErrTypeNotFound},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			d := s.service.Decide(tt.req)

			s.Equal(report.KindError, d.Kind())
			s.Nil(d.Histogram)
			s.ErrorIs(d.Err, tt.sentinel)
			s.Equal(tt.errType, apperrors.TypeOf(d.Err))
		})
	}
}

func (s *ServiceSuite) TestRun_StudentScenario() {
	outcome, err := s.service.Run(context.Background(), Request{Mode: "s", Key: "1"})

	s.Require().NoError(err)
	s.Equal(report.KindStudent, outcome.Kind)
	s.Equal(0, outcome.ExitCode())
	s.Equal([]string{outputPath}, outcome.Written)
	s.Equal([]string{outputPath}, s.sink.Paths())

	html := s.output()
	s.Contains(html, "<td>1</td>\n            <td>101</td>\n            <td>80</td>")
	s.Contains(html, "<td><b>80</b></td>")
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Reports.WithLabelValues("student")))
}

func (s *ServiceSuite) TestRun_CourseWritesHistogramBeforePage() {
	outcome, err := s.service.Run(context.Background(), Request{Mode: "c", Key: "101"})

	s.Require().NoError(err)
	s.Equal(report.KindCourse, outcome.Kind)
	s.Equal([]string{histogramPath, outputPath}, s.sink.Order())
	s.Equal(outcome.Written, s.sink.Order())

	img, ok := s.sink.Get(histogramPath)
	s.Require().True(ok)
	_, err = png.Decode(bytes.NewReader(img))
	s.NoError(err)

	html := s.output()
	s.Contains(html, "<td>80.0</td>\n            <td>80</td>")
	s.Contains(html, `<img src="./bar-chart.png" height="250">`)
}

func (s *ServiceSuite) TestRun_ErrorPageWritesNoHistogram() {
	for _, req := range []Request{{Mode: "c", Key: "999"}, {Mode: "x"}, {Mode: "c", Key: "1.5"}} {
		s.sink = shared.NewMemorySink()
		s.service = s.newService(s.sink, histogram.NewExporter(config.ChartConfig{}, nil))

		outcome, err := s.service.Run(context.Background(), req)

		s.Require().NoError(err)
		s.Equal(report.KindError, outcome.Kind)
		s.Equal(2, outcome.ExitCode())
		s.Error(outcome.Reason)
		s.Equal([]string{outputPath}, s.sink.Paths())
		s.Contains(s.output(), "<h1>Wrong Inputs</h1>")
	}
	s.Equal(3.0, testutil.ToFloat64(s.metrics.Reports.WithLabelValues("error")))
}

func (s *ServiceSuite) TestRun_Idempotent() {
	req := Request{Mode: "s", Key: "1001"}

	_, err := s.service.Run(context.Background(), req)
	s.Require().NoError(err)
	first := s.output()

	_, err = s.service.Run(context.Background(), req)
	s.Require().NoError(err)
	s.Equal(first, s.output())
}

func (s *ServiceSuite) TestRun_ExportFailureIsFatal() {
	exporter := new(mockExporter)
	failure := apperrors.NewStorageError("disk full", errors.New("ENOSPC"))
	exporter.On("Export", mock.Anything, mock.Anything, histogramPath, mock.AnythingOfType("stats.Histogram")).Return(failure)
	s.service = s.newService(s.sink, exporter)

	_, err := s.service.Run(context.Background(), Request{Mode: "c", Key: "2001"})

	s.ErrorIs(err, failure)
	s.Empty(s.sink.Paths(), "page must not be written after a failed export")
	exporter.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestRun_WriteFailureIsFatal() {
	sink := new(shared.MockSink)
	failure := apperrors.NewStorageError("read-only file system", errors.New("EROFS"))
	sink.On("WriteFile", outputPath, mock.Anything).Return(failure)
	s.service = s.newService(sink, histogram.NewExporter(config.ChartConfig{}, nil))

	_, err := s.service.Run(context.Background(), Request{Mode: "s", Key: "1"})

	s.ErrorIs(err, failure)
	s.True(apperrors.IsType(err, apperrors.ErrTypeStorage))
	sink.AssertExpectations(s.T())
}

func (s *ServiceSuite) TestRun_Spans() {
	_, err := s.service.Run(context.Background(), Request{Mode: "c", Key: "2001"})
	s.Require().NoError(err)

	var names []string
	for _, span := range s.spans.GetSpans() {
		names = append(names, span.Name)
	}
	s.Equal([]string{"report.decide", "histogram.export", "report.write"}, names)
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	paths := &config.Paths{Output: outputPath, Histogram: histogramPath}
	table := &dataset.Table{}
	sink := shared.NewMemorySink()
	exporter := histogram.NewExporter(config.ChartConfig{}, nil)

	tests := []struct {
		name string
		opts ServiceOptions
	}{
		{name: "missing table", opts: ServiceOptions{Sink: sink, Exporter: exporter, Paths: paths}},
		{name: "missing sink", opts: ServiceOptions{Table: table, Exporter: exporter, Paths: paths}},
		{name: "missing exporter", opts: ServiceOptions{Table: table, Sink: sink, Paths: paths}},
		{name: "missing paths", opts: ServiceOptions{Table: table, Sink: sink, Exporter: exporter}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.opts)
			assert.Error(t, err)
		})
	}

	svc, err := NewService(ServiceOptions{Table: table, Sink: sink, Exporter: exporter, Paths: paths})
	require.NoError(t, err)
	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.tracing)
	assert.NotNil(t, svc.metrics)
}

func TestOutcome_ExitCode(t *testing.T) {
	assert.Equal(t, 0, Outcome{Kind: report.KindStudent}.ExitCode())
	assert.Equal(t, 0, Outcome{Kind: report.KindCourse}.ExitCode())
	assert.Equal(t, 2, Outcome{Kind: report.KindError}.ExitCode())
}

