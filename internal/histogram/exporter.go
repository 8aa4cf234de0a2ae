package histogram

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gradereport/internal/config"
	apperrors "gradereport/internal/errors"
	"gradereport/internal/files"
	"gradereport/internal/stats"
)

const (
	xAxisName = "Marks"
	yAxisName = "Frequency"

	// maxYTicks bounds the number of frequency labels on tall charts
	maxYTicks = 10
	// maxXTicks bounds the number of marks labels on wide domains
	maxXTicks = 21
)

var (
	barColor  = drawing.ColorFromHex("4c72b0")
	gridColor = drawing.ColorFromHex("b0b0b0")
)

// Exporter draws course histograms as PNG images
type Exporter struct {
	width  int
	height int
	logger *slog.Logger
}

// NewExporter creates an exporter sized by cfg. A nil logger uses slog.Default().
func NewExporter(cfg config.ChartConfig, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{width: cfg.Width, height: cfg.Height, logger: logger}
}

// Render encodes h as a PNG bar chart into w
func (e *Exporter) Render(w io.Writer, h stats.Histogram) error {
	if len(h.Bins) == 0 {
		return apperrors.NewRenderError("histogram has no bins", apperrors.ErrEmptySelection)
	}

	yTicks, yMax := frequencyTicks(h.MaxCount())

	gridLines := make([]chart.GridLine, 0, len(yTicks))
	for _, t := range yTicks[1:] {
		gridLines = append(gridLines, chart.GridLine{Value: t.Value})
	}

	graph := chart.Chart{
		Width:  e.width,
		Height: e.height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  xAxisName,
			Range: &chart.ContinuousRange{Min: h.XMin, Max: h.XMax},
			Ticks: marksTicks(h.XMin, h.XMax),
		},
		YAxis: chart.YAxis{
			Name:      yAxisName,
			Range:     &chart.ContinuousRange{Min: 0, Max: yMax},
			Ticks:     yTicks,
			GridLines: gridLines,
			GridMajorStyle: chart.Style{
				StrokeColor:     gridColor,
				StrokeWidth:     1,
				StrokeDashArray: []float64{4, 4},
			},
		},
		Series: []chart.Series{
			barSeries{
				Name: "marks",
				Bins: h.Bins,
				Style: chart.Style{
					FillColor:   barColor,
					StrokeColor: barColor,
					StrokeWidth: 1,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return apperrors.NewRenderError("failed to render histogram", err).
			WithContext("bins", len(h.Bins))
	}
	return nil
}

// Export renders h and publishes it at path through sink
func (e *Exporter) Export(ctx context.Context, sink files.Sink, path string, h stats.Histogram) error {
	visible := len(h.Visible())
	err := sink.WriteFile(path, func(w io.Writer) error {
		return e.Render(w, h)
	})
	if err != nil {
		e.logger.ErrorContext(ctx, "Histogram export failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return err
	}

	e.logger.InfoContext(ctx, "Histogram exported",
		slog.String("path", path),
		slog.Int("bins", len(h.Bins)),
		slog.Int("visible_bins", visible),
		slog.Float64("x_min", h.XMin),
		slog.Float64("x_max", h.XMax))
	return nil
}

// marksTicks labels the x axis from lo to hi every stats.HistogramStep. Wide
// domains widen the step to a multiple of it so at most maxXTicks remain.
func marksTicks(lo, hi float64) []chart.Tick {
	span := hi - lo
	if math.IsNaN(span) || math.IsInf(span, 0) || span < 0 {
		return nil
	}

	step := stats.HistogramStep
	if span/step+1 > maxXTicks {
		step = stats.HistogramStep * math.Ceil(span/stats.HistogramStep/(maxXTicks-1))
	}

	n := int(math.Floor(span/step+1e-9)) + 1
	ticks := make([]chart.Tick, 0, n)
	for i := 0; i < n; i++ {
		v := lo + float64(i)*step
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

// frequencyTicks returns integer ticks from zero to one step above highest,
// and the top of the y range.
func frequencyTicks(highest int) ([]chart.Tick, float64) {
	step := max(1, int(math.Ceil(float64(highest)/float64(maxYTicks))))
	top := (highest/step + 1) * step

	ticks := make([]chart.Tick, 0, top/step+1)
	for v := 0; v <= top; v += step {
		ticks = append(ticks, chart.Tick{Value: float64(v), Label: strconv.Itoa(v)})
	}
	return ticks, float64(top)
}

func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return fmt.Sprintf("%g", v)
}
