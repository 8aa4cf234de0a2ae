package histogram

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"gradereport/internal/stats"
)

// barWidth is the width of one bar in marks units
const barWidth = 1.0

// barSeries draws one filled box per bin, centered on the bin value.
// Bins outside the x range are skipped and bars straddling an edge are
// clipped to the canvas.
type barSeries struct {
	Name  string
	Style chart.Style
	Bins  []stats.Bin
}

var (
	_ chart.Series         = barSeries{}
	_ chart.ValuesProvider = barSeries{}
)

func (b barSeries) GetName() string { return b.Name }

func (b barSeries) GetStyle() chart.Style { return b.Style }

func (b barSeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }

// Len implements chart.ValuesProvider
func (b barSeries) Len() int { return len(b.Bins) }

// GetValues implements chart.ValuesProvider
func (b barSeries) GetValues(index int) (float64, float64) {
	bin := b.Bins[index]
	return bin.Value, float64(bin.Count)
}

func (b barSeries) Validate() error {
	if len(b.Bins) == 0 {
		return fmt.Errorf("bar series %q has no bins", b.Name)
	}
	return nil
}

func (b barSeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
	style := b.Style.InheritFrom(defaults)
	lo, hi := xrange.GetMin(), xrange.GetMax()

	for _, bin := range b.Bins {
		if bin.Value < lo || bin.Value > hi || bin.Count == 0 {
			continue
		}

		left := canvasBox.Left + xrange.Translate(bin.Value-barWidth/2)
		right := canvasBox.Left + xrange.Translate(bin.Value+barWidth/2)
		top := canvasBox.Bottom - yrange.Translate(float64(bin.Count))

		box := chart.Box{
			Top:    max(top, canvasBox.Top),
			Left:   max(left, canvasBox.Left),
			Right:  min(right, canvasBox.Right),
			Bottom: canvasBox.Bottom,
		}
		if box.Right <= box.Left {
			box.Right = box.Left + 1
		}
		chart.Draw.Box(r, box, style)
	}
}
