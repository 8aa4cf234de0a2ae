// Package stats computes the per-student and per-course aggregates shown in
// reports. Every function here refuses an empty selection: an empty selection
// is a "not found" and must never be summarized.
package stats

import (
	"math"
	"sort"

	"gradereport/internal/dataset"
	apperrors "gradereport/internal/errors"
)

const (
	// HistogramCeiling is the fixed upper bound of the histogram x axis.
	// Marks above it are counted but fall outside the drawn domain.
	HistogramCeiling = 100.0
	// HistogramStep is the x tick spacing and the rounding unit of the lower bound
	HistogramStep = 10.0
)

// CourseSummary holds the course-mode statistics
type CourseSummary struct {
	Average float64
	Maximum float64
	Count   int
}

// Bin is one bar of the histogram: a distinct marks value and how often it occurs
type Bin struct {
	Value float64
	Count int
}

// Histogram is the frequency of each distinct marks value, ascending by value,
// with the x domain the chart is drawn over.
type Histogram struct {
	Bins []Bin
	XMin float64
	XMax float64
}

// MaxCount returns the tallest bar height
func (h Histogram) MaxCount() int {
	highest := 0
	for _, b := range h.Bins {
		highest = max(highest, b.Count)
	}
	return highest
}

// Visible returns the bins inside [XMin, XMax]
func (h Histogram) Visible() []Bin {
	var out []Bin
	for _, b := range h.Bins {
		if b.Value >= h.XMin && b.Value <= h.XMax {
			out = append(out, b)
		}
	}
	return out
}

// Total returns the sum of marks over records
func Total(records []dataset.Record) (float64, error) {
	if len(records) == 0 {
		return 0, apperrors.ErrEmptySelection
	}

	var sum float64
	for _, r := range records {
		sum += r.Marks
	}
	return sum, nil
}

// Summarize returns the mean and maximum of marks over records
func Summarize(records []dataset.Record) (CourseSummary, error) {
	if len(records) == 0 {
		return CourseSummary{}, apperrors.ErrEmptySelection
	}

	sum := 0.0
	highest := math.Inf(-1)
	for _, r := range records {
		sum += r.Marks
		highest = math.Max(highest, r.Marks)
	}

	return CourseSummary{
		Average: sum / float64(len(records)),
		Maximum: highest,
		Count:   len(records),
	}, nil
}

// BuildHistogram counts each distinct marks value. The domain runs from the
// lowest mark rounded down to a multiple of HistogramStep up to
// HistogramCeiling; when that would be empty it is one step wide instead.
func BuildHistogram(records []dataset.Record) (Histogram, error) {
	if len(records) == 0 {
		return Histogram{}, apperrors.ErrEmptySelection
	}

	counts := make(map[float64]int)
	for _, r := range records {
		counts[r.Marks]++
	}

	bins := make([]Bin, 0, len(counts))
	for value, n := range counts {
		bins = append(bins, Bin{Value: value, Count: n})
	}
	sort.Slice(bins, func(i, j int) bool { return bins[i].Value < bins[j].Value })

	lower := math.Floor(bins[0].Value/HistogramStep) * HistogramStep
	upper := HistogramCeiling
	if lower >= upper {
		upper = lower + HistogramStep
	}

	return Histogram{Bins: bins, XMin: lower, XMax: upper}, nil
}
