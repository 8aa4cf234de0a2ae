package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the per-run counters written to a node-exporter textfile
type Metrics struct {
	registry *prometheus.Registry

	RecordsLoaded prometheus.Gauge
	Reports       *prometheus.CounterVec
	RunDuration   prometheus.Gauge
	LastRun       prometheus.Gauge
}

// NewMetrics creates the run metrics on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gradereport_records_loaded",
			Help: "Number of records in the loaded dataset.",
		}),
		Reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gradereport_reports_total",
			Help: "Reports written, by kind (student, course, error).",
		}, []string{"kind"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gradereport_run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gradereport_last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
	}

	m.registry.MustRegister(m.RecordsLoaded, m.Reports, m.RunDuration, m.LastRun)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveReport counts one written report of the given kind
func (m *Metrics) ObserveReport(kind string) {
	m.Reports.WithLabelValues(kind).Inc()
}

// ObserveRun records the duration of a run that started at start and ended at end
func (m *Metrics) ObserveRun(start, end time.Time) {
	m.RunDuration.Set(end.Sub(start).Seconds())
	m.LastRun.Set(float64(end.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
