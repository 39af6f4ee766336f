package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// File conversion outcomes used as the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics holds the conversion metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RowsConverted  *prometheus.CounterVec
	FilesConverted *prometheus.CounterVec
	FileDuration   *prometheus.HistogramVec
}

// NewMetrics creates and registers all conversion metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		RowsConverted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parquet2jsonl_rows_converted_total",
				Help: "Total number of rows written to output files",
			},
			[]string{"format"},
		),
		FilesConverted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parquet2jsonl_files_converted_total",
				Help: "Total number of input files processed",
			},
			[]string{"format", "status"},
		),
		FileDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "parquet2jsonl_file_duration_seconds",
				Help:    "Duration of single file conversions",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8), // 10ms to ~3m
			},
			[]string{"format", "status"},
		),
	}
}

// AddRows adds n converted rows.
func (m *Metrics) AddRows(format string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.RowsConverted.WithLabelValues(format).Add(float64(n))
}

// ObserveFile records one finished file conversion.
func (m *Metrics) ObserveFile(format, status string, seconds float64) {
	if m == nil {
		return
	}
	m.FilesConverted.WithLabelValues(format, status).Inc()
	m.FileDuration.WithLabelValues(format, status).Observe(seconds)
}

// WriteTextfile writes the registry in the Prometheus text format to path,
// for pickup by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
