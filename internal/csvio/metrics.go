package csvio

import (
	"github.com/prometheus/client_golang/prometheus"
)

type ReaderMetrics struct {
	RowsSkipped prometheus.Counter
}

func NewReaderMetrics(registry *prometheus.Registry) *ReaderMetrics {
	m := &ReaderMetrics{
		RowsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "csv_rows_skipped_total",
				Help: "Total malformed CSV rows discarded before the engine.",
			},
		),
	}
	registry.MustRegister(m.RowsSkipped)
	return m
}
