package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	TransactionsTotal *prometheus.CounterVec
	RejectsTotal      *prometheus.CounterVec
	AccountsLocked    prometheus.Counter
	ApplyDuration     prometheus.Histogram
}

func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		TransactionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_transactions_total",
				Help: "Total transactions processed, by type and outcome.",
			},
			[]string{"type", "status"},
		),
		RejectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payment_rejects_total",
				Help: "Total rejected transactions, by reason.",
			},
			[]string{"reason"},
		),
		AccountsLocked: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_accounts_locked_total",
				Help: "Total accounts frozen by chargeback.",
			},
		),
		ApplyDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "payment_apply_duration_seconds",
				Help:    "Transaction application duration in seconds.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	registry.MustRegister(
		m.TransactionsTotal,
		m.RejectsTotal,
		m.AccountsLocked,
		m.ApplyDuration,
	)
	return m
}
