package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the sales ledger Prometheus metrics. It implements
// usecase.Observer.
type Metrics struct {
	// Ledger metrics
	SnapshotsApplied  prometheus.Counter
	LedgerSales       prometheus.Gauge
	UnclassifiedSales prometheus.Gauge

	// Position write metrics
	PositionWriteFailures *prometheus.CounterVec

	// Exchange rate metrics
	RateFetches *prometheus.CounterVec
}

// New creates and registers all metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SnapshotsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "gosales_snapshots_applied_total",
			Help: "Total number of sales snapshots applied to the ledger",
		}),
		LedgerSales: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gosales_ledger_sales",
			Help: "Number of sales in the last applied snapshot",
		}),
		UnclassifiedSales: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gosales_unclassified_currency_sales",
			Help: "Sales in the last snapshot with an unknown currency marker",
		}),

		PositionWriteFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosales_position_write_failures_total",
				Help: "Total position writes that did not reach the store",
			},
			[]string{"reason"},
		),

		RateFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosales_exchange_rate_fetches_total",
				Help: "Total exchange rate fetches by result",
			},
			[]string{"result"},
		),
	}
}

// SnapshotApplied records a snapshot of size sales.
func (m *Metrics) SnapshotApplied(size, unclassified int) {
	m.SnapshotsApplied.Inc()
	m.LedgerSales.Set(float64(size))
	m.UnclassifiedSales.Set(float64(unclassified))
}

// PositionWritesFailed records failed position writes.
func (m *Metrics) PositionWritesFailed(reason string, count int) {
	if count <= 0 {
		return
	}
	m.PositionWriteFailures.WithLabelValues(reason).Add(float64(count))
}

// RateFetched records an exchange rate fetch.
func (m *Metrics) RateFetched(success bool) {
	result := "error"
	if success {
		result = "success"
	}
	m.RateFetches.WithLabelValues(result).Inc()
}
