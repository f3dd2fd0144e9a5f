// Package metrics provides Prometheus metrics for the portfolio
// tracker. Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "etf_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "etf_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etf_http_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		},
	)

	// Portfolio Metrics
	PortfolioValue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "etf_portfolio_value_eur",
			Help: "Current grand total portfolio value (holdings + cash + assets)",
		},
	)

	PortfolioInvested = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "etf_portfolio_invested_eur",
			Help: "Total invested amount including transaction fees",
		},
	)

	HoldingsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "etf_holdings_total",
			Help: "Number of holdings in the portfolio",
		},
	)

	SnapshotsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "etf_snapshots_total",
			Help: "Number of snapshots in the valuation history",
		},
	)

	// Reconciliation Metrics
	SnapshotWritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etf_snapshot_writes_total",
			Help: "Snapshot series writes triggered by holding or history mutations",
		},
	)

	PriceCorrectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etf_price_corrections_total",
			Help: "Retroactive price corrections applied",
		},
	)

	// Persistence Metrics
	PersistenceErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "etf_persistence_errors_total",
			Help: "Failed writes to the backing store (in-memory state is kept)",
		},
	)
)
