package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CodesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxiye", Name: "verification_codes_sent_total", Help: "Verification codes dispatched per channel"},
		[]string{"channel"},
	)
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxiye", Name: "verifications_total", Help: "Verification attempts by outcome"},
		[]string{"outcome"},
	)
	RidesStartedTotal   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taxiye", Name: "rides_started_total", Help: "Simulated rides started"})
	RidesCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taxiye", Name: "rides_completed_total", Help: "Simulated rides completed"})
	RidesCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{Namespace: "taxiye", Name: "rides_cancelled_total", Help: "Simulated rides cancelled"})
	WalletTopUpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "taxiye", Name: "wallet_topups_total", Help: "Wallet top-ups by outcome"},
		[]string{"outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "taxiye",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
