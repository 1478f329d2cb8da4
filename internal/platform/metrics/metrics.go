package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the ballot subsystem. Vote choice
// and voter identity never appear in label values.
type Metrics struct {
	BallotsCast          prometheus.Counter
	CastConflicts        prometheus.Counter
	AuthorizationsIssued prometheus.Counter
	MFAFailures          prometheus.Counter
	AuditEventsAppended  prometheus.Counter
	ChainVerifySeconds   *prometheus.HistogramVec
	RequestLatency       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		BallotsCast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uvote_ballots_cast_total",
			Help: "Total number of ballots appended to the ballot ledger",
		}),
		CastConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uvote_cast_conflicts_total",
			Help: "Cast attempts rejected because the authorization token was already consumed",
		}),
		AuthorizationsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uvote_ballot_authorizations_issued_total",
			Help: "Ballot authorization tokens minted by the anonymity bridge",
		}),
		MFAFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uvote_mfa_failures_total",
			Help: "Failed MFA verification attempts",
		}),
		AuditEventsAppended: promauto.NewCounter(prometheus.CounterOpts{
			Name: "uvote_audit_events_total",
			Help: "Events appended to the audit ledger",
		}),
		ChainVerifySeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uvote_chain_verify_duration_seconds",
			Help:    "Latency of full chain verification runs",
			Buckets: prometheus.DefBuckets,
		}, []string{"ledger"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uvote_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route", "status"}),
	}
}
