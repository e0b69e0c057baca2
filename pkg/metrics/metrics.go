package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Provisioning metrics
	AccountsProvisioned *prometheus.CounterVec
	ProvisioningLatency prometheus.Histogram
	SlugRetries         prometheus.Counter

	// Trial/billing metrics
	TrialActions    *prometheus.CounterVec
	BillingOverride *prometheus.CounterVec

	// Impersonation metrics
	ViewAsSessionsIssued  prometheus.Counter
	ViewAsSessionsRevoked prometheus.Counter
	ViewAsResolves        *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		AccountsProvisioned: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "accounts_provisioned_total",
			Help:      "Total number of account provisioning attempts by type and outcome",
		}, []string{"account_type", "outcome"}),
		ProvisioningLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "provisioning_duration_seconds",
			Help:      "Duration of account provisioning in seconds",
		}),
		SlugRetries: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "slug_conflict_retries_total",
			Help:      "Total number of slug insert conflicts retried with the next suffix",
		}),
		TrialActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "trial_actions_total",
			Help:      "Total number of trial transitions by action",
		}, []string{"action"}),
		BillingOverride: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "billing_overrides_total",
			Help:      "Total number of manual billing status overrides by target status",
		}, []string{"status"}),
		ViewAsSessionsIssued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "view_as_sessions_issued_total",
			Help:      "Total number of impersonation sessions issued",
		}),
		ViewAsSessionsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "view_as_sessions_revoked_total",
			Help:      "Total number of impersonation sessions explicitly ended",
		}),
		ViewAsResolves: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "view_as_resolves_total",
			Help:      "Total number of session token resolutions by result",
		}, []string{"result"}),
	}
}
