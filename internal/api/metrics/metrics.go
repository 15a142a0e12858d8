// Package metrics defines the custom Prometheus metrics of the providers API.
// It is the single source of truth for metric names, labels and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto and exposed on GET /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "providers_api"

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokenVerificationsTotal counts bearer token checks made by the auth middleware.
// Label:
//   - result: "ok", "unauthenticated" or "error"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts tokens handed out by register and login.
// Label:
//   - operation: "register" or "login"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of access tokens issued.",
	},
	[]string{"operation"},
)

// TokensRevokedTotal counts revocation requests.
// Label:
//   - scope: "token" (logout) or "user" (account deletion)
var TokensRevokedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of successful token revocations, by scope.",
	},
	[]string{"scope"},
)

// ── Account and provider metrics ──────────────────────────────────────────────

// AuthOperationsTotal counts account workflow outcomes.
// Labels:
//   - operation: register, login, logout, change_password, update_profile, delete_account
//   - outcome: "success" or the error kind (validation, invalid_credentials, upstream, …)
var AuthOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_operations_total",
		Help:      "Total number of account operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ProviderOperationsTotal counts provider CRUD outcomes.
// Labels:
//   - operation: list, create, get, update, delete
//   - outcome: "success" or the error kind
var ProviderOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_operations_total",
		Help:      "Total number of provider operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request latency.
// Labels:
//   - method: HTTP method
//   - route: the registered route pattern (e.g. "/api/providers/:id")
//   - status: response status code
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method, route and status.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method", "route", "status"},
)

// RegisterTouchDropped exposes the number of last-used updates the touch
// dispatcher discarded. Call at most once.
func RegisterTouchDropped(dropped func() int64) {
	promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_touch_dropped_total",
			Help:      "Total number of token last-used updates dropped because the queue was full.",
		},
		func() float64 { return float64(dropped()) },
	)
}
