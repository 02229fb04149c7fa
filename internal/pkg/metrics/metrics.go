// Package metrics defines and registers all custom Prometheus metrics for the
// blog CMS API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cms"

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CacheOperationsTotal counts cache-aside lookups.
// Labels:
//   - namespace: cache namespace (e.g. "posts", "users")
//   - op: "get"
//   - result: "hit" or "miss"
var CacheOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_operations_total",
		Help:      "Total number of cache lookups, labelled by namespace and result.",
	},
	[]string{"namespace", "op", "result"},
)

// CacheErrorsTotal counts cache backend failures absorbed by the safe decorator.
// Labels:
//   - namespace: cache namespace
//   - op: "get", "put", "evict" or "clear"
var CacheErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_errors_total",
		Help:      "Total number of cache backend failures that were absorbed.",
	},
	[]string{"namespace", "op"},
)

// ── Security metrics ──────────────────────────────────────────────────────────

// AuthRejectionsTotal counts bearer credentials the interceptor ignored.
// Label:
//   - reason: "bad_scheme", "malformed", "unknown_subject", "invalid"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of bearer credentials rejected by the authentication interceptor.",
	},
	[]string{"reason"},
)

// AuthzDecisionsTotal counts ownership decisions.
// Labels:
//   - kind: resource kind ("post", "comment")
//   - decision: "allow_admin", "allow_owner", "deny_anonymous", "deny_not_owner"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of resource ownership decisions.",
	},
	[]string{"kind", "decision"},
)

// ── Retention metrics ─────────────────────────────────────────────────────────

// RetentionPurgedTotal counts permanently removed records.
// Label:
//   - kind: "post" or "comment"
var RetentionPurgedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retention_purged_total",
		Help:      "Total number of soft-deleted records permanently purged.",
	},
	[]string{"kind"},
)

// RetentionRunsTotal counts retention runs.
// Label:
//   - result: "success" or "failure"
var RetentionRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retention_runs_total",
		Help:      "Total number of retention cleanup runs, labelled by result.",
	},
	[]string{"result"},
)

// RetentionRunDuration measures how long a purge batch takes.
var RetentionRunDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "retention_run_duration_seconds",
		Help:      "Duration of a retention cleanup run.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Content metrics ───────────────────────────────────────────────────────────

// PostsCreatedTotal counts newly created posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)
