// Package metrics defines and registers all custom Prometheus metrics for
// the friends API. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "friendgraph"

// ── GraphQL metrics ───────────────────────────────────────────────────────────

// GraphQLOperationsTotal counts executed GraphQL operations.
// Labels:
//   - operation: the root field name (e.g. "createUser", "relationships")
//   - outcome: "ok" or "error"
var GraphQLOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "graphql_operations_total",
		Help:      "Total number of GraphQL operations executed, by root field and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

// UsersCreatedTotal counts successfully created users.
var UsersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of users created.",
	},
)

// UsersDeletedTotal counts successfully deleted users.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted (including cascaded edges).",
	},
)

// RelationshipsCreatedTotal counts successfully created relationships. Each
// logical relationship counts once even though it is stored as two edges.
var RelationshipsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relationships_created_total",
		Help:      "Total number of friend relationships created.",
	},
)

// RelationshipsDeletedTotal counts delete operations that removed at least
// one edge. No-op deletions are not counted.
var RelationshipsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relationships_deleted_total",
		Help:      "Total number of friend relationships deleted.",
	},
)

// ── Graph database metrics ────────────────────────────────────────────────────

// CypherQueryDuration measures the wall time of a single Cypher statement,
// session acquisition to row materialization.
var CypherQueryDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cypher_query_duration_seconds",
		Help:      "Duration of Cypher statements executed against Neo4j.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
