package ports

import (
	"context"
	"errors"
)

// ErrGraphConnection marks failures to reach or authenticate to the graph
// database. The next call retries the connection from scratch.
var ErrGraphConnection = errors.New("graph connection failed")

// ErrGraphQuery marks a statement that failed after a connection was
// obtained. The underlying database message is passed through; queries are
// never retried.
var ErrGraphQuery = errors.New("graph query failed")

// Record is one result row, keyed by the field names of the RETURN clause.
type Record map[string]any

// QueryRunner executes parameterized Cypher statements against the graph
// database. Each call runs in its own session; the connection behind it is
// opened once and reused across calls.
type QueryRunner interface {
	RunQuery(ctx context.Context, cypher string, params map[string]any) ([]Record, error)
}
