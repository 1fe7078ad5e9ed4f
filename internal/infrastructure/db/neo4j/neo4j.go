// Package neo4j owns the single connection to the graph database and
// executes parameterized Cypher statements on it.
package neo4j

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/rs/zerolog"

	"github.com/usergraph/friends-api/internal/api/metrics"
	"github.com/usergraph/friends-api/internal/core/ports"
)

// Config captures the settings required to reach the database.
type Config struct {
	URI      string
	Username string
	Password string
	// Database selects a named database; empty means the server default.
	Database string
}

// Graph is a lazily connected handle to the database. The driver is opened
// on first use and reused across requests; every RunQuery call gets its own
// session so concurrent requests never share a result stream.
type Graph struct {
	cfg    Config
	logger zerolog.Logger

	mu     sync.Mutex
	driver neo4j.DriverWithContext
}

func NewGraph(cfg Config, logger zerolog.Logger) *Graph {
	return &Graph{cfg: cfg, logger: logger}
}

// Connect establishes the driver if not already open and verifies
// connectivity. Safe to call repeatedly; the open driver is reused.
func (g *Graph) Connect(ctx context.Context) error {
	_, err := g.connect(ctx)
	return err
}

func (g *Graph) connect(ctx context.Context) (neo4j.DriverWithContext, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.driver != nil {
		return g.driver, nil
	}

	driver, err := neo4j.NewDriverWithContext(g.cfg.URI, neo4j.BasicAuth(g.cfg.Username, g.cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrGraphConnection, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("%w: %v", ports.ErrGraphConnection, err)
	}

	g.logger.Info().Str("uri", g.cfg.URI).Msg("neo4j connection established")
	g.driver = driver
	return driver, nil
}

// RunQuery executes one Cypher statement with bound parameters and
// materializes every result row into a field-name→value record. The session
// is scoped to this call and released whether or not the statement succeeds.
// Failed statements are not retried.
func (g *Graph) RunQuery(ctx context.Context, cypher string, params map[string]any) ([]ports.Record, error) {
	driver, err := g.connect(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	session := driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: g.cfg.Database})
	defer session.Close(ctx)

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrGraphQuery, err)
	}

	collected, err := result.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrGraphQuery, err)
	}

	records := make([]ports.Record, 0, len(collected))
	for _, rec := range collected {
		records = append(records, ports.Record(rec.AsMap()))
	}

	metrics.CypherQueryDuration.Observe(time.Since(start).Seconds())
	return records, nil
}

// Close releases the driver. Calling Close when not connected is a no-op;
// a later RunQuery reconnects from scratch.
func (g *Graph) Close(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.driver == nil {
		return nil
	}
	err := g.driver.Close(ctx)
	g.driver = nil
	if err != nil {
		return fmt.Errorf("%w: %v", ports.ErrGraphConnection, err)
	}
	g.logger.Info().Msg("neo4j connection closed")
	return nil
}

// VerifyConnectivity checks the current connection without side effects.
// Used by the readiness probe.
func (g *Graph) VerifyConnectivity(ctx context.Context) error {
	driver, err := g.connect(ctx)
	if err != nil {
		return err
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrGraphConnection, err)
	}
	return nil
}
