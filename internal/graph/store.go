// Package graph persists books and their NDC classification hierarchy
// in Neo4j, and keeps the shelf adjacency chain in sync with the
// computed layout.
package graph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Unclassified is the group code used for books without an NDC code.
const Unclassified = "unclassified"

// Store is the Neo4j-backed graph store.
type Store struct {
	driver neo4j.DriverWithContext
	logger *slog.Logger
}

// NewStore connects to Neo4j at uri with basic auth. The connection is
// lazy; use Ping to verify it.
func NewStore(uri, username, password string, logger *slog.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{driver: driver, logger: logger.With("component", "graph")}, nil
}

// Close releases the driver and its connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Ping verifies connectivity to the database.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("neo4j not reachable: %w", err)
	}
	return nil
}

// runner executes one Cypher statement. Write operations are expressed
// as ordered statements against a runner so they can run inside a
// managed transaction in production and against a fake in tests.
type runner interface {
	run(ctx context.Context, cypher string, params map[string]any) error
}

type txRunner struct {
	tx neo4j.ManagedTransaction
}

func (r txRunner) run(ctx context.Context, cypher string, params map[string]any) error {
	_, err := r.tx.Run(ctx, cypher, params)
	return err
}

// write runs fn inside a single managed write transaction.
func (s *Store) write(ctx context.Context, fn func(r runner) error) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, fn(txRunner{tx: tx})
	})
	return err
}
