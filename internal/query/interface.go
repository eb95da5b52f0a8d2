package query

//go:generate mockgen -destination=mocks/mock_store.go -package=query_mocks moviegraph/internal/query Store

import (
	"context"

	"moviegraph/internal/graph"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Store runs Cypher statements against the graph database. Implementations
// own connection pooling and retries; callers treat any error as fatal for
// the current request.
type Store interface {
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error)
}

// Record is one traversal result. The root record of a rooted traversal
// carries only Node; every other record carries a relationship with both
// endpoints resolved.
type Record struct {
	Node *graph.Node
	Rel  *graph.Relationship
}
