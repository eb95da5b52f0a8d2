package storage

import "moviegraph/internal/graph"

// Emitter writes exported subgraphs. Implementations are safe for concurrent
// use by export workers.
type Emitter interface {
	EmitSubgraph(root string, sg *graph.Subgraph) error
	Close() error
}
