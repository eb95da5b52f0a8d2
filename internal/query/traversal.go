package query

import (
	"context"
	"fmt"
	"log/slog"

	"moviegraph/internal/logger"
)

// Traverser executes a Traversal against a Store.
type Traverser struct {
	store Store
	log   *slog.Logger
}

func NewTraverser(store Store, log *slog.Logger) *Traverser {
	return &Traverser{
		store: store,
		log:   log.With(logger.Scope("traversal")),
	}
}

// Run executes t and hands every record to visit in traversal order. It
// stops as soon as visit returns false. Errors from the store abort the run.
func (tr *Traverser) Run(ctx context.Context, t Traversal, visit func(Record) bool) error {
	switch t.Mode {
	case ModeRooted:
		return tr.runRooted(ctx, t, visit)
	case ModeScan:
		return tr.runScan(ctx, t, visit)
	default:
		return fmt.Errorf("unknown traversal mode %s", t.Mode)
	}
}

func (tr *Traverser) runScan(ctx context.Context, t Traversal, visit func(Record) bool) error {
	records, err := tr.store.ExecuteRead(ctx, t.Scan.Cypher, t.Scan.Params)
	if err != nil {
		return fmt.Errorf("failed to execute scan query: %w", err)
	}

	for _, record := range records {
		rel, err := relationshipFromRecord(record)
		if err != nil {
			return err
		}
		if !visit(Record{Rel: rel}) {
			return nil
		}
	}
	return nil
}

// runRooted walks breadth-first from the root, one query per level. Each
// relationship is visited once and each node enters the frontier once, so
// cycles cannot grow the walk.
func (tr *Traverser) runRooted(ctx context.Context, t Traversal, visit func(Record) bool) error {
	records, err := tr.store.ExecuteRead(ctx, t.Lookup.Cypher, t.Lookup.Params)
	if err != nil {
		return fmt.Errorf("failed to execute root lookup: %w", err)
	}
	if len(records) == 0 {
		tr.log.Debug("root not found", slog.Any("root", t.Lookup.Params["root"]))
		return nil
	}

	root, err := nodeFromRecord(records[0], "root")
	if err != nil {
		return err
	}
	if !visit(Record{Node: root}) {
		return nil
	}

	visitedNodes := map[string]struct{}{root.ID: {}}
	visitedRels := make(map[string]struct{})
	frontier := []string{root.ID}

	for hop := 1; hop <= t.Depth && len(frontier) > 0; hop++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		stmt := t.Hop.With("frontier", frontier)
		records, err := tr.store.ExecuteRead(ctx, stmt.Cypher, stmt.Params)
		if err != nil {
			return fmt.Errorf("failed to expand hop %d: %w", hop, err)
		}

		var next []string
		for _, record := range records {
			rel, err := relationshipFromRecord(record)
			if err != nil {
				return err
			}
			if _, seen := visitedRels[rel.ID]; seen {
				continue
			}
			visitedRels[rel.ID] = struct{}{}

			if !visit(Record{Rel: rel}) {
				return nil
			}
			for _, n := range [...]string{rel.Start.ID, rel.End.ID} {
				if _, seen := visitedNodes[n]; !seen {
					visitedNodes[n] = struct{}{}
					next = append(next, n)
				}
			}
		}

		tr.log.Debug("expanded hop",
			slog.Int("hop", hop),
			slog.Int("relationships", len(records)),
			slog.Int("frontier", len(next)),
		)
		frontier = next
	}
	return nil
}
