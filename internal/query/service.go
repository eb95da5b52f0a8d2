package query

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"moviegraph/internal/graph"
	"moviegraph/internal/logger"
	"moviegraph/internal/metrics"

	"go.uber.org/fx"
)

var Module = fx.Module("query",
	fx.Provide(
		fx.Annotate(newLifecycleProvider, fx.As(new(Store))),
		NewService,
	),
)

// Service answers subgraph queries: normalize, plan, traverse, assemble.
type Service struct {
	traverser *Traverser
	log       *slog.Logger
}

func NewService(store Store, log *slog.Logger) *Service {
	return &Service{
		traverser: NewTraverser(store, log),
		log:       log.With(logger.Scope("query")),
	}
}

// Graph normalizes raw query parameters and returns the matching subgraph.
// Only ErrInvalidRoot and store failures are returned as errors.
func (s *Service) Graph(ctx context.Context, raw url.Values) (*graph.Subgraph, error) {
	req, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return s.Subgraph(ctx, req)
}

// Subgraph runs a normalized request. On error nothing partial is returned.
func (s *Service) Subgraph(ctx context.Context, req Request) (*graph.Subgraph, error) {
	plan := Build(req)
	asm := NewAssembler(req)
	start := time.Now()

	if err := s.traverser.Run(ctx, plan, asm.Add); err != nil {
		metrics.StoreErrors.WithLabelValues("graph").Inc()
		return nil, fmt.Errorf("failed to run %s traversal: %w", plan.Mode, err)
	}

	sg := asm.Result()
	elapsed := time.Since(start)
	metrics.ObserveSubgraph(plan.Mode.String(), len(sg.Nodes), len(sg.Links), elapsed)
	s.log.Debug("subgraph assembled",
		slog.String("mode", plan.Mode.String()),
		slog.String("root", req.Root),
		slog.Int("nodes", len(sg.Nodes)),
		slog.Int("links", len(sg.Links)),
		slog.Duration("elapsed", elapsed),
	)
	return sg, nil
}
