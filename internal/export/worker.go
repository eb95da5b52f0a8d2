package export

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"moviegraph/internal/graph"
	"moviegraph/internal/logger"
	"moviegraph/internal/query"
	"moviegraph/internal/storage"
)

// Querier computes one subgraph for a normalized request.
type Querier interface {
	Subgraph(ctx context.Context, req query.Request) (*graph.Subgraph, error)
}

// WorkerPool exports one subgraph per submitted root. Every root shares the
// template's filters, depth and limit.
type WorkerPool struct {
	workers  int
	querier  Querier
	emitter  storage.Emitter
	template query.Request
	log      *slog.Logger
	jobChan  chan string
	wg       sync.WaitGroup

	exported atomic.Int64
	failed   atomic.Int64
}

func NewWorkerPool(workers int, querier Querier, emitter storage.Emitter, template query.Request, log *slog.Logger) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers:  workers,
		querier:  querier,
		emitter:  emitter,
		template: template,
		log:      log.With(logger.Scope("export")),
		jobChan:  make(chan string, 100),
	}
}

// Start launches the workers. Roots submitted after ctx is done are counted
// as failed without querying.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx)
	}
}

func (wp *WorkerPool) worker(ctx context.Context) {
	defer wp.wg.Done()
	for root := range wp.jobChan {
		if err := wp.exportRoot(ctx, root); err != nil {
			wp.failed.Add(1)
			wp.log.Error("failed to export root", slog.String("root", root), logger.Error(err))
			continue
		}
		wp.exported.Add(1)
	}
}

func (wp *WorkerPool) exportRoot(ctx context.Context, root string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(root) > query.MaxRootLength {
		return fmt.Errorf("%w: longer than %d bytes", query.ErrInvalidRoot, query.MaxRootLength)
	}

	req := wp.template
	req.Root = root
	sg, err := wp.querier.Subgraph(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to query subgraph: %w", err)
	}
	if err := wp.emitter.EmitSubgraph(root, sg); err != nil {
		return fmt.Errorf("failed to emit subgraph: %w", err)
	}
	return nil
}

func (wp *WorkerPool) Submit(root string) {
	wp.jobChan <- root
}

// Stop waits for every submitted root to finish. The emitter is left open.
func (wp *WorkerPool) Stop() {
	close(wp.jobChan)
	wp.wg.Wait()
}

// Exported is the number of roots written to the emitter.
func (wp *WorkerPool) Exported() int64 { return wp.exported.Load() }

// Failed is the number of roots that could not be queried or written.
func (wp *WorkerPool) Failed() int64 { return wp.failed.Load() }
