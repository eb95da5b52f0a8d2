package query

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"moviegraph/internal/config"
	"moviegraph/internal/graph"
	"moviegraph/internal/logger"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/fx"
)

const connectTimeout = 15 * time.Second

// Neo4jProvider implements Store using the official Neo4j Go driver.
type Neo4jProvider struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jProvider creates a new connection to Neo4j and verifies it.
func NewNeo4jProvider(ctx context.Context, cfg *config.Config) (*Neo4jProvider, error) {
	auth := neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, "")

	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := driver.VerifyConnectivity(verifyCtx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to verify connectivity to neo4j: %w", err)
	}

	return &Neo4jProvider{
		driver:   driver,
		database: cfg.Neo4jDatabase,
	}, nil
}

// Close closes the Neo4j driver connection.
func (p *Neo4jProvider) Close(ctx context.Context) error {
	return p.driver.Close(ctx)
}

// Driver exposes the underlying driver for batch loading.
func (p *Neo4jProvider) Driver() neo4j.DriverWithContext {
	return p.driver
}

// Database is the configured database name; empty means the server default.
func (p *Neo4jProvider) Database() string {
	return p.database
}

func (p *Neo4jProvider) ExecuteRead(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return p.execute(ctx, cypher, params, neo4j.ExecuteQueryWithReadersRouting())
}

func (p *Neo4jProvider) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	return p.execute(ctx, cypher, params, neo4j.ExecuteQueryWithWritersRouting())
}

func (p *Neo4jProvider) execute(ctx context.Context, cypher string, params map[string]any, routing neo4j.ExecuteQueryConfigurationOption) ([]*neo4j.Record, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{routing}
	if p.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(p.database))
	}

	result, err := neo4j.ExecuteQuery(ctx, p.driver, cypher, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, err
	}
	return result.Records, nil
}

// newLifecycleProvider ties the driver to the fx application lifetime.
func newLifecycleProvider(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) (*Neo4jProvider, error) {
	p, err := NewNeo4jProvider(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	log.Info("connected to neo4j",
		logger.Scope("query"),
		slog.String("uri", cfg.Neo4jURI),
		slog.String("database", cfg.Neo4jDatabase),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close(ctx)
		},
	})
	return p, nil
}

func nodeFromDriver(n neo4j.Node) *graph.Node {
	return &graph.Node{
		ID:         n.ElementId,
		Labels:     n.Labels,
		Properties: n.Props,
	}
}

func nodeFromRecord(record *neo4j.Record, key string) (*graph.Node, error) {
	n, isNil, err := neo4j.GetRecordValue[neo4j.Node](record, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read node %q from record: %w", key, err)
	}
	if isNil {
		return nil, fmt.Errorf("node %q is null", key)
	}
	return nodeFromDriver(n), nil
}

// relationshipFromRecord decodes the r, s and t columns produced by the
// scan and hop statements.
func relationshipFromRecord(record *neo4j.Record) (*graph.Relationship, error) {
	r, isNil, err := neo4j.GetRecordValue[neo4j.Relationship](record, "r")
	if err != nil {
		return nil, fmt.Errorf("failed to read relationship from record: %w", err)
	}
	if isNil {
		return nil, fmt.Errorf("relationship is null")
	}
	start, err := nodeFromRecord(record, "s")
	if err != nil {
		return nil, err
	}
	end, err := nodeFromRecord(record, "t")
	if err != nil {
		return nil, err
	}

	return &graph.Relationship{
		ID:         r.ElementId,
		Type:       r.Type,
		Start:      start,
		End:        end,
		Properties: r.Props,
	}, nil
}
