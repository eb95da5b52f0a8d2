//go:build integration

package query

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"moviegraph/internal/config"
	"moviegraph/internal/graph"
	"moviegraph/internal/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const neo4jPassword = "integration-secret"

func startNeo4j(t *testing.T) *Neo4jProvider {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "neo4j:5",
			ExposedPorts: []string{"7687/tcp"},
			Env:          map[string]string{"NEO4J_AUTH": "neo4j/" + neo4jPassword},
			WaitingFor:   wait.ForListeningPort("7687/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "7687/tcp")
	require.NoError(t, err)

	cfg := &config.Config{
		Neo4jURI:      fmt.Sprintf("bolt://%s:%s", host, port.Port()),
		Neo4jUser:     "neo4j",
		Neo4jPassword: neo4jPassword,
		Neo4jDatabase: "neo4j",
	}

	var provider *Neo4jProvider
	// Bolt may accept connections before authentication is ready.
	require.Eventually(t, func() bool {
		provider, err = NewNeo4jProvider(ctx, cfg)
		return err == nil
	}, time.Minute, time.Second)
	t.Cleanup(func() {
		_ = provider.Close(context.Background())
	})

	l := loader.NewNeo4jLoader(provider.Driver(), provider.Database(), discardLogger())
	require.NoError(t, l.ApplyConstraints(ctx))
	ds, err := loader.DefaultDataset()
	require.NoError(t, err)
	require.NoError(t, l.Seed(ctx, ds))

	return provider
}

func TestNeo4jIntegration(t *testing.T) {
	provider := startNeo4j(t)
	svc := NewService(provider, discardLogger())
	ctx := context.Background()

	graphFor := func(t *testing.T, query string) *graph.Subgraph {
		t.Helper()
		values, err := url.ParseQuery(query)
		require.NoError(t, err)
		sg, err := svc.Graph(ctx, values)
		require.NoError(t, err)
		return sg
	}

	t.Run("rooted acted in", func(t *testing.T) {
		sg := graphFor(t, "root=Tom+Hanks&depth=1&rel=ACTED_IN")

		require.NotEmpty(t, sg.Nodes)
		assert.Equal(t, "Tom Hanks", sg.Nodes[0].Title)
		assert.Len(t, sg.Links, len(sg.Nodes)-1)
		for _, n := range sg.Nodes[1:] {
			assert.Equal(t, graph.CategoryMovie, n.Label)
		}
		for _, l := range sg.Links {
			assert.Equal(t, "ACTED_IN", l.Rel)
			assert.Equal(t, 0, l.Source)
		}
	})

	t.Run("unrooted limit", func(t *testing.T) {
		sg := graphFor(t, "limit=1")
		assert.Len(t, sg.Links, 1)
		assert.LessOrEqual(t, len(sg.Nodes), 2)
	})

	t.Run("excluded root", func(t *testing.T) {
		sg := graphFor(t, "root=Tom+Hanks&depth=1&rel=ACTED_IN&node_excl=Person")
		require.NotEmpty(t, sg.Nodes)
		for _, n := range sg.Nodes {
			assert.Equal(t, graph.CategoryMovie, n.Label)
		}
		assert.Empty(t, sg.Links)
	})

	t.Run("unknown root", func(t *testing.T) {
		sg := graphFor(t, "root=Nobody+Here")
		assert.Empty(t, sg.Nodes)
		assert.Empty(t, sg.Links)
	})

	t.Run("inverted year range", func(t *testing.T) {
		sg := graphFor(t, "released_gte=2000&released_lte=1995")
		for _, n := range sg.Nodes {
			assert.NotEqual(t, graph.CategoryMovie, n.Label)
		}
	})

	t.Run("pushed year range", func(t *testing.T) {
		sg := graphFor(t, "released_gte=2000&node_incl=Movie,Person")
		for _, n := range sg.Nodes {
			if n.Label != graph.CategoryMovie {
				continue
			}
			year, ok := n.Props["released"].AsInteger()
			require.True(t, ok)
			assert.GreaterOrEqual(t, year, int64(2000))
		}
	})
}
