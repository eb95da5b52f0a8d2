package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	query_mocks "moviegraph/internal/query/mocks"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func collect(t *testing.T, tr *Traverser, plan Traversal) []Record {
	t.Helper()
	var out []Record
	err := tr.Run(context.Background(), plan, func(r Record) bool {
		out = append(out, r)
		return true
	})
	require.NoError(t, err)
	return out
}

func TestTraverser_ScanStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := query_mocks.NewMockStore(ctrl)

	mockStore.EXPECT().
		ExecuteRead(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("connection refused"))

	tr := NewTraverser(mockStore, discardLogger())
	err := tr.Run(context.Background(), Build(Request{Limit: 10, Depth: 2}), func(Record) bool { return true })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan query")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTraverser_RootNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := query_mocks.NewMockStore(ctrl)

	// Only the lookup runs; no hop may follow.
	mockStore.EXPECT().
		ExecuteRead(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*neo4j.Record{}, nil).
		Times(1)

	tr := NewTraverser(mockStore, discardLogger())
	records := collect(t, tr, Build(Request{Limit: 10, Depth: 2, Root: "Nobody"}))
	assert.Empty(t, records)
}

func TestTraverser_HopErrorIsWrapped(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := query_mocks.NewMockStore(ctrl)

	root := dbtype.Node{ElementId: "n1", Labels: []string{"Person"}, Props: map[string]any{"name": "Tom Hanks"}}
	gomock.InOrder(
		mockStore.EXPECT().
			ExecuteRead(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]*neo4j.Record{{Keys: []string{"root"}, Values: []any{root}}}, nil),
		mockStore.EXPECT().
			ExecuteRead(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errors.New("timeout")),
	)

	tr := NewTraverser(mockStore, discardLogger())
	err := tr.Run(context.Background(), Build(Request{Limit: 10, Depth: 2, Root: "Tom Hanks"}), func(Record) bool { return true })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "hop 1")
}

func TestTraverser_MalformedRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockStore := query_mocks.NewMockStore(ctrl)

	mockStore.EXPECT().
		ExecuteRead(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*neo4j.Record{{Keys: []string{"r"}, Values: []any{"not a relationship"}}}, nil)

	tr := NewTraverser(mockStore, discardLogger())
	err := tr.Run(context.Background(), Build(Request{Limit: 10, Depth: 2}), func(Record) bool { return true })
	require.Error(t, err)
}

func TestTraverser_RootedBindsFrontier(t *testing.T) {
	store := hanksGraph()
	tr := NewTraverser(store, discardLogger())

	records := collect(t, tr, Build(Request{Limit: 10, Depth: 1, Root: "Tom Hanks"}))

	require.Len(t, records, 3)
	assert.Equal(t, "n1", records[0].Node.ID)
	assert.Nil(t, records[0].Rel)
	assert.Equal(t, "r1", records[1].Rel.ID)
	assert.Equal(t, "r2", records[2].Rel.ID)
	assert.Len(t, store.reads, 2)
}

func TestTraverser_DepthBoundsReachability(t *testing.T) {
	tests := []struct {
		depth int
		rels  []string
	}{
		{depth: 1, rels: []string{"r1", "r2"}},
		{depth: 2, rels: []string{"r1", "r2", "r3", "r4"}},
		{depth: 3, rels: []string{"r1", "r2", "r3", "r4", "r5"}},
	}

	for _, tt := range tests {
		tr := NewTraverser(hanksGraph(), discardLogger())
		records := collect(t, tr, Build(Request{Limit: 100, Depth: tt.depth, Root: "Tom Hanks"}))

		var got []string
		for _, r := range records[1:] {
			got = append(got, r.Rel.ID)
		}
		assert.Equal(t, tt.rels, got, "depth %d", tt.depth)
	}
}

func TestTraverser_CycleVisitsEachRelationshipOnce(t *testing.T) {
	store := &memStore{}
	store.addNode("a", []string{"Person"}, map[string]any{"name": "A"})
	store.addNode("b", []string{"Person"}, map[string]any{"name": "B"})
	store.addNode("c", []string{"Person"}, map[string]any{"name": "C"})
	store.addRel("r1", "a", "KNOWS", "b")
	store.addRel("r2", "b", "KNOWS", "c")
	store.addRel("r3", "c", "KNOWS", "a")

	tr := NewTraverser(store, discardLogger())
	records := collect(t, tr, Build(Request{Limit: 100, Depth: 6, Root: "A"}))

	seen := map[string]int{}
	for _, r := range records[1:] {
		seen[r.Rel.ID]++
	}
	assert.Equal(t, map[string]int{"r1": 1, "r2": 1, "r3": 1}, seen)
	// The frontier empties after two hops, well before the depth bound.
	assert.LessOrEqual(t, len(store.reads), 4)
}

func TestTraverser_VisitStopsTheWalk(t *testing.T) {
	store := hanksGraph()
	tr := NewTraverser(store, discardLogger())

	var count int
	err := tr.Run(context.Background(), Build(Request{Limit: 100, Depth: 3, Root: "Tom Hanks"}), func(Record) bool {
		count++
		return count < 2
	})

	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, store.reads, 2)
}

func TestTraverser_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ctrl := gomock.NewController(t)
	mockStore := query_mocks.NewMockStore(ctrl)
	root := dbtype.Node{ElementId: "n1", Labels: []string{"Person"}, Props: map[string]any{"name": "Tom Hanks"}}
	mockStore.EXPECT().
		ExecuteRead(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*neo4j.Record{{Keys: []string{"root"}, Values: []any{root}}}, nil)

	tr := NewTraverser(mockStore, discardLogger())
	err := tr.Run(ctx, Build(Request{Limit: 10, Depth: 2, Root: "Tom Hanks"}), func(Record) bool { return true })
	assert.ErrorIs(t, err, context.Canceled)
}
