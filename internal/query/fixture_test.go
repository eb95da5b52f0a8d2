package query

import (
	"context"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// memStore answers the statements produced by Build from an in-memory graph.
// Node filters pushed into scan statements are ignored so that the residual
// filtering of the assembler is what the tests observe.
type memStore struct {
	nodes []dbtype.Node
	rels  []dbtype.Relationship
	reads []string
}

func (m *memStore) node(id string) dbtype.Node {
	for _, n := range m.nodes {
		if n.ElementId == id {
			return n
		}
	}
	panic("unknown node " + id)
}

func (m *memStore) addNode(id string, labels []string, props map[string]any) {
	m.nodes = append(m.nodes, dbtype.Node{ElementId: id, Labels: labels, Props: props})
}

func (m *memStore) addRel(id, start, relType, end string) {
	m.rels = append(m.rels, dbtype.Relationship{
		ElementId:      id,
		StartElementId: start,
		EndElementId:   end,
		Type:           relType,
		Props:          map[string]any{},
	})
}

func (m *memStore) relRecord(r dbtype.Relationship) *neo4j.Record {
	return &neo4j.Record{
		Keys:   []string{"r", "s", "t", "rid"},
		Values: []any{r, m.node(r.StartElementId), m.node(r.EndElementId), r.ElementId},
	}
}

func typeAllowed(params map[string]any, relType string) bool {
	rels, ok := params["rels"].([]string)
	if !ok || len(rels) == 0 {
		return true
	}
	for _, r := range rels {
		if r == relType {
			return true
		}
	}
	return false
}

func (m *memStore) ExecuteRead(_ context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	m.reads = append(m.reads, cypher)
	switch {
	case strings.Contains(cypher, "MATCH (root)"):
		root := params["root"].(string)
		var ids []string
		for _, n := range m.nodes {
			movie := n.Props["title"] == root && contains(n.Labels, "Movie")
			person := n.Props["name"] == root && contains(n.Labels, "Person")
			if movie || person {
				ids = append(ids, n.ElementId)
			}
		}
		if len(ids) == 0 {
			return nil, nil
		}
		sort.Strings(ids)
		return []*neo4j.Record{{Keys: []string{"root"}, Values: []any{m.node(ids[0])}}}, nil

	case strings.Contains(cypher, "$frontier"):
		frontier := params["frontier"].([]string)
		var out []dbtype.Relationship
		for _, r := range m.rels {
			if !typeAllowed(params, r.Type) {
				continue
			}
			if contains(frontier, r.StartElementId) || contains(frontier, r.EndElementId) {
				out = append(out, r)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ElementId < out[j].ElementId })
		records := make([]*neo4j.Record, len(out))
		for i, r := range out {
			records[i] = m.relRecord(r)
		}
		return records, nil

	default:
		limit := params["limit"].(int64)
		var records []*neo4j.Record
		for _, r := range m.rels {
			if int64(len(records)) >= limit {
				break
			}
			if typeAllowed(params, r.Type) {
				records = append(records, m.relRecord(r))
			}
		}
		return records, nil
	}
}

func (m *memStore) ExecuteWrite(context.Context, string, map[string]any) ([]*neo4j.Record, error) {
	panic("unexpected write")
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}

// hanksGraph is Tom Hanks acting in Apollo 13 and Big, plus a director and
// a co-star two hops away from him.
func hanksGraph() *memStore {
	m := &memStore{}
	m.addNode("n1", []string{"Person"}, map[string]any{"name": "Tom Hanks", "born": int64(1956)})
	m.addNode("n2", []string{"Movie"}, map[string]any{"title": "Apollo 13", "released": int64(1995)})
	m.addNode("n3", []string{"Movie"}, map[string]any{"title": "Big", "released": int64(1988)})
	m.addNode("n4", []string{"Person"}, map[string]any{"name": "Ron Howard", "born": int64(1954)})
	m.addNode("n5", []string{"Person"}, map[string]any{"name": "Kevin Bacon", "born": int64(1958)})
	m.addNode("n6", []string{"Movie"}, map[string]any{"title": "Footloose", "released": int64(1984)})
	m.addRel("r1", "n1", "ACTED_IN", "n2")
	m.addRel("r2", "n1", "ACTED_IN", "n3")
	m.addRel("r3", "n4", "DIRECTED", "n2")
	m.addRel("r4", "n5", "ACTED_IN", "n2")
	m.addRel("r5", "n5", "ACTED_IN", "n6")
	return m
}

// hanksOnlyGraph is Tom Hanks acting in Apollo 13 and Big and nothing else.
func hanksOnlyGraph() *memStore {
	m := &memStore{}
	m.addNode("n1", []string{"Person"}, map[string]any{"name": "Tom Hanks", "born": int64(1956)})
	m.addNode("n2", []string{"Movie"}, map[string]any{"title": "Apollo 13", "released": int64(1995)})
	m.addNode("n3", []string{"Movie"}, map[string]any{"title": "Big", "released": int64(1988)})
	m.addRel("r1", "n1", "ACTED_IN", "n2")
	m.addRel("r2", "n1", "ACTED_IN", "n3")
	return m
}
