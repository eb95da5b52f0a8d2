package query

import "moviegraph/internal/graph"

// Assembler folds traversal records into a Subgraph. Nodes are deduplicated
// by store id and indexed in order of first acceptance; links are emitted
// once both endpoints are accepted, up to the request limit.
type Assembler struct {
	filter   filter
	limit    int
	index    map[string]int
	rejected map[string]struct{}
	out      *graph.Subgraph
}

// NewAssembler returns an empty assembler for req.
func NewAssembler(req Request) *Assembler {
	return &Assembler{
		filter:   newFilter(req),
		limit:    req.Limit,
		index:    make(map[string]int),
		rejected: make(map[string]struct{}),
		out:      graph.NewSubgraph(),
	}
}

// Add folds one record into the subgraph. It returns false once the link
// limit has been reached; later records are ignored.
func (a *Assembler) Add(rec Record) bool {
	if a.full() {
		return false
	}
	if rec.Node != nil {
		a.accept(rec.Node)
	}
	if rel := rec.Rel; rel != nil && rel.Start != nil && rel.End != nil && a.filter.relationship(rel.Type) {
		source, sourceOK := a.accept(rel.Start)
		target, targetOK := a.accept(rel.End)
		if sourceOK && targetOK {
			a.out.Links = append(a.out.Links, graph.Link{
				Source: source,
				Target: target,
				Rel:    rel.Type,
			})
		}
	}
	return !a.full()
}

// Result returns the assembled subgraph.
func (a *Assembler) Result() *graph.Subgraph {
	return a.out
}

func (a *Assembler) full() bool {
	return len(a.out.Links) >= a.limit
}

func (a *Assembler) accept(n *graph.Node) (int, bool) {
	if idx, ok := a.index[n.ID]; ok {
		return idx, true
	}
	if _, ok := a.rejected[n.ID]; ok {
		return 0, false
	}
	if !a.filter.node(n) {
		a.rejected[n.ID] = struct{}{}
		return 0, false
	}

	idx := len(a.out.Nodes)
	a.index[n.ID] = idx
	a.out.Nodes = append(a.out.Nodes, graph.NewResponseNode(n))
	return idx, true
}

// Assemble folds records in order and returns the resulting subgraph.
func Assemble(records []Record, req Request) *graph.Subgraph {
	a := NewAssembler(req)
	for _, rec := range records {
		if !a.Add(rec) {
			break
		}
	}
	return a.Result()
}
