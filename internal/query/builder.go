package query

import (
	"fmt"
	"maps"
	"strings"
)

// Mode selects the traversal shape.
type Mode int

const (
	// ModeScan samples relationships anywhere in the graph.
	ModeScan Mode = iota
	// ModeRooted expands breadth-first from a single root node.
	ModeRooted
)

func (m Mode) String() string {
	switch m {
	case ModeScan:
		return "scan"
	case ModeRooted:
		return "rooted"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Statement is a parameterized Cypher statement.
type Statement struct {
	Cypher string
	Params map[string]any
}

// With returns a copy of the statement with one more parameter bound.
func (s Statement) With(key string, value any) Statement {
	params := make(map[string]any, len(s.Params)+1)
	maps.Copy(params, s.Params)
	params[key] = value
	return Statement{Cypher: s.Cypher, Params: params}
}

// Traversal is the store-facing plan for one Request. Scan is set in scan
// mode; Lookup and Hop are set in rooted mode, where Hop expects the current
// BFS frontier bound as $frontier.
type Traversal struct {
	Mode  Mode
	Depth int
	Scan  Statement
	// Lookup returns the root node in column "root", or no rows.
	Lookup Statement
	// Hop returns columns r, s and t for every relationship touching the
	// frontier, ordered by relationship id.
	Hop Statement
}

// Build plans the traversal for req.
func Build(req Request) Traversal {
	if req.Rooted() {
		return Traversal{
			Mode:   ModeRooted,
			Depth:  req.Depth,
			Lookup: buildRootQuery(req.Root),
			Hop:    buildHopQuery(req.RelTypes),
		}
	}
	return Traversal{
		Mode: ModeScan,
		Scan: buildScanQuery(req),
	}
}

func buildRootQuery(root string) Statement {
	return Statement{
		Cypher: `
			MATCH (root)
			WHERE (root:Movie AND root.title = $root)
			   OR (root:Person AND root.name = $root)
			RETURN root
			ORDER BY elementId(root)
			LIMIT 1
		`,
		Params: map[string]any{"root": root},
	}
}

// buildHopQuery only pushes the relationship type down. Node filters stay in
// the assembler so that a filtered node still connects its neighbors to the
// root.
func buildHopQuery(relTypes []string) Statement {
	params := map[string]any{}
	where := []string{"elementId(n) IN $frontier"}
	if len(relTypes) > 0 {
		where = append(where, "type(r) IN $rels")
		params["rels"] = relTypes
	}

	cypher := fmt.Sprintf(`
			MATCH (n)-[r]-(m)
			WHERE %s
			RETURN DISTINCT r, startNode(r) AS s, endNode(r) AS t, elementId(r) AS rid
			ORDER BY rid
		`, strings.Join(where, "\n\t\t\t  AND "))
	return Statement{Cypher: cypher, Params: params}
}

func buildScanQuery(req Request) Statement {
	params := map[string]any{"limit": int64(req.Limit)}
	var where []string
	if len(req.RelTypes) > 0 {
		where = append(where, "type(r) IN $rels")
		params["rels"] = req.RelTypes
	}
	where = append(where, nodePredicates("s", req, params)...)
	where = append(where, nodePredicates("t", req, params)...)

	var sb strings.Builder
	sb.WriteString("\n\t\t\tMATCH (s)-[r]->(t)\n")
	if len(where) > 0 {
		sb.WriteString("\t\t\tWHERE ")
		sb.WriteString(strings.Join(where, "\n\t\t\t  AND "))
		sb.WriteString("\n")
	}
	sb.WriteString("\t\t\tRETURN r, s, t\n\t\t\tLIMIT $limit\n\t\t")
	return Statement{Cypher: sb.String(), Params: params}
}

// nodePredicates renders the label and release-year filters for variable v.
// A Movie without a comparable released value fails any active year bound,
// because the comparison yields null.
func nodePredicates(v string, req Request, params map[string]any) []string {
	var preds []string
	if len(req.ExcludedLabels) > 0 {
		preds = append(preds, fmt.Sprintf("none(l IN labels(%s) WHERE l IN $node_excl)", v))
		params["node_excl"] = req.ExcludedLabels
	}
	if len(req.IncludedLabels) > 0 {
		preds = append(preds, fmt.Sprintf("any(l IN labels(%s) WHERE l IN $node_incl)", v))
		params["node_incl"] = req.IncludedLabels
	}
	if req.ReleasedGTE != nil {
		preds = append(preds, fmt.Sprintf("(NOT %[1]s:Movie OR %[1]s.released >= $released_gte)", v))
		params["released_gte"] = *req.ReleasedGTE
	}
	if req.ReleasedLTE != nil {
		preds = append(preds, fmt.Sprintf("(NOT %[1]s:Movie OR %[1]s.released <= $released_lte)", v))
		params["released_lte"] = *req.ReleasedLTE
	}
	return preds
}
