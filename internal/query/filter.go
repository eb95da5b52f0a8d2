package query

import "moviegraph/internal/graph"

// filter holds the residual predicates of a Request. They are applied to
// every record whatever the store already filtered.
type filter struct {
	rels        map[string]struct{}
	included    map[string]struct{}
	excluded    map[string]struct{}
	releasedGTE *int64
	releasedLTE *int64
}

func newFilter(req Request) filter {
	return filter{
		rels:        toSet(req.RelTypes),
		included:    toSet(req.IncludedLabels),
		excluded:    toSet(req.ExcludedLabels),
		releasedGTE: req.ReleasedGTE,
		releasedLTE: req.ReleasedLTE,
	}
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func (f filter) relationship(relType string) bool {
	if len(f.rels) == 0 {
		return true
	}
	_, ok := f.rels[relType]
	return ok
}

// node applies label exclusion, then inclusion, then the release-year range
// for movies. Exclusion wins when a node matches both label sets.
func (f filter) node(n *graph.Node) bool {
	for _, l := range n.Labels {
		if _, ok := f.excluded[l]; ok {
			return false
		}
	}
	if len(f.included) > 0 && !f.hasIncludedLabel(n) {
		return false
	}
	if (f.releasedGTE != nil || f.releasedLTE != nil) && n.HasLabel(graph.LabelMovie) {
		return f.releasedInRange(graph.Coerce(n.Properties["released"]))
	}
	return true
}

func (f filter) hasIncludedLabel(n *graph.Node) bool {
	for _, l := range n.Labels {
		if _, ok := f.included[l]; ok {
			return true
		}
	}
	return false
}

// releasedInRange fails closed: a missing or non-numeric year never
// satisfies a bound.
func (f filter) releasedInRange(released graph.Value) bool {
	if year, ok := released.AsInteger(); ok {
		return (f.releasedGTE == nil || year >= *f.releasedGTE) &&
			(f.releasedLTE == nil || year <= *f.releasedLTE)
	}
	if year, ok := released.AsFloat(); ok {
		return (f.releasedGTE == nil || year >= float64(*f.releasedGTE)) &&
			(f.releasedLTE == nil || year <= float64(*f.releasedLTE))
	}
	return false
}
