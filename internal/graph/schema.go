package graph

import "sort"

// Node is a node as read from the graph store. ID is the store's element id
// and only identifies the node within one traversal.
type Node struct {
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// HasLabel reports whether the node carries label.
func (n *Node) HasLabel(label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Relationship is a relationship instance with both endpoints resolved.
// Start and End follow the stored direction of the relationship.
type Relationship struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Start      *Node          `json:"start"`
	End        *Node          `json:"end"`
	Properties map[string]any `json:"properties,omitempty"`
}

// LabelCategory is the coarse node class exposed on the wire.
type LabelCategory string

const (
	CategoryMovie  LabelCategory = "movie"
	CategoryPerson LabelCategory = "person"
	CategoryOther  LabelCategory = "other"
)

const (
	LabelMovie  = "Movie"
	LabelPerson = "Person"
)

// CategoryOf classifies a label set. Movie wins over Person when a node
// carries both.
func CategoryOf(labels []string) LabelCategory {
	person := false
	for _, l := range labels {
		switch l {
		case LabelMovie:
			return CategoryMovie
		case LabelPerson:
			person = true
		}
	}
	if person {
		return CategoryPerson
	}
	return CategoryOther
}

// DisplayTitle derives the human readable title of a node: title for movies,
// name for people, otherwise the first text property in key order.
// Movies and people missing their natural key fall back the same way.
func DisplayTitle(category LabelCategory, props Properties) string {
	var key string
	switch category {
	case CategoryMovie:
		key = "title"
	case CategoryPerson:
		key = "name"
	}
	if key != "" {
		if s, ok := props[key].AsText(); ok {
			return s
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := props[k].AsText(); ok {
			return s
		}
	}
	return ""
}

// ResponseNode is a node in the wire format.
type ResponseNode struct {
	Title string        `json:"title"`
	Label LabelCategory `json:"label"`
	Props Properties    `json:"props"`
}

// NewResponseNode coerces the node's properties and derives its category
// and display title.
func NewResponseNode(n *Node) ResponseNode {
	props := CoerceMap(n.Properties)
	category := CategoryOf(n.Labels)
	return ResponseNode{
		Title: DisplayTitle(category, props),
		Label: category,
		Props: props,
	}
}

// Link is an edge in the wire format. Source and Target index into the
// node list of the same Subgraph.
type Link struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Rel    string `json:"rel"`
}

// Subgraph is the response body of a graph query.
type Subgraph struct {
	Nodes []ResponseNode `json:"nodes"`
	Links []Link         `json:"links"`
}

// NewSubgraph returns an empty subgraph that serializes as
// {"nodes":[],"links":[]}.
func NewSubgraph() *Subgraph {
	return &Subgraph{
		Nodes: []ResponseNode{},
		Links: []Link{},
	}
}
