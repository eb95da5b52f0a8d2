package storage

import (
	"encoding/json"
	"errors"
	"io"
	"sync"

	"moviegraph/internal/graph"
)

// SubgraphLine is one line of the combined export format.
type SubgraphLine struct {
	Root  string               `json:"root"`
	Nodes []graph.ResponseNode `json:"nodes"`
	Links []graph.Link         `json:"links"`
}

// NodeLine is one node of the split export format. Index is the position of
// the node in its subgraph, which link lines refer to.
type NodeLine struct {
	Root  string              `json:"root"`
	Index int                 `json:"index"`
	Title string              `json:"title"`
	Label graph.LabelCategory `json:"label"`
	Props graph.Properties    `json:"props"`
}

// LinkLine is one link of the split export format.
type LinkLine struct {
	Root   string `json:"root"`
	Source int    `json:"source"`
	Target int    `json:"target"`
	Rel    string `json:"rel"`
}

// JSONLEmitter writes one line per subgraph.
type JSONLEmitter struct {
	w       io.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONLEmitter creates a new JSONLEmitter writing to w.
func NewJSONLEmitter(w io.Writer) *JSONLEmitter {
	return &JSONLEmitter{
		w:       w,
		encoder: json.NewEncoder(w),
	}
}

func (e *JSONLEmitter) EmitSubgraph(root string, sg *graph.Subgraph) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.encoder.Encode(SubgraphLine{
		Root:  root,
		Nodes: sg.Nodes,
		Links: sg.Links,
	})
}

// Close closes the underlying writer if it implements io.Closer.
func (e *JSONLEmitter) Close() error {
	if c, ok := e.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// SplitJSONLEmitter writes nodes and links to separate files. The lines of
// one subgraph are written together.
type SplitJSONLEmitter struct {
	nodeEncoder *json.Encoder
	linkEncoder *json.Encoder
	nodeCloser  io.Closer
	linkCloser  io.Closer
	mu          sync.Mutex
}

// NewSplitJSONLEmitter creates a new SplitJSONLEmitter.
func NewSplitJSONLEmitter(nodeW, linkW io.Writer) *SplitJSONLEmitter {
	s := &SplitJSONLEmitter{
		nodeEncoder: json.NewEncoder(nodeW),
		linkEncoder: json.NewEncoder(linkW),
	}
	if c, ok := nodeW.(io.Closer); ok {
		s.nodeCloser = c
	}
	if c, ok := linkW.(io.Closer); ok {
		s.linkCloser = c
	}
	return s
}

func (e *SplitJSONLEmitter) EmitSubgraph(root string, sg *graph.Subgraph) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, n := range sg.Nodes {
		line := NodeLine{Root: root, Index: i, Title: n.Title, Label: n.Label, Props: n.Props}
		if err := e.nodeEncoder.Encode(line); err != nil {
			return err
		}
	}
	for _, l := range sg.Links {
		line := LinkLine{Root: root, Source: l.Source, Target: l.Target, Rel: l.Rel}
		if err := e.linkEncoder.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

func (e *SplitJSONLEmitter) Close() error {
	var errs []error
	if e.nodeCloser != nil {
		errs = append(errs, e.nodeCloser.Close())
	}
	if e.linkCloser != nil {
		errs = append(errs, e.linkCloser.Close())
	}
	return errors.Join(errs...)
}
