package render

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/matzehuels/kgview/pkg/graph"
)

// Recorder is an in-memory Renderer. It keeps the current element set and
// counts calls, which makes it the surface for headless layouts and tests.
type Recorder struct {
	nodes      map[string]NodeShape
	edges      map[graph.EdgeKey]EdgeShape
	nodeStyles map[string]Style
	edgeStyles map[graph.EdgeKey]Style

	Upserts     int
	Removes     int
	StyleWrites int
	Flushes     int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		nodes:      make(map[string]NodeShape),
		edges:      make(map[graph.EdgeKey]EdgeShape),
		nodeStyles: make(map[string]Style),
		edgeStyles: make(map[graph.EdgeKey]Style),
	}
}

func (r *Recorder) UpsertNode(n NodeShape) {
	r.Upserts++
	r.nodes[n.ID] = n
}

func (r *Recorder) UpsertEdge(e EdgeShape) {
	r.Upserts++
	r.edges[e.Key] = e
}

func (r *Recorder) RemoveNode(id string) {
	r.Removes++
	delete(r.nodes, id)
	delete(r.nodeStyles, id)
}

func (r *Recorder) RemoveEdge(key graph.EdgeKey) {
	r.Removes++
	delete(r.edges, key)
	delete(r.edgeStyles, key)
}

func (r *Recorder) SetStyle(ref Ref, s Style) {
	r.StyleWrites++
	switch ref.Kind {
	case KindNode:
		r.nodeStyles[ref.Node] = s
	case KindEdge:
		r.edgeStyles[ref.Edge] = s
	}
}

func (r *Recorder) Flush() error {
	r.Flushes++
	return nil
}

// Node returns the drawn node with the given id.
func (r *Recorder) Node(id string) (NodeShape, bool) {
	n, ok := r.nodes[id]
	return n, ok
}

// Edge returns the drawn edge with the given key.
func (r *Recorder) Edge(key graph.EdgeKey) (EdgeShape, bool) {
	e, ok := r.edges[key]
	return e, ok
}

// NodeStyle returns the last style applied to a node.
func (r *Recorder) NodeStyle(id string) Style { return r.nodeStyles[id] }

// EdgeStyle returns the last style applied to an edge.
func (r *Recorder) EdgeStyle(key graph.EdgeKey) Style { return r.edgeStyles[key] }

// NodeCount returns the number of drawn nodes.
func (r *Recorder) NodeCount() int { return len(r.nodes) }

// EdgeCount returns the number of drawn edges.
func (r *Recorder) EdgeCount() int { return len(r.edges) }

// =============================================================================
// Frame - Serializable Snapshot
// =============================================================================

// Frame is a snapshot of a drawn scene, sorted for stable output.
type Frame struct {
	Nodes []FrameNode `json:"nodes"`
	Edges []FrameEdge `json:"edges"`
}

// FrameNode is a drawn node with its style.
type FrameNode struct {
	NodeShape
	Style Style `json:"style"`
}

// FrameEdge is a drawn edge with its style.
type FrameEdge struct {
	EdgeShape
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation,omitempty"`
	Style    Style  `json:"style"`
}

// Snapshot returns the current frame.
func (r *Recorder) Snapshot() Frame {
	f := Frame{
		Nodes: make([]FrameNode, 0, len(r.nodes)),
		Edges: make([]FrameEdge, 0, len(r.edges)),
	}
	for id, n := range r.nodes {
		f.Nodes = append(f.Nodes, FrameNode{NodeShape: n, Style: r.nodeStyles[id]})
	}
	for key, e := range r.edges {
		f.Edges = append(f.Edges, FrameEdge{
			EdgeShape: e,
			Source:    key.Source,
			Target:    key.Target,
			Relation:  key.Relation,
			Style:     r.edgeStyles[key],
		})
	}
	sort.Slice(f.Nodes, func(i, j int) bool { return f.Nodes[i].ID < f.Nodes[j].ID })
	sort.Slice(f.Edges, func(i, j int) bool { return f.Edges[i].ID < f.Edges[j].ID })
	return f
}

// WriteJSON writes the current frame as indented JSON.
func (r *Recorder) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Snapshot())
}
