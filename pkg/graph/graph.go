package graph

import (
	"math"
)

// =============================================================================
// Graph - Resolved In-Memory Graph
// =============================================================================

// Graph is an immutable, resolved snapshot of a payload. Node order follows
// the payload; ids are unique; every edge resolves to known nodes.
//
// A Graph is replaced wholesale when new data arrives. It is safe for
// concurrent reads.
type Graph struct {
	nodes []Node
	index map[string]int
	edges []Edge
}

// IngestReport describes what Ingest discarded.
type IngestReport struct {
	DuplicateNodes int // nodes whose id was already seen
	EmptyIDs       int // nodes without an id
	DroppedLinks   int // links with an unknown endpoint
}

// Clean reports whether nothing was discarded.
func (r IngestReport) Clean() bool {
	return r.DuplicateNodes == 0 && r.EmptyIDs == 0 && r.DroppedLinks == 0
}

// Ingest resolves a payload into a Graph. Malformed entries are dropped and
// counted in the report, never returned as errors: the first node with a
// given id wins and links with a dangling endpoint are skipped.
func Ingest(p Payload) (*Graph, IngestReport) {
	var rep IngestReport
	g := &Graph{
		nodes: make([]Node, 0, len(p.Nodes)),
		index: make(map[string]int, len(p.Nodes)),
		edges: make([]Edge, 0, len(p.Links)),
	}

	for _, n := range p.Nodes {
		if n.ID == "" {
			rep.EmptyIDs++
			continue
		}
		if _, ok := g.index[n.ID]; ok {
			rep.DuplicateNodes++
			continue
		}
		g.index[n.ID] = len(g.nodes)
		g.nodes = append(g.nodes, n)
	}

	seen := make(map[EdgeKey]int)
	for _, l := range p.Links {
		src, ok1 := g.index[l.Source]
		dst, ok2 := g.index[l.Target]
		if !ok1 || !ok2 {
			rep.DroppedLinks++
			continue
		}
		key := EdgeKey{Source: l.Source, Target: l.Target, Relation: l.Relation}
		base := key
		key.Seq = seen[base]
		seen[base]++
		g.edges = append(g.edges, Edge{Key: key, Source: src, Target: dst})
	}

	return g, rep
}

// New is a convenience for tests and examples: it ingests a payload built
// from nodes and links and discards the report.
func New(nodes []Node, links []Link) *Graph {
	g, _ := Ingest(Payload{Nodes: nodes, Links: links})
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// Empty reports whether the graph has no nodes. A nil graph is empty.
func (g *Graph) Empty() bool { return g.Len() == 0 }

// Nodes returns the nodes in payload order. The slice must not be modified.
func (g *Graph) Nodes() []Node {
	if g == nil {
		return nil
	}
	return g.nodes
}

// Edges returns the resolved edges in payload order. The slice must not be
// modified.
func (g *Graph) Edges() []Edge {
	if g == nil {
		return nil
	}
	return g.edges
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.Index(id)
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// HasNode reports whether id is a node of the graph.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.Index(id)
	return ok
}

// Index returns the position of id in Nodes.
func (g *Graph) Index(id string) (int, bool) {
	if g == nil {
		return 0, false
	}
	i, ok := g.index[id]
	return i, ok
}

// Payload converts the graph back to its wire format.
func (g *Graph) Payload() Payload {
	p := Payload{
		Nodes: make([]Node, len(g.Nodes())),
		Links: make([]Link, len(g.Edges())),
	}
	copy(p.Nodes, g.Nodes())
	for i, e := range g.Edges() {
		p.Links[i] = Link{Source: e.Key.Source, Target: e.Key.Target, Relation: e.Key.Relation}
	}
	return p
}

// =============================================================================
// Geometry
// =============================================================================

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Finite reports whether both coordinates are finite.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Bounds is an axis-aligned bounding box. Accumulate from EmptyBounds, not
// from the zero value.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

// EmptyBounds returns bounds that contain no point.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
}

// Extend grows b to contain p. Non-finite points are ignored.
func (b Bounds) Extend(p Point) Bounds {
	if !p.Finite() {
		return b
	}
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
	return b
}

// BoundsOf returns the bounds of all finite points.
func BoundsOf(points []Point) Bounds {
	b := EmptyBounds()
	for _, p := range points {
		b = b.Extend(p)
	}
	return b
}

// Valid reports whether the box contains at least one finite point.
func (b Bounds) Valid() bool {
	return b.MinX <= b.MaxX && b.MinY <= b.MaxY &&
		Point{b.MinX, b.MinY}.Finite() && Point{b.MaxX, b.MaxY}.Finite()
}

// Width returns MaxX-MinX.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY-MinY.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}
