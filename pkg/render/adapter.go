package render

import (
	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
	"github.com/matzehuels/kgview/pkg/viewport"
)

// Scene is everything needed to draw one frame. Positions are in
// simulation space and indexed like Graph.Nodes().
type Scene struct {
	Graph     *graph.Graph
	Positions []graph.Point
	Transform viewport.Transform
	Selection highlight.Selection
}

// Adapter turns scenes into Renderer calls. It remembers what is drawn so
// that removed elements are deleted and styles are only sent on change.
type Adapter struct {
	r       Renderer
	palette *Palette

	graph  *graph.Graph
	nodes  map[string]Style
	edges  map[graph.EdgeKey]Style
	bends  map[graph.EdgeKey]float64
	frames int
}

// NewAdapter returns an adapter drawing into r.
func NewAdapter(r Renderer) *Adapter {
	return &Adapter{
		r:       r,
		palette: NewPalette(),
		nodes:   make(map[string]Style),
		edges:   make(map[graph.EdgeKey]Style),
	}
}

// Renderer returns the underlying surface.
func (a *Adapter) Renderer() Renderer { return a.r }

// Palette returns the group palette.
func (a *Adapter) Palette() *Palette { return a.palette }

// Frames returns the number of frames drawn.
func (a *Adapter) Frames() int { return a.frames }

// Draw renders one frame: every node and edge of the scene graph is
// upserted at its screen position, elements of a previous graph are
// removed, and styles are updated where the selection changed them.
// If the renderer is a Flusher, Draw returns the result of Flush.
func (a *Adapter) Draw(sc Scene) error {
	if sc.Graph != a.graph {
		a.swap(sc.Graph)
	}
	t := sc.Transform
	if t.K == 0 {
		t = viewport.Identity
	}
	active := !sc.Selection.Empty()

	nodes := sc.Graph.Nodes()
	screen := make([]graph.Point, len(nodes))
	ok := make([]bool, len(nodes))
	for i := range nodes {
		if i < len(sc.Positions) && sc.Positions[i].Finite() {
			screen[i] = t.Apply(sc.Positions[i])
			ok[i] = true
		}
	}

	for _, e := range sc.Graph.Edges() {
		if !ok[e.Source] || !ok[e.Target] {
			continue
		}
		p, q := screen[e.Source], screen[e.Target]
		a.r.UpsertEdge(EdgeShape{
			Key:   e.Key,
			ID:    e.Key.String(),
			X1:    p.X,
			Y1:    p.Y,
			X2:    q.X,
			Y2:    q.Y,
			Label: e.Key.Relation,
			Bend:  a.bends[e.Key] * t.K,
			Scale: t.K,
		})
		a.style(EdgeRef(e.Key), EdgeStyle(sc.Selection.HasEdge(e.Key.Source, e.Key.Target)))
	}

	for i, n := range nodes {
		if !ok[i] {
			continue
		}
		a.r.UpsertNode(NodeShape{
			ID:     n.ID,
			Group:  n.Group,
			Label:  n.ID,
			X:      screen[i].X,
			Y:      screen[i].Y,
			Radius: NodeRadius * t.K,
			Fill:   a.palette.Color(n.Group),
			Scale:  t.K,
		})
		a.style(NodeRef(n.ID), NodeStyle(active, sc.Selection.HasNode(n.ID)))
	}

	a.frames++
	if f, ok := a.r.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// style sends s for ref unless it is already applied.
func (a *Adapter) style(ref Ref, s Style) {
	switch ref.Kind {
	case KindNode:
		if cur, ok := a.nodes[ref.Node]; ok && cur == s {
			return
		}
		a.nodes[ref.Node] = s
	case KindEdge:
		if cur, ok := a.edges[ref.Edge]; ok && cur == s {
			return
		}
		a.edges[ref.Edge] = s
	}
	a.r.SetStyle(ref, s)
}

// swap removes everything that is not part of g and recomputes the
// parallel-edge offsets.
func (a *Adapter) swap(g *graph.Graph) {
	keepNodes := make(map[string]bool, g.Len())
	for _, n := range g.Nodes() {
		keepNodes[n.ID] = true
	}
	keepEdges := make(map[graph.EdgeKey]bool, len(g.Edges()))
	for _, e := range g.Edges() {
		keepEdges[e.Key] = true
	}
	for key := range a.edges {
		if !keepEdges[key] {
			a.r.RemoveEdge(key)
			delete(a.edges, key)
		}
	}
	for id := range a.nodes {
		if !keepNodes[id] {
			a.r.RemoveNode(id)
			delete(a.nodes, id)
		}
	}
	a.graph = g
	a.bends = parallelBends(g)
	a.palette.Reset()
}

// parallelBends spreads edges between the same unordered node pair so their
// labels do not overlap. A lone edge gets no bend.
func parallelBends(g *graph.Graph) map[graph.EdgeKey]float64 {
	type pair struct{ a, b int }
	groups := make(map[pair][]graph.Edge)
	for _, e := range g.Edges() {
		p := pair{e.Source, e.Target}
		if p.a > p.b {
			p.a, p.b = p.b, p.a
		}
		groups[p] = append(groups[p], e)
	}
	bends := make(map[graph.EdgeKey]float64)
	for _, es := range groups {
		if len(es) < 2 {
			continue
		}
		mid := float64(len(es)-1) / 2
		for i, e := range es {
			b := (float64(i) - mid) * ParallelEdgeSpace
			// Reverse edges see the pair from the other side.
			if e.Source > e.Target {
				b = -b
			}
			bends[e.Key] = b
		}
	}
	return bends
}

// Reset removes every drawn element and forgets the graph.
func (a *Adapter) Reset() {
	for key := range a.edges {
		a.r.RemoveEdge(key)
	}
	for id := range a.nodes {
		a.r.RemoveNode(id)
	}
	a.nodes = make(map[string]Style)
	a.edges = make(map[graph.EdgeKey]Style)
	a.bends = nil
	a.graph = nil
	a.palette.Reset()
	if f, ok := a.r.(Flusher); ok {
		_ = f.Flush()
	}
}
