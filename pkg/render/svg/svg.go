// Package svg renders graph frames as standalone SVG documents.
//
// A [Sink] is a render.Renderer that buffers the current element set and
// writes a complete document on every Flush. It is used for headless
// layout export:
//
//	sink := svg.New(800, 600, svg.WithOutput(f))
//	adapter := render.NewAdapter(sink)
//	adapter.Draw(scene) // flushes one document to f
//
// Drawing follows the explorer: links with arrow markers under nodes,
// relation labels at link midpoints and node labels offset to the right
// with a white halo.
package svg

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"

	svgo "github.com/ajstarks/svgo"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/render"
)

// Sink is an SVG render.Renderer.
type Sink struct {
	width, height int
	background    string
	title         string
	out           io.Writer

	nodes      map[string]render.NodeShape
	edges      map[graph.EdgeKey]render.EdgeShape
	nodeStyles map[string]render.Style
	edgeStyles map[graph.EdgeKey]render.Style

	last []byte
}

// Option configures a Sink.
type Option func(*Sink)

// WithOutput writes every flushed document to w.
func WithOutput(w io.Writer) Option {
	return func(s *Sink) { s.out = w }
}

// WithBackground fills the canvas with color. The default is transparent.
func WithBackground(color string) Option {
	return func(s *Sink) { s.background = color }
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(s *Sink) { s.title = title }
}

// New returns a sink for a width×height canvas.
func New(width, height int, opts ...Option) *Sink {
	s := &Sink{
		width:      width,
		height:     height,
		nodes:      make(map[string]render.NodeShape),
		edges:      make(map[graph.EdgeKey]render.EdgeShape),
		nodeStyles: make(map[string]render.Style),
		edgeStyles: make(map[graph.EdgeKey]render.Style),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sink) UpsertNode(n render.NodeShape) { s.nodes[n.ID] = n }
func (s *Sink) UpsertEdge(e render.EdgeShape) { s.edges[e.Key] = e }

func (s *Sink) RemoveNode(id string) {
	delete(s.nodes, id)
	delete(s.nodeStyles, id)
}

func (s *Sink) RemoveEdge(key graph.EdgeKey) {
	delete(s.edges, key)
	delete(s.edgeStyles, key)
}

func (s *Sink) SetStyle(ref render.Ref, st render.Style) {
	switch ref.Kind {
	case render.KindNode:
		s.nodeStyles[ref.Node] = st
	case render.KindEdge:
		s.edgeStyles[ref.Edge] = st
	}
}

// Resize changes the canvas size for subsequent flushes.
func (s *Sink) Resize(width, height int) {
	s.width, s.height = width, height
}

// Bytes returns the last flushed document.
func (s *Sink) Bytes() []byte { return s.last }

// Flush renders the current elements to a new document.
func (s *Sink) Flush() error {
	var buf bytes.Buffer
	s.write(&buf)
	s.last = buf.Bytes()
	if s.out != nil {
		if _, err := s.out.Write(s.last); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	return nil
}

func (s *Sink) write(w io.Writer) {
	canvas := svgo.New(w)
	canvas.Start(s.width, s.height, fmt.Sprintf(`viewBox="0 0 %d %d"`, s.width, s.height))
	if s.title != "" {
		canvas.Title(s.title)
	}

	canvas.Def()
	arrowMarker(canvas, "arrow", render.EdgeColor)
	arrowMarker(canvas, "arrow-hot", render.Accent)
	canvas.DefEnd()

	if s.background != "" {
		canvas.Rect(0, 0, s.width, s.height, "fill:"+s.background)
	}

	edges := s.sortedEdges()
	nodes := s.sortedNodes()

	canvas.Gid("links")
	for _, e := range edges {
		st := s.edgeStyle(e.Key)
		marker := "arrow"
		if st.Stroke == render.Accent {
			marker = "arrow-hot"
		}
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%.2f;stroke-opacity:%.2f;marker-end:url(#%s)",
			st.Stroke, st.StrokeWidth*e.Scale, st.Opacity, marker)
		if e.Bend == 0 {
			canvas.Line(px(e.X1), px(e.Y1), px(e.X2), px(e.Y2), style)
		} else {
			canvas.Path(curve(e), style)
		}
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for _, n := range nodes {
		st := s.nodeStyle(n.ID)
		canvas.Circle(px(n.X), px(n.Y), max(px(n.Radius), 1),
			fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:%.2f",
				n.Fill, st.Opacity, st.Stroke, st.StrokeWidth*n.Scale))
	}
	canvas.Gend()

	canvas.Gid("node-labels")
	for _, n := range nodes {
		st := s.nodeStyle(n.ID)
		canvas.Text(px(n.X+render.LabelOffsetX*n.Scale), px(n.Y+render.LabelOffsetY*n.Scale), n.Label,
			fmt.Sprintf("font-size:%.1fpx;fill:%s;fill-opacity:%.2f;stroke:white;stroke-width:%.1f;paint-order:stroke;font-family:sans-serif",
				render.NodeFontSize*n.Scale, st.LabelColor, st.Opacity, 3*n.Scale))
	}
	canvas.Gend()

	canvas.Gid("link-labels")
	for _, e := range edges {
		if e.Label == "" {
			continue
		}
		st := s.edgeStyle(e.Key)
		weight := "normal"
		if st.Bold {
			weight = "bold"
		}
		m := e.Mid()
		canvas.Text(px(m.X), px(m.Y), e.Label,
			fmt.Sprintf("font-size:%.1fpx;fill:%s;font-weight:%s;font-family:sans-serif",
				render.EdgeFontSize*e.Scale, st.LabelColor, weight))
	}
	canvas.Gend()

	canvas.End()
}

// arrowMarker defines the explorer's arrowhead, offset so the tip stops at
// the node circle.
func arrowMarker(canvas *svgo.SVG, id, color string) {
	canvas.Marker(id, 18, 0, 6, 6, `viewBox="0 -5 10 10"`, `orient="auto"`)
	canvas.Path("M0,-5L10,0L0,5", "fill:"+color)
	canvas.MarkerEnd()
}

// curve returns a quadratic path through the edge's label point.
func curve(e render.EdgeShape) string {
	m := e.Mid()
	cx := 2*m.X - (e.X1+e.X2)/2
	cy := 2*m.Y - (e.Y1+e.Y2)/2
	return fmt.Sprintf("M%d,%d Q%d,%d %d,%d", px(e.X1), px(e.Y1), px(cx), px(cy), px(e.X2), px(e.Y2))
}

func (s *Sink) nodeStyle(id string) render.Style {
	if st, ok := s.nodeStyles[id]; ok {
		return st
	}
	return render.BaseNodeStyle()
}

func (s *Sink) edgeStyle(key graph.EdgeKey) render.Style {
	if st, ok := s.edgeStyles[key]; ok {
		return st
	}
	return render.BaseEdgeStyle()
}

func (s *Sink) sortedNodes() []render.NodeShape {
	out := make([]render.NodeShape, 0, len(s.nodes))
	for _, n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Sink) sortedEdges() []render.EdgeShape {
	out := make([]render.EdgeShape, 0, len(s.edges))
	for _, e := range s.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func px(v float64) int { return int(math.Round(v)) }
