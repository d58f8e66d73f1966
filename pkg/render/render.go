package render

import (
	"math"

	"github.com/matzehuels/kgview/pkg/graph"
)

// =============================================================================
// Renderer - Output Surface
// =============================================================================

// Renderer is the drawing surface. Implementations keep one element per
// node id and per edge key; upserting an existing element moves it.
//
// Shapes arrive in screen space. A Renderer never sees the simulation or
// the viewport.
type Renderer interface {
	UpsertNode(NodeShape)
	UpsertEdge(EdgeShape)
	RemoveNode(id string)
	RemoveEdge(key graph.EdgeKey)
	SetStyle(ref Ref, s Style)
}

// Flusher is implemented by renderers that present a whole frame at once.
// The Adapter calls Flush after every Draw.
type Flusher interface {
	Flush() error
}

// Kind distinguishes node and edge references.
type Kind int

const (
	KindNode Kind = iota
	KindEdge
)

// Ref names one drawn element.
type Ref struct {
	Kind Kind
	Node string
	Edge graph.EdgeKey
}

// NodeRef returns the reference for a node.
func NodeRef(id string) Ref { return Ref{Kind: KindNode, Node: id} }

// EdgeRef returns the reference for an edge.
func EdgeRef(key graph.EdgeKey) Ref { return Ref{Kind: KindEdge, Edge: key} }

// =============================================================================
// Shapes
// =============================================================================

// Base sizes in simulation units. Sinks multiply them by the shape's Scale.
const (
	NodeRadius        = 10
	NodeFontSize      = 11
	EdgeFontSize      = 10
	LabelOffsetX      = 12
	LabelOffsetY      = 4
	ParallelEdgeSpace = 14
)

// NodeShape is a node in screen space.
type NodeShape struct {
	ID     string      `json:"id"`
	Group  graph.Group `json:"group,omitempty"`
	Label  string      `json:"label"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Radius float64     `json:"r"`
	Fill   string      `json:"fill"`
	// Scale is the viewport scale, for sizing fonts and strokes.
	Scale float64 `json:"scale"`
}

// EdgeShape is a directed edge in screen space. Bend is the perpendicular
// offset of the edge midpoint, non-zero only for parallel edges.
type EdgeShape struct {
	Key   graph.EdgeKey `json:"-"`
	ID    string        `json:"id"`
	X1    float64       `json:"x1"`
	Y1    float64       `json:"y1"`
	X2    float64       `json:"x2"`
	Y2    float64       `json:"y2"`
	Label string        `json:"label,omitempty"`
	Bend  float64       `json:"bend,omitempty"`
	Scale float64       `json:"scale"`
}

// Mid returns the point where the relation label sits: the chord midpoint
// pushed sideways by Bend.
func (e EdgeShape) Mid() graph.Point {
	mx, my := (e.X1+e.X2)/2, (e.Y1+e.Y2)/2
	if e.Bend == 0 {
		return graph.Point{X: mx, Y: my}
	}
	dx, dy := e.X2-e.X1, e.Y2-e.Y1
	l := dx*dx + dy*dy
	if l == 0 {
		return graph.Point{X: mx, Y: my - e.Bend}
	}
	l = math.Sqrt(l)
	return graph.Point{X: mx - dy/l*e.Bend, Y: my + dx/l*e.Bend}
}

// =============================================================================
// Style
// =============================================================================

// Style is the visual emphasis of one element.
type Style struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"stroke_width"`
	Opacity     float64 `json:"opacity"`
	LabelColor  string  `json:"label_color"`
	Bold        bool    `json:"bold,omitempty"`
}

// Colors of the explorer.
const (
	Accent         = "#ff9800"
	NodeStroke     = "#fff"
	NodeLabelColor = "#333"
	EdgeColor      = "#999"
	EdgeLabelColor = "#666"
)

// Opacities of the explorer.
const (
	EdgeOpacity   = 0.6
	DimmedOpacity = 0.25
)

var (
	baseNodeStyle = Style{Stroke: NodeStroke, StrokeWidth: 1.5, Opacity: 1, LabelColor: NodeLabelColor}
	hotNodeStyle  = Style{Stroke: Accent, StrokeWidth: 3, Opacity: 1, LabelColor: NodeLabelColor}
	dimNodeStyle  = Style{Stroke: NodeStroke, StrokeWidth: 1.5, Opacity: DimmedOpacity, LabelColor: NodeLabelColor}
	baseEdgeStyle = Style{Stroke: EdgeColor, StrokeWidth: 1.5, Opacity: EdgeOpacity, LabelColor: EdgeLabelColor}
	hotEdgeStyle  = Style{Stroke: Accent, StrokeWidth: 3, Opacity: EdgeOpacity, LabelColor: Accent, Bold: true}
)

// BaseNodeStyle is the style of every node when nothing is highlighted.
func BaseNodeStyle() Style { return baseNodeStyle }

// BaseEdgeStyle is the style of every edge when nothing is highlighted.
func BaseEdgeStyle() Style { return baseEdgeStyle }

// NodeStyle returns the style of a node. While a selection is active,
// highlighted nodes get the accent stroke and all others are dimmed.
func NodeStyle(active, highlighted bool) Style {
	switch {
	case !active:
		return baseNodeStyle
	case highlighted:
		return hotNodeStyle
	default:
		return dimNodeStyle
	}
}

// EdgeStyle returns the style of an edge. Non-highlighted edges keep the
// baseline style even while a selection is active.
func EdgeStyle(highlighted bool) Style {
	if highlighted {
		return hotEdgeStyle
	}
	return baseEdgeStyle
}
