// Package term draws graph frames onto a character-cell canvas for the
// terminal UI.
//
// Screen coordinates map to cells with a 1:2 aspect: x is the column and
// y/2 is the row, since terminal cells are roughly twice as tall as wide.
// A canvas of cols×rows cells therefore shows a viewport of cols×(2·rows)
// screen units.
//
// Edges are drawn as dotted lines, nodes as a filled glyph in their group
// color with the id to the right, and relation labels at the edge
// midpoint. Highlighted elements use the accent color, and nodes outside a
// highlighted loop are dimmed.
package term

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/render"
)

const (
	glyphNode    = '●'
	glyphNodeHot = '◉'
	glyphEdge    = '·'
	glyphEdgeHot = '•'
)

// Rows per screen unit of height.
const aspect = 2

// Lines longer than this are skipped.
const maxLineSteps = 1 << 16

// dimColor replaces group colors for nodes outside the highlight.
const dimColor = "240"

type cell struct {
	r     rune
	style lipgloss.Style
	key   string
}

// Canvas is a render.Renderer drawing into a grid of terminal cells.
type Canvas struct {
	cols, rows int

	nodes      map[string]render.NodeShape
	edges      map[graph.EdgeKey]render.EdgeShape
	nodeStyles map[string]render.Style
	edgeStyles map[graph.EdgeKey]render.Style

	grid []cell
	out  string
}

// New returns a canvas of cols×rows cells.
func New(cols, rows int) *Canvas {
	c := &Canvas{
		nodes:      make(map[string]render.NodeShape),
		edges:      make(map[graph.EdgeKey]render.EdgeShape),
		nodeStyles: make(map[string]render.Style),
		edgeStyles: make(map[graph.EdgeKey]render.Style),
	}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell grid. The next Flush redraws at the new size.
func (c *Canvas) Resize(cols, rows int) {
	c.cols, c.rows = max(cols, 0), max(rows, 0)
	c.grid = make([]cell, c.cols*c.rows)
	c.clear()
}

// Size returns the grid size in cells.
func (c *Canvas) Size() (cols, rows int) { return c.cols, c.rows }

// Viewport returns the screen-space size the canvas shows.
func (c *Canvas) Viewport() (w, h float64) {
	return float64(c.cols), float64(c.rows * aspect)
}

func (c *Canvas) UpsertNode(n render.NodeShape) { c.nodes[n.ID] = n }
func (c *Canvas) UpsertEdge(e render.EdgeShape) { c.edges[e.Key] = e }

func (c *Canvas) RemoveNode(id string) {
	delete(c.nodes, id)
	delete(c.nodeStyles, id)
}

func (c *Canvas) RemoveEdge(key graph.EdgeKey) {
	delete(c.edges, key)
	delete(c.edgeStyles, key)
}

func (c *Canvas) SetStyle(ref render.Ref, s render.Style) {
	switch ref.Kind {
	case render.KindNode:
		c.nodeStyles[ref.Node] = s
	case render.KindEdge:
		c.edgeStyles[ref.Edge] = s
	}
}

// Flush rasterizes the current elements.
func (c *Canvas) Flush() error {
	c.clear()

	edges := make([]render.EdgeShape, 0, len(c.edges))
	for _, e := range c.edges {
		edges = append(edges, e)
	}
	// Hot edges last so they win shared cells.
	sort.Slice(edges, func(i, j int) bool {
		hi, hj := c.edgeHot(edges[i].Key), c.edgeHot(edges[j].Key)
		if hi != hj {
			return hj
		}
		return edges[i].ID < edges[j].ID
	})
	for _, e := range edges {
		c.drawEdge(e)
	}
	for _, e := range edges {
		c.drawRelation(e)
	}

	nodes := make([]render.NodeShape, 0, len(c.nodes))
	for _, n := range c.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	for _, n := range nodes {
		c.drawNode(n)
	}

	c.out = c.compose()
	return nil
}

// String returns the last flushed frame with terminal styling.
func (c *Canvas) String() string { return c.out }

// Plain returns the last flushed frame without styling.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.cols; col++ {
			b.WriteRune(c.grid[row*c.cols+col].r)
		}
	}
	return b.String()
}

// Rune returns the glyph at a cell, or 0 outside the grid.
func (c *Canvas) Rune(col, row int) rune {
	if !c.inside(col, row) {
		return 0
	}
	return c.grid[row*c.cols+col].r
}

// Cell maps a screen point to its cell.
func Cell(p graph.Point) (col, row int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y / aspect))
}

// CellCenter maps a cell back to the screen point at its center. It is
// the inverse of Cell for pointer input.
func CellCenter(col, row int) graph.Point {
	return graph.Point{X: float64(col) + 0.5, Y: (float64(row) + 0.5) * aspect}
}

func (c *Canvas) clear() {
	for i := range c.grid {
		c.grid[i] = cell{r: ' '}
	}
	c.out = c.Plain()
}

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *Canvas) set(col, row int, r rune, key string, style lipgloss.Style) {
	if !c.inside(col, row) {
		return
	}
	c.grid[row*c.cols+col] = cell{r: r, style: style, key: key}
}

func (c *Canvas) text(col, row int, s, key string, style lipgloss.Style) {
	for _, r := range s {
		c.set(col, row, r, key, style)
		col++
	}
}

func (c *Canvas) edgeHot(key graph.EdgeKey) bool {
	s, ok := c.edgeStyles[key]
	return ok && s.Stroke == render.Accent
}

func (c *Canvas) drawEdge(e render.EdgeShape) {
	glyph, key, style := glyphEdge, "edge", lipgloss.NewStyle().Foreground(lipgloss.Color(render.EdgeColor))
	if c.edgeHot(e.Key) {
		glyph, key, style = glyphEdgeHot, "edge-hot", lipgloss.NewStyle().Foreground(lipgloss.Color(render.Accent))
	}
	x0, y0 := Cell(graph.Point{X: e.X1, Y: e.Y1})
	x1, y1 := Cell(graph.Point{X: e.X2, Y: e.Y2})
	if e.Bend != 0 {
		mx, my := Cell(e.Mid())
		c.line(x0, y0, mx, my, glyph, key, style)
		c.line(mx, my, x1, y1, glyph, key, style)
		return
	}
	c.line(x0, y0, x1, y1, glyph, key, style)
}

func (c *Canvas) drawRelation(e render.EdgeShape) {
	if e.Label == "" {
		return
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(render.EdgeLabelColor))
	key := "rel"
	if s, ok := c.edgeStyles[e.Key]; ok {
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(s.LabelColor)).Bold(s.Bold)
		if s.Bold {
			key = "rel-hot"
		}
	}
	col, row := Cell(e.Mid())
	c.text(col-len([]rune(e.Label))/2, row, e.Label, key, style)
}

func (c *Canvas) drawNode(n render.NodeShape) {
	st, ok := c.nodeStyles[n.ID]
	if !ok {
		st = render.BaseNodeStyle()
	}
	glyph, color, key := glyphNode, n.Fill, "node:"+n.Fill
	switch {
	case st.Stroke == render.Accent:
		glyph, color, key = glyphNodeHot, render.Accent, "node-hot"
	case st.Opacity < 1:
		color, key = dimColor, "node-dim"
	}
	col, row := Cell(graph.Point{X: n.X, Y: n.Y})
	c.set(col, row, glyph, key, lipgloss.NewStyle().Foreground(lipgloss.Color(color)))

	labelColor := lipgloss.Color("252")
	if st.Opacity < 1 {
		labelColor = lipgloss.Color(dimColor)
	}
	c.text(col+2, row, n.Label, "label:"+string(labelColor), lipgloss.NewStyle().Foreground(labelColor))
}

// line draws a Bresenham line between two cells.
func (c *Canvas) line(x0, y0, x1, y1 int, r rune, key string, style lipgloss.Style) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	// Off-screen endpoints can be arbitrarily far away.
	if dx-dy > maxLineSteps {
		return
	}
	err := dx + dy
	for {
		c.set(x0, y0, r, key, style)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// compose renders rows, styling runs of cells that share a style.
func (c *Canvas) compose() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		start := row * c.cols
		for col := 0; col < c.cols; {
			first := c.grid[start+col]
			end := col + 1
			for end < c.cols && c.grid[start+end].key == first.key {
				end++
			}
			var run strings.Builder
			for i := col; i < end; i++ {
				run.WriteRune(c.grid[start+i].r)
			}
			if first.key == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(first.style.Render(run.String()))
			}
			col = end
		}
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
