package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
	"github.com/matzehuels/kgview/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the node group in labels.
	// When false, only the node ID is shown.
	Detailed bool

	// Relations labels edges with their relation.
	Relations bool

	// Selection highlights a loop. Highlighted nodes and edges get the
	// accent color and all other nodes are faded.
	Selection highlight.Selection
}

// ToDOT converts a graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Nodes are filled with their group color, assigned in order of first
// appearance like the interactive view.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=false, fontsize=11, fontcolor=\"#333333\", color=\"#ffffff\", penwidth=1.5];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, fontsize=10, fontcolor=%q, penwidth=1.5, arrowsize=0.6];\n",
		render.EdgeColor, render.EdgeLabelColor)
	buf.WriteString("\n")

	palette := render.NewPalette()
	active := !opts.Selection.Empty()
	for _, n := range g.Nodes() {
		attrs := fmtAttrs(fmtLabel(n, opts.Detailed), palette.Color(n.Group), active, opts.Selection.HasNode(n.ID))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		var attrs []string
		if opts.Relations && e.Key.Relation != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Key.Relation))
		}
		if opts.Selection.HasEdge(e.Key.Source, e.Key.Target) {
			attrs = append(attrs,
				fmt.Sprintf("color=%q", render.Accent),
				fmt.Sprintf("fontcolor=%q", render.Accent),
				"penwidth=3")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Key.Source, e.Key.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Key.Source, e.Key.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed || n.Group == "" {
		return n.ID
	}
	return n.ID + "\ngroup: " + string(n.Group)
}

func fmtAttrs(label, fill string, active, highlighted bool) []string {
	fontcolor := ""
	if active && !highlighted {
		// Graphviz has no opacity attribute; fade through the alpha channel.
		fill, fontcolor = fill+"40", "#33333340"
	}
	attrs := []string{fmt.Sprintf("label=%q", label), fmt.Sprintf("fillcolor=%q", fill)}
	if fontcolor != "" {
		attrs = append(attrs, fmt.Sprintf("fontcolor=%q", fontcolor))
	}
	if highlighted {
		attrs = append(attrs, fmt.Sprintf("color=%q", render.Accent), "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
