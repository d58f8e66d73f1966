// Package nodelink renders knowledge graphs as static Graphviz diagrams.
//
// # Overview
//
// Unlike the interactive view, which draws force-simulation output, this
// package hands the whole graph to Graphviz for layout. It is the quick way
// to get a printable picture of a small graph or of one highlighted loop.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Relations: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: node labels include the group
//   - Relations: edges are labeled with their relation
//   - Selection: a highlighted loop, drawn in the accent color
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
