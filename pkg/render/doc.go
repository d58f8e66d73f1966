// Package render draws graph scenes onto pluggable surfaces.
//
// # Overview
//
// The engines (sim, viewport, highlight) never touch an output surface.
// Instead the [Adapter] composes simulation positions through the viewport
// transform and emits a small set of [Renderer] calls:
//
//	UpsertNode  UpsertEdge  RemoveNode  RemoveEdge  SetStyle
//
// Any surface implementing these can show the graph:
//
//   - [svg]: standalone SVG documents
//   - [term]: a character-cell canvas for the terminal UI
//   - [Recorder]: an in-memory surface for headless layouts and tests
//
// The [nodelink] subpackage is separate: it hands the whole graph to
// Graphviz for a static image instead of drawing simulation output.
//
// # Highlight Overlay
//
// Styles are applied per element and only on change. With an empty
// selection every element has its baseline style. While a loop is
// selected, highlighted nodes and edges get the [Accent] stroke,
// highlighted relation labels turn bold, and all other nodes are dimmed
// to [DimmedOpacity].
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG using the external rsvg-convert
// tool (from librsvg).
//
// [svg]: github.com/matzehuels/kgview/pkg/render/svg
// [term]: github.com/matzehuels/kgview/pkg/render/term
// [nodelink]: github.com/matzehuels/kgview/pkg/render/nodelink
package render
