// Package pkg provides the libraries behind kgview, an interactive
// force-directed knowledge-graph explorer.
//
// # Overview
//
// kgview loads a knowledge graph (nodes with a group, directed links with a
// relation) from the explorer backend or a JSON file, lays it out with a
// velocity-Verlet force simulation and draws every frame through a
// renderer. Pointer input drags nodes, pans and zooms; directed cycles
// ("loops") can be highlighted and fitted into view.
//
// # Architecture
//
// The data flow for one view:
//
//	Backend / JSON file
//	         ↓
//	    [source] package (fetch, cache fallback, stale-load ordering)
//	         ↓
//	    [graph] package (ingest: dedupe ids, drop dangling links)
//	         ↓
//	    [sim] package (forces, alpha cooling, pinning)
//	         ↓
//	    [view] package (frame loop, viewport, selection, pointer input)
//	         ↓
//	    [render] package (screen-space shapes, styles)
//	         ↓
//	    terminal canvas, SVG/PNG/PDF, JSON frame
//
// # Quick Start
//
// Lay out a graph file headlessly and write an SVG:
//
//	p, _ := graph.ReadPayloadFile("graph.json")
//	g, _ := graph.Ingest(p)
//
//	sink := svg.New(960, 600)
//	v := view.New(sink, view.WithSize(960, 600))
//	defer v.Dispose()
//	v.Load(g)
//	for v.Frame() {
//	}
//	os.WriteFile("graph.svg", sink.Bytes(), 0o644)
//
// # Main Packages
//
// ## Engine
//
// [graph] - Payload codec, ingest and the immutable resolved graph.
//
// [sim] - Force simulation: link springs, many-body charge (Barnes-Hut above
// a size threshold), collision, centering and velocity decay.
//
// [viewport] - Pan/zoom transform with clamped scale and eased transitions.
//
// [interact] - Pointer gesture state machine: node drag and canvas pan.
//
// [highlight] - Loop selection: nodes and directed consecutive pairs.
//
// [view] - Ties the above together behind a frame loop and a control surface.
//
// ## Rendering
//
// [render] - Renderer interface, adapter, palette and an in-memory recorder.
//
//   - [render/term]: character-cell canvas for the terminal view
//   - [render/svg]: SVG documents, converted to PNG or PDF with rsvg-convert
//   - [render/nodelink]: static Graphviz diagrams
//
// ## Infrastructure
//
// [source] - Backend HTTP client, file source and the last-issued-wins loader.
//
// [cache] - Response cache with file, Redis and no-op backends.
//
// [config] - TOML settings file with validation.
//
// [watch] - Debounced file watching for live reload.
//
// [observability] - Hook interfaces, with a Prometheus implementation in
// [observability/prom].
//
// [errors] - Structured errors with machine-readable codes.
//
// # Testing
//
//	go test ./pkg/...                        # All tests
//	go test -run Example ./pkg/...           # Examples only
//	KGVIEW_TEST_REDIS=localhost:6379 go test ./pkg/cache/
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/graph
// [sim]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/sim
// [viewport]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/viewport
// [interact]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/interact
// [highlight]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/highlight
// [view]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/view
// [render]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/render
// [render/term]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/render/term
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/render/nodelink
// [source]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/source
// [cache]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/config
// [watch]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/watch
// [observability]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/observability
// [observability/prom]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/observability/prom
// [errors]: https://pkg.go.dev/github.com/matzehuels/kgview/pkg/errors
package pkg
