package view

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
	"github.com/matzehuels/kgview/pkg/interact"
	"github.com/matzehuels/kgview/pkg/observability"
	"github.com/matzehuels/kgview/pkg/render"
	"github.com/matzehuels/kgview/pkg/sim"
	"github.com/matzehuels/kgview/pkg/viewport"
)

const (
	// DefaultPadding is the FitToGraph margin in screen units.
	DefaultPadding = 40

	// InitialFitTicks is the number of frames after a load before the
	// first automatic fit, so the layout has spread out a little.
	InitialFitTicks = 9
)

// Controls is the surface offered to sibling UI elements such as a loop
// list or zoom buttons.
type Controls interface {
	HighlightLoop(loop graph.Loop)
	ClearHighlights()
	FitToGraph(padding ...float64)
	ZoomIn()
	ZoomOut()
	ResetView()
}

var _ Controls = (*View)(nil)

// View owns one graph visualization: its simulation, viewport, selection
// and pointer state. Create it with New and discard it with Dispose.
// It is not safe for concurrent use.
type View struct {
	logger  *log.Logger
	adapter *render.Adapter
	loop    *FrameLoop
	vp      *viewport.Engine
	ctl     *interact.Controller

	simCfg    sim.Config
	simHooks  observability.SimulationHooks
	hitRadius float64
	size      viewport.Size

	g          *graph.Graph
	sim        *sim.Simulation
	sel        highlight.Selection
	unregister func()
	fitIn      int
	dirty      bool
	disposed   bool
}

// Option configures a View.
type Option func(*options)

type options struct {
	logger    *log.Logger
	loop      *FrameLoop
	simCfg    sim.Config
	simHooks  observability.SimulationHooks
	vpOpts    []viewport.Option
	size      viewport.Size
	hitRadius float64
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFrameLoop registers the view's simulation on a shared loop instead
// of a private one.
func WithFrameLoop(l *FrameLoop) Option {
	return func(o *options) { o.loop = l }
}

// WithSimConfig sets the force parameters for every loaded graph.
func WithSimConfig(cfg sim.Config) Option {
	return func(o *options) { o.simCfg = cfg }
}

// WithSimHooks sets observability hooks for every simulation.
func WithSimHooks(h observability.SimulationHooks) Option {
	return func(o *options) { o.simHooks = h }
}

// WithViewportConfig sets zoom limits and transition durations.
func WithViewportConfig(cfg viewport.Config) Option {
	return func(o *options) { o.vpOpts = append(o.vpOpts, viewport.WithConfig(cfg)) }
}

// WithClock replaces time.Now for viewport transitions.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.vpOpts = append(o.vpOpts, viewport.WithClock(now)) }
}

// WithSize sets the initial viewport size.
func WithSize(w, h float64) Option {
	return func(o *options) { o.size = viewport.Size{W: w, H: h} }
}

// WithHitRadius sets the node pick radius in simulation units. The
// default is render.NodeRadius.
func WithHitRadius(r float64) Option {
	return func(o *options) { o.hitRadius = r }
}

// New returns a view drawing into r.
func New(r render.Renderer, opts ...Option) *View {
	o := options{
		simCfg:    sim.DefaultConfig(),
		size:      viewport.Size{W: 960, H: 600},
		hitRadius: render.NodeRadius,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.loop == nil {
		o.loop = NewFrameLoop()
	}
	vp := viewport.NewEngine(o.vpOpts...)
	return &View{
		logger:    o.logger,
		adapter:   render.NewAdapter(r),
		loop:      o.loop,
		vp:        vp,
		ctl:       interact.New(vp),
		simCfg:    o.simCfg,
		simHooks:  o.simHooks,
		hitRadius: o.hitRadius,
		size:      o.size,
	}
}

// =============================================================================
// Lifecycle
// =============================================================================

// Load replaces the displayed graph. The previous simulation is disposed,
// the viewport and selection are reset and a fresh layout starts around
// the viewport center. A nil or empty graph clears the surface.
func (v *View) Load(g *graph.Graph) {
	if v.disposed {
		return
	}
	v.detach()
	v.vp.Teardown()
	v.sel = highlight.Clear()
	v.g = g

	if g.Empty() {
		v.adapter.Reset()
		v.logger.Debug("cleared view")
		return
	}

	c := v.size.Center()
	opts := []sim.Option{sim.WithCenter(c.X, c.Y)}
	if v.simHooks != nil {
		opts = append(opts, sim.WithHooks(v.simHooks))
	}
	s := sim.New(g, v.simCfg, opts...)
	v.sim = s
	v.ctl.Attach(s)
	v.unregister = v.loop.Register(FramerFunc(func() bool { return v.frame(s) }))
	v.fitIn = InitialFitTicks
	v.logger.Debug("loaded graph", "nodes", g.Len(), "edges", len(g.Edges()))
	v.draw()
}

// detach stops and forgets the current simulation.
func (v *View) detach() {
	v.ctl.Attach(nil)
	if v.unregister != nil {
		v.unregister()
		v.unregister = nil
	}
	if v.sim != nil {
		v.sim.Dispose()
		v.sim = nil
	}
}

// Dispose releases the frame loop registration and the simulation and
// removes everything drawn. It is idempotent, and every other method is a
// no-op afterwards.
func (v *View) Dispose() {
	if v.disposed {
		return
	}
	v.detach()
	v.adapter.Reset()
	v.vp.Teardown()
	v.sel = highlight.Clear()
	v.g = nil
	v.disposed = true
}

// Disposed reports whether Dispose was called.
func (v *View) Disposed() bool { return v.disposed }

// Resize adapts to a new viewport size. Positions are kept: the centering
// force moves to the new center and the view refits.
func (v *View) Resize(w, h float64) {
	if v.disposed {
		return
	}
	size := viewport.Size{W: w, H: h}
	if !size.Valid() {
		return
	}
	v.size = size
	if v.sim == nil {
		return
	}
	c := size.Center()
	v.sim.SetCenter(c.X, c.Y)
	v.FitToGraph()
	v.draw()
}

// =============================================================================
// Frames
// =============================================================================

// Frame steps the frame loop once and reports whether anything is still
// animating.
func (v *View) Frame() bool {
	if v.disposed {
		return false
	}
	return v.loop.Step()
}

// frame is the per-frame work for one simulation.
func (v *View) frame(s *sim.Simulation) bool {
	if s != v.sim || s.Disposed() {
		return false
	}
	changed := s.Tick()
	if v.vp.Step() {
		changed = true
	}
	if v.fitIn > 0 {
		v.fitIn--
		if v.fitIn == 0 {
			v.FitToGraph()
		}
	}
	if changed || v.dirty {
		v.draw()
	}
	return !s.Converged() || v.vp.Animating() || v.fitIn > 0
}

func (v *View) draw() {
	if v.sim == nil {
		return
	}
	v.dirty = false
	err := v.adapter.Draw(render.Scene{
		Graph:     v.g,
		Positions: v.sim.Positions(),
		Transform: v.vp.Current(),
		Selection: v.sel,
	})
	if err != nil {
		v.logger.Warn("draw failed", "error", err)
	}
}

// =============================================================================
// Controls
// =============================================================================

// HighlightLoop replaces the selection with loop and fits the view.
func (v *View) HighlightLoop(loop graph.Loop) {
	if !v.live() {
		return
	}
	v.sel = highlight.Compute(v.g, loop)
	v.dirty = true
	v.logger.Debug("highlight loop", "nodes", v.sel.NodeCount(), "edges", v.sel.EdgeCount())
	v.FitToGraph()
}

// ClearHighlights empties the selection.
func (v *View) ClearHighlights() {
	if !v.live() {
		return
	}
	if !v.sel.Empty() {
		v.sel = highlight.Clear()
		v.dirty = true
	}
}

// FitToGraph animates the viewport to show every node, leaving padding
// screen units on each side. Padding defaults to DefaultPadding.
func (v *View) FitToGraph(padding ...float64) {
	if !v.live() {
		return
	}
	p := float64(DefaultPadding)
	if len(padding) > 0 && padding[0] >= 0 && !math.IsNaN(padding[0]) {
		p = padding[0]
	}
	if !v.vp.FitToBounds(v.sim.Bounds(), v.size, p) {
		v.logger.Debug("fit skipped", "size", v.size)
	}
}

// ZoomIn zooms one step around the viewport center.
func (v *View) ZoomIn() {
	if v.live() {
		v.vp.ZoomIn(v.size.Center())
	}
}

// ZoomOut zooms one step out around the viewport center.
func (v *View) ZoomOut() {
	if v.live() {
		v.vp.ZoomOut(v.size.Center())
	}
}

// ResetView animates back to the identity transform.
func (v *View) ResetView() {
	if v.live() {
		v.vp.Reset()
	}
}

func (v *View) live() bool {
	return !v.disposed && v.sim != nil
}

// =============================================================================
// Pointer Input
// =============================================================================

// HitTest returns the id of the node under screen point p, preferring the
// closest one.
func (v *View) HitTest(p graph.Point) (string, bool) {
	if !v.live() || !p.Finite() {
		return "", false
	}
	q := v.vp.Current().Invert(p)
	best, bestD := -1, v.hitRadius*v.hitRadius
	for i, n := range v.sim.Nodes() {
		dx, dy := n.X-q.X, n.Y-q.Y
		if d := dx*dx + dy*dy; d <= bestD {
			best, bestD = i, d
		}
	}
	if best < 0 {
		return "", false
	}
	return v.sim.Nodes()[best].ID, true
}

// PointerDown starts a node drag when p hits a node and a pan otherwise.
func (v *View) PointerDown(p graph.Point) {
	if !v.live() {
		return
	}
	id, _ := v.HitTest(p)
	if err := v.ctl.PointerDown(p, id); err != nil {
		v.logger.Debug("drag refused", "node", id, "error", err)
	}
}

// PointerMove continues the current gesture.
func (v *View) PointerMove(p graph.Point) {
	if v.live() && v.ctl.PointerMove(p) {
		v.dirty = true
	}
}

// PointerUp ends the current gesture.
func (v *View) PointerUp(p graph.Point) {
	if v.live() {
		v.ctl.PointerUp(p)
		v.dirty = true
	}
}

// Wheel zooms around p by ZoomStep^delta.
func (v *View) Wheel(p graph.Point, delta float64) {
	if v.live() && v.ctl.Wheel(p, delta) {
		v.dirty = true
	}
}

// Gesture returns the pointer gesture in progress.
func (v *View) Gesture() interact.State { return v.ctl.State() }

// =============================================================================
// Accessors
// =============================================================================

// Graph returns the displayed graph, or nil.
func (v *View) Graph() *graph.Graph { return v.g }

// Simulation returns the running simulation, or nil.
func (v *View) Simulation() *sim.Simulation { return v.sim }

// Selection returns the current highlight.
func (v *View) Selection() highlight.Selection { return v.sel }

// Transform returns the displayed viewport transform.
func (v *View) Transform() viewport.Transform { return v.vp.Current() }

// Viewport returns the viewport engine.
func (v *View) Viewport() *viewport.Engine { return v.vp }

// Size returns the viewport size.
func (v *View) Size() viewport.Size { return v.size }

// Adapter returns the render adapter.
func (v *View) Adapter() *render.Adapter { return v.adapter }

// Redraw draws the current state immediately.
func (v *View) Redraw() {
	if v.live() {
		v.draw()
	}
}
