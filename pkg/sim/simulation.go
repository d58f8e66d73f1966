package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/observability"
)

var (
	// ErrUnknownNode is returned for ids that are not part of the graph.
	ErrUnknownNode = errors.New("unknown node")
	// ErrHeld is returned when a node is already held by a drag.
	ErrHeld = errors.New("node is held")
	// ErrDisposed is returned by operations on a disposed simulation.
	ErrDisposed = errors.New("simulation disposed")
)

// initialAngle is the golden angle used for the phyllotaxis start layout.
var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Node is the simulation state of one graph node.
type Node struct {
	ID     string
	Group  graph.Group
	X, Y   float64
	VX, VY float64
	// FX, FY hold the pin while Pinned is set.
	FX, FY float64
	Pinned bool
}

// Point returns the node position.
func (n Node) Point() graph.Point { return graph.Point{X: n.X, Y: n.Y} }

// Simulation is a 2D force-directed layout over one immutable graph. It
// advances one step per Tick and is not safe for concurrent use.
//
// A new graph always needs a new Simulation; there is no incremental
// update. Dispose the old one first.
type Simulation struct {
	cfg   Config
	g     *graph.Graph
	nodes []Node
	links []link

	alpha       float64
	alphaTarget float64
	cx, cy      float64

	rng    *rand.Rand
	hooks  observability.SimulationHooks
	held   map[int]*Grip
	xs, ys []float64

	ticks     int
	started   time.Time
	converged bool
	disposed  bool
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithCenter sets the point the centering force pulls toward.
func WithCenter(x, y float64) Option {
	return func(s *Simulation) { s.cx, s.cy = x, y }
}

// WithHooks overrides the globally registered simulation hooks.
func WithHooks(h observability.SimulationHooks) Option {
	return func(s *Simulation) {
		if h != nil {
			s.hooks = h
		}
	}
}

// New creates a simulation for g with fresh positions laid out on a
// phyllotaxis spiral around the center. Alpha starts at 1.
func New(g *graph.Graph, cfg Config, opts ...Option) *Simulation {
	cfg = cfg.withDefaults()
	s := &Simulation{
		cfg:   cfg,
		g:     g,
		alpha: 1,
		hooks: observability.Simulation(),
		held:  make(map[int]*Grip),
	}
	for _, opt := range opts {
		opt(s)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	s.initNodes()
	s.initLinks()
	s.started = time.Now()
	s.hooks.OnStart(len(s.nodes), len(s.links), s.barnesHut())
	return s
}

func (s *Simulation) initNodes() {
	gn := s.g.Nodes()
	s.nodes = make([]Node, len(gn))
	for i, n := range gn {
		r := 10 * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		s.nodes[i] = Node{
			ID:    n.ID,
			Group: n.Group,
			X:     s.cx + r*math.Cos(a),
			Y:     s.cy + r*math.Sin(a),
		}
	}
}

// initLinks resolves springs and their degree bias. Self-loops carry no
// spring force and are skipped.
func (s *Simulation) initLinks() {
	edges := s.g.Edges()
	count := make([]int, len(s.nodes))
	for _, e := range edges {
		count[e.Source]++
		count[e.Target]++
	}
	s.links = make([]link, 0, len(edges))
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		cs, ct := count[e.Source], count[e.Target]
		strength := s.cfg.LinkStrength
		if strength == 0 {
			strength = 1 / float64(min(cs, ct))
		}
		s.links = append(s.links, link{
			source:   e.Source,
			target:   e.Target,
			bias:     float64(cs) / float64(cs+ct),
			strength: strength,
		})
	}
}

func (s *Simulation) barnesHut() bool {
	return len(s.nodes) >= s.cfg.BarnesHutThreshold
}

// Tick advances the simulation by one step. It returns false without doing
// any work when the simulation is disposed or converged.
func (s *Simulation) Tick() bool {
	if s.disposed || s.Converged() {
		return false
	}
	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay

	s.sanitize()
	s.applyLinks(s.alpha)
	s.applyCharge(s.alpha)
	s.applyCenter()
	s.applyCollide()
	s.integrate()

	s.ticks++
	if s.Converged() && !s.converged {
		s.converged = true
		s.hooks.OnConverged(s.ticks, time.Since(s.started))
	}
	return true
}

// integrate applies damped Euler integration. Pinned nodes are clamped to
// their pin with zero velocity.
func (s *Simulation) integrate() {
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.Pinned {
			n.X, n.Y = n.FX, n.FY
			n.VX, n.VY = 0, 0
		} else {
			n.VX *= s.cfg.Friction
			n.VY *= s.cfg.Friction
			n.X += n.VX
			n.Y += n.VY
		}
		if !finite(n.X) || !finite(n.Y) || !finite(n.VX) || !finite(n.VY) {
			s.resetNode(n)
		}
	}
}

// sanitize resets nodes that entered the tick with non-finite state, so one
// bad node cannot poison the pairwise forces of all others.
func (s *Simulation) sanitize() {
	for i := range s.nodes {
		n := &s.nodes[i]
		if !finite(n.X) || !finite(n.Y) || !finite(n.VX) || !finite(n.VY) {
			s.resetNode(n)
		}
	}
}

// resetNode places n at the center plus a random offset and stops it.
func (s *Simulation) resetNode(n *Node) {
	a := s.rng.Float64() * 2 * math.Pi
	r := s.rng.Float64() * s.cfg.Jitter
	n.X = s.cx + r*math.Cos(a)
	n.Y = s.cy + r*math.Sin(a)
	n.VX, n.VY = 0, 0
	if n.Pinned && (!finite(n.FX) || !finite(n.FY)) {
		n.FX, n.FY = n.X, n.Y
	}
	s.hooks.OnNonFinite(n.ID)
}

// Run ticks until convergence or until limit ticks have run, and returns
// the number of ticks performed. It is used for headless layouts.
func (s *Simulation) Run(limit int) int {
	n := 0
	for n < limit && s.Tick() {
		n++
	}
	return n
}

// Reheat sets the alpha target. Alpha relaxes toward it on following ticks,
// so a converged simulation resumes.
func (s *Simulation) Reheat(target float64) {
	if s.disposed {
		return
	}
	s.alphaTarget = math.Max(0, math.Min(1, target))
	if s.alphaTarget >= s.cfg.AlphaMin {
		s.converged = false
	}
	s.hooks.OnReheat(s.alphaTarget)
}

// Restart sets alpha itself, for example back to 1 after a resize.
func (s *Simulation) Restart(alpha float64) {
	if s.disposed {
		return
	}
	s.alpha = math.Max(0, math.Min(1, alpha))
	if s.alpha >= s.cfg.AlphaMin {
		s.converged = false
	}
}

// Cool sets the alpha target back to zero.
func (s *Simulation) Cool() {
	if s.disposed {
		return
	}
	s.alphaTarget = 0
}

// Alpha returns the current cooling energy.
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the value alpha relaxes toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// Converged reports whether both alpha and its target are below AlphaMin.
func (s *Simulation) Converged() bool {
	return s.alpha < s.cfg.AlphaMin && s.alphaTarget < s.cfg.AlphaMin
}

// TickCount returns the number of ticks performed.
func (s *Simulation) TickCount() int { return s.ticks }

// Config returns the effective configuration.
func (s *Simulation) Config() Config { return s.cfg }

// Graph returns the graph the simulation was built for.
func (s *Simulation) Graph() *graph.Graph { return s.g }

// Len returns the number of simulated nodes.
func (s *Simulation) Len() int { return len(s.nodes) }

// Nodes returns the simulation nodes in graph order. The slice is owned by
// the simulation and must not be modified.
func (s *Simulation) Nodes() []Node { return s.nodes }

// Positions returns a copy of the node positions in graph order.
func (s *Simulation) Positions() []graph.Point {
	pts := make([]graph.Point, len(s.nodes))
	for i, n := range s.nodes {
		pts[i] = n.Point()
	}
	return pts
}

// Position returns the position of the node with the given id.
func (s *Simulation) Position(id string) (graph.Point, bool) {
	i, ok := s.g.Index(id)
	if !ok {
		return graph.Point{}, false
	}
	return s.nodes[i].Point(), true
}

// Bounds returns the bounding box of all finite positions.
func (s *Simulation) Bounds() graph.Bounds {
	b := graph.EmptyBounds()
	for _, n := range s.nodes {
		b = b.Extend(n.Point())
	}
	return b
}

// Center returns the point the centering force pulls toward.
func (s *Simulation) Center() graph.Point { return graph.Point{X: s.cx, Y: s.cy} }

// SetCenter moves the centering target, for example after a resize.
func (s *Simulation) SetCenter(x, y float64) {
	s.cx, s.cy = x, y
}

// SetPinned pins the node at (x, y). It fails with ErrHeld while a drag
// holds the node.
func (s *Simulation) SetPinned(id string, x, y float64) error {
	i, err := s.lookup(id)
	if err != nil {
		return err
	}
	if _, ok := s.held[i]; ok {
		return fmt.Errorf("pin %s: %w", id, ErrHeld)
	}
	s.pin(i, x, y)
	return nil
}

// ClearPinned releases the pin of the node. It fails with ErrHeld while a
// drag holds the node.
func (s *Simulation) ClearPinned(id string) error {
	i, err := s.lookup(id)
	if err != nil {
		return err
	}
	if _, ok := s.held[i]; ok {
		return fmt.Errorf("unpin %s: %w", id, ErrHeld)
	}
	s.unpin(i)
	return nil
}

func (s *Simulation) lookup(id string) (int, error) {
	if s.disposed {
		return 0, ErrDisposed
	}
	i, ok := s.g.Index(id)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNode, id)
	}
	return i, nil
}

func (s *Simulation) pin(i int, x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	n := &s.nodes[i]
	n.FX, n.FY, n.Pinned = x, y, true
}

func (s *Simulation) unpin(i int) {
	n := &s.nodes[i]
	n.FX, n.FY, n.Pinned = 0, 0, false
}

// Dispose stops the simulation. Later ticks are no-ops and outstanding
// grips become inert. Dispose is idempotent.
func (s *Simulation) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for i, g := range s.held {
		g.released = true
		delete(s.held, i)
	}
}

// Disposed reports whether Dispose was called.
func (s *Simulation) Disposed() bool { return s.disposed }
