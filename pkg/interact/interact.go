package interact

import (
	"fmt"
	"math"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/sim"
	"github.com/matzehuels/kgview/pkg/viewport"
)

// DragAlphaTarget is the alpha target while a node is dragged, so the
// layout keeps reacting until release.
const DragAlphaTarget = 0.3

// State is the pointer gesture in progress.
type State int

const (
	Idle State = iota
	DraggingNode
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DraggingNode:
		return "dragging"
	case Panning:
		return "panning"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Simulation is the part of a sim.Simulation that gestures drive.
type Simulation interface {
	Hold(id string) (*sim.Grip, error)
	Position(id string) (graph.Point, bool)
	Reheat(target float64)
	Cool()
}

// Viewport is the part of a viewport.Engine that gestures drive.
type Viewport interface {
	Current() viewport.Transform
	Config() viewport.Config
	PanBy(dx, dy float64)
	ZoomAt(factor float64, around graph.Point)
}

// Controller turns screen-space pointer events into simulation pins and
// viewport moves. It is not safe for concurrent use.
type Controller struct {
	vp  Viewport
	sim Simulation

	state  State
	grip   *sim.Grip
	offset graph.Point // node position minus pointer, in simulation space
	last   graph.Point // last pointer position, in screen space
}

// New returns an idle controller over vp with no simulation attached.
func New(vp Viewport) *Controller {
	return &Controller{vp: vp}
}

// Attach switches to a new simulation, cancelling any gesture on the old
// one. A nil simulation makes every press a pan.
func (c *Controller) Attach(s Simulation) {
	c.Cancel()
	c.sim = s
}

// State returns the gesture in progress.
func (c *Controller) State() State { return c.state }

// Dragged returns the id of the dragged node, or "" when not dragging.
func (c *Controller) Dragged() string {
	if c.state != DraggingNode || c.grip == nil {
		return ""
	}
	return c.grip.ID()
}

// PointerDown starts a gesture at screen point p. A non-empty hitID starts
// a node drag: the node is held, pinned where it is and the simulation is
// reheated. Any other press pans. If the node cannot be held the press
// pans and the hold error is returned.
func (c *Controller) PointerDown(p graph.Point, hitID string) error {
	if c.state != Idle {
		c.Cancel()
	}
	c.last = p
	if hitID == "" || c.sim == nil {
		c.state = Panning
		return nil
	}
	grip, err := c.sim.Hold(hitID)
	if err != nil {
		c.state = Panning
		return fmt.Errorf("drag: %w", err)
	}
	pos, _ := c.sim.Position(hitID)
	ptr := c.vp.Current().Invert(p)
	c.grip = grip
	c.offset = graph.Point{X: pos.X - ptr.X, Y: pos.Y - ptr.Y}
	c.state = DraggingNode
	c.sim.Reheat(DragAlphaTarget)
	return nil
}

// PointerMove continues the gesture. While dragging, the node's pin follows
// the pointer in simulation space; while panning, the viewport translates by
// the pointer delta. It reports whether anything moved.
func (c *Controller) PointerMove(p graph.Point) bool {
	if !p.Finite() {
		return false
	}
	defer func() { c.last = p }()
	switch c.state {
	case DraggingNode:
		ptr := c.vp.Current().Invert(p)
		c.grip.Move(ptr.X+c.offset.X, ptr.Y+c.offset.Y)
		return true
	case Panning:
		dx, dy := p.X-c.last.X, p.Y-c.last.Y
		if dx == 0 && dy == 0 {
			return false
		}
		c.vp.PanBy(dx, dy)
		return true
	}
	return false
}

// PointerUp ends the gesture. A dragged node is released and the alpha
// target goes back to zero so the layout cools.
func (c *Controller) PointerUp(p graph.Point) {
	c.PointerMove(p)
	c.end()
}

// Wheel zooms immediately by ZoomStep^delta around screen point p.
// Positive deltas zoom in.
func (c *Controller) Wheel(p graph.Point, delta float64) bool {
	if delta == 0 || !p.Finite() || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return false
	}
	c.vp.ZoomAt(math.Pow(c.vp.Config().ZoomStep, delta), p)
	return true
}

// Cancel aborts the gesture without a final move.
func (c *Controller) Cancel() {
	c.end()
}

func (c *Controller) end() {
	if c.state == DraggingNode {
		c.grip.Release()
		if c.sim != nil {
			c.sim.Cool()
		}
	}
	c.grip = nil
	c.offset = graph.Point{}
	c.state = Idle
}
