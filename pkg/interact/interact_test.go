package interact

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/sim"
	"github.com/matzehuels/kgview/pkg/viewport"
)

func setup(t *testing.T) (*Controller, *sim.Simulation, *viewport.Engine) {
	t.Helper()
	g := graph.New(
		[]graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]graph.Link{{Source: "A", Target: "B"}, {Source: "B", Target: "C"}},
	)
	cfg := sim.DefaultConfig()
	cfg.Seed = 1
	s := sim.New(g, cfg)
	vp := viewport.NewEngine()
	c := New(vp)
	c.Attach(s)
	return c, s, vp
}

func node(s *sim.Simulation, id string) sim.Node {
	i, _ := s.Graph().Index(id)
	return s.Nodes()[i]
}

func TestDragLifecycle(t *testing.T) {
	c, s, vp := setup(t)
	vp.SetTransform(viewport.Transform{X: 100, Y: 50, K: 2}, false, 0)

	start, _ := s.Position("A")
	press := vp.Current().Apply(start)
	if err := c.PointerDown(press, "A"); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if c.State() != DraggingNode || c.Dragged() != "A" {
		t.Fatalf("state = %v, dragged = %q", c.State(), c.Dragged())
	}
	if !s.Held("A") || s.AlphaTarget() != DragAlphaTarget {
		t.Errorf("held=%v alphaTarget=%v", s.Held("A"), s.AlphaTarget())
	}

	// 20 screen px at scale 2 is 10 simulation units.
	if !c.PointerMove(graph.Point{X: press.X + 20, Y: press.Y}) {
		t.Error("drag move should report a change")
	}
	n := node(s, "A")
	if !n.Pinned || math.Abs(n.FX-(start.X+10)) > 1e-9 || math.Abs(n.FY-start.Y) > 1e-9 {
		t.Errorf("pin = (%v, %v) pinned=%v, want (%v, %v)", n.FX, n.FY, n.Pinned, start.X+10, start.Y)
	}
	if vp.Current() != (viewport.Transform{X: 100, Y: 50, K: 2}) {
		t.Error("dragging a node must not pan")
	}

	c.PointerUp(graph.Point{X: press.X + 20, Y: press.Y})
	if c.State() != Idle {
		t.Errorf("state after release = %v", c.State())
	}
	if s.Held("A") || node(s, "A").Pinned {
		t.Error("release should clear the pin")
	}
	if s.AlphaTarget() != 0 {
		t.Errorf("alphaTarget after release = %v, want 0", s.AlphaTarget())
	}
}

func TestDragKeepsGrabOffset(t *testing.T) {
	c, s, vp := setup(t)
	start, _ := s.Position("B")
	press := vp.Current().Apply(start)
	press.X += 3

	c.PointerDown(press, "B")
	c.PointerMove(graph.Point{X: press.X + 5, Y: press.Y})
	if n := node(s, "B"); math.Abs(n.FX-(start.X+5)) > 1e-9 {
		t.Errorf("pin x = %v, want %v", n.FX, start.X+5)
	}
}

func TestPan(t *testing.T) {
	c, _, vp := setup(t)
	c.PointerDown(graph.Point{X: 10, Y: 10}, "")
	if c.State() != Panning {
		t.Fatalf("state = %v, want panning", c.State())
	}
	c.PointerMove(graph.Point{X: 15, Y: 17})
	c.PointerMove(graph.Point{X: 25, Y: 17})
	if got := vp.Current(); got.X != 15 || got.Y != 7 || got.K != 1 {
		t.Errorf("transform = %+v, want {15 7 1}", got)
	}
	if c.PointerMove(graph.Point{X: 25, Y: 17}) {
		t.Error("zero delta should not report a change")
	}
	c.PointerUp(graph.Point{X: 25, Y: 17})
	if c.State() != Idle {
		t.Errorf("state = %v", c.State())
	}
	if c.PointerMove(graph.Point{X: 100, Y: 100}) {
		t.Error("idle move should do nothing")
	}
}

func TestWheelZoomsAroundPointer(t *testing.T) {
	c, _, vp := setup(t)
	p := graph.Point{X: 200, Y: 120}
	before := vp.Current().Invert(p)

	if !c.Wheel(p, 1) {
		t.Fatal("wheel should zoom")
	}
	got := vp.Current()
	if math.Abs(got.K-1.2) > 1e-9 {
		t.Errorf("scale = %v, want 1.2", got.K)
	}
	after := got.Invert(p)
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Errorf("anchor moved from %+v to %+v", before, after)
	}

	c.Wheel(p, -1)
	if k := vp.Current().K; math.Abs(k-1) > 1e-9 {
		t.Errorf("scale after wheel back = %v", k)
	}
	for _, d := range []float64{0, math.NaN(), math.Inf(1)} {
		if c.Wheel(p, d) {
			t.Errorf("Wheel(%v) should be ignored", d)
		}
	}
}

func TestPressFallsBackToPan(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(s *sim.Simulation)
		hit     string
		want    error
	}{
		{"unknown node", func(*sim.Simulation) {}, "Z", sim.ErrUnknownNode},
		{"already held", func(s *sim.Simulation) { s.Hold("A") }, "A", sim.ErrHeld},
		{"disposed", func(s *sim.Simulation) { s.Dispose() }, "A", sim.ErrDisposed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, s, _ := setup(t)
			tt.prepare(s)
			err := c.PointerDown(graph.Point{}, tt.hit)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if c.State() != Panning {
				t.Errorf("state = %v, want panning", c.State())
			}
		})
	}
}

func TestAttachCancelsDrag(t *testing.T) {
	c, s, _ := setup(t)
	c.PointerDown(graph.Point{}, "A")
	c.Attach(nil)
	if c.State() != Idle || s.Held("A") {
		t.Error("attach should end the drag on the old simulation")
	}
	if s.AlphaTarget() != 0 {
		t.Error("old simulation should cool")
	}
	c.PointerDown(graph.Point{}, "A")
	if c.State() != Panning {
		t.Error("without a simulation every press pans")
	}
}

func TestSecondPressCancels(t *testing.T) {
	c, s, _ := setup(t)
	c.PointerDown(graph.Point{}, "A")
	if err := c.PointerDown(graph.Point{}, "B"); err != nil {
		t.Fatalf("second press: %v", err)
	}
	if s.Held("A") || !s.Held("B") {
		t.Error("second press should release the first node")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", DraggingNode: "dragging", Panning: "panning", State(9): "State(9)"} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}
