package viewport

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/kgview/pkg/graph"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine() (*Engine, *fakeClock) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	return NewEngine(WithClock(clk.Now)), clk
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestTransformApplyInvert(t *testing.T) {
	tr := Transform{X: 10, Y: -5, K: 2}
	p := graph.Point{X: 3, Y: 4}
	s := tr.Apply(p)
	if s.X != 16 || s.Y != 3 {
		t.Fatalf("Apply = %+v", s)
	}
	back := tr.Invert(s)
	if !approx(back.X, p.X) || !approx(back.Y, p.Y) {
		t.Errorf("Invert = %+v, want %+v", back, p)
	}
}

func TestScaleByKeepsAnchor(t *testing.T) {
	tr := Transform{X: 7, Y: 9, K: 1.5}
	anchor := graph.Point{X: 120, Y: 80}
	before := tr.Invert(anchor)
	after := tr.ScaleBy(2, anchor).Invert(anchor)
	if !approx(before.X, after.X) || !approx(before.Y, after.Y) {
		t.Errorf("anchor moved: %+v -> %+v", before, after)
	}
}

func TestZoomInOutRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		mid  bool
	}{
		{"AfterTransition", false},
		{"MidTransition", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, clk := newTestEngine()
			e.SetTransform(Transform{X: 30, Y: 40, K: 1.3}, false, 0)
			start := e.Current()
			around := graph.Point{X: 400, Y: 300}

			e.ZoomIn(around)
			if tt.mid {
				clk.Advance(100 * time.Millisecond)
				e.Step()
			} else {
				clk.Advance(time.Second)
				e.Step()
			}
			e.ZoomOut(around)
			clk.Advance(time.Second)
			e.Step()

			got := e.Current()
			if !approx(got.K, start.K) {
				t.Errorf("scale = %v, want %v", got.K, start.K)
			}
			if !approx(got.X, start.X) || !approx(got.Y, start.Y) {
				t.Errorf("translate = (%v, %v), want (%v, %v)", got.X, got.Y, start.X, start.Y)
			}
		})
	}
}

func TestZoomClamps(t *testing.T) {
	e, clk := newTestEngine()
	for i := 0; i < 50; i++ {
		e.ZoomIn(graph.Point{})
	}
	clk.Advance(time.Second)
	e.Step()
	if e.Current().K != e.Config().MaxScale {
		t.Errorf("scale = %v, want max %v", e.Current().K, e.Config().MaxScale)
	}

	for i := 0; i < 100; i++ {
		e.ZoomOut(graph.Point{})
	}
	clk.Advance(time.Second)
	e.Step()
	if e.Current().K != e.Config().MinScale {
		t.Errorf("scale = %v, want min %v", e.Current().K, e.Config().MinScale)
	}

	e.SetTransform(Transform{K: math.NaN()}, false, 0)
	if e.Current().K != e.Config().MinScale {
		t.Errorf("NaN scale = %v, want min", e.Current().K)
	}
}

func TestPanUnbounded(t *testing.T) {
	e, _ := newTestEngine()
	e.PanBy(1e7, -1e7)
	if got := e.Current(); got.X != 1e7 || got.Y != -1e7 || got.K != 1 {
		t.Errorf("Current = %+v", got)
	}
}

func TestTransitionCancelReplace(t *testing.T) {
	e, clk := newTestEngine()
	e.SetTransform(Transform{X: 100, K: 2}, true, 200*time.Millisecond)
	clk.Advance(100 * time.Millisecond)
	e.Step()
	mid := e.Current()
	if mid.X <= 0 || mid.X >= 100 {
		t.Fatalf("mid transition X = %v", mid.X)
	}

	// The replacement starts from what is displayed now.
	e.SetTransform(Transform{X: -50, K: 1}, true, 200*time.Millisecond)
	if e.Current() != mid {
		t.Errorf("replacement jumped: %+v, want %+v", e.Current(), mid)
	}
	if e.Target().X != -50 {
		t.Errorf("target X = %v, want -50", e.Target().X)
	}

	clk.Advance(time.Second)
	if !e.Step() {
		t.Error("Step should report a change")
	}
	if got := e.Current(); got.X != -50 || got.K != 1 {
		t.Errorf("final = %+v", got)
	}
	if e.Animating() {
		t.Error("transition should be finished")
	}
	if e.Step() {
		t.Error("idle Step should report no change")
	}
}

func TestPanCancelsTransition(t *testing.T) {
	e, clk := newTestEngine()
	e.Reset()
	e.SetTransform(Transform{X: 100, K: 2}, true, 200*time.Millisecond)
	clk.Advance(50 * time.Millisecond)
	e.Step()
	e.PanBy(5, 5)
	if e.Animating() {
		t.Error("pan should cancel the transition")
	}
}

func TestFit(t *testing.T) {
	cfg := DefaultConfig()
	vp := Size{W: 800, H: 600}
	tests := []struct {
		name   string
		bounds graph.Bounds
		ok     bool
	}{
		{"Normal", graph.Bounds{MinX: -100, MinY: -50, MaxX: 100, MaxY: 50}, true},
		{"SinglePoint", graph.Bounds{MinX: 3, MinY: 3, MaxX: 3, MaxY: 3}, true},
		{"Huge", graph.Bounds{MinX: -1e9, MinY: -1e9, MaxX: 1e9, MaxY: 1e9}, true},
		{"Invalid", graph.EmptyBounds(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ok := cfg.Fit(tt.bounds, vp, 40)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if tr.K > cfg.MaxFitScale || tr.K < cfg.MinScale {
				t.Errorf("scale %v outside [%v, %v]", tr.K, cfg.MinScale, cfg.MaxFitScale)
			}
			c := tr.Apply(tt.bounds.Center())
			if !approx(c.X, 400) || !approx(c.Y, 300) {
				t.Errorf("center maps to %+v, want (400, 300)", c)
			}
		})
	}
}

func TestFitFormula(t *testing.T) {
	b := graph.Bounds{MinX: 0, MinY: 0, MaxX: 200, MaxY: 100}
	tr, ok := FitToBounds(b, Size{W: 800, H: 600}, 40)
	if !ok {
		t.Fatal("fit failed")
	}
	// min((800-80)/200, (600-80)/100) = 3.6, times 0.9 = 3.24, capped at 3.
	if tr.K != 3 {
		t.Errorf("scale = %v, want 3", tr.K)
	}

	b = graph.Bounds{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 100}
	tr, _ = FitToBounds(b, Size{W: 800, H: 600}, 40)
	if want := 0.9 * 720.0 / 1000.0; !approx(tr.K, want) {
		t.Errorf("scale = %v, want %v", tr.K, want)
	}
}

func TestFitPaddingOnSmallViewport(t *testing.T) {
	// A 100x60 terminal canvas with the default padding of 40 would leave
	// no room at all; padding shrinks to 15.
	b := graph.Bounds{MinX: 0, MinY: 0, MaxX: 80, MaxY: 70}
	tr, ok := FitToBounds(b, Size{W: 100, H: 60}, 40)
	if !ok {
		t.Fatal("fit failed")
	}
	if want := 0.9 * 30.0 / 70.0; !approx(tr.K, want) {
		t.Errorf("scale = %v, want %v", tr.K, want)
	}
	lo, hi := tr.Apply(graph.Point{X: b.MinX, Y: b.MinY}), tr.Apply(graph.Point{X: b.MaxX, Y: b.MaxY})
	if lo.X < 0 || lo.Y < 0 || hi.X > 100 || hi.Y > 60 {
		t.Errorf("bounds map to %+v..%+v, outside the viewport", lo, hi)
	}
}

func TestEngineFitNoop(t *testing.T) {
	e, _ := newTestEngine()
	e.PanBy(10, 10)
	before := e.Current()
	if e.FitToBounds(graph.EmptyBounds(), Size{W: 800, H: 600}, 40) {
		t.Error("fit on empty bounds should report false")
	}
	if e.FitToBounds(graph.Bounds{MaxX: 1, MaxY: 1}, Size{}, 40) {
		t.Error("fit on zero viewport should report false")
	}
	if e.Current() != before || e.Animating() {
		t.Error("no-op fit changed state")
	}
}

func TestEasing(t *testing.T) {
	if easeCubicInOut(0) != 0 || easeCubicInOut(1) != 1 || easeCubicInOut(0.5) != 0.5 {
		t.Error("easing endpoints wrong")
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := easeCubicInOut(float64(i) / 100)
		if v < prev {
			t.Fatalf("easing not monotonic at %d", i)
		}
		prev = v
	}
}
