package viewport

import (
	"time"

	"github.com/matzehuels/kgview/pkg/graph"
)

// Engine owns the current viewport transform and at most one animated
// transition toward a target. It is driven by Step, normally once per frame,
// and is not safe for concurrent use.
//
// Every request cancels the in-flight transition. Animated requests start
// from the currently displayed transform, so there is never a jump.
type Engine struct {
	cfg  Config
	now  func() time.Time
	cur  Transform
	anim *transition
}

type transition struct {
	from, to Transform
	start    time.Time
	dur      time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now, typically with a fake clock in tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithConfig sets zoom limits and durations.
func WithConfig(cfg Config) Option {
	return func(e *Engine) { e.cfg = cfg.withDefaults() }
}

// NewEngine returns an engine at the identity transform.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{cfg: DefaultConfig(), now: time.Now, cur: Identity}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// Current returns the displayed transform as of the last Step.
func (e *Engine) Current() Transform { return e.cur }

// Target returns where the engine is heading: the end of the in-flight
// transition, or the current transform when idle.
func (e *Engine) Target() Transform {
	if e.anim != nil {
		return e.anim.to
	}
	return e.cur
}

// Animating reports whether a transition is in flight.
func (e *Engine) Animating() bool { return e.anim != nil }

// Step advances the in-flight transition to the clock's current time and
// reports whether the displayed transform changed.
func (e *Engine) Step() bool {
	if e.anim == nil {
		return false
	}
	a := e.anim
	elapsed := e.now().Sub(a.start)
	if a.dur <= 0 || elapsed >= a.dur {
		e.cur = a.to
		e.anim = nil
		return true
	}
	t := easeCubicInOut(float64(elapsed) / float64(a.dur))
	e.cur = Transform{
		X: lerp(a.from.X, a.to.X, t),
		Y: lerp(a.from.Y, a.to.Y, t),
		K: lerp(a.from.K, a.to.K, t),
	}
	return true
}

// ZoomBy multiplies the target scale by factor, keeping the screen point
// around fixed. The result is clamped and animated over ZoomDuration.
// Composing onto the target means ZoomBy(f) then ZoomBy(1/f) restores the
// scale even while the first transition is still running.
func (e *Engine) ZoomBy(factor float64, around graph.Point) {
	if factor <= 0 {
		return
	}
	t := e.Target()
	next := t.scaleTo(e.cfg.Clamp(t.K*factor), around)
	e.SetTransform(next, true, e.cfg.ZoomDuration)
}

// ZoomIn zooms by one ZoomStep around around.
func (e *Engine) ZoomIn(around graph.Point) { e.ZoomBy(e.cfg.ZoomStep, around) }

// ZoomOut zooms by the inverse of ZoomStep around around.
func (e *Engine) ZoomOut(around graph.Point) { e.ZoomBy(1/e.cfg.ZoomStep, around) }

// ZoomAt zooms immediately, without animation. Wheel input uses it.
func (e *Engine) ZoomAt(factor float64, around graph.Point) {
	if factor <= 0 {
		return
	}
	t := e.cur
	e.SetTransform(t.scaleTo(e.cfg.Clamp(t.K*factor), around), false, 0)
}

// PanBy translates the displayed transform immediately. Panning is not
// bounded.
func (e *Engine) PanBy(dx, dy float64) {
	e.SetTransform(e.cur.Translate(dx, dy), false, 0)
}

// SetTransform moves to t, clamping its scale. When animated is true and
// d is positive the move is a transition from the displayed transform.
func (e *Engine) SetTransform(t Transform, animated bool, d time.Duration) {
	t.K = e.cfg.Clamp(t.K)
	if !animated || d <= 0 {
		e.anim = nil
		e.cur = t
		return
	}
	e.anim = &transition{from: e.cur, to: t, start: e.now(), dur: d}
}

// FitToBounds animates to the transform that fits b into vp. It is a no-op
// returning false when the bounds or viewport are invalid.
func (e *Engine) FitToBounds(b graph.Bounds, vp Size, padding float64) bool {
	t, ok := e.cfg.Fit(b, vp, padding)
	if !ok {
		return false
	}
	e.SetTransform(t, true, e.cfg.FitDuration)
	return true
}

// Reset animates back to the identity transform.
func (e *Engine) Reset() {
	e.SetTransform(Identity, true, e.cfg.ResetDuration)
}

// Teardown jumps to the identity transform without animation.
func (e *Engine) Teardown() {
	e.SetTransform(Identity, false, 0)
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// easeCubicInOut matches d3.easeCubicInOut.
func easeCubicInOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
