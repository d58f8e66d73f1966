package viewport

import (
	"math"
	"time"

	"github.com/matzehuels/kgview/pkg/graph"
)

// Transform is the affine map from simulation space to screen space:
// screen = sim*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform that leaves coordinates unchanged.
var Identity = Transform{K: 1}

// Apply maps a simulation-space point to screen space.
func (t Transform) Apply(p graph.Point) graph.Point {
	return graph.Point{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen-space point back to simulation space.
func (t Transform) Invert(p graph.Point) graph.Point {
	if t.K == 0 {
		return graph.Point{}
	}
	return graph.Point{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// ScaleBy returns t scaled by factor with the screen point around held fixed.
func (t Transform) ScaleBy(factor float64, around graph.Point) Transform {
	return t.scaleTo(t.K*factor, around)
}

func (t Transform) scaleTo(k float64, around graph.Point) Transform {
	p := t.Invert(around)
	return Transform{X: around.X - p.X*k, Y: around.Y - p.Y*k, K: k}
}

// Translate returns t shifted by (dx, dy) screen units.
func (t Transform) Translate(dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// Size is a viewport size in screen units.
type Size struct {
	W, H float64
}

// Center returns the midpoint of the viewport.
func (s Size) Center() graph.Point {
	return graph.Point{X: s.W / 2, Y: s.H / 2}
}

// Valid reports whether both dimensions are positive and finite.
func (s Size) Valid() bool {
	return s.W > 0 && s.H > 0 && !math.IsInf(s.W, 0) && !math.IsInf(s.H, 0)
}

// Config holds the zoom limits and transition durations.
type Config struct {
	MinScale    float64
	MaxScale    float64
	MaxFitScale float64
	// ZoomStep is the factor applied by one zoom-in step.
	ZoomStep      float64
	ZoomDuration  time.Duration
	FitDuration   time.Duration
	ResetDuration time.Duration
}

// DefaultConfig returns the explorer defaults.
func DefaultConfig() Config {
	return Config{
		MinScale:      0.2,
		MaxScale:      4,
		MaxFitScale:   3,
		ZoomStep:      1.2,
		ZoomDuration:  250 * time.Millisecond,
		FitDuration:   400 * time.Millisecond,
		ResetDuration: 300 * time.Millisecond,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MinScale <= 0 {
		c.MinScale = d.MinScale
	}
	if c.MaxScale < c.MinScale {
		c.MaxScale = math.Max(d.MaxScale, c.MinScale)
	}
	if c.MaxFitScale <= 0 {
		c.MaxFitScale = d.MaxFitScale
	}
	if c.ZoomStep <= 1 {
		c.ZoomStep = d.ZoomStep
	}
	return c
}

// Clamp bounds k to [MinScale, MaxScale]. Non-finite values map to MinScale.
func (c Config) Clamp(k float64) float64 {
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return c.MinScale
	}
	return math.Max(c.MinScale, math.Min(c.MaxScale, k))
}

// Fit computes the transform that centers b in a viewport of size vp with
// padding on every side. Padding is capped at a quarter of the smaller
// viewport side, so small viewports such as a terminal still get a usable
// scale. It returns false for invalid bounds or viewport, in which case the
// caller should leave its transform untouched.
func (c Config) Fit(b graph.Bounds, vp Size, padding float64) (Transform, bool) {
	c = c.withDefaults()
	if !b.Valid() || !vp.Valid() {
		return Transform{}, false
	}
	padding = math.Min(padding, math.Min(vp.W, vp.H)/4)
	dx := math.Max(b.Width(), 1)
	dy := math.Max(b.Height(), 1)
	scale := math.Min(c.MaxFitScale, 0.9*math.Min((vp.W-2*padding)/dx, (vp.H-2*padding)/dy))
	scale = c.Clamp(scale)

	center := b.Center()
	return Transform{
		X: vp.W/2 - center.X*scale,
		Y: vp.H/2 - center.Y*scale,
		K: scale,
	}, true
}

// FitToBounds is Fit with the default configuration.
func FitToBounds(b graph.Bounds, vp Size, padding float64) (Transform, bool) {
	return DefaultConfig().Fit(b, vp, padding)
}
