// Package viewport implements pan and zoom state for the graph surface.
//
// A [Transform] maps simulation coordinates to screen coordinates. The
// [Engine] holds the displayed transform and animates toward new targets
// with cubic in-out easing:
//
//	vp := viewport.NewEngine()
//	vp.ZoomIn(center)
//	for vp.Animating() {
//	    vp.Step()
//	    draw(vp.Current())
//	}
//
// Scale is clamped to [Config.MinScale, Config.MaxScale] on every write.
// Panning is unbounded. A new request always replaces the in-flight
// transition.
//
// [Config.Fit] computes the fit-to-graph transform. Bounds without a finite
// point yield ok == false, and callers treat that as a no-op.
package viewport
