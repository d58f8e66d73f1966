// Package interact maps pointer gestures onto the simulation and viewport.
//
// A [Controller] is a three-state machine:
//
//	Idle ──press on node──▶ DraggingNode ──release──▶ Idle
//	Idle ──press on canvas─▶ Panning ─────release──▶ Idle
//
// Dragging holds the node through a sim.Grip, so only one gesture at a time
// can pin it, and raises the simulation's alpha target to
// [DragAlphaTarget] for the duration. Release clears the pin and lets the
// layout cool. Panning and wheel zoom act on the viewport immediately,
// cancelling any running viewport animation.
//
// All pointer coordinates are in screen space. Hit testing is the
// caller's job; see view.View.HitTest.
package interact
