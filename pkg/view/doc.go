// Package view is the control facade of the graph explorer.
//
// A [View] ties together one simulation, one viewport engine, the
// highlight selection and the pointer state machine, and draws through a
// render.Adapter. It is an explicit handle: create one per display
// surface with [New] and discard it with [View.Dispose].
//
// # Frame Loop
//
// Loading a graph registers the simulation on a [FrameLoop]. The host
// steps the loop once per animation frame (the terminal UI uses a
// bubbletea tick); each step advances the layout by one tick, advances any
// viewport transition and redraws when something changed. Step reports
// whether anything is still animating so hosts can idle once the layout
// has converged.
//
// # Controls
//
// [Controls] is the surface for sibling UI elements:
//
//	HighlightLoop  ClearHighlights  FitToGraph  ZoomIn  ZoomOut  ResetView
//
// Every control is a no-op before a graph is loaded, on an empty graph and
// after Dispose. HighlightLoop replaces the selection and then fits the
// whole graph, and every load fits once after [InitialFitTicks] frames.
package view
