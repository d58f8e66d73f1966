// Package sim implements the force-directed layout used to place graph
// nodes in two dimensions.
//
// # Forces
//
// Each [Simulation.Tick] relaxes alpha toward its target and applies, in
// order:
//
//   - a link spring toward [Config.LinkDistance], split between endpoints
//     by degree
//   - many-body repulsion v += Δ·q·alpha/l², pairwise below
//     [Config.BarnesHutThreshold] nodes and Barnes-Hut above it
//   - a centering translation toward the center point
//   - collision separation for nodes closer than twice [Config.CollideRadius]
//
// followed by damped Euler integration. Pinned nodes ignore all forces and
// sit exactly on their pin.
//
// # Cooling
//
// Alpha starts at 1 and decays geometrically. Once both alpha and its
// target fall below [Config.AlphaMin] the simulation has converged and
// Tick returns false without work until [Simulation.Reheat] raises the
// target again.
//
// # Dragging
//
// A drag takes a [Grip] on one node:
//
//	g, err := s.Hold(id)
//	if err != nil {
//	    return err // ErrHeld, ErrUnknownNode or ErrDisposed
//	}
//	s.Reheat(0.3)
//	g.Move(x, y)
//	...
//	g.Release()
//	s.Cool()
//
// While held, no other writer can pin or unpin that node.
//
// # Numerical Faults
//
// Coincident nodes are separated by a tiny random jiggle. A node whose
// position or velocity still becomes non-finite is moved to the center
// plus a random offset and reported via observability hooks. Tick never
// propagates NaN.
package sim
