package sim

import "fmt"

// Grip is exclusive write access to one node's pin, held for the duration
// of a drag. While a grip is held, SetPinned and ClearPinned for that node
// fail with ErrHeld and a second Hold fails too.
type Grip struct {
	s        *Simulation
	index    int
	id       string
	released bool
}

// Hold grips the node and pins it at its current position.
func (s *Simulation) Hold(id string) (*Grip, error) {
	i, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	if _, ok := s.held[i]; ok {
		return nil, fmt.Errorf("hold %s: %w", id, ErrHeld)
	}
	g := &Grip{s: s, index: i, id: id}
	s.held[i] = g
	n := s.nodes[i]
	s.pin(i, n.X, n.Y)
	return g, nil
}

// Held reports whether the node is currently gripped.
func (s *Simulation) Held(id string) bool {
	i, ok := s.g.Index(id)
	if !ok {
		return false
	}
	_, held := s.held[i]
	return held
}

// ID returns the id of the gripped node.
func (g *Grip) ID() string { return g.id }

// Active reports whether the grip still controls its node.
func (g *Grip) Active() bool { return !g.released }

// Move pins the node at (x, y). It is a no-op after Release or Dispose.
func (g *Grip) Move(x, y float64) {
	if g.released {
		return
	}
	g.s.pin(g.index, x, y)
}

// Release clears the pin and gives up the grip. Calling it again is a no-op.
func (g *Grip) Release() {
	if g.released {
		return
	}
	g.released = true
	delete(g.s.held, g.index)
	g.s.unpin(g.index)
}
