package view

import "slices"

// Framer is driven once per animation frame. Frame reports whether it
// still has work to animate.
type Framer interface {
	Frame() bool
}

// FramerFunc adapts a function to Framer.
type FramerFunc func() bool

func (f FramerFunc) Frame() bool { return f() }

// FrameLoop is the tick registration shared by everything that animates.
// A host calls Step once per frame, for example from a bubbletea tick or a
// headless loop. It is not safe for concurrent use.
type FrameLoop struct {
	entries []*frameEntry
}

type frameEntry struct {
	f       Framer
	removed bool
}

// NewFrameLoop returns an empty loop.
func NewFrameLoop() *FrameLoop {
	return &FrameLoop{}
}

// Register adds f to the loop. The returned function removes it; calling
// it more than once is a no-op.
func (l *FrameLoop) Register(f Framer) (unregister func()) {
	e := &frameEntry{f: f}
	l.entries = append(l.entries, e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		l.entries = slices.DeleteFunc(l.entries, func(x *frameEntry) bool { return x == e })
	}
}

// Step drives every registered framer once and reports whether any is
// still active. Framers unregistered during the step are skipped.
func (l *FrameLoop) Step() bool {
	active := false
	for _, e := range slices.Clone(l.entries) {
		if e.removed {
			continue
		}
		if e.f.Frame() {
			active = true
		}
	}
	return active
}

// Len returns the number of registered framers.
func (l *FrameLoop) Len() int { return len(l.entries) }
