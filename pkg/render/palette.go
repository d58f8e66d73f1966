package render

import "github.com/matzehuels/kgview/pkg/graph"

// Category10 is the ten-color categorical scheme used for node groups.
var Category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// Palette assigns colors to groups in order of first appearance, cycling
// through its scheme. The zero value uses Category10.
type Palette struct {
	scheme []string
	index  map[graph.Group]int
}

// NewPalette returns a palette over scheme, or Category10 if scheme is empty.
func NewPalette(scheme ...string) *Palette {
	return &Palette{scheme: scheme}
}

// Color returns the color of group g, assigning the next one on first use.
func (p *Palette) Color(g graph.Group) string {
	scheme := p.scheme
	if len(scheme) == 0 {
		scheme = Category10
	}
	if p.index == nil {
		p.index = make(map[graph.Group]int)
	}
	i, ok := p.index[g]
	if !ok {
		i = len(p.index)
		p.index[g] = i
	}
	return scheme[i%len(scheme)]
}

// Reset forgets all assignments.
func (p *Palette) Reset() { p.index = nil }
