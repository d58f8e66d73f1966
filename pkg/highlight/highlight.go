// Package highlight computes which nodes and edges are emphasized when a
// loop is selected.
//
// A [Selection] is derived state. It is recomputed wholesale for every
// selected loop and never merged:
//
//	sel := highlight.Compute(g, loop)
//	if sel.HasEdge("A", "B") { ... }
//
// Matching is exact and directional: the loop pair (A, B) highlights an
// A→B edge of any relation, never B→A. Ids missing from the graph are
// ignored, so a loop computed against an older graph degrades to the part
// that still exists.
package highlight

import (
	"sort"

	"github.com/matzehuels/kgview/pkg/graph"
)

// Pair is a directed (source, target) node pair.
type Pair = graph.Pair

// Selection is the set of highlighted node ids and directed edge pairs.
// The zero value is the empty selection.
type Selection struct {
	nodes map[string]struct{}
	edges map[Pair]struct{}
}

// Compute returns the selection for loop against g: every loop id present
// in g, and every consecutive pair whose endpoints are both present. The
// closing pair exists only if the loop repeats its first id. A nil graph
// yields the empty selection.
func Compute(g *graph.Graph, loop graph.Loop) Selection {
	if g.Empty() {
		return Selection{}
	}
	var sel Selection
	for _, id := range loop.Nodes {
		if g.HasNode(id) {
			sel.addNode(id)
		}
	}
	for _, p := range loop.Pairs() {
		if g.HasNode(p.Source) && g.HasNode(p.Target) {
			sel.addEdge(p)
		}
	}
	return sel
}

// Clear returns the empty selection.
func Clear() Selection { return Selection{} }

func (s *Selection) addNode(id string) {
	if s.nodes == nil {
		s.nodes = make(map[string]struct{})
	}
	s.nodes[id] = struct{}{}
}

func (s *Selection) addEdge(p Pair) {
	if s.edges == nil {
		s.edges = make(map[Pair]struct{})
	}
	s.edges[p] = struct{}{}
}

// Empty reports whether nothing is highlighted.
func (s Selection) Empty() bool { return len(s.nodes) == 0 && len(s.edges) == 0 }

// HasNode reports whether id is highlighted.
func (s Selection) HasNode(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// HasEdge reports whether the directed pair (source, target) is highlighted.
func (s Selection) HasEdge(source, target string) bool {
	_, ok := s.edges[Pair{Source: source, Target: target}]
	return ok
}

// NodeCount returns the number of highlighted nodes.
func (s Selection) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of highlighted directed pairs.
func (s Selection) EdgeCount() int { return len(s.edges) }

// Nodes returns the highlighted ids in sorted order.
func (s Selection) Nodes() []string {
	ids := make([]string, 0, len(s.nodes))
	for id := range s.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns the highlighted pairs sorted by source, then target.
func (s Selection) Edges() []Pair {
	pairs := make([]Pair, 0, len(s.edges))
	for p := range s.edges {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Source != pairs[j].Source {
			return pairs[i].Source < pairs[j].Source
		}
		return pairs[i].Target < pairs[j].Target
	})
	return pairs
}

// Equal reports whether both selections highlight the same elements.
func (s Selection) Equal(o Selection) bool {
	if len(s.nodes) != len(o.nodes) || len(s.edges) != len(o.edges) {
		return false
	}
	for id := range s.nodes {
		if !o.HasNode(id) {
			return false
		}
	}
	for p := range s.edges {
		if !o.HasEdge(p.Source, p.Target) {
			return false
		}
	}
	return true
}
