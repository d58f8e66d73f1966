package source

import (
	"slices"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/graph"
)

// Extract answers a neighborhood query against a payload the way the
// backend's /subgraph endpoint does: nodes within q.Radius hops of
// q.Center along q.Direction, plus every link between kept nodes whose
// relation passes the filter. The relation filter does not restrict the
// walk. Node order follows p.
//
// A full query only applies the relation filter.
func Extract(p graph.Payload, q Query) (graph.Payload, error) {
	keepRel := func(rel string) bool {
		return len(q.Relations) == 0 || slices.Contains(q.Relations, rel)
	}

	keep := make(map[string]bool, len(p.Nodes))
	if q.Full() {
		for _, n := range p.Nodes {
			keep[n.ID] = true
		}
	} else {
		if !slices.ContainsFunc(p.Nodes, func(n graph.Node) bool { return n.ID == q.Center }) {
			return graph.Payload{}, kgerrors.New(kgerrors.ErrCodeNotFound, "node %q not found", q.Center)
		}
		walk(p.Links, q, keep)
	}

	var out graph.Payload
	for _, n := range p.Nodes {
		if keep[n.ID] {
			out.Nodes = append(out.Nodes, n)
			keep[n.ID] = false // first occurrence only
		}
	}
	kept := make(map[string]bool, len(out.Nodes))
	for _, n := range out.Nodes {
		kept[n.ID] = true
	}
	for _, l := range p.Links {
		if kept[l.Source] && kept[l.Target] && keepRel(l.Relation) {
			out.Links = append(out.Links, l)
		}
	}
	return out, nil
}

// walk marks every node within q.Radius hops of q.Center.
func walk(links []graph.Link, q Query, keep map[string]bool) {
	out := make(map[string][]string)
	in := make(map[string][]string)
	for _, l := range links {
		out[l.Source] = append(out[l.Source], l.Target)
		in[l.Target] = append(in[l.Target], l.Source)
	}

	keep[q.Center] = true
	frontier := []string{q.Center}
	for range q.Radius {
		var next []string
		for _, id := range frontier {
			var nbrs []string
			if q.Direction != DirectionIn {
				nbrs = append(nbrs, out[id]...)
			}
			if q.Direction != DirectionOut {
				nbrs = append(nbrs, in[id]...)
			}
			for _, nb := range nbrs {
				if !keep[nb] {
					keep[nb] = true
					next = append(next, nb)
				}
			}
		}
		if len(next) == 0 {
			return
		}
		frontier = next
	}
}
