package highlight_test

import (
	"fmt"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/highlight"
)

func ExampleCompute() {
	g := graph.New(
		[]graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}, {ID: "D"}},
		[]graph.Link{
			{Source: "A", Target: "B"},
			{Source: "B", Target: "C"},
			{Source: "C", Target: "A"},
			{Source: "C", Target: "D"},
		},
	)

	sel := highlight.Compute(g, graph.Loop{Nodes: []string{"A", "B", "C", "A"}})
	fmt.Println("Nodes:", sel.Nodes())
	for _, p := range sel.Edges() {
		fmt.Printf("Edge: %s -> %s\n", p.Source, p.Target)
	}
	fmt.Println("C->D highlighted:", sel.HasEdge("C", "D"))
	// Output:
	// Nodes: [A B C]
	// Edge: A -> B
	// Edge: B -> C
	// Edge: C -> A
	// C->D highlighted: false
}
