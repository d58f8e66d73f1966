package source_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/source"
)

func ExampleExtract() {
	p := graph.Payload{
		Nodes: []graph.Node{{ID: "Energy"}, {ID: "Mass"}, {ID: "Light"}, {ID: "Time"}},
		Links: []graph.Link{
			{Source: "Energy", Target: "Mass", Relation: "equivalent"},
			{Source: "Light", Target: "Energy", Relation: "carries"},
			{Source: "Time", Target: "Light", Relation: "measures"},
		},
	}

	sub, _ := source.Extract(p, source.Query{Center: "Energy", Radius: 1, Direction: source.DirectionBoth})
	for _, n := range sub.Nodes {
		fmt.Println(n.ID)
	}
	fmt.Println(len(sub.Links), "links")
	// Output:
	// Energy
	// Mass
	// Light
	// 2 links
}

func ExampleLoader() {
	loader := source.NewLoader(staticSource{})
	ctx := context.Background()

	older := loader.Load(ctx, source.Query{})
	newer := loader.Load(ctx, source.Query{})

	fmt.Println(loader.Commit(older), loader.Commit(newer))
	fmt.Println(newer.Graph.Len(), "nodes")
	// Output:
	// false true
	// 2 nodes
}

type staticSource struct{}

func (staticSource) Name() string { return "static" }

func (staticSource) Fetch(context.Context, source.Query) (graph.Payload, error) {
	return graph.Payload{Nodes: []graph.Node{{ID: "A"}, {ID: "B"}}}, nil
}
