package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := graph.New(
		[]graph.Node{{ID: "energy"}, {ID: "mass"}},
		[]graph.Link{{Source: "energy", Target: "mass", Relation: "equivalent"}},
	)

	dot := nodelink.ToDOT(g, nodelink.Options{Relations: true})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// "energy" -> "mass" [label="equivalent"];
}
