package sim_test

import (
	"fmt"

	"github.com/matzehuels/kgview/pkg/graph"
	"github.com/matzehuels/kgview/pkg/sim"
)

func Example() {
	g := graph.New(
		[]graph.Node{{ID: "A"}, {ID: "B"}, {ID: "C"}},
		[]graph.Link{
			{Source: "A", Target: "B", Relation: "requires"},
			{Source: "B", Target: "C", Relation: "requires"},
			{Source: "C", Target: "A", Relation: "requires"},
		},
	)

	cfg := sim.DefaultConfig()
	cfg.Seed = 1
	s := sim.New(g, cfg, sim.WithCenter(400, 300))
	defer s.Dispose()

	ticks := s.Run(1000)
	fmt.Println("Converged:", s.Converged())
	fmt.Println("Ticks:", ticks)
	fmt.Println("Bounds valid:", s.Bounds().Valid())
	// Output:
	// Converged: true
	// Ticks: 300
	// Bounds valid: true
}

func ExampleSimulation_Hold() {
	g := graph.New([]graph.Node{{ID: "A"}, {ID: "B"}}, []graph.Link{{Source: "A", Target: "B"}})
	s := sim.New(g, sim.DefaultConfig())

	grip, err := s.Hold("A")
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	s.Reheat(0.3)
	grip.Move(10, 20)
	s.Tick()

	p, _ := s.Position("A")
	fmt.Printf("A at (%.0f, %.0f)\n", p.X, p.Y)

	_, err = s.Hold("A")
	fmt.Println("Second hold:", err)

	grip.Release()
	s.Cool()
	// Output:
	// A at (10, 20)
	// Second hold: hold A: node is held
}
