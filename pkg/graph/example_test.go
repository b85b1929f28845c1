package graph_test

import (
	"fmt"

	"github.com/wayfinder/wayfinder/pkg/graph"
)

func ExampleGraph() {
	// Build a three-stop map
	g := graph.New()
	harbor, _ := g.AddNode("Harbor", 0, 0)
	market, _ := g.AddNode("Market", 3, 4)
	depot, _ := g.AddNode("Depot", 6, 8)
	_ = g.AddBidirectional(harbor, market, 5)
	_ = g.AddBidirectional(market, depot, 5)

	fmt.Println("nodes:", g.NodeCount())
	fmt.Println("neighbors of Market:", g.Neighbors(market))

	d, _ := g.Distance(harbor, depot)
	fmt.Println("straight-line Harbor-Depot:", d)
	// Output:
	// nodes: 3
	// neighbors of Market: [0 2]
	// straight-line Harbor-Depot: 10
}

func ExampleGraph_Resolve() {
	g := graph.NewSampleCity()

	// A reference is a numeric id or a (partial) name
	byID, _ := g.Resolve("5")
	byName, _ := g.Resolve("university")

	fmt.Println(byID == byName)
	// Output:
	// true
}

func ExampleGraph_RemoveNode() {
	g := graph.New()
	a, _ := g.AddNode("A", 0, 0)
	b, _ := g.AddNode("B", 1, 0)
	_ = g.AddBidirectional(a, b, 1)

	// Removing a node deactivates it and every edge touching it
	g.RemoveNode(b)

	fmt.Println("B active:", g.Active(b))
	fmt.Println("A->B edge:", g.HasEdge(a, b))
	fmt.Println("slots kept:", g.NodeCount())
	// Output:
	// B active: false
	// A->B edge: false
	// slots kept: 2
}
