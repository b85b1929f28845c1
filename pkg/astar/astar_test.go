package astar

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/wayfinder/wayfinder/pkg/graph"
)

// lineGraph builds A(0,0) - B(3,4) - C(6,8) with edge weights 5, the
// smallest graph where the heuristic actually steers the search.
func lineGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddNode("A", 0, 0)
	g.AddNode("B", 3, 4)
	g.AddNode("C", 6, 8)
	if err := g.AddBidirectional(0, 1, 5); err != nil {
		t.Fatalf("AddBidirectional: %v", err)
	}
	if err := g.AddBidirectional(1, 2, 5); err != nil {
		t.Fatalf("AddBidirectional: %v", err)
	}
	return g
}

func TestFindPathLine(t *testing.T) {
	res, stats, err := FindPath(context.Background(), lineGraph(t), 0, 2, DefaultConfig())
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if !res.Found {
		t.Fatal("Found = false")
	}
	if want := []int{0, 1, 2}; !reflect.DeepEqual(res.Path, want) {
		t.Errorf("Path = %v, want %v", res.Path, want)
	}
	if res.TotalCost != 10 {
		t.Errorf("TotalCost = %g, want 10", res.TotalCost)
	}
	if stats.Expanded == 0 {
		t.Error("Stats.Expanded = 0")
	}
}

func TestFindPathDisconnected(t *testing.T) {
	g := lineGraph(t)
	if !g.RemoveEdge(1, 2) || !g.RemoveEdge(2, 1) {
		t.Fatal("RemoveEdge failed")
	}

	res, _, err := FindPath(context.Background(), g, 0, 2, DefaultConfig())
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if res.Found {
		t.Error("Found = true for a disconnected goal")
	}
	if res.Path != nil {
		t.Errorf("Path = %v, want nil", res.Path)
	}
}

func TestFindPathIdentity(t *testing.T) {
	res, _, err := FindPath(context.Background(), lineGraph(t), 1, 1, DefaultConfig())
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if !res.Found {
		t.Fatal("Found = false for start == goal")
	}
	if want := []int{1}; !reflect.DeepEqual(res.Path, want) {
		t.Errorf("Path = %v, want %v", res.Path, want)
	}
	if res.TotalCost != 0 {
		t.Errorf("TotalCost = %g, want 0", res.TotalCost)
	}
}

func TestFindPathInvalidNodes(t *testing.T) {
	g := lineGraph(t)
	g.RemoveNode(1)

	cases := []struct {
		name        string
		start, goal int
	}{
		{"negative start", -1, 2},
		{"goal out of range", 0, 99},
		{"removed start", 1, 2},
		{"removed goal", 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := FindPath(context.Background(), g, tc.start, tc.goal, DefaultConfig())
			if !errors.Is(err, ErrInvalidNode) {
				t.Errorf("FindPath(%d, %d): err = %v, want ErrInvalidNode", tc.start, tc.goal, err)
			}
		})
	}
}

func TestFindPathAvoidsRemovedNodes(t *testing.T) {
	// A square: two routes from 0 to 3. Removing the cheap waypoint forces
	// the other route.
	g := graph.New()
	g.AddNode("SW", 0, 0)
	g.AddNode("SE", 10, 0)
	g.AddNode("NW", 0, 10)
	g.AddNode("NE", 10, 10)
	g.AddBidirectional(0, 1, 10)
	g.AddBidirectional(1, 3, 10)
	g.AddBidirectional(0, 2, 15)
	g.AddBidirectional(2, 3, 15)

	g.RemoveNode(1)

	res, _, err := FindPath(context.Background(), g, 0, 3, DefaultConfig())
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if !res.Found {
		t.Fatal("Found = false after removing one waypoint")
	}
	if want := []int{0, 2, 3}; !reflect.DeepEqual(res.Path, want) {
		t.Errorf("Path = %v, want %v", res.Path, want)
	}
	if res.TotalCost != 30 {
		t.Errorf("TotalCost = %g, want 30", res.TotalCost)
	}
}

// TestFindPathMatchesDijkstra checks optimality: on a graph with Euclidean
// edge weights every heuristic run must find the same cost Dijkstra does.
func TestFindPathMatchesDijkstra(t *testing.T) {
	g := graph.NewSampleCity()
	ctx := context.Background()

	for _, h := range []Heuristic{Euclidean, Chebyshev} {
		for start := 0; start < g.NodeCount(); start++ {
			for goal := 0; goal < g.NodeCount(); goal++ {
				want, _, err := FindPath(ctx, g, start, goal, Config{Heuristic: Zero})
				if err != nil {
					t.Fatalf("dijkstra %d->%d: %v", start, goal, err)
				}
				got, _, err := FindPath(ctx, g, start, goal, Config{Heuristic: h})
				if err != nil {
					t.Fatalf("%v %d->%d: %v", h, start, goal, err)
				}
				if got.Found != want.Found {
					t.Fatalf("%v %d->%d: Found = %v, dijkstra says %v", h, start, goal, got.Found, want.Found)
				}
				if diff := math.Abs(got.TotalCost - want.TotalCost); diff > 1e-9 {
					t.Errorf("%v %d->%d: cost %g, dijkstra %g", h, start, goal, got.TotalCost, want.TotalCost)
				}
			}
		}
	}
}

func TestFindPathWeightedHeuristicStillReachesGoal(t *testing.T) {
	g := graph.NewSampleCity()

	res, _, err := FindPath(context.Background(), g, 0, 9,
		Config{Heuristic: Euclidean, Weight: 2.5})
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if !res.Found {
		t.Error("Found = false with inflated heuristic")
	}
	if res.Path[0] != 0 || res.Path[len(res.Path)-1] != 9 {
		t.Errorf("Path endpoints = %d..%d, want 0..9", res.Path[0], res.Path[len(res.Path)-1])
	}
}

func TestFindPathZeroWeightMeansDefault(t *testing.T) {
	g := graph.NewSampleCity()

	def, _, err := FindPath(context.Background(), g, 0, 9,
		Config{Heuristic: Euclidean, Weight: 1})
	if err != nil {
		t.Fatalf("FindPath(weight 1): %v", err)
	}
	zero, _, err := FindPath(context.Background(), g, 0, 9,
		Config{Heuristic: Euclidean})
	if err != nil {
		t.Fatalf("FindPath(zero config weight): %v", err)
	}

	if !reflect.DeepEqual(zero.Path, def.Path) {
		t.Errorf("Path with unset weight = %v, want %v", zero.Path, def.Path)
	}
	if zero.TotalCost != def.TotalCost {
		t.Errorf("TotalCost with unset weight = %v, want %v", zero.TotalCost, def.TotalCost)
	}
}

func TestObserverSeesExpansionOrder(t *testing.T) {
	var order []int
	res, stats, err := FindPath(context.Background(), lineGraph(t), 0, 2, DefaultConfig(),
		WithObserver(func(id int) bool {
			order = append(order, id)
			return true
		}))
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if !res.Found {
		t.Fatal("Found = false")
	}
	if len(order) != stats.Expanded {
		t.Errorf("observer saw %d nodes, Stats.Expanded = %d", len(order), stats.Expanded)
	}
	if order[0] != 0 {
		t.Errorf("first expansion = %d, want start 0", order[0])
	}
	if order[len(order)-1] != 2 {
		t.Errorf("last expansion = %d, want goal 2", order[len(order)-1])
	}
}

func TestObserverCanStopSearch(t *testing.T) {
	res, stats, err := FindPath(context.Background(), lineGraph(t), 0, 2, DefaultConfig(),
		WithObserver(func(id int) bool { return false }))
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if res.Found {
		t.Error("Found = true after observer stopped the search")
	}
	if stats.Expanded != 1 {
		t.Errorf("Stats.Expanded = %d, want 1", stats.Expanded)
	}
}

func TestExplorationOrder(t *testing.T) {
	g := graph.NewSampleCity()

	order, err := ExplorationOrder(g, 0, 9, 64)
	if err != nil {
		t.Fatalf("ExplorationOrder: %v", err)
	}
	if len(order) == 0 {
		t.Fatal("empty exploration order")
	}
	if order[0] != 0 {
		t.Errorf("first explored = %d, want start 0", order[0])
	}
	if order[len(order)-1] != 9 {
		t.Errorf("last explored = %d, want goal 9", order[len(order)-1])
	}

	seen := make(map[int]bool)
	for _, id := range order {
		if seen[id] {
			t.Errorf("node %d explored twice", id)
		}
		seen[id] = true
	}
}

func TestExplorationOrderLimit(t *testing.T) {
	g := graph.NewSampleCity()

	order, err := ExplorationOrder(g, 0, 9, 3)
	if err != nil {
		t.Fatalf("ExplorationOrder: %v", err)
	}
	if len(order) != 3 {
		t.Errorf("len(order) = %d, want 3", len(order))
	}

	if order, _ := ExplorationOrder(g, 0, 9, 0); order != nil {
		t.Errorf("limit 0: order = %v, want nil", order)
	}
}
