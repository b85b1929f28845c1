package graph

import "testing"

func TestNodeAt(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 0)
	g.AddNode("b", 10, 0)
	g.AddNode("c", 10, 10)

	if id, ok := g.NodeAt(9, 1, 5); !ok || id != 1 {
		t.Errorf("NodeAt(9, 1, 5) = (%d, %v), want (1, true)", id, ok)
	}

	// The radius bound is strict: a node exactly radius away does not match.
	if _, ok := g.NodeAt(5, 0, 5); ok {
		t.Error("NodeAt matched a node exactly at the radius")
	}
	if id, ok := g.NodeAt(5, 0, 5.01); !ok {
		t.Error("NodeAt missed nodes just inside the radius")
	} else if id != 0 {
		t.Errorf("NodeAt = %d, want lowest id 0 on tie", id)
	}

	if _, ok := g.NodeAt(100, 100, 5); ok {
		t.Error("NodeAt matched with nothing in range")
	}
}

func TestNodeAtIgnoresRemoved(t *testing.T) {
	g := New()
	g.AddNode("a", 0, 0)
	g.AddNode("b", 1, 0)

	g.RemoveNode(0)

	id, ok := g.NodeAt(0, 0, 3)
	if !ok || id != 1 {
		t.Errorf("NodeAt = (%d, %v), want (1, true) after removing node 0", id, ok)
	}
}

func TestNodeAtTieBreaksLowestID(t *testing.T) {
	g := New()
	g.AddNode("first", 2, 0)
	g.AddNode("second", -2, 0) // same distance from the origin

	id, ok := g.NodeAt(0, 0, 10)
	if !ok || id != 0 {
		t.Errorf("NodeAt = (%d, %v), want (0, true)", id, ok)
	}
}
