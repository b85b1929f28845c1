package astar

import "testing"

func TestPriorityQueueOrdering(t *testing.T) {
	q := NewPriorityQueue()
	for id, p := range map[int]float64{1: 3.0, 2: 1.0, 3: 2.0, 4: 0.5} {
		q.Push(id, p)
	}

	want := []int{4, 2, 3, 1}
	for _, wantID := range want {
		id, _, ok := q.PopMin()
		if !ok {
			t.Fatal("PopMin on non-empty queue returned !ok")
		}
		if id != wantID {
			t.Errorf("PopMin = %d, want %d", id, wantID)
		}
	}
	if _, _, ok := q.PopMin(); ok {
		t.Error("PopMin on empty queue returned ok")
	}
}

func TestPriorityQueueDuplicatePushIgnored(t *testing.T) {
	q := NewPriorityQueue()
	q.Push(7, 5.0)
	q.Push(7, 1.0) // ignored: id already queued

	if q.Len() != 1 {
		t.Fatalf("Len = %d, want 1", q.Len())
	}
	_, p, _ := q.PopMin()
	if p != 5.0 {
		t.Errorf("priority = %g, want 5.0 (duplicate Push must not update)", p)
	}
}

func TestPriorityQueueDecreaseOrInsert(t *testing.T) {
	q := NewPriorityQueue()
	q.Push(1, 10.0)
	q.Push(2, 5.0)

	// Decrease moves id 1 ahead of id 2.
	q.DecreaseOrInsert(1, 2.0)
	if id, p, _ := q.PopMin(); id != 1 || p != 2.0 {
		t.Errorf("PopMin = (%d, %g), want (1, 2.0)", id, p)
	}

	// A worse priority is ignored.
	q.DecreaseOrInsert(2, 9.0)
	if id, p, _ := q.PopMin(); id != 2 || p != 5.0 {
		t.Errorf("PopMin = (%d, %g), want (2, 5.0)", id, p)
	}

	// Absent id is inserted.
	q.DecreaseOrInsert(3, 1.0)
	if !q.Contains(3) {
		t.Error("Contains(3) = false after DecreaseOrInsert")
	}
}

func TestPriorityQueueContains(t *testing.T) {
	q := NewPriorityQueue()
	if q.Contains(1) {
		t.Error("Contains on empty queue = true")
	}
	q.Push(1, 1.0)
	if !q.Contains(1) {
		t.Error("Contains after Push = false")
	}
	q.PopMin()
	if q.Contains(1) {
		t.Error("Contains after PopMin = true")
	}
}
