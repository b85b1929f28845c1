package astar

import "container/heap"

// pqItem is one open-set entry. index is maintained by the heap so the queue
// can re-sift an entry after its priority drops.
type pqItem struct {
	id       int
	priority float64
	index    int
}

// pqHeap implements heap.Interface over pqItem pointers.
type pqHeap []*pqItem

func (h pqHeap) Len() int           { return len(h) }
func (h pqHeap) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h pqHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *pqHeap) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *pqHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// PriorityQueue is the search's open set: a binary min-heap of (node id,
// priority) pairs with an id-to-entry table, so priority decreases are
// O(log n) rather than a scan. Each id holds at most one entry.
type PriorityQueue struct {
	heap pqHeap
	byID map[int]*pqItem
}

// NewPriorityQueue creates an empty queue.
func NewPriorityQueue() *PriorityQueue {
	return &PriorityQueue{byID: make(map[int]*pqItem)}
}

// Len returns the number of queued entries.
func (q *PriorityQueue) Len() int { return len(q.heap) }

// Contains reports whether id is currently queued.
func (q *PriorityQueue) Contains(id int) bool {
	_, ok := q.byID[id]
	return ok
}

// Push inserts id with the given priority. If id is already queued the call
// is ignored; use [PriorityQueue.DecreaseOrInsert] to lower a priority.
func (q *PriorityQueue) Push(id int, priority float64) {
	if _, ok := q.byID[id]; ok {
		return
	}
	item := &pqItem{id: id, priority: priority}
	q.byID[id] = item
	heap.Push(&q.heap, item)
}

// PopMin removes and returns the entry with the smallest priority.
func (q *PriorityQueue) PopMin() (id int, priority float64, ok bool) {
	if len(q.heap) == 0 {
		return 0, 0, false
	}
	item := heap.Pop(&q.heap).(*pqItem)
	delete(q.byID, item.id)
	return item.id, item.priority, true
}

// DecreaseOrInsert lowers the priority of a queued id, restoring heap order,
// or inserts the id if absent. A priority that is not an improvement leaves
// the queue untouched.
func (q *PriorityQueue) DecreaseOrInsert(id int, priority float64) {
	item, ok := q.byID[id]
	if !ok {
		q.Push(id, priority)
		return
	}
	if priority < item.priority {
		item.priority = priority
		heap.Fix(&q.heap, item.index)
	}
}
