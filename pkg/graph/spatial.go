package graph

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// pointExtent is the tiny half-width used to store point locations in the
// R-tree, which indexes rectangles rather than points.
const pointExtent = 1e-9

// nodeEntry is an R-tree leaf for one active node.
type nodeEntry struct {
	id   int
	pos  orb.Point
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *nodeEntry) Bounds() rtreego.Rect { return e.rect }

// spatialIndex answers nearest-node queries for [Graph.NodeAt]. It holds one
// entry per active node and is updated on AddNode and RemoveNode, so inactive
// nodes never appear in query results.
type spatialIndex struct {
	tree    *rtreego.Rtree
	entries map[int]*nodeEntry
}

func newSpatialIndex() *spatialIndex {
	return &spatialIndex{
		tree:    rtreego.NewTree(2, 25, 50),
		entries: make(map[int]*nodeEntry),
	}
}

func (s *spatialIndex) insert(id int, pos orb.Point) {
	e := &nodeEntry{
		id:   id,
		pos:  pos,
		rect: rtreego.Point{pos.X(), pos.Y()}.ToRect(pointExtent),
	}
	s.entries[id] = e
	s.tree.Insert(e)
}

func (s *spatialIndex) remove(id int) {
	e, ok := s.entries[id]
	if !ok {
		return
	}
	s.tree.Delete(e)
	delete(s.entries, id)
}

// nearest returns the indexed node with the smallest squared distance to
// (x, y), considering only nodes strictly within radius. Ties resolve to the
// lowest id. The R-tree narrows the scan to the bounding square of the query
// circle; the exact circular check happens here.
func (s *spatialIndex) nearest(x, y, radius float64) (int, bool) {
	if radius <= 0 {
		return -1, false
	}
	query := rtreego.Point{x, y}.ToRect(radius)
	best := -1
	bestDist := radius * radius
	for _, obj := range s.tree.SearchIntersect(query) {
		e := obj.(*nodeEntry)
		dx := e.pos.X() - x
		dy := e.pos.Y() - y
		distSq := dx*dx + dy*dy
		if distSq < bestDist || (distSq == bestDist && best != -1 && e.id < best) {
			bestDist = distSq
			best = e.id
		}
	}
	return best, best != -1
}
