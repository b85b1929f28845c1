package graph

import (
	"errors"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

const (
	// DefaultMaxNodes is the default node capacity. It matches the slot
	// count of the binary map format, so a default store always fits on disk.
	DefaultMaxNodes = 1000

	// MaxNameLen is the byte length of a node name record, including the
	// terminating NUL. Longer names are truncated on insert so that an
	// in-memory graph always round-trips through the codec byte-for-byte.
	MaxNameLen = 128
)

var (
	// ErrCapacity is returned by [Graph.AddNode] when the configured node
	// capacity is exhausted. The graph is left unchanged.
	ErrCapacity = errors.New("graph: node capacity exhausted")

	// ErrNodeNotFound is returned when an operation references an id that is
	// out of range, or when a name or position query matches nothing.
	ErrNodeNotFound = errors.New("graph: node not found")

	// ErrEdgeExists is returned by [Graph.AddEdge] when an active edge
	// between the same endpoints already exists. Parallel edges are not
	// allowed.
	ErrEdgeExists = errors.New("graph: edge already exists")

	// ErrNegativeWeight is returned by [Graph.AddEdge] for weights below
	// zero. The search assumes non-negative costs.
	ErrNegativeWeight = errors.New("graph: edge weight must be non-negative")

	// ErrBadSnapshot is returned by [FromSnapshot] when the snapshot violates
	// the store's invariants (edge owner mismatch, dangling endpoint).
	ErrBadSnapshot = errors.New("graph: malformed snapshot")
)

// Node is a labeled map location. An inactive node is logically deleted but
// keeps its slot and id forever; ids are never reused.
type Node struct {
	ID     int
	Name   string
	Pos    orb.Point
	Active bool
}

// Edge is a directed weighted connection. Edges live in the adjacency list of
// their From node; an inactive edge is a tombstone kept for id stability.
type Edge struct {
	From   int
	To     int
	Weight float64
	Active bool
}

// Graph owns all node and edge storage. The zero value is not usable - use
// [New].
type Graph struct {
	nodes   []Node   // slot table; index == id
	adj     [][]Edge // adjacency list per node slot
	max     int      // node capacity
	version uint64   // bumped on every mutation; used for cache invalidation
	spatial *spatialIndex
}

// Option configures a Graph at construction time.
type Option func(*Graph)

// WithMaxNodes overrides the node capacity. Values below one are ignored.
// Note that graphs larger than [DefaultMaxNodes] cannot be written by the
// binary codec, whose slot table is fixed-size.
func WithMaxNodes(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.max = n
		}
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		max:     DefaultMaxNodes,
		spatial: newSpatialIndex(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// MaxNodes returns the configured node capacity.
func (g *Graph) MaxNodes() int { return g.max }

// NodeCount returns the number of allocated node slots, including inactive
// ones. Ids are always in [0, NodeCount).
func (g *Graph) NodeCount() int { return len(g.nodes) }

// Version returns a counter that increases with every mutation. Two equal
// versions of the same graph are guaranteed to describe identical state,
// which makes the version a cheap cache key component.
func (g *Graph) Version() uint64 { return g.version }

func (g *Graph) inRange(id int) bool { return id >= 0 && id < len(g.nodes) }

// AddNode appends a new active node and returns its id.
// Returns [ErrCapacity] when the node capacity is reached; the store is left
// unchanged. Names longer than [MaxNameLen]-1 bytes are truncated.
func (g *Graph) AddNode(name string, x, y float64) (int, error) {
	if len(g.nodes) >= g.max {
		return -1, ErrCapacity
	}
	if len(name) > MaxNameLen-1 {
		name = name[:MaxNameLen-1]
	}
	id := len(g.nodes)
	pos := orb.Point{x, y}
	g.nodes = append(g.nodes, Node{ID: id, Name: name, Pos: pos, Active: true})
	g.adj = append(g.adj, nil)
	g.spatial.insert(id, pos)
	g.version++
	return id, nil
}

// RemoveNode marks the node inactive and deactivates every edge that starts
// or ends at it, scanning all adjacency lists. Storage is not compacted and
// the id is not reused. Returns false for out-of-range ids.
func (g *Graph) RemoveNode(id int) bool {
	if !g.inRange(id) {
		return false
	}
	g.nodes[id].Active = false
	g.spatial.remove(id)
	for from := range g.adj {
		for i := range g.adj[from] {
			e := &g.adj[from][i]
			if e.From == id || e.To == id {
				e.Active = false
			}
		}
	}
	g.version++
	return true
}

// Node returns a copy of the node if the id is in range and the node is
// active.
func (g *Graph) Node(id int) (Node, bool) {
	if !g.inRange(id) || !g.nodes[id].Active {
		return Node{}, false
	}
	return g.nodes[id], true
}

// Active reports whether the id names an active node.
func (g *Graph) Active(id int) bool {
	return g.inRange(id) && g.nodes[id].Active
}

// Position returns the node's coordinates. Unlike [Graph.Node] it also
// answers for inactive slots, which the search engine needs when a caller
// deliberately routes from a deleted location.
func (g *Graph) Position(id int) (orb.Point, bool) {
	if !g.inRange(id) {
		return orb.Point{}, false
	}
	return g.nodes[id].Pos, true
}

// Nodes returns copies of all active nodes in id order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n.Active {
			out = append(out, n)
		}
	}
	return out
}

// FindByName resolves a label to a node id. It tries an exact
// case-insensitive match first and falls back to a case-insensitive
// substring match; in both passes the lowest matching id wins. Only active
// nodes are candidates.
func (g *Graph) FindByName(name string) (int, bool) {
	for i := range g.nodes {
		if g.nodes[i].Active && strings.EqualFold(g.nodes[i].Name, name) {
			return i, true
		}
	}
	needle := strings.ToLower(name)
	for i := range g.nodes {
		if g.nodes[i].Active && strings.Contains(strings.ToLower(g.nodes[i].Name), needle) {
			return i, true
		}
	}
	return -1, false
}

// Resolve turns a user-supplied node reference into an id. A reference is
// either a numeric id or a (partial) node name. Numeric references must name
// an active node.
func (g *Graph) Resolve(ref string) (int, error) {
	if id, err := strconv.Atoi(ref); err == nil {
		if !g.Active(id) {
			return -1, ErrNodeNotFound
		}
		return id, nil
	}
	id, ok := g.FindByName(ref)
	if !ok {
		return -1, ErrNodeNotFound
	}
	return id, nil
}

// NodeAt returns the active node closest to (x, y) among those strictly
// within radius. Ties resolve to the lowest id.
func (g *Graph) NodeAt(x, y, radius float64) (int, bool) {
	return g.spatial.nearest(x, y, radius)
}

// AddEdge appends one directed edge. It fails with [ErrNodeNotFound] when
// either endpoint id is out of range, [ErrNegativeWeight] for negative
// weights, and [ErrEdgeExists] when an active edge between the endpoints
// already exists. The To endpoint may be an inactive node; such an edge is
// legal but filtered out by every active-only query.
func (g *Graph) AddEdge(from, to int, weight float64) error {
	if !g.inRange(from) || !g.inRange(to) {
		return ErrNodeNotFound
	}
	if weight < 0 {
		return ErrNegativeWeight
	}
	if g.HasEdge(from, to) {
		return ErrEdgeExists
	}
	g.adj[from] = append(g.adj[from], Edge{From: from, To: to, Weight: weight, Active: true})
	g.version++
	return nil
}

// AddBidirectional attempts both directions independently and succeeds when
// at least one edge was newly created. A partial success (for example when
// the reverse edge already exists) leaves the graph asymmetric by design of
// the two underlying inserts; callers that need symmetry should check both
// directions afterwards.
func (g *Graph) AddBidirectional(from, to int, weight float64) error {
	errFwd := g.AddEdge(from, to, weight)
	errRev := g.AddEdge(to, from, weight)
	if errFwd != nil && errRev != nil {
		return errFwd
	}
	return nil
}

// RemoveEdge deactivates the first active edge from->to. The reverse
// direction is untouched. Returns false when no active edge matches.
func (g *Graph) RemoveEdge(from, to int) bool {
	if !g.inRange(from) {
		return false
	}
	for i := range g.adj[from] {
		e := &g.adj[from][i]
		if e.To == to && e.Active {
			e.Active = false
			g.version++
			return true
		}
	}
	return false
}

// HasEdge reports whether an active edge from->to exists.
func (g *Graph) HasEdge(from, to int) bool {
	_, ok := g.EdgeWeight(from, to)
	return ok
}

// EdgeWeight returns the weight of the active edge from->to.
func (g *Graph) EdgeWeight(from, to int) (float64, bool) {
	if !g.inRange(from) {
		return 0, false
	}
	for i := range g.adj[from] {
		e := &g.adj[from][i]
		if e.To == to && e.Active {
			return e.Weight, true
		}
	}
	return 0, false
}

// OutEdges returns copies of the node's active outgoing edges, including
// edges that point at an inactive node. Callers expanding the graph must
// filter targets with [Graph.Active].
func (g *Graph) OutEdges(id int) []Edge {
	if !g.inRange(id) {
		return nil
	}
	var out []Edge
	for _, e := range g.adj[id] {
		if e.Active {
			out = append(out, e)
		}
	}
	return out
}

// Neighbors returns the ids of active nodes reachable over one active edge,
// in adjacency order.
func (g *Graph) Neighbors(id int) []int {
	var out []int
	for _, e := range g.OutEdges(id) {
		if g.Active(e.To) {
			out = append(out, e.To)
		}
	}
	return out
}

// Distance returns the Euclidean distance between two node positions. It is
// the conventional edge weight and the default search heuristic. Inactive
// endpoints are legal; out-of-range ids report false.
func (g *Graph) Distance(a, b int) (float64, bool) {
	pa, okA := g.Position(a)
	pb, okB := g.Position(b)
	if !okA || !okB {
		return 0, false
	}
	return planar.Distance(pa, pb), true
}

// Snapshot is a deep copy of a graph's full state, including inactive slots
// and edge tombstones. It is the unit of persistence: the codec reads and
// writes snapshots so that a failed load can never corrupt a live graph.
type Snapshot struct {
	Nodes []Node
	Adj   [][]Edge
}

// Export returns a snapshot of the graph. The snapshot shares no storage
// with the graph.
func (g *Graph) Export() Snapshot {
	s := Snapshot{
		Nodes: make([]Node, len(g.nodes)),
		Adj:   make([][]Edge, len(g.adj)),
	}
	copy(s.Nodes, g.nodes)
	for i, edges := range g.adj {
		if len(edges) == 0 {
			continue
		}
		s.Adj[i] = make([]Edge, len(edges))
		copy(s.Adj[i], edges)
	}
	return s
}

// FromSnapshot builds a graph from a snapshot, validating the store
// invariants: node ids must equal their slot index, every edge must be owned
// by its From node, and every To must be an allocated slot. Returns
// [ErrCapacity] when the snapshot exceeds the configured capacity and
// [ErrBadSnapshot] on any invariant violation.
func FromSnapshot(s Snapshot, opts ...Option) (*Graph, error) {
	g := New(opts...)
	if len(s.Nodes) > g.max {
		return nil, ErrCapacity
	}
	if len(s.Adj) != len(s.Nodes) {
		return nil, ErrBadSnapshot
	}
	g.nodes = make([]Node, len(s.Nodes))
	g.adj = make([][]Edge, len(s.Nodes))
	for i, n := range s.Nodes {
		if n.ID != i {
			return nil, ErrBadSnapshot
		}
		if len(n.Name) > MaxNameLen-1 {
			n.Name = n.Name[:MaxNameLen-1]
		}
		g.nodes[i] = n
		if n.Active {
			g.spatial.insert(i, n.Pos)
		}
	}
	for i, edges := range s.Adj {
		if len(edges) == 0 {
			continue
		}
		g.adj[i] = make([]Edge, len(edges))
		for j, e := range edges {
			if e.From != i || e.To < 0 || e.To >= len(s.Nodes) {
				return nil, ErrBadSnapshot
			}
			g.adj[i][j] = e
		}
	}
	return g, nil
}
