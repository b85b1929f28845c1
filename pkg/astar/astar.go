package astar

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/paulmach/orb"

	"github.com/wayfinder/wayfinder/pkg/graph"
	"github.com/wayfinder/wayfinder/pkg/observability"
)

// ErrInvalidNode is returned when a start or goal id is out of range or
// refers to a removed node.
var ErrInvalidNode = errors.New("astar: invalid node id")

// Config selects the heuristic behavior of a search.
type Config struct {
	// Heuristic is the distance estimate guiding the search.
	Heuristic Heuristic

	// Weight scales the heuristic. 1 preserves optimality for admissible
	// heuristics; values above 1 trade optimality for speed (greedy bias).
	// The zero value means unset and is treated as 1: a literal 0 would
	// only zero out the estimate, which is what [Zero] already expresses.
	Weight float64

	// AllowDiagonal is accepted for grid-style callers. It does not change
	// the search on point graphs.
	AllowDiagonal bool
}

// DefaultConfig returns the standard configuration: Euclidean heuristic,
// multiplier 1.
func DefaultConfig() Config {
	return Config{Heuristic: Euclidean, Weight: 1, AllowDiagonal: true}
}

// Result is the outcome of one search. A successful search yields the node
// ids from start to goal inclusive and the accumulated cost; an exhausted
// search yields Found=false and no path.
type Result struct {
	Path      []int
	TotalCost float64
	Found     bool
}

// Stats describes one search run. Expanded counts first-time closures only;
// entries the heap would have lazily discarded are not search work and are
// not reported.
type Stats struct {
	Expanded  int           // nodes closed
	OpenPeak  int           // largest open-set size during the run
	OpenAtEnd int           // open-set size when the search stopped
	Duration  time.Duration // wall-clock search time
}

// Observer is notified as each node is closed, in expansion order. Returning
// false stops the search early.
type Observer func(id int) bool

// Option configures a single search call.
type Option func(*searchOptions)

type searchOptions struct {
	observer Observer
}

// WithObserver attaches an observer to the search. The observer sees the
// exact run that produces the result, so a caller can animate the expansion
// and trust it matches the returned path.
func WithObserver(fn Observer) Option {
	return func(o *searchOptions) { o.observer = fn }
}

// FindPath runs A* from start to goal over g. The graph is only read; scratch
// state lives in the call. Returns [ErrInvalidNode] for out-of-range or
// removed ids. An unreachable goal is not an error: the result reports
// Found=false.
//
// start == goal succeeds immediately with a single-node path of cost 0.
func FindPath(ctx context.Context, g *graph.Graph, start, goal int, cfg Config, opts ...Option) (Result, Stats, error) {
	var so searchOptions
	for _, opt := range opts {
		opt(&so)
	}

	observability.Search().OnSearchStart(ctx, start, goal)
	result, stats, err := run(g, start, goal, cfg, so.observer)
	observability.Search().OnSearchComplete(ctx, start, goal, stats.Expanded, stats.Duration, err)
	return result, stats, err
}

// ExplorationOrder records the order in which the search closes nodes,
// capped at limit ids, for visualization. It runs the default configuration
// ([DefaultConfig]) regardless of how a caller's real search is configured;
// use [WithObserver] on [FindPath] to watch a specific run instead.
func ExplorationOrder(g *graph.Graph, start, goal, limit int) ([]int, error) {
	if limit <= 0 {
		return nil, nil
	}
	order := make([]int, 0, limit)
	_, _, err := run(g, start, goal, DefaultConfig(), func(id int) bool {
		order = append(order, id)
		return len(order) < limit
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// run is the single search loop shared by FindPath and ExplorationOrder.
func run(g *graph.Graph, start, goal int, cfg Config, observe Observer) (Result, Stats, error) {
	n := g.NodeCount()
	if start < 0 || start >= n || goal < 0 || goal >= n {
		return Result{}, Stats{}, ErrInvalidNode
	}
	if !g.Active(start) || !g.Active(goal) {
		return Result{}, Stats{}, ErrInvalidNode
	}
	if cfg.Weight == 0 {
		cfg.Weight = 1
	}
	began := time.Now()

	gScore := make([]float64, n)
	prev := make([]int, n)
	closed := make([]bool, n)
	for i := range gScore {
		gScore[i] = math.Inf(1)
		prev[i] = -1
	}
	gScore[start] = 0

	goalPos, _ := g.Position(goal)
	estimate := func(pos orb.Point) float64 {
		return cfg.Heuristic.Estimate(pos, goalPos) * cfg.Weight
	}

	open := NewPriorityQueue()
	startPos, _ := g.Position(start)
	open.Push(start, estimate(startPos))

	var result Result
	stats := Stats{OpenPeak: 1}

	for open.Len() > 0 {
		current, _, _ := open.PopMin()
		if closed[current] {
			// Stale entry; cannot occur while the heap indexes live ids.
			continue
		}
		closed[current] = true
		stats.Expanded++

		if observe != nil && !observe(current) {
			break
		}
		if current == goal {
			result = reconstruct(prev, gScore, start, goal)
			break
		}

		for _, e := range g.OutEdges(current) {
			next := e.To
			if !g.Active(next) || closed[next] {
				continue
			}
			tentative := gScore[current] + e.Weight
			if tentative >= gScore[next] {
				continue
			}
			gScore[next] = tentative
			prev[next] = current
			pos, _ := g.Position(next)
			open.DecreaseOrInsert(next, tentative+estimate(pos))
			if open.Len() > stats.OpenPeak {
				stats.OpenPeak = open.Len()
			}
		}
	}

	stats.OpenAtEnd = open.Len()
	stats.Duration = time.Since(began)
	return result, stats, nil
}

// reconstruct walks the predecessor chain from goal back to start and
// reverses it. The goal was closed, so the chain is guaranteed to reach the
// start.
func reconstruct(prev []int, gScore []float64, start, goal int) Result {
	path := []int{goal}
	for cur := goal; cur != start; {
		cur = prev[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return Result{Path: path, TotalCost: gScore[goal], Found: true}
}
