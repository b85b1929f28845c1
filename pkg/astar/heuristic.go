package astar

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
)

// Heuristic selects the distance estimate that guides the search.
type Heuristic int

const (
	// Euclidean is the straight-line distance. Admissible whenever edge
	// weights are at least the Euclidean distance between their endpoints.
	Euclidean Heuristic = iota

	// Manhattan is |dx| + |dy|. Suited to 4-connected grid movement; it
	// overestimates on graphs with diagonal shortcuts.
	Manhattan

	// Chebyshev is max(|dx|, |dy|). Suited to 8-connected grid movement.
	Chebyshev

	// Zero disables guidance entirely, reducing the search to Dijkstra.
	Zero
)

// ErrUnknownHeuristic is returned by [ParseHeuristic] for unrecognized names.
var ErrUnknownHeuristic = errors.New("astar: unknown heuristic")

// Estimate returns the heuristic distance from a to b.
func (h Heuristic) Estimate(a, b orb.Point) float64 {
	dx := math.Abs(b.X() - a.X())
	dy := math.Abs(b.Y() - a.Y())
	switch h {
	case Euclidean:
		return math.Hypot(dx, dy)
	case Manhattan:
		return dx + dy
	case Chebyshev:
		return math.Max(dx, dy)
	default:
		return 0
	}
}

// String returns the canonical lowercase name.
func (h Heuristic) String() string {
	switch h {
	case Euclidean:
		return "euclidean"
	case Manhattan:
		return "manhattan"
	case Chebyshev:
		return "chebyshev"
	case Zero:
		return "zero"
	default:
		return fmt.Sprintf("heuristic(%d)", int(h))
	}
}

// ParseHeuristic resolves a case-insensitive heuristic name. "dijkstra" is
// accepted as an alias for [Zero].
func ParseHeuristic(name string) (Heuristic, error) {
	switch strings.ToLower(name) {
	case "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	case "chebyshev":
		return Chebyshev, nil
	case "zero", "dijkstra":
		return Zero, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownHeuristic, name)
	}
}
