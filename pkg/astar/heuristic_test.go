package astar

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
)

func TestHeuristicEstimate(t *testing.T) {
	a := orb.Point{0, 0}
	b := orb.Point{3, -4}

	cases := []struct {
		h    Heuristic
		want float64
	}{
		{Euclidean, 5},
		{Manhattan, 7},
		{Chebyshev, 4},
		{Zero, 0},
	}
	for _, tc := range cases {
		if got := tc.h.Estimate(a, b); got != tc.want {
			t.Errorf("%v.Estimate = %g, want %g", tc.h, got, tc.want)
		}
		// Symmetry
		if got := tc.h.Estimate(b, a); got != tc.want {
			t.Errorf("%v.Estimate reversed = %g, want %g", tc.h, got, tc.want)
		}
	}
}

func TestParseHeuristic(t *testing.T) {
	cases := []struct {
		name string
		want Heuristic
	}{
		{"euclidean", Euclidean},
		{"Manhattan", Manhattan},
		{"CHEBYSHEV", Chebyshev},
		{"zero", Zero},
		{"dijkstra", Zero},
	}
	for _, tc := range cases {
		got, err := ParseHeuristic(tc.name)
		if err != nil {
			t.Errorf("ParseHeuristic(%q): %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("ParseHeuristic(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	if _, err := ParseHeuristic("astar"); !errors.Is(err, ErrUnknownHeuristic) {
		t.Errorf("ParseHeuristic(astar): err = %v, want ErrUnknownHeuristic", err)
	}
}

func TestHeuristicString(t *testing.T) {
	for _, h := range []Heuristic{Euclidean, Manhattan, Chebyshev, Zero} {
		parsed, err := ParseHeuristic(h.String())
		if err != nil || parsed != h {
			t.Errorf("round trip of %v failed: %v, %v", h, parsed, err)
		}
	}
}
