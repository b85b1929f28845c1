package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/wayfinder/wayfinder/pkg/astar"
	"github.com/wayfinder/wayfinder/pkg/cache"
	apperrors "github.com/wayfinder/wayfinder/pkg/errors"
	"github.com/wayfinder/wayfinder/pkg/graph"
)

// findOpts holds the command-line flags for the find command.
type findOpts struct {
	mapFile   string  // map file path ("" = default map or sample city)
	heuristic string  // heuristic name
	weight    float64 // heuristic multiplier
	noCache   bool    // bypass the route cache
}

// cachedRoute is the cache entry shape for computed routes.
type cachedRoute struct {
	Path []int   `json:"path"`
	Cost float64 `json:"cost"`
}

// findCommand creates the find command for computing a route between two
// locations. Locations are referenced by id or by (partial) name.
func (c *CLI) findCommand() *cobra.Command {
	opts := findOpts{
		heuristic: "euclidean",
		weight:    1.0,
	}

	cmd := &cobra.Command{
		Use:   "find <start> <goal>",
		Short: "Compute the best route between two locations",
		Long: `Find computes the cheapest route between two locations with A*.

Locations are referenced by numeric id or by name; names are matched
case-insensitively and may be partial ("harb" finds "Harbor").`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFind(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mapFile, "map", "m", "", "map file (default: "+defaultMapFile+" or the sample city)")
	cmd.Flags().StringVar(&opts.heuristic, "heuristic", opts.heuristic, "heuristic: euclidean, manhattan, chebyshev, dijkstra")
	cmd.Flags().Float64Var(&opts.weight, "weight", opts.weight, "heuristic multiplier (>1 trades optimality for speed)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the route cache")

	return cmd
}

func (c *CLI) runFind(ctx context.Context, startRef, goalRef string, opts *findOpts) error {
	heuristic, err := astar.ParseHeuristic(opts.heuristic)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidHeuristic, err, "unknown heuristic %q", opts.heuristic)
	}
	if opts.weight < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidWeight, "heuristic weight must not be negative")
	}

	g, err := c.loadMap(opts.mapFile)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
	}

	start, err := g.Resolve(startRef)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", startRef)
	}
	goal, err := g.Resolve(goalRef)
	if err != nil {
		return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", goalRef)
	}

	routeCache := newCache(opts.noCache)
	defer routeCache.Close()

	key := cache.Key("path", opts.mapFile, g.Version(), start, goal, heuristic.String(), opts.weight)
	if data, ok, _ := routeCache.Get(ctx, key); ok {
		var route cachedRoute
		if json.Unmarshal(data, &route) == nil {
			printRouteResult(g, route.Path, route.Cost, 0, true)
			return nil
		}
	}

	runID := uuid.NewString()
	c.Logger.Debug("starting search", "run", runID, "start", start, "goal", goal)

	p := newProgress(c.Logger)
	result, stats, err := astar.FindPath(ctx, g, start, goal,
		astar.Config{Heuristic: heuristic, Weight: opts.weight})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidNode, err, "searching %q to %q", startRef, goalRef)
	}
	p.done("Computed route")

	if !result.Found {
		return apperrors.New(apperrors.ErrCodeNoPath, "no route from %q to %q", startRef, goalRef)
	}

	if data, err := json.Marshal(cachedRoute{Path: result.Path, Cost: result.TotalCost}); err == nil {
		_ = routeCache.Set(ctx, key, data, 24*time.Hour)
	}

	printRouteResult(g, result.Path, result.TotalCost, stats.Expanded, false)
	c.Logger.Debug("search stats",
		"run", runID,
		"expanded", stats.Expanded,
		"open_peak", stats.OpenPeak,
		"duration", stats.Duration)
	return nil
}

func printRouteResult(g *graph.Graph, path []int, cost float64, expanded int, cached bool) {
	names := make([]string, len(path))
	for i, id := range path {
		if n, ok := g.Node(id); ok {
			names[i] = n.Name
		}
	}
	printSuccess("Route found (%d stops)", len(path))
	printRoute(names)
	printSearchStats(cost, expanded, cached)
}
