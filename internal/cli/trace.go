package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/wayfinder/wayfinder/pkg/astar"
	apperrors "github.com/wayfinder/wayfinder/pkg/errors"
)

// traceOpts holds the command-line flags for the trace command.
type traceOpts struct {
	mapFile string // map file path
	limit   int    // maximum number of recorded expansions
	play    bool   // animate the expansion interactively
}

// traceCommand creates the trace command for visualizing the search's
// exploration order.
func (c *CLI) traceCommand() *cobra.Command {
	opts := traceOpts{limit: 64}

	cmd := &cobra.Command{
		Use:   "trace <start> <goal>",
		Short: "Show the order in which the search explores the map",
		Long: `Trace records which locations the search settles, in order, on its way
from start to goal. With --play the expansion is animated step by step.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrace(args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mapFile, "map", "m", "", "map file (default: "+defaultMapFile+" or the sample city)")
	cmd.Flags().IntVar(&opts.limit, "limit", opts.limit, "maximum expansions to record")
	cmd.Flags().BoolVar(&opts.play, "play", false, "animate the expansion interactively")

	return cmd
}

func (c *CLI) runTrace(startRef, goalRef string, opts *traceOpts) error {
	if opts.limit < 1 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "limit must be at least 1")
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

	order, err := astar.ExplorationOrder(g, start, goal, opts.limit)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidNode, err, "tracing %q to %q", startRef, goalRef)
	}

	if opts.play {
		model := newTraceModel(g, order, goal)
		_, err := tea.NewProgram(model).Run()
		return err
	}

	printInfo("Exploration order (%d steps)", len(order))
	for i, id := range order {
		name := fmt.Sprintf("#%d", id)
		if n, ok := g.Node(id); ok {
			name = n.Name
		}
		marker := " "
		if id == goal {
			marker = styleIconSuccess.Render(iconSuccess)
		}
		printDetail("%2d. %s %s", i+1, name, marker)
	}
	if len(order) > 0 && order[len(order)-1] != goal {
		printDetail("goal not reached within %d steps", opts.limit)
	}
	return nil
}
