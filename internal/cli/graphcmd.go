package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wayfinder/wayfinder/pkg/codec"
	apperrors "github.com/wayfinder/wayfinder/pkg/errors"
	"github.com/wayfinder/wayfinder/pkg/graph"
)

// graphCommand groups the map editing subcommands. Every mutation writes
// the map back to the file it was loaded from, so edits persist between
// invocations.
func (c *CLI) graphCommand() *cobra.Command {
	var mapFile string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect and edit the map",
	}
	cmd.PersistentFlags().StringVarP(&mapFile, "map", "m", "", "map file (default: "+defaultMapFile+" or the sample city)")

	cmd.AddCommand(
		c.graphInfoCommand(&mapFile),
		c.graphNodesCommand(&mapFile),
		c.graphAddNodeCommand(&mapFile),
		c.graphRemoveNodeCommand(&mapFile),
		c.graphAddEdgeCommand(&mapFile),
		c.graphRemoveEdgeCommand(&mapFile),
	)
	return cmd
}

// saveTo writes the edited map back. Edits without an explicit --map go to
// the default map file, which also turns a sample-city session into a real
// saved map.
func (c *CLI) saveTo(g *graph.Graph, mapFile string) error {
	if mapFile == "" {
		mapFile = defaultMapFile
	}
	if err := codec.Save(g, mapFile); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "saving map %s", mapFile)
	}
	printFile(mapFile)
	return nil
}

func (c *CLI) graphInfoCommand(mapFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show map statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadMap(*mapFile)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
			}

			edges := 0
			for _, n := range g.Nodes() {
				edges += len(g.OutEdges(n.ID))
			}
			printKeyValue("locations", strconv.Itoa(len(g.Nodes())))
			printKeyValue("slots", strconv.Itoa(g.NodeCount()))
			printKeyValue("capacity", strconv.Itoa(g.MaxNodes()))
			printKeyValue("roads", strconv.Itoa(edges))
			return nil
		},
	}
}

func (c *CLI) graphNodesCommand(mapFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "nodes",
		Short: "List all locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadMap(*mapFile)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
			}
			for _, n := range g.Nodes() {
				printDetail("%3d  %-24s (%.0f, %.0f)", n.ID, n.Name, n.Pos.X(), n.Pos.Y())
			}
			return nil
		},
	}
}

func (c *CLI) graphAddNodeCommand(mapFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add-node <name> <x> <y>",
		Short: "Add a location to the map",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, errX := strconv.ParseFloat(args[1], 64)
			y, errY := strconv.ParseFloat(args[2], 64)
			if errX != nil || errY != nil {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "coordinates must be numeric")
			}

			g, err := c.loadMap(*mapFile)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
			}
			id, err := g.AddNode(args[0], x, y)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeCapacityExceeded, err, "adding %q", args[0])
			}
			printSuccess("Added %s as #%d", args[0], id)
			return c.saveTo(g, *mapFile)
		},
	}
}

func (c *CLI) graphRemoveNodeCommand(mapFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-node <ref>",
		Short: "Remove a location and all its roads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadMap(*mapFile)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
			}
			id, err := g.Resolve(args[0])
			if err != nil {
				return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", args[0])
			}
			n, _ := g.Node(id)
			g.RemoveNode(id)
			printSuccess("Removed %s (#%d)", n.Name, id)
			return c.saveTo(g, *mapFile)
		},
	}
}

func (c *CLI) graphAddEdgeCommand(mapFile *string) *cobra.Command {
	var weight float64
	var oneWay bool

	cmd := &cobra.Command{
		Use:   "add-edge <from> <to>",
		Short: "Connect two locations with a road",
		Long: `Add-edge connects two locations. Without --weight the road costs the
straight-line distance between the endpoints; roads are two-way unless
--one-way is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadMap(*mapFile)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
			}
			from, err := g.Resolve(args[0])
			if err != nil {
				return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", args[0])
			}
			to, err := g.Resolve(args[1])
			if err != nil {
				return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", args[1])
			}

			if weight == 0 {
				weight, _ = g.Distance(from, to)
			}
			if oneWay {
				err = g.AddEdge(from, to, weight)
			} else {
				err = g.AddBidirectional(from, to, weight)
			}
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeEdgeExists, err, "connecting %q and %q", args[0], args[1])
			}
			printSuccess("Connected #%d and #%d (weight %.1f)", from, to, weight)
			return c.saveTo(g, *mapFile)
		},
	}

	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "road cost (default: straight-line distance)")
	cmd.Flags().BoolVar(&oneWay, "one-way", false, "create only the from->to direction")
	return cmd
}

func (c *CLI) graphRemoveEdgeCommand(mapFile *string) *cobra.Command {
	var oneWay bool

	cmd := &cobra.Command{
		Use:   "remove-edge <from> <to>",
		Short: "Remove the road between two locations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.loadMap(*mapFile)
			if err != nil {
				return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
			}
			from, err := g.Resolve(args[0])
			if err != nil {
				return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", args[0])
			}
			to, err := g.Resolve(args[1])
			if err != nil {
				return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", args[1])
			}

			removed := g.RemoveEdge(from, to)
			if !oneWay {
				removed = g.RemoveEdge(to, from) || removed
			}
			if !removed {
				return apperrors.New(apperrors.ErrCodeEdgeNotFound, "no road between %q and %q", args[0], args[1])
			}
			printSuccess("Disconnected #%d and #%d", from, to)
			return c.saveTo(g, *mapFile)
		},
	}

	cmd.Flags().BoolVar(&oneWay, "one-way", false, "remove only the from->to direction")
	return cmd
}
