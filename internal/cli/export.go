package cli

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wayfinder/wayfinder/pkg/astar"
	apperrors "github.com/wayfinder/wayfinder/pkg/errors"
	"github.com/wayfinder/wayfinder/pkg/render"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	mapFile string // map file path
	output  string // output file path
	format  string // dot, svg, or png
	route   string // optional "start:goal" to highlight
	weights bool   // label roads with their cost
}

// exportCommand creates the export command for drawing the map with
// Graphviz, optionally with a computed route highlighted.
func (c *CLI) exportCommand() *cobra.Command {
	opts := exportOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Draw the map as DOT, SVG, or PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mapFile, "map", "m", "", "map file (default: "+defaultMapFile+" or the sample city)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: map.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().StringVar(&opts.route, "route", "", "highlight a route, as start:goal")
	cmd.Flags().BoolVar(&opts.weights, "weights", false, "label roads with their cost")

	return cmd
}

func (c *CLI) runExport(ctx context.Context, opts *exportOpts) error {
	switch opts.format {
	case formatDOT, formatSVG, formatPNG:
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown format %q (want dot, svg, or png)", opts.format)
	}

	g, err := c.loadMap(opts.mapFile)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "loading map")
	}

	var routePath []int
	if opts.route != "" {
		startRef, goalRef, ok := strings.Cut(opts.route, ":")
		if !ok {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "route must be start:goal")
		}
		start, err := g.Resolve(startRef)
		if err != nil {
			return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", startRef)
		}
		goal, err := g.Resolve(goalRef)
		if err != nil {
			return apperrors.New(apperrors.ErrCodeNodeNotFound, "no location matches %q", goalRef)
		}
		result, _, err := astar.FindPath(ctx, g, start, goal, astar.DefaultConfig())
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidNode, err, "routing %q to %q", startRef, goalRef)
		}
		if !result.Found {
			return apperrors.New(apperrors.ErrCodeNoPath, "no route from %q to %q", startRef, goalRef)
		}
		routePath = result.Path
	}

	dot := render.ToDOT(g, render.Options{Path: routePath, Weights: opts.weights})

	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(dot)
	case formatSVG:
		data, err = render.RenderSVG(ctx, dot)
	case formatPNG:
		data, err = render.RenderPNG(ctx, dot)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "rendering map")
	}

	output := opts.output
	if output == "" {
		output = "map." + opts.format
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeIO, err, "writing %s", output)
	}

	printSuccess("Exported map")
	printFile(output)
	return nil
}
