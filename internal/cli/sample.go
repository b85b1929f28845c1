package cli

import (
	"github.com/spf13/cobra"

	"github.com/wayfinder/wayfinder/pkg/codec"
	apperrors "github.com/wayfinder/wayfinder/pkg/errors"
	"github.com/wayfinder/wayfinder/pkg/graph"
)

// sampleCommand creates the sample command, which writes the built-in demo
// city to a map file as a starting point.
func (c *CLI) sampleCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the built-in sample city to a map file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := graph.NewSampleCity()
			if err := codec.Save(g, output); err != nil {
				return apperrors.Wrap(apperrors.ErrCodeIO, err, "saving sample map")
			}
			printSuccess("Wrote sample city (%d locations)", len(g.Nodes()))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultMapFile, "output map file")
	return cmd
}
