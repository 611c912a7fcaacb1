package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cxflow/cxflow/pkg/flow/layout"
	"github.com/cxflow/cxflow/pkg/pipeline"
)

// layoutCommand creates the layout command for computing canvas positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "layout [flow.toml]",
		Short: "Compute canvas positions for a flow manifest",
		Long: `Compute canvas positions for a flow manifest.

The layout command assembles the manifest into a flow graph and runs the
canvas layout engine: sequential flow runs left to right, branches fan out
vertically, and collisions are resolved deterministically. The output is a
JSON map of block IDs to pixel coordinates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json); '-' for stdout")

	return cmd
}

// runLayout assembles the flow, computes positions, and writes them as JSON.
func (c *CLI) runLayout(ctx context.Context, input, output string) error {
	runner := c.newRunner()

	_, g, err := runner.Load(ctx, pipeline.Options{Manifest: input})
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	positions, err := layout.Positions(g)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	data, err := json.MarshalIndent(positions, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize layout: %w", err)
	}
	data = append(data, '\n')

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount(), 0)

	return nil
}
