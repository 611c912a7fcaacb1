package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cxflow/cxflow/pkg/pipeline"
)

// renderCommand creates the render command for producing flow diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		detailed   bool
	)

	cmd := &cobra.Command{
		Use:   "render [flow.toml]",
		Short: "Render a flow manifest as a diagram",
		Long: `Render a flow manifest as a diagram.

The render command assembles the manifest into a flow graph and draws it
with Graphviz: blocks as boxes, branch edges labeled with their keys, error
handlers dashed. Structural issues are reported as warnings but do not
block rendering.

Supported formats are dot, svg (default), and png.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Manifest:     args[0],
				Formats:      parseFormats(formatsStr, pipeline.FormatSVG),
				SkipValidate: true,
				Detailed:     detailed,
			}
			return c.runRender(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple); '-' for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include block categories in labels")

	return cmd
}

// runRender executes the pipeline and writes the diagram artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string) error {
	runner := c.newRunner()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering flow...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if !result.Report.Empty() {
		printWarning("Flow has %d structural issues (see '%s validate')", len(result.Report), appName)
	}

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Manifest, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.BlockCount, result.Stats.EdgeCount, result.Stats.IssueCount)

	return nil
}
