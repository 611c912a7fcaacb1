package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cxflow/cxflow/pkg/flow/validate"
	"github.com/cxflow/cxflow/pkg/pipeline"
)

// buildCommand creates the build command for compiling flow manifests.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		formatsStr   string
		output       string
		skipValidate bool
		detailed     bool
	)

	cmd := &cobra.Command{
		Use:   "build [flow.toml]",
		Short: "Compile a flow manifest into deployable artifacts",
		Long: `Compile a flow manifest into deployable artifacts.

The build command assembles the TOML manifest into a flow graph, validates
its structure, computes a canvas layout, and writes the requested outputs.
The default output is the vendor flow JSON, ready for import; DOT, SVG, and
PNG diagrams are also available.

Validation failures abort the build unless --skip-validate is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Manifest:     args[0],
				Formats:      parseFormats(formatsStr, pipeline.FormatJSON),
				SkipValidate: skipValidate,
				Detailed:     detailed,
			}
			return c.runBuild(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple); '-' for stdout")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&skipValidate, "skip-validate", false, "compile even when structural analysis finds issues")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include block categories in diagram labels")

	return cmd
}

// runBuild executes the pipeline and writes the artifacts.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, output string) error {
	runner := c.newRunner()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Compiling flow...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)

	var verr *validate.Error
	if errors.As(err, &verr) {
		spinner.StopWithError("Flow validation failed")
		printReport(verr.Report)
		return fmt.Errorf("flow has %d structural issues (use --skip-validate to compile anyway)", len(verr.Report))
	}
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Manifest, output)
	if err != nil {
		return err
	}

	printSuccess("Flow compiled")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.BlockCount, result.Stats.EdgeCount, result.Stats.IssueCount)
	if len(paths) > 0 {
		printNewline()
		printNextStep("Render a diagram", appName+" render "+opts.Manifest)
	}
	return nil
}

// writeArtifacts writes each artifact to its own file and returns the paths.
// When output is "-" all artifacts go to stdout in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if output == "-" {
		for _, format := range formats {
			if _, err := os.Stdout.Write(artifacts[format]); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	base := artifactBasePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// artifactBasePath derives the base output path from the output and input
// file paths. A format extension on the output path is stripped so multiple
// formats do not stack extensions.
func artifactBasePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
