package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cxflow/cxflow/pkg/flow/validate"
	"github.com/cxflow/cxflow/pkg/pipeline"
)

// validateCommand creates the validate command for structural analysis.
func (c *CLI) validateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [flow.toml]",
		Short: "Check a flow manifest for structural issues",
		Long: `Check a flow manifest for structural issues.

The validate command assembles the manifest into a flow graph and analyzes
it for unreachable blocks, paths that never reach a terminal block, and
input blocks missing mandatory error handlers. Issues are reported per rule;
the command exits non-zero when any are found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(cmd.Context(), args[0])
		},
	}
	return cmd
}

// runValidate assembles the flow and reports analysis findings.
func (c *CLI) runValidate(ctx context.Context, input string) error {
	printInfo("Analyzing %s", input)

	runner := c.newRunner()

	_, g, err := runner.Load(ctx, pipeline.Options{Manifest: input})
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	report, err := validate.Analyze(g)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if report.Empty() {
		printSuccess("Flow is structurally valid")
		printStats(g.NodeCount(), g.EdgeCount(), 0)
		return nil
	}

	printError("Found %d structural issues", len(report))
	printReport(report)
	return fmt.Errorf("flow has %d structural issues", len(report))
}

// reportRuleOrder fixes the display order of analysis rules.
var reportRuleOrder = []validate.Rule{
	validate.RuleOrphanedBlocks,
	validate.RuleUnterminatedPaths,
	validate.RuleMissingErrorHandlers,
}

// printReport prints analysis findings grouped by rule.
func printReport(report validate.Report) {
	for _, rule := range reportRuleOrder {
		issues := report.ByRule(rule)
		if len(issues) == 0 {
			continue
		}
		printWarning("%s (%d)", rule, len(issues))
		for _, issue := range issues {
			printDetail("%s: %s", issue.NodeID, issue.Detail)
		}
	}
}
