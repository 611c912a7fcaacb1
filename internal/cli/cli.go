// Package cli implements the cxflow command-line interface.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cxflow/cxflow/pkg/buildinfo"
	"github.com/cxflow/cxflow/pkg/pipeline"
)

// appName is the application name used for display.
const appName = "cxflow"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cxflow compiles contact-flow manifests into deployable flow definitions",
		Long:         `cxflow is a CLI tool for building contact center call flows. It assembles TOML flow manifests into flow graphs, validates their structure, computes canvas layouts, and exports vendor-ready flow JSON or diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, fallback string) []string {
	if s == "" {
		return []string{fallback}
	}
	return strings.Split(s, ",")
}
