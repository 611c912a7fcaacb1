// Package pipeline provides the core compile pipeline for cxflow.
//
// This package implements the complete load → assemble → validate → layout →
// export pipeline used by the CLI. Centralizing the stages keeps behavior
// consistent across commands and avoids duplicating wiring logic.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Load: Decode a TOML flow manifest into block descriptors
//  2. Assemble: Wire blocks into a flow graph
//  3. Validate: Run structural analysis (orphans, dead ends, missing handlers)
//  4. Layout: Compute canvas positions for every block
//  5. Export: Produce artifacts (flow JSON, DOT, SVG, PNG)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Manifest: "flows/menu.toml",
//	    Formats:  []string{"json"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out := result.Artifacts["json"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cxflow/cxflow/pkg/flow"
	"github.com/cxflow/cxflow/pkg/flow/assemble"
	"github.com/cxflow/cxflow/pkg/flow/layout"
	"github.com/cxflow/cxflow/pkg/flow/validate"
	"github.com/cxflow/cxflow/pkg/flow/wire"
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options contains all configuration for the compile pipeline.
type Options struct {
	// Manifest is the path to the TOML flow manifest.
	Manifest string `json:"manifest"`

	// Formats selects the artifacts to produce. Defaults to ["json"].
	Formats []string `json:"formats,omitempty"`

	// SkipValidate compiles the flow even when structural analysis finds
	// issues. The report is still attached to the result.
	SkipValidate bool `json:"skip_validate,omitempty"`

	// Detailed includes block categories in DOT labels.
	Detailed bool `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Blocks are the loaded block descriptors in declaration order.
	Blocks []*assemble.Block

	// Graph is the assembled flow graph.
	Graph *flow.Graph

	// Report holds the structural analysis findings (possibly empty).
	Report validate.Report

	// Positions maps block IDs to canvas coordinates.
	Positions map[string]layout.Position

	// Flow is the exported flow document.
	Flow wire.Flow

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlockCount int
	EdgeCount  int
	IssueCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}
