package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cxflow/cxflow/pkg/flow"
	"github.com/cxflow/cxflow/pkg/flow/assemble"
	"github.com/cxflow/cxflow/pkg/flow/layout"
	"github.com/cxflow/cxflow/pkg/flow/validate"
	"github.com/cxflow/cxflow/pkg/flow/wire"
	"github.com/cxflow/cxflow/pkg/render"
)

// Runner executes the compile pipeline.
//
// The Runner is stateless except for its logger; multiple goroutines can
// safely use the same Runner with different options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → assemble → validate → layout → export
// pipeline. When validation finds issues and SkipValidate is false, Execute
// returns both the partial result (with the report attached) and a
// [validate.Error] so callers can present the findings.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1+2: Load and assemble
	loadStart := time.Now()
	blocks, g, err := r.Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Blocks = blocks
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.BlockCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("assembled flow",
		"blocks", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 3: Validate
	report, err := validate.Analyze(g)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	result.Report = report
	result.Stats.IssueCount = len(report)

	if !report.Empty() {
		r.Logger.Warn("structural analysis found issues", "count", len(report))
		if !opts.SkipValidate {
			return result, &validate.Error{Report: report}
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	// Stage 4: Layout
	layoutStart := time.Now()
	positions, err := layout.Positions(g)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = positions
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"blocks", len(positions),
		"duration", result.Stats.LayoutTime)

	// Stage 5: Export and render
	renderStart := time.Now()
	doc, err := wire.Export(blocks, g, positions)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Flow = doc

	artifacts, err := r.Render(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the manifest and assembles the flow graph.
func (r *Runner) Load(ctx context.Context, opts Options) ([]*assemble.Block, *flow.Graph, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	m, err := assemble.LoadManifest(opts.Manifest)
	if err != nil {
		return nil, nil, err
	}
	blocks, entry, err := m.Flow()
	if err != nil {
		return nil, nil, err
	}
	g, err := assemble.Build(blocks, entry)
	if err != nil {
		return nil, nil, err
	}
	return blocks, g, nil
}

// Render produces the requested artifacts from a populated result.
func (r *Runner) Render(ctx context.Context, result *Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	var dot string
	dotSource := func() string {
		if dot == "" {
			dot = render.ToDOT(result.Graph, render.Options{
				Labels:   blockLabels(result.Blocks),
				Detailed: opts.Detailed,
			})
		}
		return dot
	}

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = wire.Marshal(result.Flow)
		case FormatDOT:
			data = []byte(dotSource())
		case FormatSVG:
			data, err = render.RenderSVG(dotSource())
		case FormatPNG:
			data, err = render.RenderPNG(dotSource())
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// blockLabels collects non-empty display labels keyed by block ID.
func blockLabels(blocks []*assemble.Block) map[string]string {
	labels := make(map[string]string, len(blocks))
	for _, b := range blocks {
		if b.Label != "" {
			labels[b.ID] = b.Label
		}
	}
	return labels
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
