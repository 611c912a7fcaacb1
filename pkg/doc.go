// Package pkg provides the core libraries for cxflow contact-flow compilation.
//
// # Overview
//
// cxflow turns declarative flow definitions into deployable contact-flow
// documents with automatic canvas layout. The pkg directory is organized into
// five main areas:
//
//  1. [flow] - Flow graph core (nodes, typed edges, traversal)
//  2. [flow/layout] - Canvas layout engine (levels, rows, pixel positions)
//  3. [flow/validate] - Structural analysis (orphans, dead ends, handlers)
//  4. [flow/assemble] and [flow/wire] - Block descriptors, TOML manifests, flow JSON
//  5. [pipeline] and [render] - Orchestration and Graphviz diagrams
//
// # Architecture
//
// The typical data flow through cxflow:
//
//	TOML manifest / fluent block API
//	         ↓
//	    [flow/assemble] package (blocks → graph)
//	         ↓
//	    [flow/validate] package (structural analysis)
//	         ↓
//	    [flow/layout] package (canvas positions)
//	         ↓
//	    [flow/wire] / [render] packages (flow JSON, DOT, SVG, PNG)
//
// # Quick Start
//
// Compile a manifest end to end with the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Manifest: "flows/menu.toml",
//	    Formats:  []string{"json"},
//	})
package pkg
