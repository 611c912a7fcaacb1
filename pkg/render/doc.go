// Package render draws flow graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz: blocks
// appear as boxes connected by arrows, with branch edges labeled by their
// keys and error handlers drawn dashed. It complements the canvas layout in
// [github.com/cxflow/cxflow/pkg/flow/layout], which positions blocks for the
// vendor's visual editor rather than for diagrams.
//
// # Usage
//
// Convert a flow graph to DOT format, then render:
//
//	dot := render.ToDOT(g, render.Options{})
//	svg, err := render.RenderSVG(dot)
//	png, err := render.RenderPNG(dot)
//
// The generated DOT uses left-to-right layout (rankdir=LR), matching the
// canvas layout's horizontal sequential flow.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering;
// no external Graphviz installation is required.
package render
