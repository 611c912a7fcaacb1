package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/cxflow/cxflow/pkg/flow"
)

// Options configures flow diagram rendering.
type Options struct {
	// Labels maps node IDs to display labels. Unlisted nodes show their ID.
	Labels map[string]string

	// Detailed appends the node category to each label.
	Detailed bool
}

// ToDOT converts a flow graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
//
// Sequential flow runs left to right, matching the canvas layout. Terminal
// nodes are filled grey and the entry node is drawn bold. Branch edges carry
// their keys as labels; error handlers are dashed.
func ToDOT(g *flow.Graph, opts Options) string {
	entry, _ := g.Entry()

	var buf bytes.Buffer
	buf.WriteString("digraph flow {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(n, opts)
		attrs := fmtNodeAttrs(n, label, n.ID == entry)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		attrs := fmtEdgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n flow.Node, opts Options) string {
	label := n.ID
	if l, ok := opts.Labels[n.ID]; ok && l != "" {
		label = l
	}
	if opts.Detailed {
		label += "\n" + n.Category.String()
	}
	return label
}

func fmtNodeAttrs(n flow.Node, label string, isEntry bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if isEntry {
		attrs = append(attrs, "penwidth=2")
	}
	if n.Category == flow.CategoryTerminal {
		attrs = append(attrs, "fillcolor=lightgrey")
	}
	return attrs
}

func fmtEdgeAttrs(e flow.Edge) []string {
	switch e.Kind {
	case flow.KindConditional:
		return []string{fmt.Sprintf("label=%q", "= "+e.Key)}
	case flow.KindDefaultFallback:
		return []string{`label="default"`, "style=dotted"}
	case flow.KindErrorHandler:
		return []string{fmt.Sprintf("label=%q", e.Key), "style=dashed", "color=red", "fontcolor=red"}
	case flow.KindIntentBranch:
		return []string{fmt.Sprintf("label=%q", "intent: "+e.Key)}
	default:
		return nil
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG, normalizeViewBox)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG, nil)
}

func renderFormat(dot string, format graphviz.Format, post func([]byte) []byte) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	out := buf.Bytes()
	if post != nil {
		out = post(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the viewBox starts at the
// origin and explicit pixel dimensions are present. Some SVG consumers ignore
// offset viewBoxes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
