package validate

import (
	"fmt"
	"strings"

	"github.com/cxflow/cxflow/pkg/flow"
)

// Rule identifies which structural check produced an issue.
type Rule string

const (
	// RuleOrphanedBlocks reports nodes unreachable from the entry.
	RuleOrphanedBlocks Rule = "ORPHANED_BLOCKS"
	// RuleUnterminatedPaths reports non-terminal nodes with no outgoing edges.
	RuleUnterminatedPaths Rule = "UNTERMINATED_PATHS"
	// RuleMissingErrorHandlers reports input-collecting nodes lacking one of
	// the mandatory error handlers.
	RuleMissingErrorHandlers Rule = "MISSING_ERROR_HANDLERS"
)

// RequiredHandlers is the fixed set of error conditions every
// input-collecting node must handle: input timeout, no matching condition,
// and the catch-all failure. The order is the reporting order.
var RequiredHandlers = []string{
	"InputTimeLimitExceeded",
	"NoMatchingCondition",
	"NoMatchingError",
}

// Issue is one structural problem found in a flow graph.
type Issue struct {
	Rule   Rule   `json:"rule"`
	NodeID string `json:"node_id"`
	Detail string `json:"detail"`
}

// Report is the ordered list of issues from one analysis pass.
type Report []Issue

// Empty reports whether the analysis found no issues.
func (r Report) Empty() bool { return len(r) == 0 }

// ByRule returns the issues produced by the given rule, preserving order.
func (r Report) ByRule(rule Rule) Report {
	var out Report
	for _, issue := range r {
		if issue.Rule == rule {
			out = append(out, issue)
		}
	}
	return out
}

// Error is the aggregated failure returned by [Validate]. It enumerates every
// issue found in the pass, so callers never loop through repeated partial
// fixes.
type Error struct {
	Report Report
}

// Error implements the error interface with one line per issue.
func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "flow validation failed with %d issue(s):", len(e.Report))
	for _, issue := range e.Report {
		fmt.Fprintf(&b, "\n  %s %s: %s", issue.Rule, issue.NodeID, issue.Detail)
	}
	return b.String()
}

// Analyze inspects the graph and returns every structural issue found. It
// never fails on the flow design itself; the only error is [flow.ErrNoEntry]
// when the graph has no declared entry, which indicates a defect in the
// assembler.
//
// Three rules run against the same graph:
//
//   - Orphaned blocks: forward BFS from the entry over every edge kind; nodes
//     never visited are unreachable.
//   - Unterminated paths: reachable non-terminal nodes with zero outgoing
//     edges. Terminal nodes are exempt; they end the call by design.
//   - Missing error handlers: reachable input-collecting nodes missing any of
//     [RequiredHandlers].
//
// Orphaned nodes are excluded from the latter two rules, so an unreachable
// node is reported exactly once. Cycles are not an issue by themselves.
// Issues are ordered rule by rule, nodes in registration order, handler names
// in [RequiredHandlers] order.
func Analyze(g *flow.Graph) (Report, error) {
	entry, ok := g.Entry()
	if !ok {
		return nil, flow.ErrNoEntry
	}

	reachable := reachableFrom(g, entry)

	var report Report
	for _, n := range g.Nodes() {
		if !reachable[n.ID] {
			report = append(report, Issue{
				Rule:   RuleOrphanedBlocks,
				NodeID: n.ID,
				Detail: "not reachable from entry",
			})
		}
	}

	for _, n := range g.Nodes() {
		if !reachable[n.ID] || n.Category == flow.CategoryTerminal {
			continue
		}
		if len(g.OutgoingEdges(n.ID)) == 0 {
			report = append(report, Issue{
				Rule:   RuleUnterminatedPaths,
				NodeID: n.ID,
				Detail: fmt.Sprintf("%s node has no outgoing transitions", n.Category),
			})
		}
	}

	for _, n := range g.Nodes() {
		if !reachable[n.ID] || n.Category != flow.CategoryInputCollecting {
			continue
		}
		handled := make(map[string]bool)
		for _, e := range g.OutgoingEdges(n.ID) {
			if e.Kind == flow.KindErrorHandler {
				handled[e.Key] = true
			}
		}
		for _, name := range RequiredHandlers {
			if !handled[name] {
				report = append(report, Issue{
					Rule:   RuleMissingErrorHandlers,
					NodeID: n.ID,
					Detail: fmt.Sprintf("missing %s handler", name),
				})
			}
		}
	}

	return report, nil
}

// Validate runs [Analyze] and fails once with a single aggregated *[Error]
// enumerating every issue when the report is non-empty.
func Validate(g *flow.Graph) error {
	report, err := Analyze(g)
	if err != nil {
		return err
	}
	if report.Empty() {
		return nil
	}
	return &Error{Report: report}
}

// reachableFrom returns the set of node IDs visitable from start over
// outgoing edges of every kind.
func reachableFrom(g *flow.Graph, start string) map[string]bool {
	reachable := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.OutgoingEdges(cur) {
			if !reachable[e.To] {
				reachable[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return reachable
}
