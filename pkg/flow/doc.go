// Package flow provides the in-memory call-flow graph at the core of cxflow.
//
// A [Graph] holds nodes (opaque identifiers with a validation [Category]) and
// typed, declaration-ordered edges ([Edge] with an [EdgeKind]). The graph is
// built by the assembler (see [github.com/cxflow/cxflow/pkg/flow/assemble]),
// consumed by the layout engine and the validator, and discarded after one
// build pass.
//
// # Edge semantics
//
// Each node holds at most one Sequential and at most one DefaultFallback
// edge; redeclaring either replaces the prior one so flows can be rewired
// iteratively. Conditional, ErrorHandler, and IntentBranch edges are keyed by
// their payload and replace per key. Every edge records a monotonically
// increasing declaration sequence number, which downstream passes use instead
// of container iteration order so results are reproducible.
//
// # Errors
//
// Structural mistakes by the caller (unknown endpoints, duplicate IDs,
// malformed keys) fail immediately with sentinel errors. Problems with the
// flow design itself (orphans, unterminated paths, missing handlers) are
// never raised here; they are the validator's concern.
package flow
