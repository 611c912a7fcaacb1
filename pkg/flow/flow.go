package flow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID is already registered. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by [Graph.AddEdge] and [Graph.SetEntry] when
	// a referenced node was never registered. This indicates a defect in the
	// assembler, not a problem with the flow design.
	ErrUnknownNode = errors.New("unknown node")

	// ErrNoEntry is returned by layout and validation when invoked on a graph
	// whose entry was never declared via [Graph.SetEntry].
	ErrNoEntry = errors.New("no entry node declared")

	// ErrMissingEdgeKey is returned by [Graph.AddEdge] when a keyed edge kind
	// (Conditional, ErrorHandler, IntentBranch) carries an empty key.
	ErrMissingEdgeKey = errors.New("edge kind requires a key")

	// ErrUnexpectedEdgeKey is returned by [Graph.AddEdge] when a key is set
	// on a Sequential or DefaultFallback edge.
	ErrUnexpectedEdgeKey = errors.New("edge kind does not take a key")
)

// Category classifies a node for validation purposes. Layout treats all
// categories uniformly; the validator's rules key off them.
type Category int

const (
	// CategorySimple marks a node with a single expected successor.
	CategorySimple Category = iota
	// CategoryTerminal marks a node where the call legitimately ends
	// (disconnect, transfer). Terminal nodes may have no outgoing edges.
	CategoryTerminal
	// CategoryInputCollecting marks a node that requires a caller response
	// and must carry the mandatory error handlers.
	CategoryInputCollecting
	// CategoryBranching marks a non-input decision node.
	CategoryBranching
)

// String returns the category name as used in reports and logs.
func (c Category) String() string {
	switch c {
	case CategoryTerminal:
		return "terminal"
	case CategoryInputCollecting:
		return "input"
	case CategoryBranching:
		return "branching"
	default:
		return "simple"
	}
}

// EdgeKind is the semantic type of a transition between nodes.
type EdgeKind int

const (
	// KindSequential is the single deterministic successor of a node.
	KindSequential EdgeKind = iota
	// KindConditional branches on a comparison value carried in Edge.Key.
	KindConditional
	// KindDefaultFallback is taken when no Conditional branch matches.
	KindDefaultFallback
	// KindErrorHandler branches on the named failure condition in Edge.Key.
	KindErrorHandler
	// KindIntentBranch branches on the recognized intent named in Edge.Key.
	KindIntentBranch
)

// Keyed reports whether this kind carries a payload in Edge.Key.
func (k EdgeKind) Keyed() bool {
	return k == KindConditional || k == KindErrorHandler || k == KindIntentBranch
}

// Branching reports whether a newly discovered node reached over this kind
// starts a new layout row. Every kind except Sequential fans out vertically.
func (k EdgeKind) Branching() bool { return k != KindSequential }

// String returns the kind name as used in reports, DOT output, and logs.
func (k EdgeKind) String() string {
	switch k {
	case KindSequential:
		return "sequential"
	case KindConditional:
		return "conditional"
	case KindDefaultFallback:
		return "default"
	case KindErrorHandler:
		return "error"
	case KindIntentBranch:
		return "intent"
	default:
		return "unknown"
	}
}

// Node is a unit of flow logic: an opaque identifier plus a category tag.
// The full vendor block taxonomy lives in the assembler; the graph core only
// sees the category.
type Node struct {
	ID       string
	Category Category
}

// Edge is a directed transition between two registered nodes.
//
// Seq is the declaration sequence number, assigned when the edge is added.
// It makes row and level assignment reproducible without relying on the
// incidental ordering of the underlying storage.
type Edge struct {
	From string
	To   string
	Kind EdgeKind
	Key  string // comparison value, error type, or intent name; empty otherwise
	Seq  int
}

// Graph is an in-memory call-flow graph of nodes and typed edges. It is built
// once per compile or decompile pass, consumed by layout and validation, then
// discarded; it holds no cross-invocation state.
//
// A node holds at most one Sequential and at most one DefaultFallback edge;
// redeclaring either replaces the earlier edge (last-write-wins, to support
// iterative rewiring). Keyed kinds replace per (kind, key). Cycles are
// permitted and are not, by themselves, an error.
//
// Graph is not safe for concurrent use without external synchronization, but
// independent graphs never interact: there is no process-wide registry.
type Graph struct {
	nodes    map[string]Node
	order    []string // node registration order
	outgoing map[string][]Edge
	entry    string
	hasEntry bool
	nextSeq  int
}

// New creates an empty flow graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]Node),
		outgoing: make(map[string][]Edge),
	}
}

// AddNode registers a node under the given ID with its category.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID when the ID
// is already registered.
func (g *Graph) AddNode(id string, category Category) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	g.nodes[id] = Node{ID: id, Category: category}
	g.order = append(g.order, id)
	return nil
}

// SetEntry designates the starting node of the graph. Calling it again
// reassigns the entry; callers who need immutability enforce it above this
// layer. Returns ErrUnknownNode if the node was never registered.
func (g *Graph) SetEntry(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrUnknownNode
	}
	g.entry = id
	g.hasEntry = true
	return nil
}

// Entry returns the designated entry node ID, and false if none was declared.
func (g *Graph) Entry() (string, bool) { return g.entry, g.hasEntry }

// AddEdge adds a directed, typed edge between two registered nodes. The Seq
// field of e is ignored; a fresh declaration sequence number is assigned.
//
// Adding a second Sequential or DefaultFallback edge on the same source, or a
// keyed edge with a key already declared for that kind on the same source,
// replaces the earlier edge. The replacement carries the new sequence number.
//
// Returns ErrUnknownNode if either endpoint was never registered,
// ErrMissingEdgeKey for a keyed kind without a key, or ErrUnexpectedEdgeKey
// for a key on a Sequential or DefaultFallback edge.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownNode
	}
	if e.Kind.Keyed() && e.Key == "" {
		return ErrMissingEdgeKey
	}
	if !e.Kind.Keyed() && e.Key != "" {
		return ErrUnexpectedEdgeKey
	}

	g.outgoing[e.From] = slices.DeleteFunc(g.outgoing[e.From], func(prev Edge) bool {
		if prev.Kind != e.Kind {
			return false
		}
		return !e.Kind.Keyed() || prev.Key == e.Key
	})

	e.Seq = g.nextSeq
	g.nextSeq++
	g.outgoing[e.From] = append(g.outgoing[e.From], e)
	return nil
}

// OutgoingEdges returns the node's outgoing edges ordered by declaration
// sequence number. The returned slice is a copy. Returns nil for a node with
// no outgoing edges or an unregistered ID.
func (g *Graph) OutgoingEdges(id string) []Edge {
	edges := g.outgoing[id]
	if len(edges) == 0 {
		return nil
	}
	return slices.Clone(edges)
}

// Node returns the node with the given ID and true, or a zero node and false.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in registration order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = g.nodes[id]
	}
	return nodes
}

// Edges returns all edges in the graph ordered by declaration sequence
// number. Replaced edges are not included.
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, 0, g.EdgeCount())
	for _, id := range g.order {
		edges = append(edges, g.outgoing[id]...)
	}
	slices.SortFunc(edges, func(a, b Edge) int { return a.Seq - b.Seq })
	return edges
}

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of live edges (replacements excluded).
func (g *Graph) EdgeCount() int {
	count := 0
	for _, edges := range g.outgoing {
		count += len(edges)
	}
	return count
}
