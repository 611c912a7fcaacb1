package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cxflow/cxflow/pkg/flow"
	"github.com/cxflow/cxflow/pkg/flow/assemble"
	"github.com/cxflow/cxflow/pkg/flow/layout"
)

// Version is the vendor document schema version emitted by Export.
const Version = "2019-10-30"

// =============================================================================
// Flow Document Types
// =============================================================================

// Flow is the serialized contact-flow document.
//
// The format is the vendor's import/export JSON: a flat action list plus a
// metadata section holding canvas positions keyed by action identifier.
type Flow struct {
	Version     string   `json:"Version"`
	StartAction string   `json:"StartAction"`
	Metadata    Metadata `json:"Metadata"`
	Actions     []Action `json:"Actions"`
}

// Metadata holds canvas state for the visual editor.
type Metadata struct {
	EntryPointPosition Pos                   `json:"entryPointPosition"`
	SnapToGrid         bool                  `json:"snapToGrid"`
	ActionMetadata     map[string]ActionMeta `json:"ActionMetadata"`
	Annotations        []any                 `json:"Annotations"`
}

// ActionMeta is the per-action canvas metadata.
type ActionMeta struct {
	Position Pos `json:"position"`
}

// Pos is a canvas coordinate.
type Pos struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Action is one block in the serialized flow.
type Action struct {
	Identifier  string         `json:"Identifier"`
	Type        string         `json:"Type"`
	Parameters  map[string]any `json:"Parameters"`
	Transitions Transitions    `json:"Transitions"`
}

// Transitions describes an action's outgoing wiring. NextAction carries both
// the sequential successor and the no-match fallback; the two are
// indistinguishable on the wire, and the sequential successor wins when a
// block declares both.
type Transitions struct {
	NextAction string            `json:"NextAction,omitempty"`
	Conditions []Condition       `json:"Conditions,omitempty"`
	Errors     []ErrorTransition `json:"Errors,omitempty"`
}

// Condition is a value-matching branch.
type Condition struct {
	NextAction string        `json:"NextAction"`
	Condition  ConditionExpr `json:"Condition"`
}

// ConditionExpr is the comparison applied to the collected value.
type ConditionExpr struct {
	Operator string   `json:"Operator"`
	Operands []string `json:"Operands"`
}

// ErrorTransition is an error-handler branch.
type ErrorTransition struct {
	NextAction string `json:"NextAction"`
	ErrorType  string `json:"ErrorType"`
}

// =============================================================================
// Export
// =============================================================================

// Export serializes assembled blocks into a flow document. The graph supplies
// the effective wiring (replacements already resolved) and the positions map
// supplies canvas coordinates, typically from [layout.Positions].
//
// Intent branches have no dedicated wire form; they serialize as Equals
// conditions on the intent name.
func Export(blocks []*assemble.Block, g *flow.Graph, positions map[string]layout.Position) (Flow, error) {
	entry, ok := g.Entry()
	if !ok {
		return Flow{}, flow.ErrNoEntry
	}

	out := Flow{
		Version:     Version,
		StartAction: entry,
		Metadata: Metadata{
			ActionMetadata: make(map[string]ActionMeta, len(blocks)),
			Annotations:    []any{},
		},
		Actions: make([]Action, 0, len(blocks)),
	}

	for _, b := range blocks {
		if _, ok := g.Node(b.ID); !ok {
			return Flow{}, fmt.Errorf("block %s: %w", b.ID, flow.ErrUnknownNode)
		}
		a := Action{
			Identifier:  b.ID,
			Type:        b.Type,
			Parameters:  b.Parameters,
			Transitions: transitionsFor(g, b.ID),
		}
		if a.Parameters == nil {
			a.Parameters = map[string]any{}
		}
		out.Actions = append(out.Actions, a)

		if p, ok := positions[b.ID]; ok {
			out.Metadata.ActionMetadata[b.ID] = ActionMeta{Position: Pos{X: p.X, Y: p.Y}}
		}
	}

	return out, nil
}

// transitionsFor flattens a node's outgoing edges into the wire shape.
func transitionsFor(g *flow.Graph, id string) Transitions {
	var t Transitions
	var fallback string

	for _, e := range g.OutgoingEdges(id) {
		switch e.Kind {
		case flow.KindSequential:
			t.NextAction = e.To
		case flow.KindDefaultFallback:
			fallback = e.To
		case flow.KindConditional, flow.KindIntentBranch:
			t.Conditions = append(t.Conditions, Condition{
				NextAction: e.To,
				Condition:  ConditionExpr{Operator: "Equals", Operands: []string{e.Key}},
			})
		case flow.KindErrorHandler:
			t.Errors = append(t.Errors, ErrorTransition{NextAction: e.To, ErrorType: e.Key})
		}
	}

	// Sequential successor wins over the fallback for the shared slot.
	if t.NextAction == "" {
		t.NextAction = fallback
	}
	return t
}

// =============================================================================
// Import
// =============================================================================

// Blocks reconstructs block descriptors and the entry identifier from a flow
// document. Conditions read back as conditional branches and NextAction as a
// sequential successor; the distinctions Export collapses are not recovered.
func Blocks(f Flow) ([]*assemble.Block, string, error) {
	if len(f.Actions) == 0 {
		return nil, "", fmt.Errorf("flow has no actions")
	}

	blocks := make([]*assemble.Block, 0, len(f.Actions))
	for _, a := range f.Actions {
		if a.Identifier == "" {
			return nil, "", fmt.Errorf("action with type %q: %w", a.Type, flow.ErrInvalidNodeID)
		}
		b := assemble.NewBlock(a.Type)
		b.ID = a.Identifier
		if a.Parameters != nil {
			b.Parameters = a.Parameters
		}

		if a.Transitions.NextAction != "" {
			b.ThenID(a.Transitions.NextAction)
		}
		for _, c := range a.Transitions.Conditions {
			key := ""
			if len(c.Condition.Operands) > 0 {
				key = c.Condition.Operands[0]
			}
			b.WhenID(key, c.NextAction)
		}
		for _, e := range a.Transitions.Errors {
			b.OnErrorID(e.ErrorType, e.NextAction)
		}

		blocks = append(blocks, b)
	}

	return blocks, f.StartAction, nil
}

// Graph assembles a flow document directly into a graph.
func Graph(f Flow) (*flow.Graph, error) {
	blocks, entry, err := Blocks(f)
	if err != nil {
		return nil, err
	}
	return assemble.Build(blocks, entry)
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a flow document to indented JSON bytes.
// Map keys are sorted by the encoder, so output is deterministic.
func Marshal(f Flow) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(f, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a flow document as JSON to an io.Writer.
func Write(f Flow, w io.Writer) error {
	return writeTo(f, w)
}

// WriteFile writes a flow document to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(f Flow, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return writeTo(f, out)
}

// Read decodes a JSON flow document from an io.Reader.
func Read(r io.Reader) (Flow, error) {
	var f Flow
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return Flow{}, fmt.Errorf("decode: %w", err)
	}
	return f, nil
}

// ReadFile reads a JSON file and returns the decoded flow document.
func ReadFile(path string) (Flow, error) {
	in, err := os.Open(path)
	if err != nil {
		return Flow{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer in.Close()
	return Read(in)
}

func writeTo(f Flow, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
