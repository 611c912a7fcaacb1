package assemble

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cxflow/cxflow/pkg/flow"
)

// Block types with special validation semantics. Any other type string is
// accepted and treated as a simple block; the full vendor parameter taxonomy
// is out of scope for the graph core.
var (
	terminalTypes = map[string]bool{
		"DisconnectParticipant":  true,
		"EndFlowExecution":       true,
		"TransferToFlow":         true,
		"TransferContactToQueue": true,
	}
	inputTypes = map[string]bool{
		"GetParticipantInput":          true,
		"ConnectParticipantWithLexBot": true,
	}
	branchingTypes = map[string]bool{
		"Compare":                true,
		"CheckHoursOfOperation":  true,
		"CheckMetricData":        true,
		"DistributeByPercentage": true,
	}
)

// CategoryOf maps a block type string to its validation category.
func CategoryOf(blockType string) flow.Category {
	switch {
	case terminalTypes[blockType]:
		return flow.CategoryTerminal
	case inputTypes[blockType]:
		return flow.CategoryInputCollecting
	case branchingTypes[blockType]:
		return flow.CategoryBranching
	default:
		return flow.CategorySimple
	}
}

// transition is one declared outgoing wire of a block, in declaration order.
type transition struct {
	kind   flow.EdgeKind
	key    string
	target string
}

// Block is a flow block descriptor: an identifier, a vendor block type, free
// parameters, and declaration-ordered transitions. Blocks are assembled into
// a [flow.Graph] by [Build].
type Block struct {
	ID          string
	Type        string
	Label       string
	Parameters  map[string]any
	transitions []transition
}

// NewBlock creates a block of the given type with a generated identifier.
func NewBlock(blockType string) *Block {
	return &Block{
		ID:         uuid.NewString(),
		Type:       blockType,
		Parameters: map[string]any{},
	}
}

// Category returns the block's validation category, derived from its type.
func (b *Block) Category() flow.Category { return CategoryOf(b.Type) }

// Then sets the block's sequential successor. Calling it again rewires.
func (b *Block) Then(next *Block) *Block {
	return b.wire(flow.KindSequential, "", next.ID)
}

// ThenID is [Block.Then] for a target known only by identifier.
func (b *Block) ThenID(id string) *Block {
	return b.wire(flow.KindSequential, "", id)
}

// When adds a conditional branch taken when the compared value equals value.
func (b *Block) When(value string, next *Block) *Block {
	return b.wire(flow.KindConditional, value, next.ID)
}

// WhenID is [Block.When] for a target known only by identifier.
func (b *Block) WhenID(value, id string) *Block {
	return b.wire(flow.KindConditional, value, id)
}

// Otherwise sets the branch taken when no conditional matches.
func (b *Block) Otherwise(next *Block) *Block {
	return b.wire(flow.KindDefaultFallback, "", next.ID)
}

// OtherwiseID is [Block.Otherwise] for a target known only by identifier.
func (b *Block) OtherwiseID(id string) *Block {
	return b.wire(flow.KindDefaultFallback, "", id)
}

// OnError adds a handler branch for the named failure condition.
func (b *Block) OnError(errorType string, next *Block) *Block {
	return b.wire(flow.KindErrorHandler, errorType, next.ID)
}

// OnErrorID is [Block.OnError] for a target known only by identifier.
func (b *Block) OnErrorID(errorType, id string) *Block {
	return b.wire(flow.KindErrorHandler, errorType, id)
}

// OnIntent adds a branch taken when the bot recognizes the named intent.
func (b *Block) OnIntent(intentName string, next *Block) *Block {
	return b.wire(flow.KindIntentBranch, intentName, next.ID)
}

// OnIntentID is [Block.OnIntent] for a target known only by identifier.
func (b *Block) OnIntentID(intentName, id string) *Block {
	return b.wire(flow.KindIntentBranch, intentName, id)
}

func (b *Block) wire(kind flow.EdgeKind, key, target string) *Block {
	b.transitions = append(b.transitions, transition{kind: kind, key: key, target: target})
	return b
}

// Build assembles blocks into a flow graph, registering nodes and then edges
// in declaration order. If entry is empty, the first block becomes the entry;
// the explicit-entry discipline belongs to the graph core, the convenience
// belongs here.
func Build(blocks []*Block, entry string) (*flow.Graph, error) {
	g := flow.New()

	for _, b := range blocks {
		if err := g.AddNode(b.ID, b.Category()); err != nil {
			return nil, fmt.Errorf("add block %s (%s): %w", b.ID, b.Type, err)
		}
	}

	for _, b := range blocks {
		for _, t := range b.transitions {
			err := g.AddEdge(flow.Edge{From: b.ID, To: t.target, Kind: t.kind, Key: t.key})
			if err != nil {
				return nil, fmt.Errorf("wire %s %s→%s: %w", t.kind, b.ID, t.target, err)
			}
		}
	}

	if entry == "" && len(blocks) > 0 {
		entry = blocks[0].ID
	}
	if entry != "" {
		if err := g.SetEntry(entry); err != nil {
			return nil, fmt.Errorf("set entry %s: %w", entry, err)
		}
	}

	return g, nil
}
