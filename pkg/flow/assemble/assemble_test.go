package assemble

import (
	"errors"
	"testing"

	"github.com/cxflow/cxflow/pkg/flow"
)

func TestCategoryOf(t *testing.T) {
	cases := []struct {
		blockType string
		want      flow.Category
	}{
		{"DisconnectParticipant", flow.CategoryTerminal},
		{"EndFlowExecution", flow.CategoryTerminal},
		{"TransferToFlow", flow.CategoryTerminal},
		{"TransferContactToQueue", flow.CategoryTerminal},
		{"GetParticipantInput", flow.CategoryInputCollecting},
		{"ConnectParticipantWithLexBot", flow.CategoryInputCollecting},
		{"Compare", flow.CategoryBranching},
		{"CheckHoursOfOperation", flow.CategoryBranching},
		{"MessageParticipant", flow.CategorySimple},
		{"SomeFutureBlockType", flow.CategorySimple},
	}
	for _, tc := range cases {
		if got := CategoryOf(tc.blockType); got != tc.want {
			t.Errorf("CategoryOf(%q) = %v, want %v", tc.blockType, got, tc.want)
		}
	}
}

func TestNewBlock_GeneratesID(t *testing.T) {
	a := NewBlock("MessageParticipant")
	b := NewBlock("MessageParticipant")

	if a.ID == "" || b.ID == "" {
		t.Fatal("NewBlock() produced an empty ID")
	}
	if a.ID == b.ID {
		t.Errorf("NewBlock() produced duplicate IDs: %q", a.ID)
	}
}

func TestBuild_FluentFlow(t *testing.T) {
	welcome := NewBlock("MessageParticipant")
	menu := NewBlock("GetParticipantInput")
	sales := NewBlock("TransferContactToQueue")
	bye := NewBlock("DisconnectParticipant")

	welcome.Then(menu)
	menu.When("1", sales).
		Otherwise(bye).
		OnError("InputTimeLimitExceeded", bye).
		OnError("NoMatchingCondition", bye).
		OnError("NoMatchingError", bye)

	g, err := Build([]*Block{welcome, menu, sales, bye}, welcome.ID)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}

	entry, ok := g.Entry()
	if !ok || entry != welcome.ID {
		t.Errorf("Entry() = %q, %v, want %q, true", entry, ok, welcome.ID)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}
	if n, _ := g.Node(menu.ID); n.Category != flow.CategoryInputCollecting {
		t.Errorf("menu category = %v, want input collecting", n.Category)
	}

	edges := g.OutgoingEdges(menu.ID)
	wantKinds := []flow.EdgeKind{
		flow.KindConditional,
		flow.KindDefaultFallback,
		flow.KindErrorHandler,
		flow.KindErrorHandler,
		flow.KindErrorHandler,
	}
	if len(edges) != len(wantKinds) {
		t.Fatalf("OutgoingEdges(menu) has %d edges, want %d", len(edges), len(wantKinds))
	}
	for i, e := range edges {
		if e.Kind != wantKinds[i] {
			t.Errorf("edges[%d].Kind = %v, want %v", i, e.Kind, wantKinds[i])
		}
	}
}

func TestBuild_AutoEntry(t *testing.T) {
	first := NewBlock("MessageParticipant")
	second := NewBlock("DisconnectParticipant")
	first.Then(second)

	g, err := Build([]*Block{first, second}, "")
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	entry, ok := g.Entry()
	if !ok || entry != first.ID {
		t.Errorf("Entry() = %q, %v, want first block %q", entry, ok, first.ID)
	}
}

func TestBuild_UnknownTarget(t *testing.T) {
	b := NewBlock("MessageParticipant")
	b.ThenID("nowhere")

	_, err := Build([]*Block{b}, "")
	if !errors.Is(err, flow.ErrUnknownNode) {
		t.Errorf("Build(dangling target) = %v, want ErrUnknownNode", err)
	}
}

func TestBuild_DuplicateID(t *testing.T) {
	a := NewBlock("MessageParticipant")
	b := NewBlock("DisconnectParticipant")
	b.ID = a.ID

	_, err := Build([]*Block{a, b}, "")
	if !errors.Is(err, flow.ErrDuplicateNodeID) {
		t.Errorf("Build(duplicate IDs) = %v, want ErrDuplicateNodeID", err)
	}
}
