package assemble

import (
	"testing"

	apperrors "github.com/cxflow/cxflow/pkg/errors"
	"github.com/cxflow/cxflow/pkg/flow"
)

const menuManifest = `
entry = "welcome"

[[blocks]]
id = "welcome"
type = "MessageParticipant"
label = "Welcome prompt"
next = "menu"

[[blocks]]
id = "menu"
type = "GetParticipantInput"
default = "goodbye"

  [[blocks.branches]]
  equals = "1"
  to = "sales"

  [[blocks.errors]]
  type = "InputTimeLimitExceeded"
  to = "goodbye"

[[blocks]]
id = "sales"
type = "TransferContactToQueue"

[[blocks]]
id = "goodbye"
type = "DisconnectParticipant"
`

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(menuManifest))
	if err != nil {
		t.Fatalf("ParseManifest() = %v", err)
	}
	if m.Entry != "welcome" {
		t.Errorf("Entry = %q, want %q", m.Entry, "welcome")
	}
	if len(m.Blocks) != 4 {
		t.Fatalf("len(Blocks) = %d, want 4", len(m.Blocks))
	}
	if m.Blocks[0].Label != "Welcome prompt" {
		t.Errorf("Blocks[0].Label = %q, want %q", m.Blocks[0].Label, "Welcome prompt")
	}
	if len(m.Blocks[1].Branches) != 1 || m.Blocks[1].Branches[0].To != "sales" {
		t.Errorf("menu branches = %+v, want one branch to sales", m.Blocks[1].Branches)
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"malformed TOML", `entry = `},
		{"no blocks", `entry = "a"`},
		{"missing type", "[[blocks]]\nid = \"a\""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tc.data))
			if !apperrors.Is(err, apperrors.ErrCodeInvalidManifest) {
				t.Errorf("ParseManifest() = %v, want INVALID_MANIFEST", err)
			}
		})
	}
}

func TestManifest_Flow(t *testing.T) {
	m, err := ParseManifest([]byte(menuManifest))
	if err != nil {
		t.Fatalf("ParseManifest() = %v", err)
	}
	blocks, entry, err := m.Flow()
	if err != nil {
		t.Fatalf("Flow() = %v", err)
	}
	if entry != "welcome" {
		t.Errorf("entry = %q, want %q", entry, "welcome")
	}

	g, err := Build(blocks, entry)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("NodeCount() = %d, want 4", g.NodeCount())
	}

	edges := g.OutgoingEdges("menu")
	wantKinds := []flow.EdgeKind{flow.KindConditional, flow.KindDefaultFallback, flow.KindErrorHandler}
	if len(edges) != len(wantKinds) {
		t.Fatalf("OutgoingEdges(menu) has %d edges, want %d", len(edges), len(wantKinds))
	}
	for i, e := range edges {
		if e.Kind != wantKinds[i] {
			t.Errorf("edges[%d].Kind = %v, want %v", i, e.Kind, wantKinds[i])
		}
	}
	if edges[0].Key != "1" || edges[0].To != "sales" {
		t.Errorf("branch edge = %+v, want key 1 to sales", edges[0])
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest("testdata/does-not-exist.toml")
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("LoadManifest() = %v, want FILE_NOT_FOUND", err)
	}
}
