package layout

import (
	"errors"
	"reflect"
	"testing"

	"github.com/cxflow/cxflow/pkg/flow"
)

func TestPositions_NoEntry(t *testing.T) {
	g := flow.New()
	g.AddNode("a", flow.CategorySimple)

	if _, err := Positions(g); !errors.Is(err, flow.ErrNoEntry) {
		t.Errorf("Positions(no entry) = %v, want ErrNoEntry", err)
	}
}

func TestPositions_SequentialPair(t *testing.T) {
	// A --sequential--> B: both on row 0, B one column right.
	g := flow.New()
	g.AddNode("A", flow.CategorySimple)
	g.AddNode("B", flow.CategoryTerminal)
	g.AddEdge(flow.Edge{From: "A", To: "B", Kind: flow.KindSequential})
	g.SetEntry("A")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	if want := (Position{X: 150, Y: 50}); pos["A"] != want {
		t.Errorf("pos[A] = %+v, want %+v", pos["A"], want)
	}
	if want := (Position{X: 430, Y: 50}); pos["B"] != want {
		t.Errorf("pos[B] = %+v, want %+v", pos["B"], want)
	}
}

func TestPositions_BranchFanOut(t *testing.T) {
	// M branches to X, Y, Z: level 1, rows 0, 1, 2.
	g := flow.New()
	g.AddNode("M", flow.CategoryInputCollecting)
	g.AddNode("X", flow.CategoryTerminal)
	g.AddNode("Y", flow.CategoryTerminal)
	g.AddNode("Z", flow.CategoryTerminal)
	g.AddEdge(flow.Edge{From: "M", To: "X", Kind: flow.KindConditional, Key: "1"})
	g.AddEdge(flow.Edge{From: "M", To: "Y", Kind: flow.KindConditional, Key: "2"})
	g.AddEdge(flow.Edge{From: "M", To: "Z", Kind: flow.KindDefaultFallback})
	g.SetEntry("M")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	want := map[string]Position{
		"M": {X: 150, Y: 50},
		"X": {X: 430, Y: 50},
		"Y": {X: 430, Y: 230},
		"Z": {X: 430, Y: 410},
	}
	for id, p := range want {
		if pos[id] != p {
			t.Errorf("pos[%s] = %+v, want %+v", id, pos[id], p)
		}
	}
}

func TestPositions_SelfLoopIgnoredOnRediscovery(t *testing.T) {
	// L conditionally repeats itself ("press 9 to repeat the menu").
	g := flow.New()
	g.AddNode("L", flow.CategoryInputCollecting)
	g.AddEdge(flow.Edge{From: "L", To: "L", Kind: flow.KindConditional, Key: "9"})
	g.SetEntry("L")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	if want := (Position{X: 150, Y: 50}); pos["L"] != want {
		t.Errorf("pos[L] = %+v, want %+v", pos["L"], want)
	}
}

func TestPositions_CycleKeepsFirstDiscovery(t *testing.T) {
	// A -> B -> C -> A: the back-edge must not re-level A.
	g := flow.New()
	g.AddNode("A", flow.CategorySimple)
	g.AddNode("B", flow.CategorySimple)
	g.AddNode("C", flow.CategorySimple)
	g.AddEdge(flow.Edge{From: "A", To: "B", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "B", To: "C", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "C", To: "A", Kind: flow.KindSequential})
	g.SetEntry("A")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	if pos["A"].X != 150 {
		t.Errorf("pos[A].X = %d, want 150 (level 0 fixed on first discovery)", pos["A"].X)
	}
	if pos["C"].X != 150+2*HorizontalSpacing {
		t.Errorf("pos[C].X = %d, want %d", pos["C"].X, 150+2*HorizontalSpacing)
	}
}

func TestPositions_ShortestPathLevels(t *testing.T) {
	// Diamond with a shortcut: E reachable in 2 hops via the conditional
	// branch even though the sequential chain takes 3.
	//
	//   A --cond--> D --seq--> E
	//   A --seq--> B --seq--> C --seq--> E
	g := flow.New()
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		g.AddNode(id, flow.CategorySimple)
	}
	g.AddEdge(flow.Edge{From: "A", To: "B", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "A", To: "D", Kind: flow.KindConditional, Key: "x"})
	g.AddEdge(flow.Edge{From: "B", To: "C", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "C", To: "E", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "D", To: "E", Kind: flow.KindSequential})
	g.SetEntry("A")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	if wantX := StartX + 2*HorizontalSpacing; pos["E"].X != wantX {
		t.Errorf("pos[E].X = %d, want %d (level 2, shortest path)", pos["E"].X, wantX)
	}
}

func TestPositions_UnreachableFallbackLevel(t *testing.T) {
	g := flow.New()
	g.AddNode("A", flow.CategorySimple)
	g.AddNode("B", flow.CategoryTerminal)
	g.AddNode("lost1", flow.CategorySimple)
	g.AddNode("lost2", flow.CategorySimple)
	g.AddEdge(flow.Edge{From: "A", To: "B", Kind: flow.KindSequential})
	g.SetEntry("A")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}

	// Max assigned level is 1 (B), so the fallback column is level 2.
	wantX := StartX + 2*HorizontalSpacing
	if pos["lost1"].X != wantX || pos["lost2"].X != wantX {
		t.Errorf("fallback X = %d, %d, want both %d", pos["lost1"].X, pos["lost2"].X, wantX)
	}
	if pos["lost1"].Y != StartY || pos["lost2"].Y != StartY+VerticalSpacing {
		t.Errorf("fallback Y = %d, %d, want %d, %d (own row each, registration order)",
			pos["lost1"].Y, pos["lost2"].Y, StartY, StartY+VerticalSpacing)
	}
}

func TestPositions_CollisionResolved(t *testing.T) {
	// The conditional branch to C is declared first, taking row 0 at level 1.
	// B then inherits row 0 from A over the sequential edge, colliding with C.
	// B was discovered later, so B is pushed down.
	g := flow.New()
	g.AddNode("A", flow.CategorySimple)
	g.AddNode("B", flow.CategorySimple)
	g.AddNode("C", flow.CategorySimple)
	g.AddEdge(flow.Edge{From: "A", To: "C", Kind: flow.KindConditional, Key: "1"})
	g.AddEdge(flow.Edge{From: "A", To: "B", Kind: flow.KindSequential})
	g.SetEntry("A")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	if want := (Position{X: 430, Y: 50}); pos["C"] != want {
		t.Errorf("pos[C] = %+v, want %+v", pos["C"], want)
	}
	if want := (Position{X: 430, Y: 50 + VerticalSpacing}); pos["B"] != want {
		t.Errorf("pos[B] = %+v, want %+v (pushed down one row)", pos["B"], want)
	}
}

func TestPositions_NoDuplicatePositions(t *testing.T) {
	// Dense graph with cross-branch row reuse, cycles, and orphans.
	g := flow.New()
	ids := []string{"a", "b", "c", "d", "e", "f", "g", "h", "orphan"}
	for _, id := range ids {
		g.AddNode(id, flow.CategorySimple)
	}
	g.AddEdge(flow.Edge{From: "a", To: "b", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "a", To: "c", Kind: flow.KindConditional, Key: "1"})
	g.AddEdge(flow.Edge{From: "a", To: "d", Kind: flow.KindConditional, Key: "2"})
	g.AddEdge(flow.Edge{From: "b", To: "e", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "c", To: "e", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "d", To: "f", Kind: flow.KindDefaultFallback})
	g.AddEdge(flow.Edge{From: "e", To: "g", Kind: flow.KindErrorHandler, Key: "NoMatchingError"})
	g.AddEdge(flow.Edge{From: "f", To: "h", Kind: flow.KindSequential})
	g.AddEdge(flow.Edge{From: "h", To: "a", Kind: flow.KindSequential}) // cycle
	g.SetEntry("a")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	if len(pos) != len(ids) {
		t.Fatalf("Positions() placed %d nodes, want %d", len(pos), len(ids))
	}

	seen := make(map[Position]string)
	for id, p := range pos {
		if other, dup := seen[p]; dup {
			t.Errorf("nodes %s and %s share position %+v", id, other, p)
		}
		seen[p] = id
	}
}

func TestPositions_Deterministic(t *testing.T) {
	build := func() *flow.Graph {
		g := flow.New()
		for _, id := range []string{"m", "x", "y", "z", "t"} {
			g.AddNode(id, flow.CategorySimple)
		}
		g.AddEdge(flow.Edge{From: "m", To: "x", Kind: flow.KindConditional, Key: "1"})
		g.AddEdge(flow.Edge{From: "m", To: "y", Kind: flow.KindConditional, Key: "2"})
		g.AddEdge(flow.Edge{From: "x", To: "t", Kind: flow.KindSequential})
		g.AddEdge(flow.Edge{From: "y", To: "t", Kind: flow.KindSequential})
		g.AddEdge(flow.Edge{From: "m", To: "z", Kind: flow.KindDefaultFallback})
		g.SetEntry("m")
		return g
	}

	first, err := Positions(build())
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	second, err := Positions(build())
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Positions() not deterministic:\n first: %v\nsecond: %v", first, second)
	}
}

func TestPositions_CompactionRemovesGaps(t *testing.T) {
	// Level 1 receives rows 0 and 1; level 2 only ever sees row assignments
	// derived from its discoverers, so compaction keeps rows contiguous per
	// level starting at zero.
	g := flow.New()
	g.AddNode("root", flow.CategoryBranching)
	g.AddNode("top", flow.CategorySimple)
	g.AddNode("bottom", flow.CategorySimple)
	g.AddNode("tail", flow.CategoryTerminal)
	g.AddEdge(flow.Edge{From: "root", To: "top", Kind: flow.KindConditional, Key: "1"})
	g.AddEdge(flow.Edge{From: "root", To: "bottom", Kind: flow.KindConditional, Key: "2"})
	g.AddEdge(flow.Edge{From: "bottom", To: "tail", Kind: flow.KindSequential})
	g.SetEntry("root")

	pos, err := Positions(g)
	if err != nil {
		t.Fatalf("Positions() = %v", err)
	}
	// tail inherited row 1 from bottom, but is alone at level 2: compacted to row 0.
	if want := (Position{X: StartX + 2*HorizontalSpacing, Y: StartY}); pos["tail"] != want {
		t.Errorf("pos[tail] = %+v, want %+v", pos["tail"], want)
	}
}

func TestVerticalSpacing_Constant(t *testing.T) {
	if VerticalSpacing != 180 {
		t.Errorf("VerticalSpacing = %d, want 180", VerticalSpacing)
	}
}
