package layout

import (
	"slices"

	"github.com/cxflow/cxflow/pkg/flow"
)

// Canvas constants. X increases to the right and Y increases downwards;
// positions are the top-left corner of a block. Blocks are assumed to share
// one uniform size.
const (
	// StartX is the X position of the first column.
	StartX = 150
	// StartY is the Y position of the first row.
	StartY = 50
	// HorizontalSpacing is the distance between columns, left edge to left edge.
	HorizontalSpacing = 280
	// VerticalSpacingMin is the minimum distance between rows.
	VerticalSpacingMin = 180

	// blockHeight is the uniform block height including padding.
	blockHeight = 180

	// VerticalSpacing is the effective row height applied to every row.
	VerticalSpacing = max(VerticalSpacingMin, blockHeight)
)

// Position is a block's pixel position on the canvas.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Positions computes a canvas position for every node in the graph.
//
// It is a pure function of the graph's content and edge declaration order:
// identical graphs always yield identical output, and no two nodes share a
// final position. Layout is total over any graph with a declared entry,
// including graphs with cycles or unreachable nodes; unreachability is a
// validator concern, never a layout failure. The only error is
// [flow.ErrNoEntry].
//
// The algorithm runs in five phases:
//
//  1. Level assignment: BFS from the entry following outgoing edges in
//     declaration order. A node's level (column) is fixed on first discovery
//     to the discoverer's level plus one, so levels are shortest-path hop
//     counts. Rediscoveries, including back-edges forming cycles, are ignored.
//  2. Row assignment: a node discovered over a Sequential edge inherits its
//     discoverer's row; any other kind takes the next unused row index at its
//     level. Only the first discovery assigns a row.
//  3. Compaction: rows are renumbered contiguously from zero within each
//     level, preserving relative order.
//  4. Pixel conversion: x = StartX + level*HorizontalSpacing,
//     y = StartY + row*VerticalSpacing.
//  5. Collision resolution: nodes that landed on an occupied position are
//     shifted down one row at a time, processed in discovery order, until
//     every position is unique.
//
// Nodes unreachable from the entry are placed at level (max assigned level)+1,
// one row each in registration order.
func Positions(g *flow.Graph) (map[string]Position, error) {
	entry, ok := g.Entry()
	if !ok {
		return nil, flow.ErrNoEntry
	}

	level := make(map[string]int, g.NodeCount())
	row := make(map[string]int, g.NodeCount())
	usedRows := make(map[int]map[int]bool) // level -> occupied row indices
	order := make([]string, 0, g.NodeCount())

	markUsed := func(lv, r int) {
		if usedRows[lv] == nil {
			usedRows[lv] = make(map[int]bool)
		}
		usedRows[lv][r] = true
	}

	// Phases 1 and 2: one BFS fixes level and row on first discovery.
	level[entry] = 0
	row[entry] = 0
	markUsed(0, 0)
	order = append(order, entry)
	maxLevel := 0

	queue := []string{entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, e := range g.OutgoingEdges(cur) {
			if _, seen := level[e.To]; seen {
				continue
			}
			lv := level[cur] + 1
			level[e.To] = lv
			maxLevel = max(maxLevel, lv)

			r := row[cur]
			if e.Kind.Branching() {
				r = nextFreeRow(usedRows[lv])
			}
			row[e.To] = r
			markUsed(lv, r)

			order = append(order, e.To)
			queue = append(queue, e.To)
		}
	}

	// Fallback level for nodes the BFS never reached.
	fallbackRow := 0
	for _, n := range g.Nodes() {
		if _, ok := level[n.ID]; ok {
			continue
		}
		level[n.ID] = maxLevel + 1
		row[n.ID] = fallbackRow
		fallbackRow++
		order = append(order, n.ID)
	}

	compactRows(order, level, row)

	// Phases 4 and 5: convert to pixels, shifting later-discovered nodes down
	// until no two share a position. Terminates because shifted rows strictly
	// increase.
	positions := make(map[string]Position, len(order))
	occupied := make(map[Position]bool, len(order))
	for _, id := range order {
		r := row[id]
		p := Position{
			X: StartX + level[id]*HorizontalSpacing,
			Y: StartY + r*VerticalSpacing,
		}
		for occupied[p] {
			r++
			p.Y = StartY + r*VerticalSpacing
		}
		occupied[p] = true
		positions[id] = p
	}

	return positions, nil
}

// nextFreeRow returns the smallest row index not present in used.
func nextFreeRow(used map[int]bool) int {
	r := 0
	for used[r] {
		r++
	}
	return r
}

// compactRows renumbers rows within each level to be contiguous from zero,
// preserving relative order. Gaps appear when a branch target was pushed past
// a row index that no node at its level ended up holding.
func compactRows(order []string, level, row map[string]int) {
	perLevel := make(map[int][]int)
	for _, id := range order {
		perLevel[level[id]] = append(perLevel[level[id]], row[id])
	}

	remap := make(map[int]map[int]int, len(perLevel))
	for lv, rows := range perLevel {
		slices.Sort(rows)
		rows = slices.Compact(rows)
		m := make(map[int]int, len(rows))
		for i, r := range rows {
			m[r] = i
		}
		remap[lv] = m
	}

	for _, id := range order {
		row[id] = remap[level[id]][row[id]]
	}
}
