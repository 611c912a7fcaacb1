// Package layout computes deterministic 2-D canvas positions for call-flow
// graphs.
//
// The engine places nodes on a grid: columns follow BFS distance from the
// entry, rows follow discovery order, with sequential flow running
// horizontally and branches fanning out vertically. A usable-if-imperfect
// visualization must never block compilation, so layout has no failure path
// beyond a missing entry declaration.
package layout
