// Package wire serializes flows to and from the vendor contact-flow JSON
// document: a version string, a start action, a flat action list, and a
// metadata section carrying canvas positions.
//
// [Export] produces a document from assembled blocks, their graph, and a
// layout; [Blocks] and [Graph] read one back. Marshal, Write, WriteFile,
// Read, and ReadFile cover the byte-level round trip.
package wire
