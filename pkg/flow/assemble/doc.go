// Package assemble builds flow graphs from block descriptors.
//
// A [Block] couples a vendor block type (GetParticipantInput, Compare,
// DisconnectParticipant, ...) with declaration-ordered transitions declared
// through a fluent surface: Then, When, Otherwise, OnError, OnIntent. [Build]
// turns a block list into a [github.com/cxflow/cxflow/pkg/flow.Graph],
// mapping block types to validation categories on the way.
//
// Flow definitions can also be loaded from TOML manifests; see [Manifest].
package assemble
