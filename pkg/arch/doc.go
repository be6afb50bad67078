// Package arch defines the system-architecture graph model.
//
// # Overview
//
// A [Graph] is a directed graph of infrastructure components ([Node]) joined
// by labeled connections ([Edge]). Nodes carry an archetype ([NodeType]), a
// position in graph space and display data; edges carry a connector style,
// a label and transport/security metadata.
//
// # Invariants
//
// A valid graph satisfies four invariants, checked by [Graph.Validate]:
//
//   - node IDs are unique and non-empty
//   - edge IDs are unique and non-empty
//   - every edge endpoint resolves to a node in the same graph
//   - at most one edge joins any unordered pair of nodes
//
// This package performs no mutation beyond construction. All structural
// edits are made through pkg/editor, which keeps the invariants at a single
// choke point.
//
// # Groups
//
// Nodes of type [TypeGroup] are visual backdrops: renderers draw them behind
// everything else, they cannot be dragged or selected, and [Graph.Stats]
// leaves them (and any edge touching them) out of every count.
//
// # Metadata
//
// Node metadata is split into typed well-known fields (technology, port,
// table and endpoint counts, external flag) and an open Extra map.
// [DefaultMetadata] supplies per-archetype defaults for new nodes.
package arch
