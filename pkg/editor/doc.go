// Package editor applies user-initiated structural changes to a live
// architecture graph.
//
// An [Editor] owns exactly one graph and tracks whether it has changed since
// the last save:
//
//	Clean --mutation--> Dirty --MarkSaved--> Clean
//
// Mutations never fail loudly. A request that names a missing node or edge,
// an unknown node type, or a self-loop reports false and leaves both the graph
// and the Dirty flag untouched, which keeps an interactive surface running
// through stale clicks.
//
// After every operation the graph satisfies [arch.Graph.Validate]: node and
// edge IDs are unique, no edge dangles, and at most one edge joins any
// unordered pair of nodes. [Editor.Connect] on an already-joined pair
// replaces the old edge rather than adding a parallel one, and
// [Editor.DeleteNode] cascades to every touching edge.
package editor
