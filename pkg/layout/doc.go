// Package layout assigns deterministic positions to architecture graphs.
//
// # Layered Layout
//
// Nodes are grouped into integer layers (0 = leftmost, client-facing) and
// ordered within each layer. [Config.Position] maps a (layer, index, size)
// triple to a coordinate: layers sit at fixed horizontal intervals and each
// layer is centred vertically around a shared y, so a layer of n nodes
// occupies a symmetric span of (n-1) * VerticalSpacing.
//
// The function is pure: identical arguments always produce identical
// coordinates, independent of insertion order.
//
// # Layer Assignment
//
// The synthesizer supplies its own layers. For graphs edited by hand,
// [AssignLayers] derives a longest-path layering from edge direction and
// [Config.Relayout] applies it.
//
// # Limitations
//
// The layout performs no collision avoidance across layers and no
// edge-crossing minimization. Graphs produced here are small (about twenty
// nodes), where fixed spacing reads well.
package layout
