// Package flow adapts architecture graphs to an interactive node/edge
// diagram surface.
//
// Outbound, [Project] maps the core model onto the surface's shapes, adding
// presentation fields (draggable, selectable, zIndex, stroke, marker) that
// never flow back into the graph. Inbound, a [Surface] turns surface events
// into editor mutations: drags are buffered locally and committed once when
// they end, removals cascade through the editor, and a click-to-add converts
// screen coordinates through the viewport.
//
// Edge visibility is a projection filter only; toggling it never removes
// edges from the graph.
//
// [Export] produces the reduced node/edge payload used by image exporters.
package flow
