// Package nodelink renders architecture graphs as node-link diagrams.
//
// # Overview
//
// This package produces static images of a graph using Graphviz. Unlike a
// typical Graphviz diagram, node placement is not computed here: every node
// is pinned at the position assigned by the layout engine or by the user, so
// an exported image matches the interactive surface.
//
// # Usage
//
// Convert a graph to DOT format, then render:
//
//	dot := nodelink.ToDOT(g, nodelink.DefaultOptions())
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - ShowEdges: include connections (mirrors the editor's visibility toggle)
//   - Detailed: add archetype, technology and protocol to labels
//
// # Colors
//
// Nodes are filled from a per-archetype palette; a node's own data color
// takes precedence. See [FillColor].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering
// with the neato engine, which honours pinned positions.
package nodelink
