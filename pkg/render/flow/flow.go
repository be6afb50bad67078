package flow

import "github.com/matzehuels/archgraph/pkg/arch"

// Marker and stroke defaults for projected edges.
const (
	MarkerArrowClosed = "arrowclosed"
	DefaultStroke     = "#64748b"
	DefaultStrokeW    = 2.0
	GroupZIndex       = -1
)

// Node is the rendering surface's view of a node.
type Node struct {
	ID         string        `json:"id"`
	Type       arch.NodeType `json:"type"`
	Position   arch.Position `json:"position"`
	Data       arch.NodeData `json:"data"`
	Draggable  bool          `json:"draggable"`
	Selectable bool          `json:"selectable"`
	ZIndex     int           `json:"zIndex"`
}

// EdgeStyle is the stroke applied to a projected edge.
type EdgeStyle struct {
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Marker decorates an edge end.
type Marker struct {
	Type string `json:"type"`
}

// Edge is the rendering surface's view of an edge.
type Edge struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	Target    string        `json:"target"`
	Type      string        `json:"type"`
	Label     string        `json:"label,omitempty"`
	Data      arch.EdgeData `json:"data"`
	Style     EdgeStyle     `json:"style"`
	MarkerEnd Marker        `json:"markerEnd"`
}

// Flow is a complete projection of a graph.
type Flow struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Options configures Project.
type Options struct {
	// ShowEdges includes edges in the projection. Hiding them never
	// touches the underlying graph.
	ShowEdges bool
}

// Project maps a graph onto the rendering surface's shapes. Group nodes are
// neither draggable nor selectable and sit behind everything else.
func Project(g *arch.Graph, opts Options) Flow {
	f := Flow{Nodes: make([]Node, 0, len(g.Nodes)), Edges: []Edge{}}
	for _, n := range g.Nodes {
		f.Nodes = append(f.Nodes, projectNode(n))
	}
	if !opts.ShowEdges {
		return f
	}
	for _, e := range g.Edges {
		f.Edges = append(f.Edges, projectEdge(e))
	}
	return f
}

func projectNode(n arch.Node) Node {
	out := Node{
		ID:         n.ID,
		Type:       n.Type,
		Position:   n.Position,
		Data:       n.Data,
		Draggable:  true,
		Selectable: true,
	}
	out.Data.Metadata = n.Data.Metadata.Clone()
	if n.IsGroup() {
		out.Draggable = false
		out.Selectable = false
		out.ZIndex = GroupZIndex
	}
	return out
}

func projectEdge(e arch.Edge) Edge {
	typ := e.Type
	if typ == "" {
		typ = arch.DefaultEdgeType
	}
	return Edge{
		ID:        e.ID,
		Source:    e.Source,
		Target:    e.Target,
		Type:      typ,
		Label:     e.Label,
		Data:      e.Data.Clone(),
		Style:     EdgeStyle{Stroke: DefaultStroke, StrokeWidth: DefaultStrokeW},
		MarkerEnd: Marker{Type: MarkerArrowClosed},
	}
}

// =============================================================================
// Image export
// =============================================================================

// ExportNode is the reduced node shape used for image export.
type ExportNode struct {
	ID       string        `json:"id"`
	Type     arch.NodeType `json:"type"`
	Position arch.Position `json:"position"`
	Data     arch.NodeData `json:"data"`
}

// ExportEdge is the reduced edge shape used for image export.
type ExportEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// ExportGraph is the payload handed to an image exporter.
type ExportGraph struct {
	Nodes []ExportNode `json:"nodes"`
	Edges []ExportEdge `json:"edges"`
}

// Export reduces a graph to the fields an image exporter needs.
func Export(g *arch.Graph) ExportGraph {
	out := ExportGraph{
		Nodes: make([]ExportNode, 0, len(g.Nodes)),
		Edges: make([]ExportEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		data := n.Data
		data.Metadata = n.Data.Metadata.Clone()
		out.Nodes = append(out.Nodes, ExportNode{ID: n.ID, Type: n.Type, Position: n.Position, Data: data})
	}
	for _, e := range g.Edges {
		out.Edges = append(out.Edges, ExportEdge{ID: e.ID, Source: e.Source, Target: e.Target, Label: e.Label})
	}
	return out
}
