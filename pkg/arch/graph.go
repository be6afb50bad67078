package arch

import (
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"time"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

var (
	// ErrInvalidNodeID is reported by [Graph.Validate] when a node has an empty ID.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrInvalidEdgeID is reported by [Graph.Validate] when an edge has an empty ID.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateNodeID is reported when two nodes share an ID.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is reported when two edges share an ID.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownNodeType is reported when a node's type is outside the catalog.
	ErrUnknownNodeType = errors.New("unknown node type")

	// ErrDanglingEdge is reported when an edge endpoint does not resolve to a node.
	ErrDanglingEdge = errors.New("edge endpoint does not reference a node")

	// ErrParallelEdge is reported when two edges connect the same unordered
	// pair of nodes, in either direction.
	ErrParallelEdge = errors.New("parallel edge between node pair")
)

// DefaultVersion is the schema version stamped on new graphs.
const DefaultVersion = "1.0.0"

// NodeData is the display payload of a node.
type NodeData struct {
	Name        string   `json:"name" bson:"name"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Color       string   `json:"color,omitempty" bson:"color,omitempty"`
	Metadata    Metadata `json:"metadata" bson:"metadata"`
	// Explanation is free text produced by an external generator.
	Explanation string `json:"explanation,omitempty" bson:"explanation,omitempty"`
}

// Node is a typed infrastructure component placed in graph space.
type Node struct {
	ID       string   `json:"id" bson:"id"`
	Type     NodeType `json:"type" bson:"type"`
	Position Position `json:"position" bson:"position"`
	Data     NodeData `json:"data" bson:"data"`
}

// IsGroup reports whether the node is a visual backdrop.
func (n Node) IsGroup() bool { return n.Type.IsGroup() }

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	n.Data.Metadata = n.Data.Metadata.Clone()
	return n
}

// Edge is a directed, labeled connection between two nodes.
type Edge struct {
	ID     string   `json:"id" bson:"id"`
	Source string   `json:"source" bson:"source"`
	Target string   `json:"target" bson:"target"`
	Type   string   `json:"type,omitempty" bson:"type,omitempty"`
	Label  string   `json:"label,omitempty" bson:"label,omitempty"`
	Data   EdgeData `json:"data" bson:"data"`
}

// Touches reports whether the edge has id as its source or target.
func (e Edge) Touches(id string) bool { return e.Source == id || e.Target == id }

// Connects reports whether the edge joins a and b, in either direction.
func (e Edge) Connects(a, b string) bool {
	return (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a)
}

// Clone returns a deep copy of the edge.
func (e Edge) Clone() Edge {
	e.Data = e.Data.Clone()
	return e
}

// GraphMetadata holds graph-level bookkeeping.
type GraphMetadata struct {
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updated_at"`
	Version   string    `json:"version" bson:"version"`
}

// Graph is a system-architecture diagram: components, connections and
// bookkeeping.
//
// Graph has no mutating operations of its own; edits go through
// pkg/editor so the invariants checked by [Graph.Validate] hold after every
// change. Graph is not safe for concurrent use.
type Graph struct {
	ID          string        `json:"id" bson:"id"`
	Name        string        `json:"name" bson:"name"`
	Description string        `json:"description,omitempty" bson:"description,omitempty"`
	Nodes       []Node        `json:"nodes" bson:"nodes"`
	Edges       []Edge        `json:"edges" bson:"edges"`
	Metadata    GraphMetadata `json:"metadata" bson:"metadata"`
}

// New creates an empty graph stamped with now.
func New(id, name string, now time.Time) *Graph {
	now = now.UTC()
	return &Graph{
		ID:    id,
		Name:  name,
		Nodes: []Node{},
		Edges: []Edge{},
		Metadata: GraphMetadata{
			CreatedAt: now,
			UpdatedAt: now,
			Version:   DefaultVersion,
		},
	}
}

// Node returns a pointer to the node with the given ID. The pointer aliases
// the graph's storage and is invalidated by any change to Nodes.
func (g *Graph) Node(id string) (*Node, bool) {
	if i := g.NodeIndex(id); i >= 0 {
		return &g.Nodes[i], true
	}
	return nil, false
}

// NodeIndex returns the position of node id in Nodes, or -1.
func (g *Graph) NodeIndex(id string) int {
	return slices.IndexFunc(g.Nodes, func(n Node) bool { return n.ID == id })
}

// Edge returns a pointer to the edge with the given ID. The pointer aliases
// the graph's storage and is invalidated by any change to Edges.
func (g *Graph) Edge(id string) (*Edge, bool) {
	if i := g.EdgeIndex(id); i >= 0 {
		return &g.Edges[i], true
	}
	return nil, false
}

// EdgeIndex returns the position of edge id in Edges, or -1.
func (g *Graph) EdgeIndex(id string) int {
	return slices.IndexFunc(g.Edges, func(e Edge) bool { return e.ID == id })
}

// EdgeBetween returns the edge joining a and b in either direction.
func (g *Graph) EdgeBetween(a, b string) (*Edge, bool) {
	i := slices.IndexFunc(g.Edges, func(e Edge) bool { return e.Connects(a, b) })
	if i < 0 {
		return nil, false
	}
	return &g.Edges[i], true
}

// EdgesOf returns copies of every edge touching node id, in order.
func (g *Graph) EdgesOf(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

// NodesOfType returns copies of the nodes with type t, in order.
func (g *Graph) NodesOfType(t NodeType) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := *g
	out.Nodes = make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		out.Nodes[i] = n.Clone()
	}
	out.Edges = make([]Edge, len(g.Edges))
	for i, e := range g.Edges {
		out.Edges[i] = e.Clone()
	}
	return &out
}

// Equal reports whether g and o describe the same graph, ignoring the
// created/updated timestamps.
func (g *Graph) Equal(o *Graph) bool {
	if g == nil || o == nil {
		return g == o
	}
	a, b := g.Clone(), o.Clone()
	a.Metadata.CreatedAt, a.Metadata.UpdatedAt = time.Time{}, time.Time{}
	b.Metadata.CreatedAt, b.Metadata.UpdatedAt = time.Time{}, time.Time{}
	return reflect.DeepEqual(normalize(a), normalize(b))
}

// normalize maps empty collections to nil so that "[]" and "null" compare
// equal, and rewrites Extra values into their JSON-decoded form so that an
// int and the float64 it decodes to compare equal.
func normalize(g *Graph) *Graph {
	if len(g.Nodes) == 0 {
		g.Nodes = nil
	}
	if len(g.Edges) == 0 {
		g.Edges = nil
	}
	for i := range g.Nodes {
		g.Nodes[i].Data.Metadata.Extra = canonicalExtra(g.Nodes[i].Data.Metadata.Extra)
	}
	for i := range g.Edges {
		g.Edges[i].Data.Extra = canonicalExtra(g.Edges[i].Data.Extra)
	}
	return g
}

// canonicalExtra returns m as a JSON round trip would produce it. Maps that
// cannot be encoded are returned unchanged.
func canonicalExtra(m map[string]any) map[string]any {
	if len(m) == 0 {
		return nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return m
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return m
	}
	return out
}

// Validate checks the structural invariants of the graph:
//
//  1. Every node ID is non-empty and unique, and every type is in the catalog
//  2. Every edge ID is non-empty and unique
//  3. Every edge endpoint resolves to a node in the graph
//  4. No two edges join the same unordered pair of nodes
//
// The returned error carries [apperrors.ErrCodeInvalidSnapshot] and wraps one
// of the package sentinels, so both errors.Is and apperrors.Is work on it.
func (g *Graph) Validate() error {
	nodes := make(map[string]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return invalid(ErrInvalidNodeID, "node with empty id")
		}
		if _, dup := nodes[n.ID]; dup {
			return invalid(ErrDuplicateNodeID, "node %q", n.ID)
		}
		if !n.Type.IsValid() {
			return invalid(ErrUnknownNodeType, "node %q has type %q", n.ID, n.Type)
		}
		nodes[n.ID] = struct{}{}
	}

	edges := make(map[string]struct{}, len(g.Edges))
	pairs := make(map[[2]string]string, len(g.Edges))
	for _, e := range g.Edges {
		if e.ID == "" {
			return invalid(ErrInvalidEdgeID, "edge %s->%s has empty id", e.Source, e.Target)
		}
		if _, dup := edges[e.ID]; dup {
			return invalid(ErrDuplicateEdgeID, "edge %q", e.ID)
		}
		edges[e.ID] = struct{}{}

		if _, ok := nodes[e.Source]; !ok {
			return invalid(ErrDanglingEdge, "edge %q source %q", e.ID, e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			return invalid(ErrDanglingEdge, "edge %q target %q", e.ID, e.Target)
		}

		key := PairKey(e.Source, e.Target)
		if other, dup := pairs[key]; dup {
			return invalid(ErrParallelEdge, "edges %q and %q", other, e.ID)
		}
		pairs[key] = e.ID
	}
	return nil
}

func invalid(sentinel error, format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrCodeInvalidSnapshot, sentinel, format, args...)
}

// PairKey returns an order-independent key for the node pair {a, b}.
func PairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
