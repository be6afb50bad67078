package graph

import (
	"github.com/matzehuels/archgraph/pkg/arch"
)

// =============================================================================
// Snapshot - Persistence Wire Format
// =============================================================================

// Snapshot is the canonical serialization format for architecture graphs.
// Used for saved files, store values, API responses, and cache entries.
//
// Nodes and edges decode into pointer slices so that null entries written by
// other tools can be detected and dropped at the boundary. Inside the core a
// graph never contains a null node.
type Snapshot struct {
	ID          string             `json:"id" bson:"id"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Nodes       []*arch.Node       `json:"nodes" bson:"nodes"`
	Edges       []*arch.Edge       `json:"edges" bson:"edges"`
	Metadata    arch.GraphMetadata `json:"metadata" bson:"metadata"`
}

// FromGraph converts a graph into its wire form. The snapshot shares no
// storage with g.
func FromGraph(g *arch.Graph) Snapshot {
	c := g.Clone()
	s := Snapshot{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Nodes:       make([]*arch.Node, len(c.Nodes)),
		Edges:       make([]*arch.Edge, len(c.Edges)),
		Metadata:    c.Metadata,
	}
	for i := range c.Nodes {
		s.Nodes[i] = &c.Nodes[i]
	}
	for i := range c.Edges {
		s.Edges[i] = &c.Edges[i]
	}
	return s
}

// ToGraph converts a snapshot into a graph. Null nodes and edges are
// dropped, a missing version is filled in, and the result is validated:
// duplicate IDs, dangling edges, parallel edges, and unknown node types are
// rejected with an INVALID_SNAPSHOT error.
func (s Snapshot) ToGraph() (*arch.Graph, error) {
	g := &arch.Graph{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Nodes:       make([]arch.Node, 0, len(s.Nodes)),
		Edges:       make([]arch.Edge, 0, len(s.Edges)),
		Metadata:    s.Metadata,
	}
	for _, n := range s.Nodes {
		if n != nil {
			g.Nodes = append(g.Nodes, n.Clone())
		}
	}
	for _, e := range s.Edges {
		if e != nil {
			g.Edges = append(g.Edges, e.Clone())
		}
	}
	if g.Metadata.Version == "" {
		g.Metadata.Version = arch.DefaultVersion
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}
