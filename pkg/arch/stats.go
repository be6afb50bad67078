package arch

// Stats summarizes a graph for display. Group backdrops are reported
// separately and never contribute to Components, Connections or ByType.
type Stats struct {
	Components  int              `json:"components"`
	Connections int              `json:"connections"`
	Groups      int              `json:"groups,omitempty"`
	ByType      map[NodeType]int `json:"byType,omitempty"`
	ByProtocol  map[string]int   `json:"byProtocol,omitempty"`
}

// Stats counts the components and connections of g.
func (g *Graph) Stats() Stats {
	s := Stats{
		ByType:     make(map[NodeType]int),
		ByProtocol: make(map[string]int),
	}
	groups := make(map[string]bool)
	for _, n := range g.Nodes {
		if n.IsGroup() {
			groups[n.ID] = true
			s.Groups++
			continue
		}
		s.Components++
		s.ByType[n.Type]++
	}
	for _, e := range g.Edges {
		if groups[e.Source] || groups[e.Target] {
			continue
		}
		s.Connections++
		if e.Data.Protocol != "" {
			s.ByProtocol[e.Data.Protocol]++
		}
	}
	return s
}

// ComponentCount returns the number of non-group nodes.
func (g *Graph) ComponentCount() int { return g.Stats().Components }

// ConnectionCount returns the number of edges between non-group nodes.
func (g *Graph) ConnectionCount() int { return g.Stats().Connections }
