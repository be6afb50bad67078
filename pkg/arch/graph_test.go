package arch

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

var testTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func buildGraph() *Graph {
	g := New("g1", "Shop", testTime)
	g.Nodes = []Node{
		{ID: "gw", Type: TypeAPIGateway, Data: NodeData{Name: "Gateway"}},
		{ID: "api", Type: TypeAPIService, Data: NodeData{Name: "Orders API", Metadata: Metadata{Extra: map[string]any{"team": "core"}}}},
		{ID: "db", Type: TypeDatabase, Data: NodeData{Name: "Postgres"}},
	}
	g.Edges = []Edge{
		{ID: "e1", Source: "gw", Target: "api", Label: "Route", Data: EdgeData{Protocol: ProtocolHTTPS}},
		{ID: "e2", Source: "api", Target: "db", Label: "Query", Data: EdgeData{Protocol: ProtocolSQL}},
	}
	return g
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *Graph)
		want   error
	}{
		{
			name:   "Valid",
			mutate: func(g *Graph) {},
		},
		{
			name:   "EmptyNodeID",
			mutate: func(g *Graph) { g.Nodes[0].ID = "" },
			want:   ErrInvalidNodeID,
		},
		{
			name:   "DuplicateNodeID",
			mutate: func(g *Graph) { g.Nodes[2].ID = "api" },
			want:   ErrDuplicateNodeID,
		},
		{
			name:   "UnknownType",
			mutate: func(g *Graph) { g.Nodes[0].Type = "mainframe" },
			want:   ErrUnknownNodeType,
		},
		{
			name:   "EmptyEdgeID",
			mutate: func(g *Graph) { g.Edges[0].ID = "" },
			want:   ErrInvalidEdgeID,
		},
		{
			name:   "DuplicateEdgeID",
			mutate: func(g *Graph) { g.Edges[1].ID = "e1" },
			want:   ErrDuplicateEdgeID,
		},
		{
			name:   "DanglingSource",
			mutate: func(g *Graph) { g.Edges[0].Source = "missing" },
			want:   ErrDanglingEdge,
		},
		{
			name:   "DanglingTarget",
			mutate: func(g *Graph) { g.Edges[1].Target = "missing" },
			want:   ErrDanglingEdge,
		},
		{
			name: "ParallelSameDirection",
			mutate: func(g *Graph) {
				g.Edges = append(g.Edges, Edge{ID: "e3", Source: "gw", Target: "api"})
			},
			want: ErrParallelEdge,
		},
		{
			name: "ParallelReverseDirection",
			mutate: func(g *Graph) {
				g.Edges = append(g.Edges, Edge{ID: "e3", Source: "db", Target: "api"})
			},
			want: ErrParallelEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := buildGraph()
			tt.mutate(g)
			err := g.Validate()

			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
			if !apperrors.Is(err, apperrors.ErrCodeInvalidSnapshot) {
				t.Errorf("Validate() code = %v, want %v", apperrors.GetCode(err), apperrors.ErrCodeInvalidSnapshot)
			}
		})
	}
}

func TestLookups(t *testing.T) {
	g := buildGraph()

	if n, ok := g.Node("api"); !ok || n.Data.Name != "Orders API" {
		t.Errorf("Node(api) = %v, %v", n, ok)
	}
	if _, ok := g.Node("missing"); ok {
		t.Error("Node(missing) should not resolve")
	}
	if e, ok := g.Edge("e2"); !ok || e.Label != "Query" {
		t.Errorf("Edge(e2) = %v, %v", e, ok)
	}
	if e, ok := g.EdgeBetween("db", "api"); !ok || e.ID != "e2" {
		t.Errorf("EdgeBetween(db, api) = %v, %v", e, ok)
	}
	if _, ok := g.EdgeBetween("gw", "db"); ok {
		t.Error("EdgeBetween(gw, db) should not resolve")
	}
	if got := len(g.EdgesOf("api")); got != 2 {
		t.Errorf("EdgesOf(api) = %d, want 2", got)
	}
	if got := len(g.NodesOfType(TypeDatabase)); got != 1 {
		t.Errorf("NodesOfType(database) = %d, want 1", got)
	}
}

func TestClone(t *testing.T) {
	g := buildGraph()
	c := g.Clone()

	c.Nodes[0].Data.Name = "changed"
	c.Nodes[1].Data.Metadata.Extra["team"] = "other"
	c.Edges[0].Label = "changed"

	if g.Nodes[0].Data.Name != "Gateway" {
		t.Error("Clone shares node storage")
	}
	if g.Nodes[1].Data.Metadata.Extra["team"] != "core" {
		t.Error("Clone shares metadata maps")
	}
	if g.Edges[0].Label != "Route" {
		t.Error("Clone shares edge storage")
	}
}

func TestEqualIgnoresTimestamps(t *testing.T) {
	a := buildGraph()
	b := buildGraph()
	b.Metadata.UpdatedAt = testTime.Add(time.Hour)

	if !a.Equal(b) {
		t.Error("graphs differing only in timestamps should be equal")
	}

	b.Nodes[0].Position = Position{X: 1}
	if a.Equal(b) {
		t.Error("graphs with different positions should not be equal")
	}
}

func TestEqualComparesExtraByValue(t *testing.T) {
	a := buildGraph()
	b := buildGraph()
	a.Nodes[0].Data.Metadata.Extra = map[string]any{"replicas": 3}
	b.Nodes[0].Data.Metadata.Extra = map[string]any{"replicas": 3.0}

	if !a.Equal(b) {
		t.Error("int and float64 extras with the same value should be equal")
	}
	if _, ok := a.Nodes[0].Data.Metadata.Extra["replicas"].(int); !ok {
		t.Error("Equal rewrote the caller's metadata")
	}

	b.Nodes[0].Data.Metadata.Extra["replicas"] = 4
	if a.Equal(b) {
		t.Error("different extra values should not be equal")
	}
}

func TestStatsExcludesGroups(t *testing.T) {
	g := buildGraph()
	g.Nodes = append(g.Nodes, Node{ID: "tier", Type: TypeGroup, Data: NodeData{Name: "Service Tier"}})
	g.Edges = append(g.Edges, Edge{ID: "e3", Source: "tier", Target: "api"})

	s := g.Stats()
	if s.Components != 3 {
		t.Errorf("Components = %d, want 3", s.Components)
	}
	if s.Connections != 2 {
		t.Errorf("Connections = %d, want 2", s.Connections)
	}
	if s.Groups != 1 {
		t.Errorf("Groups = %d, want 1", s.Groups)
	}
	if s.ByType[TypeGroup] != 0 {
		t.Error("ByType should not count groups")
	}
	if s.ByProtocol[ProtocolSQL] != 1 {
		t.Errorf("ByProtocol[SQL] = %d, want 1", s.ByProtocol[ProtocolSQL])
	}
}

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		input   string
		want    NodeType
		wantErr bool
	}{
		{"database", TypeDatabase, false},
		{"  API-Gateway ", TypeAPIGateway, false},
		{"group", TypeGroup, false},
		{"mainframe", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseNodeType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseNodeType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidNodeType) {
				t.Errorf("ParseNodeType(%q) code = %v", tt.input, apperrors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseNodeType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNodeTypeCatalog(t *testing.T) {
	types := NodeTypes()
	if len(types) < 30 {
		t.Errorf("catalog has %d archetypes, want at least 30", len(types))
	}
	seen := make(map[NodeType]bool)
	for _, nt := range types {
		if seen[nt] {
			t.Errorf("duplicate archetype %q", nt)
		}
		seen[nt] = true
	}
}

func TestDefaultMetadataIsCopied(t *testing.T) {
	m := DefaultMetadata(TypeDatabase)
	if m.Technology != "PostgreSQL" {
		t.Errorf("Technology = %q, want PostgreSQL", m.Technology)
	}
	m.Technology = "MySQL"
	if DefaultMetadata(TypeDatabase).Technology != "PostgreSQL" {
		t.Error("DefaultMetadata returned shared state")
	}
	if g := DefaultMetadata(TypeGroup); g.Technology != "" || g.Port != 0 || g.Extra != nil {
		t.Errorf("group metadata = %+v, want zero value", g)
	}
}
