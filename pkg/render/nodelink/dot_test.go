package nodelink

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

func testGraph() *arch.Graph {
	g := arch.New("g", "Shop", time.Now())
	g.Nodes = []arch.Node{
		{ID: "tier", Type: arch.TypeGroup, Position: arch.Position{X: 25, Y: 150}, Data: arch.NodeData{Name: "Client Tier"}},
		{ID: "cdn-1", Type: arch.TypeCDN, Position: arch.Position{X: 100, Y: 225}, Data: arch.NodeData{Name: "CDN"}},
		{ID: "db-1", Type: arch.TypeDatabase, Position: arch.Position{X: 1000, Y: 300.5}, Data: arch.NodeData{
			Name: "Primary Database", Color: "#123456",
			Metadata: arch.Metadata{Technology: "PostgreSQL", Port: 5432},
		}},
	}
	g.Edges = []arch.Edge{
		{ID: "e1", Source: "cdn-1", Target: "db-1", Label: "Backup", Data: arch.EdgeData{Protocol: arch.ProtocolEncrypted}},
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(), DefaultOptions())

	wants := []string{
		`digraph "Shop" {`,
		`"cdn-1" [label="CDN", pos="100,-225!", fillcolor="#e0f2fe"];`,
		`"db-1" [label="Primary Database", pos="1000,-300.5!", fillcolor="#123456"];`,
		`"tier" [label="Client Tier", pos="25,-150!", style="rounded,dashed"`,
		`"cdn-1" -> "db-1" [label="Backup", style=dashed];`,
	}
	for _, want := range wants {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s\n%s", want, dot)
		}
	}
	if !strings.HasSuffix(dot, "}\n") {
		t.Error("DOT not terminated")
	}
}

func TestToDOTHiddenEdges(t *testing.T) {
	g := testGraph()
	dot := ToDOT(g, Options{ShowEdges: false})
	if strings.Contains(dot, "->") {
		t.Error("edges should be omitted")
	}
	if len(g.Edges) != 1 {
		t.Error("ToDOT must not modify the graph")
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testGraph(), Options{ShowEdges: true, Detailed: true})

	if !strings.Contains(dot, `label="Primary Database\ndatabase\nPostgreSQL :5432"`) {
		t.Errorf("detailed node label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `label="Backup (Encrypted)"`) {
		t.Errorf("detailed edge label missing:\n%s", dot)
	}
	if !strings.Contains(dot, `"tier" [label="Client Tier"`) {
		t.Error("group labels stay plain")
	}
}

func TestFillColor(t *testing.T) {
	tests := []struct {
		node arch.Node
		want string
	}{
		{arch.Node{Type: arch.TypeCache}, "#fee2e2"},
		{arch.Node{Type: arch.TypeCache, Data: arch.NodeData{Color: "red"}}, "red"},
		{arch.Node{Type: arch.TypeVPN}, DefaultFill},
	}
	for _, tt := range tests {
		if got := FillColor(tt.node); got != tt.want {
			t.Errorf("FillColor(%s) = %q, want %q", tt.node.Type, got, tt.want)
		}
	}
}

func TestRenderDOTPassthrough(t *testing.T) {
	out, err := Render(context.Background(), "digraph {}", FormatDOT)
	if err != nil || string(out) != "digraph {}" {
		t.Errorf("Render(dot) = %q, %v", out, err)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(context.Background(), "digraph {}", "gif")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200">`) {
		t.Errorf("out = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
