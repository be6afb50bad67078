package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

func sampleGraph() *arch.Graph {
	g := arch.New("g1", "Shop", time.Date(2024, 5, 1, 12, 30, 15, 123456789, time.UTC))
	g.Description = "demo"
	g.Nodes = []arch.Node{
		{ID: "cdn-1", Type: arch.TypeCDN, Position: arch.Position{X: 100, Y: 225}, Data: arch.NodeData{
			Name: "CDN", Metadata: arch.Metadata{Technology: "CloudFront"},
		}},
		{ID: "db-1", Type: arch.TypeDatabase, Position: arch.Position{X: 1000, Y: 300.5}, Data: arch.NodeData{
			Name: "DB", Color: "#336791", Explanation: "stores orders",
			Metadata: arch.Metadata{Technology: "PostgreSQL", Port: 5432, TableCount: 3, Extra: map[string]any{"tier": "gold"}},
		}},
		{ID: "tier", Type: arch.TypeGroup, Data: arch.NodeData{Name: "Client Tier"}},
	}
	g.Edges = []arch.Edge{
		{ID: "e1", Source: "cdn-1", Target: "db-1", Type: arch.DefaultEdgeType, Label: "Query",
			Data: arch.EdgeData{Protocol: arch.ProtocolSQL, Extra: map[string]any{"pool": "main"}}},
	}
	g.Metadata.UpdatedAt = g.Metadata.UpdatedAt.Add(time.Hour)
	return g
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *arch.Graph)
	}{
		{"sample", func(*arch.Graph) {}},
		{"numeric extra", func(g *arch.Graph) {
			g.Nodes[1].Data.Metadata.Extra["replicas"] = 3
			g.Nodes[1].Data.Metadata.Extra["shards"] = int64(12)
			g.Edges[0].Data.Extra["timeoutMs"] = uint16(250)
		}},
		{"nested extra", func(g *arch.Graph) {
			g.Nodes[0].Data.Metadata.Extra = map[string]any{"regions": []string{"eu", "us"}, "limits": map[string]int{"rps": 100}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := sampleGraph()
			tt.mutate(g)

			data, err := MarshalGraph(g)
			if err != nil {
				t.Fatalf("MarshalGraph: %v", err)
			}
			got, err := UnmarshalGraph(data)
			if err != nil {
				t.Fatalf("UnmarshalGraph: %v", err)
			}

			if !got.Equal(g) || !g.Equal(got) {
				t.Errorf("round trip changed the graph:\n%s", data)
			}
			if !got.Metadata.CreatedAt.Equal(g.Metadata.CreatedAt) || !got.Metadata.UpdatedAt.Equal(g.Metadata.UpdatedAt) {
				t.Errorf("timestamps = %v / %v", got.Metadata.CreatedAt, got.Metadata.UpdatedAt)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}

func TestMarshalGraphFormat(t *testing.T) {
	data, err := MarshalGraph(sampleGraph())
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	meta := raw["metadata"].(map[string]any)
	if meta["createdAt"] != "2024-05-01T12:30:15.123456789Z" {
		t.Errorf("createdAt = %v", meta["createdAt"])
	}
	if meta["version"] != arch.DefaultVersion {
		t.Errorf("version = %v", meta["version"])
	}
	for _, key := range []string{`"tableCount": 3`, `"source": "cdn-1"`, `"type": "smoothstep"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("output missing %s", key)
		}
	}
}

func TestReadGraph(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNodes int
		wantEdges int
		wantErr   error
	}{
		{
			name: "Valid",
			input: `{"id":"g","name":"x","nodes":[
				{"id":"a","type":"frontend","position":{"x":1,"y":2},"data":{"name":"A","metadata":{}}},
				{"id":"b","type":"database","position":{"x":3,"y":4},"data":{"name":"B","metadata":{}}}
			],"edges":[{"id":"e","source":"a","target":"b","label":"Query","data":{}}]}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:      "NullEntriesDropped",
			input:     `{"id":"g","nodes":[null,{"id":"a","type":"cdn","data":{"name":"A"}},null],"edges":[null]}`,
			wantNodes: 1,
			wantEdges: 0,
		},
		{
			name:  "Empty",
			input: `{"id":"g","nodes":[],"edges":[]}`,
		},
		{
			name:    "DanglingEdge",
			input:   `{"nodes":[{"id":"a","type":"cdn"}],"edges":[{"id":"e","source":"a","target":"ghost"}]}`,
			wantErr: arch.ErrDanglingEdge,
		},
		{
			name: "ParallelEdge",
			input: `{"nodes":[{"id":"a","type":"cdn"},{"id":"b","type":"frontend"}],
				"edges":[{"id":"e1","source":"a","target":"b"},{"id":"e2","source":"b","target":"a"}]}`,
			wantErr: arch.ErrParallelEdge,
		},
		{
			name:    "DuplicateNode",
			input:   `{"nodes":[{"id":"a","type":"cdn"},{"id":"a","type":"cdn"}]}`,
			wantErr: arch.ErrDuplicateNodeID,
		},
		{
			name:    "UnknownType",
			input:   `{"nodes":[{"id":"a","type":"mainframe"}]}`,
			wantErr: arch.ErrUnknownNodeType,
		},
		{
			name: "UnknownTypeRejectsWholeSnapshot",
			input: `{"nodes":[{"id":"a","type":"cdn"},{"id":"b","type":"mainframe"}],
				"edges":[{"id":"e","source":"a","target":"b"}]}`,
			wantErr: arch.ErrUnknownNodeType,
		},
		{
			name:    "Invalid",
			input:   `{invalid json}`,
			wantErr: errAny,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadGraph(strings.NewReader(tt.input))

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !apperrors.Is(err, apperrors.ErrCodeInvalidSnapshot) {
					t.Errorf("code = %s, want INVALID_SNAPSHOT", apperrors.GetCode(err))
				}
				if tt.wantErr != errAny && !errors.Is(err, tt.wantErr) {
					t.Errorf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadGraph: %v", err)
			}
			if len(g.Nodes) != tt.wantNodes || len(g.Edges) != tt.wantEdges {
				t.Errorf("nodes/edges = %d/%d, want %d/%d", len(g.Nodes), len(g.Edges), tt.wantNodes, tt.wantEdges)
			}
			if g.Metadata.Version != arch.DefaultVersion {
				t.Errorf("version = %q, want default", g.Metadata.Version)
			}
		})
	}
}

var errAny = errors.New("any error")

func TestGraphFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.json")

	g := sampleGraph()
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if !got.Equal(g) {
		t.Error("file round trip changed the graph")
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat: %v", err)
	}
}

func TestGraphFileFailedWriteKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.json")

	if err := WriteGraphFile(sampleGraph(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	bad := sampleGraph()
	bad.Nodes[0].Data.Metadata.Extra = map[string]any{"hook": make(chan int)}
	if err := WriteGraphFile(bad, path); err == nil {
		t.Fatal("expected an encode error")
	}
	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("failed write modified the existing file")
	}

	g := sampleGraph()
	g.Nodes[0].Data.Name = "Edge CDN"
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Nodes[0].Data.Name != "Edge CDN" {
		t.Errorf("name = %q after overwrite", got.Nodes[0].Data.Name)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory holds %v, want only shop.json", names)
	}
}

func TestReadGraphFileNotFound(t *testing.T) {
	_, err := ReadGraphFile(filepath.Join(t.TempDir(), "missing.json"))
	if !apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestFromGraphIsIndependent(t *testing.T) {
	g := sampleGraph()
	s := FromGraph(g)
	s.Nodes[0].Data.Name = "changed"
	s.Edges[0].Data.Extra["pool"] = "other"

	if g.Nodes[0].Data.Name != "CDN" || g.Edges[0].Data.Extra["pool"] != "main" {
		t.Error("snapshot shares storage with the graph")
	}
}
