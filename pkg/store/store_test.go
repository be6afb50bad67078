package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/observability"
)

func testGraph(id string, updated time.Time) *arch.Graph {
	g := arch.New(id, "Graph "+id, updated.Add(-time.Hour))
	g.Metadata.UpdatedAt = updated.UTC()
	g.Nodes = []arch.Node{
		{ID: "tier", Type: arch.TypeGroup, Data: arch.NodeData{Name: "Tier"}},
		{ID: "api", Type: arch.TypeAPIService, Data: arch.NodeData{Name: "API", Metadata: arch.Metadata{Port: 3000}}},
		{ID: "db", Type: arch.TypeDatabase, Data: arch.NodeData{Name: "DB"}},
	}
	g.Edges = []arch.Edge{{ID: "e1", Source: "api", Target: "db", Label: "Query", Data: arch.EdgeData{Protocol: arch.ProtocolSQL}}}
	return g
}

// runStoreTests exercises the Store contract against any backend.
func runStoreTests(t *testing.T, s Store) {
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, "missing")
		if !apperrors.Is(err, apperrors.ErrCodeGraphNotFound) {
			t.Errorf("code = %s, want GRAPH_NOT_FOUND", apperrors.GetCode(err))
		}
		if !errors.Is(err, ErrNotFound) || !apperrors.IsNotFound(err) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})

	t.Run("PutGet", func(t *testing.T) {
		g := testGraph("g1", base)
		if err := s.Put(ctx, g); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "g1")
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if !got.Equal(g) || !got.Metadata.UpdatedAt.Equal(g.Metadata.UpdatedAt) {
			t.Error("stored graph differs")
		}

		got.Nodes[1].Data.Name = "changed"
		again, _ := s.Get(ctx, "g1")
		if again.Nodes[1].Data.Name != "API" {
			t.Error("store shares storage with callers")
		}
	})

	t.Run("PutReplaces", func(t *testing.T) {
		g := testGraph("g1", base.Add(time.Minute))
		g.Name = "Renamed"
		if err := s.Put(ctx, g); err != nil {
			t.Fatalf("Put: %v", err)
		}
		got, err := s.Get(ctx, "g1")
		if err != nil || got.Name != "Renamed" {
			t.Errorf("Get = %v, %v", got, err)
		}
	})

	t.Run("PutRejectsInvalid", func(t *testing.T) {
		bad := testGraph("bad", base)
		bad.Edges = append(bad.Edges, arch.Edge{ID: "e2", Source: "db", Target: "api"})
		if err := s.Put(ctx, bad); !apperrors.Is(err, apperrors.ErrCodeInvalidSnapshot) {
			t.Errorf("err = %v, want INVALID_SNAPSHOT", err)
		}
		if err := s.Put(ctx, testGraph("../escape", base)); !apperrors.Is(err, apperrors.ErrCodeInvalidID) {
			t.Errorf("err = %v, want INVALID_ID", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		if err := s.Put(ctx, testGraph("g2", base.Add(time.Hour))); err != nil {
			t.Fatal(err)
		}
		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("len = %d, want 2", len(list))
		}
		if list[0].ID != "g2" || list[1].ID != "g1" {
			t.Errorf("order = %s, %s", list[0].ID, list[1].ID)
		}
		if list[1].Name != "Renamed" || list[1].Components != 2 || list[1].Connections != 1 {
			t.Errorf("summary = %+v", list[1])
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := s.Delete(ctx, "g2"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if err := s.Delete(ctx, "g2"); err != nil {
			t.Errorf("second Delete: %v", err)
		}
		if _, err := s.Get(ctx, "g2"); !apperrors.IsNotFound(err) {
			t.Errorf("Get after delete = %v", err)
		}
		list, _ := s.List(ctx)
		if len(list) != 1 {
			t.Errorf("len = %d, want 1", len(list))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	runStoreTests(t, s)
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	runStoreTests(t, s)

	if s.Path() != dir {
		t.Errorf("Path = %q", s.Path())
	}
	if _, err := os.Stat(filepath.Join(dir, "g1.json")); err != nil {
		t.Errorf("snapshot file missing: %v", err)
	}
}

func TestFileStoreSkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	ctx := context.Background()

	if err := s.Put(ctx, testGraph("ok", time.Now())); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(dir, "corrupt.json"), []byte("{"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)

	list, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "ok" {
		t.Errorf("list = %+v", list)
	}
	if _, err := s.Get(ctx, "corrupt"); !apperrors.Is(err, apperrors.ErrCodeInvalidSnapshot) {
		t.Errorf("Get corrupt = %v, want INVALID_SNAPSHOT", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Config{Backend: BackendMemory})
	if err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, Config{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	s.Close()

	if _, err := Open(ctx, Config{Backend: "etcd"}); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
	if _, err := Open(ctx, Config{Backend: BackendMongo}); !apperrors.Is(err, apperrors.ErrCodeInvalidConfig) {
		t.Errorf("mongo without uri = %v, want INVALID_CONFIG", err)
	}
}

type recordingStoreHooks struct {
	observability.NoopStoreHooks
	saves, loads int
	lastErr      error
}

func (h *recordingStoreHooks) OnSave(_ context.Context, _, _ string, _ time.Duration, err error) {
	h.saves++
	h.lastErr = err
}

func (h *recordingStoreHooks) OnLoad(_ context.Context, _, _ string, _ time.Duration, err error) {
	h.loads++
	h.lastErr = err
}

func TestInstrumentedStore(t *testing.T) {
	hooks := &recordingStoreHooks{}
	observability.SetStoreHooks(hooks)
	defer observability.Reset()

	ctx := context.Background()
	s := Instrument(NewMemoryStore(), BackendMemory)

	s.Put(ctx, testGraph("g", time.Now()))
	s.Get(ctx, "g")
	s.Get(ctx, "missing")

	if hooks.saves != 1 || hooks.loads != 2 {
		t.Errorf("saves/loads = %d/%d", hooks.saves, hooks.loads)
	}
	if !apperrors.IsNotFound(hooks.lastErr) {
		t.Errorf("last error = %v", hooks.lastErr)
	}
}

func TestPingAndUnwrap(t *testing.T) {
	mem := NewMemoryStore()
	wrapped := Instrument(mem, BackendMemory)
	if Unwrap(wrapped) != Store(mem) {
		t.Error("Unwrap did not return the backend")
	}
	if Unwrap(mem) != Store(mem) {
		t.Error("Unwrap changed an unwrapped store")
	}
	if err := Ping(context.Background(), wrapped); err != nil {
		t.Errorf("Ping local backend: %v", err)
	}
}
