package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/cache"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/render/flow"
	"github.com/matzehuels/archgraph/pkg/session"
	"github.com/matzehuels/archgraph/pkg/store"
)

type testEnv struct {
	srv   *Server
	store *store.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := log.New(io.Discard)
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	st := store.NewMemoryStore()
	srv := New(Options{
		Store:   st,
		Runner:  pipeline.NewRunner(c, nil, logger),
		Logger:  logger,
		Session: session.Options{SavedDisplay: 10 * time.Millisecond},
	})
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, store: st}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), w.Body.String())
	return v
}

// createGraph synthesizes a graph through the API and returns it.
func (e *testEnv) createGraph(t *testing.T) *arch.Graph {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/graphs", map[string]any{
		"name":      "Shop",
		"schema":    []map[string]string{{"name": "users"}},
		"endpoints": []map[string]any{{"group": "Users", "endpoints": []any{}}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeBody[createResponse](t, w)
	require.NotNil(t, resp.Graph)
	return resp.Graph
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decodeBody[healthResponse](t, w).Status)

	w = e.do(t, http.MethodGet, "/readyz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateAndList(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)

	assert.Equal(t, "Shop", g.Name)
	assert.NotEmpty(t, g.ID)
	assert.NoError(t, g.Validate())

	stored, err := e.store.Get(context.Background(), g.ID)
	require.NoError(t, err, "created graph should be saved")
	assert.True(t, stored.Equal(g))

	w := e.do(t, http.MethodGet, "/api/v1/graphs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[[]store.Summary](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, g.ID, list[0].ID)
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/graphs", strings.NewReader("{"))
	w := httptest.NewRecorder()
	e.srv.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody[errorBody](t, w)
	assert.Equal(t, "INVALID_INPUT", string(body.Error.Code))
}

func TestCreateRejectsBadName(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodPost, "/api/v1/graphs", map[string]any{"name": "Shop\x00"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	list, err := e.store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestGetUnknownGraph(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/v1/graphs/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "GRAPH_NOT_FOUND", string(decodeBody[errorBody](t, w).Error.Code))
}

func TestNodeLifecycle(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)
	base := "/api/v1/graphs/" + g.ID

	w := e.do(t, http.MethodPost, base+"/nodes", map[string]any{
		"type":     "queue",
		"position": map[string]float64{"x": 10, "y": 20},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decodeBody[mutationResponse](t, w)
	assert.True(t, strings.HasPrefix(added.ID, "queue-"))
	assert.True(t, added.Dirty)

	w = e.do(t, http.MethodPatch, base+"/nodes/"+added.ID, map[string]string{"name": "Jobs", "description": "Job queue"})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPut, base+"/nodes/"+added.ID+"/position", map[string]float64{"x": 400, "y": 50})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, base+"/nodes/"+added.ID+"/duplicate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dup := decodeBody[mutationResponse](t, w)

	w = e.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	snap := decodeBody[arch.Graph](t, w)
	n, ok := snap.Node(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Jobs", n.Data.Name)
	assert.Equal(t, arch.Position{X: 400, Y: 50}, n.Position)
	d, ok := snap.Node(dup.ID)
	require.True(t, ok)
	assert.Equal(t, "Jobs Copy", d.Data.Name)
	assert.Equal(t, arch.Position{X: 450, Y: 100}, d.Position)

	w = e.do(t, http.MethodDelete, base+"/nodes/"+added.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodDelete, base+"/nodes/"+added.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", string(decodeBody[errorBody](t, w).Error.Code))
}

func TestAddNodeUnknownType(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)
	w := e.do(t, http.MethodPost, "/api/v1/graphs/"+g.ID+"/nodes", map[string]any{"type": "mainframe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_NODE_TYPE", string(decodeBody[errorBody](t, w).Error.Code))
}

func TestEdgeLifecycle(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)
	base := "/api/v1/graphs/" + g.ID

	cdn := g.NodesOfType(arch.TypeCDN)[0].ID
	db := g.NodesOfType(arch.TypeDatabase)[0].ID

	w := e.do(t, http.MethodPost, base+"/edges", map[string]string{"source": cdn, "target": db})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decodeBody[mutationResponse](t, w)

	w = e.do(t, http.MethodPost, base+"/edges", map[string]string{"source": db, "target": cdn, "label": "Reverse"})
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody[mutationResponse](t, w)
	assert.NotEqual(t, first.ID, second.ID)

	w = e.do(t, http.MethodGet, base, nil)
	snap := decodeBody[arch.Graph](t, w)
	assert.Len(t, snap.EdgesOf(cdn), len(g.EdgesOf(cdn))+1, "connect on a joined pair replaces the edge")
	_, ok := snap.Edge(first.ID)
	assert.False(t, ok)

	w = e.do(t, http.MethodPatch, base+"/edges/"+second.ID, map[string]string{"label": "Mirror"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodPost, base+"/edges", map[string]string{"source": cdn, "target": cdn})
	assert.Equal(t, http.StatusNotFound, w.Code, "self-loop is a no-op")

	w = e.do(t, http.MethodDelete, base+"/edges/"+second.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodPatch, base+"/edges/"+second.ID, map[string]string{"label": "gone"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveAndStatus(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)
	base := "/api/v1/graphs/" + g.ID

	e.do(t, http.MethodPost, base+"/relayout", nil)
	w := e.do(t, http.MethodGet, base+"/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeBody[statusResponse](t, w).Dirty)

	w = e.do(t, http.MethodPost, base+"/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := decodeBody[statusResponse](t, w)
	assert.False(t, st.Dirty)
	assert.Equal(t, session.StatusSaved, st.Status)

	assert.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, base+"/status", nil)
		w := httptest.NewRecorder()
		e.srv.ServeHTTP(w, req)
		var st statusResponse
		return json.Unmarshal(w.Body.Bytes(), &st) == nil && st.Status == session.StatusIdle
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSurfaceChanges(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)
	require.NotEmpty(t, g.Edges)
	base := "/api/v1/graphs/" + g.ID

	var nodeID string
	for _, n := range g.Nodes {
		if !n.IsGroup() {
			nodeID = n.ID
			break
		}
	}
	require.NotEmpty(t, nodeID)

	w := e.do(t, http.MethodPost, base+"/changes", map[string]any{
		"nodes": []map[string]any{{"type": "select", "id": nodeID}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, changesResponse{}, decodeBody[changesResponse](t, w))

	w = e.do(t, http.MethodPost, base+"/changes", map[string]any{
		"nodes": []map[string]any{
			{"type": "position", "id": nodeID, "dragging": true, "position": map[string]float64{"x": 1, "y": 1}},
			{"type": "position", "id": nodeID, "dragging": true, "position": map[string]float64{"x": 2, "y": 2}},
			{"type": "position", "id": nodeID},
		},
		"edges": []map[string]any{{"type": "remove", "id": g.Edges[0].ID}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, changesResponse{Applied: 2, Dirty: true}, decodeBody[changesResponse](t, w))

	got := decodeBody[arch.Graph](t, e.do(t, http.MethodGet, base, nil))
	n, ok := got.Node(nodeID)
	require.True(t, ok)
	assert.Equal(t, arch.Position{X: 2, Y: 2}, n.Position)
	assert.Len(t, got.Edges, len(g.Edges)-1)
}

func TestSurfaceDragAcrossRequests(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)
	base := "/api/v1/graphs/" + g.ID

	var node arch.Node
	for _, n := range g.Nodes {
		if !n.IsGroup() {
			node = n
			break
		}
	}
	require.NotEmpty(t, node.ID)

	w := e.do(t, http.MethodPost, base+"/changes", map[string]any{
		"nodes": []map[string]any{
			{"type": "position", "id": node.ID, "dragging": true, "position": map[string]float64{"x": 7, "y": 7}},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, changesResponse{}, decodeBody[changesResponse](t, w))

	// The in-progress drag shows in the projection but not in the graph.
	f := decodeBody[flow.Flow](t, e.do(t, http.MethodGet, base+"/flow", nil))
	for _, n := range f.Nodes {
		if n.ID == node.ID {
			assert.Equal(t, arch.Position{X: 7, Y: 7}, n.Position)
		}
	}
	got := decodeBody[arch.Graph](t, e.do(t, http.MethodGet, base, nil))
	n, _ := got.Node(node.ID)
	assert.Equal(t, node.Position, n.Position)

	w = e.do(t, http.MethodPost, base+"/changes", map[string]any{
		"nodes": []map[string]any{{"type": "position", "id": node.ID}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, changesResponse{Applied: 1, Dirty: true}, decodeBody[changesResponse](t, w))

	got = decodeBody[arch.Graph](t, e.do(t, http.MethodGet, base, nil))
	n, _ = got.Node(node.ID)
	assert.Equal(t, arch.Position{X: 7, Y: 7}, n.Position)
}

func TestFlow(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)

	w := e.do(t, http.MethodGet, "/api/v1/graphs/"+g.ID+"/flow", nil)
	require.Equal(t, http.StatusOK, w.Code)
	f := decodeBody[flow.Flow](t, w)
	assert.Len(t, f.Nodes, len(g.Nodes))
	assert.Len(t, f.Edges, len(g.Edges))

	w = e.do(t, http.MethodGet, "/api/v1/graphs/"+g.ID+"/flow?edges=false", nil)
	f = decodeBody[flow.Flow](t, w)
	assert.Len(t, f.Nodes, len(g.Nodes))
	assert.Empty(t, f.Edges)
}

func TestExport(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)
	base := "/api/v1/graphs/" + g.ID

	w := e.do(t, http.MethodGet, base+"/export.dot", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/vnd.graphviz", w.Header().Get("Content-Type"))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "digraph"))

	w = e.do(t, http.MethodGet, base+"/export.dot", nil)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))

	w = e.do(t, http.MethodGet, base+"/export.json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, g.ID, decodeBody[arch.Graph](t, w).ID)

	w = e.do(t, http.MethodGet, base+"/export.pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FORMAT", string(decodeBody[errorBody](t, w).Error.Code))
}

func TestDeleteGraph(t *testing.T) {
	e := newTestEnv(t)
	g := e.createGraph(t)

	w := e.do(t, http.MethodDelete, "/api/v1/graphs/"+g.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, ok := e.srv.Sessions().Get(g.ID)
	assert.False(t, ok)

	w = e.do(t, http.MethodGet, "/api/v1/graphs/"+g.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	srv := New(Options{Store: store.NewMemoryStore(), Logger: log.New(io.Discard), AllowedOrigin: "*"})
	defer srv.Close()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/graphs", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"GRAPH_NOT_FOUND", http.StatusNotFound},
		{"INVALID_ID", http.StatusBadRequest},
		{"STORAGE", http.StatusServiceUnavailable},
		{"RENDER", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := apperrors.New(apperrors.Code(tt.code), "test")
			assert.Equal(t, tt.want, statusFor(err))
		})
	}
}
