package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/buildinfo"
	"github.com/matzehuels/archgraph/pkg/editor"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/pipeline"
	"github.com/matzehuels/archgraph/pkg/render/flow"
	"github.com/matzehuels/archgraph/pkg/session"
	"github.com/matzehuels/archgraph/pkg/store"
)

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := store.Ping(r.Context(), s.store); err != nil {
		s.writeError(w, r, apperrors.Wrap(apperrors.ErrCodeStorage, err, "store unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// =============================================================================
// Graphs
// =============================================================================

type createResponse struct {
	Graph    *arch.Graph    `json:"graph"`
	Warnings []string       `json:"warnings,omitempty"`
	Status   session.Status `json:"status"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req pipeline.SynthesisRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Name != "" {
		if err := apperrors.ValidateName(req.Name); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Layout == nil {
		cfg := s.layout
		req.Layout = &cfg
	}

	res := s.runner.Synthesize(r.Context(), req)
	sess := s.sessions.Create(res.Graph)
	if err := sess.Save(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{
		Graph:    sess.Snapshot(),
		Warnings: res.Warnings,
		Status:   sess.Status(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if list == nil {
		list = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sessions.Remove(id)
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	opts := flow.Options{ShowEdges: queryBool(r, "edges", true)}
	var out flow.Flow
	sess.Surface(func(sf *flow.Surface) bool {
		out = sf.Project(opts)
		return false
	})
	writeJSON(w, http.StatusOK, out)
}

type statusResponse struct {
	Status    session.Status `json:"status"`
	Dirty     bool           `json:"dirty"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Error     string         `json:"error,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, statusOf(sess))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusOf(sess))
}

func (s *Server) handleRelayout(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) {
		return "", ed.Relayout(s.layout)
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	opts := pipeline.ExportOptions{
		Format:    chi.URLParam(r, "format"),
		ShowEdges: queryBool(r, "edges", true),
		Detailed:  queryBool(r, "detailed", false),
		Refresh:   queryBool(r, "refresh", false),
	}
	data, hit, err := s.runner.ExportWithCacheInfo(r.Context(), sess.Snapshot(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[opts.Format])
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Nodes
// =============================================================================

type editNodeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var req editor.AddNodeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if !req.Type.IsValid() {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeInvalidNodeType, "unknown node type %q", req.Type))
		return
	}
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) { return ed.AddNode(req) })
}

func (s *Server) handleEditNode(w http.ResponseWriter, r *http.Request) {
	var req editNodeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "nodeID")
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) {
		return id, ed.EditNode(id, req.Name, req.Description)
	})
}

func (s *Server) handleDuplicateNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) { return ed.DuplicateNode(id) })
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "nodeID")
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) { return id, ed.DeleteNode(id) })
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	var pos arch.Position
	if err := decode(w, r, &pos); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "nodeID")
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) { return id, ed.MoveNode(id, pos) })
}

// =============================================================================
// Edges
// =============================================================================

type relabelRequest struct {
	Label string `json:"label"`
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req editor.ConnectRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) { return ed.Connect(req) })
}

func (s *Server) handleRelabelEdge(w http.ResponseWriter, r *http.Request) {
	var req relabelRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "edgeID")
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) { return id, ed.RelabelEdge(id, req.Label) })
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "edgeID")
	s.mutate(w, r, func(ed *editor.Editor) (string, bool) { return id, ed.DeleteEdge(id) })
}

// =============================================================================
// Surface changes
// =============================================================================

type changesRequest struct {
	Nodes []flow.NodeChange `json:"nodes"`
	Edges []flow.EdgeChange `json:"edges"`
}

type changesResponse struct {
	Applied int  `json:"applied"`
	Dirty   bool `json:"dirty"`
}

// handleChanges applies a batch of rendering-surface events in order. The
// session's surface keeps drag frames between batches, so a drag commits a
// single move when its end event arrives. Events that match nothing are
// skipped, so a batch never fails as a whole.
func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	var req changesRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var resp changesResponse
	sess.Surface(func(sf *flow.Surface) bool {
		resp.Applied = sf.ApplyNodeChanges(req.Nodes) + sf.ApplyEdgeChanges(req.Edges)
		resp.Dirty = sf.Editor().Dirty()
		return resp.Applied > 0
	})
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Helpers
// =============================================================================

type mutationResponse struct {
	ID    string `json:"id,omitempty"`
	Dirty bool   `json:"dirty"`
}

// session resolves the {id} route parameter, writing an error response when
// the graph cannot be opened.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "id")
	if err := apperrors.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	sess, err := s.sessions.Open(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

// mutate applies op under the session lock. A rejected op answers 404.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, op func(ed *editor.Editor) (string, bool)) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var (
		id    string
		dirty bool
	)
	applied := sess.Mutate(func(ed *editor.Editor) bool {
		var ok bool
		id, ok = op(ed)
		dirty = ed.Dirty()
		return ok
	})
	if !applied {
		s.writeError(w, r, apperrors.New(apperrors.ErrCodeNotFound, "no matching node or edge"))
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{ID: id, Dirty: dirty})
}

func statusOf(sess *session.Session) statusResponse {
	resp := statusResponse{Status: sess.Status(), Dirty: sess.Dirty()}
	sess.View(func(ed *editor.Editor) { resp.UpdatedAt = ed.Graph().Metadata.UpdatedAt })
	if err := sess.Err(); err != nil {
		resp.Error = apperrors.UserMessage(err)
	}
	return resp
}

func queryBool(r *http.Request, key string, def bool) bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
