package editor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/observability"
)

// DuplicateOffset is the distance a duplicated node is shifted on both axes.
const DuplicateOffset = 50.0

// Mutation names reported to observability hooks.
const (
	OpAddNode       = "add_node"
	OpEditNode      = "edit_node"
	OpDuplicateNode = "duplicate_node"
	OpDeleteNode    = "delete_node"
	OpMoveNode      = "move_node"
	OpConnect       = "connect"
	OpRelabelEdge   = "relabel_edge"
	OpDeleteEdge    = "delete_edge"
	OpRelayout      = "relayout"
)

// Editor is the single authority for structural changes to one graph.
//
// Every operation is total: a request that references a missing node or edge
// is a silent no-op that leaves the graph and the Dirty flag untouched and
// reports false. Successful operations refresh the graph's UpdatedAt and mark
// it Dirty until [Editor.MarkSaved].
//
// An Editor has exactly one owner and performs no locking.
type Editor struct {
	g     *arch.Graph
	dirty bool
	newID func() string
	now   func() time.Time

	// issued holds every node and edge ID the graph has carried since the
	// editor took it over, including deleted ones.
	issued map[string]struct{}
}

// Option configures an Editor.
type Option func(*Editor)

// WithIDGenerator replaces the random suffix used for new node and edge IDs.
// The generator need not be globally unique: suffixes that would repeat an
// ID issued earlier in the editor's lifetime are skipped.
func WithIDGenerator(fn func() string) Option {
	return func(e *Editor) { e.newID = fn }
}

// WithClock replaces the wall clock used to stamp UpdatedAt.
func WithClock(fn func() time.Time) Option {
	return func(e *Editor) { e.now = fn }
}

// New returns a Clean editor that owns g. The caller must not modify g
// afterwards except through the editor.
func New(g *arch.Graph, opts ...Option) *Editor {
	e := &Editor{g: g, newID: uuid.NewString, now: time.Now, issued: make(map[string]struct{})}
	for _, opt := range opts {
		opt(e)
	}
	for _, n := range g.Nodes {
		e.issued[n.ID] = struct{}{}
	}
	for _, edge := range g.Edges {
		e.issued[edge.ID] = struct{}{}
	}
	return e
}

// Graph returns the live graph. Callers must treat it as read-only.
func (e *Editor) Graph() *arch.Graph { return e.g }

// Snapshot returns a deep copy of the graph that is safe to serialize or
// hand to another goroutine.
func (e *Editor) Snapshot() *arch.Graph { return e.g.Clone() }

// Dirty reports whether the graph changed since the last save.
func (e *Editor) Dirty() bool { return e.dirty }

// MarkSaved transitions the editor to Clean and stamps UpdatedAt with at.
func (e *Editor) MarkSaved(at time.Time) {
	e.dirty = false
	e.g.Metadata.UpdatedAt = at.UTC()
}

// =============================================================================
// Nodes
// =============================================================================

// AddNodeRequest describes a node to add. Blank Name and Description get
// defaults derived from Type.
type AddNodeRequest struct {
	Type        arch.NodeType `json:"type"`
	Name        string        `json:"name,omitempty"`
	Description string        `json:"description,omitempty"`
	Position    arch.Position `json:"position"`
}

// AddNode appends a node with a fresh ID and the archetype's default
// metadata. An unknown type is a no-op.
func (e *Editor) AddNode(req AddNodeRequest) (string, bool) {
	if !req.Type.IsValid() {
		return "", false
	}
	name := req.Name
	if name == "" {
		name = "New " + string(req.Type)
	}
	desc := req.Description
	if desc == "" {
		desc = "A new " + string(req.Type) + " component"
	}
	id := e.freshID(string(req.Type))
	e.g.Nodes = append(e.g.Nodes, arch.Node{
		ID:       id,
		Type:     req.Type,
		Position: req.Position,
		Data: arch.NodeData{
			Name:        name,
			Description: desc,
			Metadata:    arch.DefaultMetadata(req.Type),
		},
	})
	e.touch(OpAddNode)
	return id, true
}

// EditNode replaces a node's name and description. Type, ID, position and
// metadata are preserved.
func (e *Editor) EditNode(id, name, description string) bool {
	n, ok := e.g.Node(id)
	if !ok {
		return false
	}
	n.Data.Name = name
	n.Data.Description = description
	e.touch(OpEditNode)
	return true
}

// DuplicateNode appends a copy of a node with a fresh ID, offset by
// [DuplicateOffset] on both axes and named "<name> Copy". Metadata is deep
// copied. Edges are not duplicated.
func (e *Editor) DuplicateNode(id string) (string, bool) {
	n, ok := e.g.Node(id)
	if !ok {
		return "", false
	}
	dup := n.Clone()
	dup.ID = e.freshID(string(dup.Type))
	dup.Position = dup.Position.Offset(DuplicateOffset, DuplicateOffset)
	dup.Data.Name += " Copy"
	e.g.Nodes = append(e.g.Nodes, dup)
	e.touch(OpDuplicateNode)
	return dup.ID, true
}

// DeleteNode removes a node and every edge that touches it.
func (e *Editor) DeleteNode(id string) bool {
	i := e.g.NodeIndex(id)
	if i < 0 {
		return false
	}
	e.g.Nodes = append(e.g.Nodes[:i], e.g.Nodes[i+1:]...)
	edges := e.g.Edges[:0]
	for _, edge := range e.g.Edges {
		if !edge.Touches(id) {
			edges = append(edges, edge)
		}
	}
	e.g.Edges = edges
	e.touch(OpDeleteNode)
	return true
}

// MoveNode commits a new position for a node, typically at the end of a
// drag. Group nodes are fixed backdrops and cannot be moved.
func (e *Editor) MoveNode(id string, pos arch.Position) bool {
	n, ok := e.g.Node(id)
	if !ok || n.IsGroup() {
		return false
	}
	n.Position = pos
	e.touch(OpMoveNode)
	return true
}

// =============================================================================
// Edges
// =============================================================================

// ConnectRequest describes a connection between two nodes. A blank Label
// defaults to "Connection"; empty Data defaults to HTTPS with JWT.
type ConnectRequest struct {
	Source string        `json:"source"`
	Target string        `json:"target"`
	Label  string        `json:"label,omitempty"`
	Data   arch.EdgeData `json:"data"`
}

// Connect links source to target. Both endpoints must exist, differ, and be
// non-group nodes. Any edge already joining the pair, in either direction,
// is removed and the new edge is appended under a fresh ID.
func (e *Editor) Connect(req ConnectRequest) (string, bool) {
	if req.Source == req.Target {
		return "", false
	}
	src, ok := e.g.Node(req.Source)
	if !ok || src.IsGroup() {
		return "", false
	}
	tgt, ok := e.g.Node(req.Target)
	if !ok || tgt.IsGroup() {
		return "", false
	}

	label := req.Label
	if label == "" {
		label = arch.DefaultEdgeLabel
	}
	data := req.Data.Clone()
	if data.Protocol == "" && data.Security == "" && len(data.Extra) == 0 {
		data = arch.DefaultEdgeData()
	}

	edges := e.g.Edges[:0]
	for _, edge := range e.g.Edges {
		if !edge.Connects(req.Source, req.Target) {
			edges = append(edges, edge)
		}
	}
	id := e.freshID("e")
	e.g.Edges = append(edges, arch.Edge{
		ID:     id,
		Source: req.Source,
		Target: req.Target,
		Type:   arch.DefaultEdgeType,
		Label:  label,
		Data:   data,
	})
	e.touch(OpConnect)
	return id, true
}

// RelabelEdge replaces an edge's label.
func (e *Editor) RelabelEdge(id, label string) bool {
	edge, ok := e.g.Edge(id)
	if !ok {
		return false
	}
	edge.Label = label
	e.touch(OpRelabelEdge)
	return true
}

// DeleteEdge removes an edge.
func (e *Editor) DeleteEdge(id string) bool {
	i := e.g.EdgeIndex(id)
	if i < 0 {
		return false
	}
	e.g.Edges = append(e.g.Edges[:i], e.g.Edges[i+1:]...)
	e.touch(OpDeleteEdge)
	return true
}

// =============================================================================
// Layout
// =============================================================================

// Relayout repositions every non-group node from a longest-path layering of
// the current edges. An empty graph is left unchanged.
func (e *Editor) Relayout(cfg layout.Config) bool {
	if len(e.g.Nodes) == 0 {
		return false
	}
	cfg.Relayout(e.g)
	e.touch(OpRelayout)
	return true
}

// =============================================================================
// Helpers
// =============================================================================

func (e *Editor) touch(op string) {
	e.dirty = true
	e.g.Metadata.UpdatedAt = e.now().UTC()
	observability.Editor().OnMutation(context.Background(), op, e.g.ID)
}

// freshID returns prefix-suffix for a suffix that yields an ID never issued
// before, and records it. IDs of deleted nodes and edges are not reused.
func (e *Editor) freshID(prefix string) string {
	for {
		id := prefix + "-" + e.newID()
		if _, taken := e.issued[id]; !taken {
			e.issued[id] = struct{}{}
			return id
		}
	}
}
