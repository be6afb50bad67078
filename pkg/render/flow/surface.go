package flow

import (
	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/editor"
	"github.com/matzehuels/archgraph/pkg/layout"
)

// Change kinds emitted by the rendering surface.
const (
	ChangePosition   = "position"
	ChangeRemove     = "remove"
	ChangeSelect     = "select"
	ChangeDimensions = "dimensions"
)

// NodeChange is an inbound node event from the rendering surface.
type NodeChange struct {
	Type     string         `json:"type"`
	ID       string         `json:"id"`
	Position *arch.Position `json:"position,omitempty"`
	Dragging bool           `json:"dragging,omitempty"`
}

// EdgeChange is an inbound edge event from the rendering surface.
type EdgeChange struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Connection is a connect gesture between two node handles.
type Connection struct {
	Source string        `json:"source"`
	Target string        `json:"target"`
	Label  string        `json:"label,omitempty"`
	Data   arch.EdgeData `json:"data"`
}

// Surface binds a rendering surface to an editor. It owns the transient
// positions of in-progress drags, so a drag reaches the editor as a single
// MoveNode when it ends rather than one mutation per frame.
type Surface struct {
	ed        *editor.Editor
	showEdges bool
	drags     map[string]arch.Position
}

// NewSurface returns a surface over ed with edges visible.
func NewSurface(ed *editor.Editor) *Surface {
	return &Surface{ed: ed, showEdges: true, drags: make(map[string]arch.Position)}
}

// Editor returns the underlying editor.
func (s *Surface) Editor() *editor.Editor { return s.ed }

// ShowEdges reports whether edges are projected.
func (s *Surface) ShowEdges() bool { return s.showEdges }

// SetShowEdges toggles edge visibility. The graph is not modified.
func (s *Surface) SetShowEdges(show bool) { s.showEdges = show }

// Flow projects the current graph with in-progress drag positions applied.
func (s *Surface) Flow() Flow {
	return s.Project(Options{ShowEdges: s.showEdges})
}

// Project is [Surface.Flow] with explicit options instead of the surface's
// own edge visibility.
func (s *Surface) Project(opts Options) Flow {
	f := Project(s.ed.Graph(), opts)
	for i := range f.Nodes {
		if pos, ok := s.drags[f.Nodes[i].ID]; ok {
			f.Nodes[i].Position = pos
		}
	}
	return f
}

// Dragging reports whether a drag of node id is in progress.
func (s *Surface) Dragging(id string) bool {
	_, ok := s.drags[id]
	return ok
}

// ApplyNodeChanges consumes node events in order and returns the number that
// reached the editor. Position changes with Dragging set only update the
// transient copy; the first position change without it commits the final
// position through [editor.Editor.MoveNode]. Selection and dimension
// changes are presentation-only and ignored.
func (s *Surface) ApplyNodeChanges(changes []NodeChange) int {
	applied := 0
	for _, c := range changes {
		switch c.Type {
		case ChangePosition:
			if s.applyPosition(c) {
				applied++
			}
		case ChangeRemove:
			delete(s.drags, c.ID)
			if s.ed.DeleteNode(c.ID) {
				applied++
			}
		}
	}
	return applied
}

func (s *Surface) applyPosition(c NodeChange) bool {
	n, ok := s.ed.Graph().Node(c.ID)
	if !ok || n.IsGroup() {
		delete(s.drags, c.ID)
		return false
	}
	if c.Dragging {
		if c.Position != nil {
			s.drags[c.ID] = *c.Position
		}
		return false
	}

	pos, dragged := s.drags[c.ID]
	delete(s.drags, c.ID)
	if c.Position != nil {
		pos = *c.Position
	} else if !dragged {
		return false
	}
	return s.ed.MoveNode(c.ID, pos)
}

// ApplyEdgeChanges consumes edge events and returns the number that reached
// the editor. Only removals are structural.
func (s *Surface) ApplyEdgeChanges(changes []EdgeChange) int {
	applied := 0
	for _, c := range changes {
		if c.Type == ChangeRemove && s.ed.DeleteEdge(c.ID) {
			applied++
		}
	}
	return applied
}

// Connect forwards a connect gesture to the editor.
func (s *Surface) Connect(c Connection) (string, bool) {
	return s.ed.Connect(editor.ConnectRequest{Source: c.Source, Target: c.Target, Label: c.Label, Data: c.Data})
}

// RemoveEdges deletes the given edges and returns how many existed.
func (s *Surface) RemoveEdges(ids []string) int {
	removed := 0
	for _, id := range ids {
		if s.ed.DeleteEdge(id) {
			removed++
		}
	}
	return removed
}

// RemoveNodes deletes the given nodes, cascading to their edges, and returns
// how many existed.
func (s *Surface) RemoveNodes(ids []string) int {
	removed := 0
	for _, id := range ids {
		delete(s.drags, id)
		if s.ed.DeleteNode(id) {
			removed++
		}
	}
	return removed
}

// AddNodeAt adds a node of type t where the user clicked. screen is in
// surface coordinates and is converted to graph space through vp.
func (s *Surface) AddNodeAt(t arch.NodeType, screen arch.Position, vp layout.Viewport) (string, bool) {
	return s.ed.AddNode(editor.AddNodeRequest{Type: t, Position: vp.ToGraph(screen)})
}
