// Package session binds an editor to a persistence store and tracks the
// transient save indicator shown by interactive surfaces.
//
// A [Session] owns one [editor.Editor]. Mutations and reads go through
// [Session.Mutate] and [Session.View], which serialize access so the HTTP
// API can share a session between requests. [Session.Save] is optimistic:
//
//	idle --Save--> saving --ok--> saved --(SavedDisplay)--> idle
//	                      \--err--> failed
//
// The editor is marked Clean before the store is called and is never rolled
// back to Dirty when the store fails. The failure is logged and reported
// through [Session.Status] and [Session.Err].
//
// Each session also keeps one [flow.Surface] so that a drag whose frames
// and end arrive in separate calls still commits a single move.
//
// A [Manager] keeps open sessions by graph ID and loads graphs from the
// store on first access.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/editor"
	"github.com/matzehuels/archgraph/pkg/render/flow"
	"github.com/matzehuels/archgraph/pkg/store"
)

// Status is the save indicator.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusFailed Status = "failed"
)

// DefaultSavedDisplay is how long StatusSaved is shown before reverting to
// StatusIdle.
const DefaultSavedDisplay = 2 * time.Second

// Options configures a Session.
type Options struct {
	// SavedDisplay overrides DefaultSavedDisplay when positive.
	SavedDisplay time.Duration
	Logger       *log.Logger
	Clock        func() time.Time
	EditorOpts   []editor.Option
}

// Session is one editing context for one graph.
type Session struct {
	ID string

	mu      sync.Mutex
	ed      *editor.Editor
	surface *flow.Surface
	store   store.Store
	logger  *log.Logger
	now     func() time.Time
	display time.Duration

	status Status
	err    error
	gen    uint64
	timer  *time.Timer
}

// New starts a Clean session over g.
func New(g *arch.Graph, st store.Store, opts Options) *Session {
	s := &Session{
		ID:      g.ID,
		store:   st,
		logger:  opts.Logger,
		now:     opts.Clock,
		display: opts.SavedDisplay,
		status:  StatusIdle,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.display <= 0 {
		s.display = DefaultSavedDisplay
	}
	edOpts := append([]editor.Option{editor.WithClock(s.now)}, opts.EditorOpts...)
	s.ed = editor.New(g, edOpts...)
	s.surface = flow.NewSurface(s.ed)
	return s
}

// Mutate runs fn with exclusive access to the editor and returns its result.
func (s *Session) Mutate(fn func(ed *editor.Editor) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ed)
}

// Surface runs fn with exclusive access to the session's rendering surface
// and returns its result. Drag state held by the surface survives between
// calls.
func (s *Session) Surface(fn func(sf *flow.Surface) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.surface)
}

// View runs fn with exclusive access to the editor. fn must not mutate.
func (s *Session) View(fn func(ed *editor.Editor)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.ed)
}

// Snapshot returns a deep copy of the current graph.
func (s *Session) Snapshot() *arch.Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Snapshot()
}

// Dirty reports whether the graph changed since the last save.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ed.Dirty()
}

// Status returns the current save indicator.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Err returns the error from the last failed save, or nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Save marks the editor Clean, then writes a snapshot to the store. The
// editor stays Clean when the write fails.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	s.stopTimer()
	s.gen++
	gen := s.gen
	s.status = StatusSaving
	s.err = nil
	s.ed.MarkSaved(s.now())
	snap := s.ed.Snapshot()
	s.mu.Unlock()

	start := time.Now()
	err := s.store.Put(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A later save owns the indicator.
		return err
	}
	if err != nil {
		s.status = StatusFailed
		s.err = err
		s.logger.Error("save failed", "graph", s.ID, "error", err)
		return err
	}
	s.status = StatusSaved
	s.logger.Debug("saved graph", "graph", s.ID,
		"nodes", len(snap.Nodes), "edges", len(snap.Edges), "duration", time.Since(start))
	s.timer = time.AfterFunc(s.display, func() { s.resetIndicator(gen) })
	return nil
}

// Close stops the indicator timer.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopTimer()
}

func (s *Session) resetIndicator(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.status == StatusSaved {
		s.status = StatusIdle
	}
}

func (s *Session) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
