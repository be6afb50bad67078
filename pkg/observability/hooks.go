// Package observability lets a binary observe synthesis, graph mutations,
// persistence and cache traffic without the core packages depending on a
// metrics or tracing backend.
//
// Each event category has a hook interface with a no-op default. Libraries
// emit through the package-level accessors:
//
//	observability.Pipeline().OnSynthesize(ctx, g.ID, len(g.Nodes), len(g.Edges), time.Since(start))
//
// and main installs real implementations once at startup:
//
//	observability.RegisterLogHooks(observability.NewLogHooks(logger))
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives synthesis and export events.
type PipelineHooks interface {
	// OnSynthesize records a finished synthesis. Synthesis cannot fail.
	OnSynthesize(ctx context.Context, graphID string, nodeCount, edgeCount int, duration time.Duration)
	OnExportStart(ctx context.Context, graphID, format string)
	OnExportComplete(ctx context.Context, graphID, format string, size int, duration time.Duration, err error)
}

// EditorHooks receives one event per applied mutation. Rejected and no-op
// mutations are silent.
type EditorHooks interface {
	OnMutation(ctx context.Context, op, graphID string)
}

// StoreHooks receives every persistence round trip, successful or not.
type StoreHooks interface {
	OnSave(ctx context.Context, backend, graphID string, duration time.Duration, err error)
	OnLoad(ctx context.Context, backend, graphID string, duration time.Duration, err error)
}

// CacheHooks receives export cache traffic. keyType names the kind of
// artifact, not the full key.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op defaults
// =============================================================================

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnSynthesize(context.Context, string, int, int, time.Duration) {}
func (NoopPipelineHooks) OnExportStart(context.Context, string, string)                {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, string, int, time.Duration, error) {
}

type NoopEditorHooks struct{}

func (NoopEditorHooks) OnMutation(context.Context, string, string) {}

type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, time.Duration, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error) {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Registry
// =============================================================================

// slot holds the active implementation for one hook category.
type slot[H any] struct {
	mu   sync.RWMutex
	cur  H
	noop H
}

func newSlot[H any](noop H) *slot[H] {
	return &slot[H]{cur: noop, noop: noop}
}

func (s *slot[H]) get() H {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// set installs h. A nil h leaves the current hooks in place.
func (s *slot[H]) set(h H) {
	if any(h) == nil {
		return
	}
	s.mu.Lock()
	s.cur = h
	s.mu.Unlock()
}

func (s *slot[H]) reset() {
	s.mu.Lock()
	s.cur = s.noop
	s.mu.Unlock()
}

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	editorSlot   = newSlot[EditorHooks](NoopEditorHooks{})
	storeSlot    = newSlot[StoreHooks](NoopStoreHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
)

func SetPipelineHooks(h PipelineHooks) { pipelineSlot.set(h) }
func SetEditorHooks(h EditorHooks)     { editorSlot.set(h) }
func SetStoreHooks(h StoreHooks)       { storeSlot.set(h) }
func SetCacheHooks(h CacheHooks)       { cacheSlot.set(h) }

func Pipeline() PipelineHooks { return pipelineSlot.get() }
func Editor() EditorHooks     { return editorSlot.get() }
func Store() StoreHooks       { return storeSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }

// Reset restores every category to its no-op default.
func Reset() {
	pipelineSlot.reset()
	editorSlot.reset()
	storeSlot.reset()
	cacheSlot.reset()
}
