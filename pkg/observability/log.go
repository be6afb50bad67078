package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level events to
// a charmbracelet logger. The CLI registers it so that -v traces synthesis,
// mutations, store traffic and cache hits.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l, or to the default logger if l is
// nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

// RegisterLogHooks installs h for all four event categories.
func RegisterLogHooks(h *LogHooks) {
	SetPipelineHooks(h)
	SetEditorHooks(h)
	SetStoreHooks(h)
	SetCacheHooks(h)
}

func (h *LogHooks) OnSynthesize(_ context.Context, graphID string, nodeCount, edgeCount int, d time.Duration) {
	h.Logger.Debug("synthesis", "graph", graphID, "nodes", nodeCount, "edges", edgeCount, "duration", d)
}

func (h *LogHooks) OnExportStart(_ context.Context, graphID, format string) {
	h.Logger.Debug("export start", "graph", graphID, "format", format)
}

func (h *LogHooks) OnExportComplete(_ context.Context, graphID, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("export failed", "graph", graphID, "format", format, "error", err)
		return
	}
	h.Logger.Debug("export done", "graph", graphID, "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnMutation(_ context.Context, op, graphID string) {
	h.Logger.Debug("mutation", "op", op, "graph", graphID)
}

func (h *LogHooks) OnSave(_ context.Context, backend, graphID string, d time.Duration, err error) {
	h.storeEvent("save", backend, graphID, d, err)
}

func (h *LogHooks) OnLoad(_ context.Context, backend, graphID string, d time.Duration, err error) {
	h.storeEvent("load", backend, graphID, d, err)
}

func (h *LogHooks) storeEvent(op, backend, graphID string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("store "+op+" failed", "backend", backend, "graph", graphID, "error", err)
		return
	}
	h.Logger.Debug("store "+op, "backend", backend, "graph", graphID, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, key string) {
	h.Logger.Debug("cache hit", "key", key)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, key string) {
	h.Logger.Debug("cache miss", "key", key)
}

func (h *LogHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.Logger.Debug("cache set", "key", key, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ EditorHooks   = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
