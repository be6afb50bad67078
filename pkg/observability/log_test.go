package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnSynthesize(ctx, "g1", 13, 17, time.Millisecond)
	h.OnMutation(ctx, "connect", "g1")
	h.OnSave(ctx, "redis", "g1", time.Millisecond, errors.New("connection refused"))
	h.OnLoad(ctx, "file", "g1", time.Millisecond, nil)
	h.OnCacheHit(ctx, "export:abc")
	h.OnExportComplete(ctx, "g1", "svg", 2048, time.Millisecond, nil)

	out := buf.String()
	for _, want := range []string{
		"synthesis", "nodes=13",
		"op=connect",
		"store save failed", "connection refused",
		"store load", "backend=file",
		"cache hit",
		"export done", "bytes=2048",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnMutation(context.Background(), "add_node", "g1")
	if buf.Len() != 0 {
		t.Errorf("debug events leaked at info level: %q", buf.String())
	}
}

func TestRegisterLogHooks(t *testing.T) {
	t.Cleanup(Reset)
	h := NewLogHooks(nil)
	RegisterLogHooks(h)

	if Pipeline() != PipelineHooks(h) || Editor() != EditorHooks(h) || Store() != StoreHooks(h) || Cache() != CacheHooks(h) {
		t.Error("RegisterLogHooks should install h everywhere")
	}
}
