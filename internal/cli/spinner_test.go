package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf syncBuffer
	s := newSpinner(&buf, "Rendering shop...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering shop...") {
		t.Errorf("message never drawn: %q", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line not cleared on stop: %q", out)
	}
	if s.Cancelled() {
		t.Error("Stop is not a cancellation")
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name  string
		ctx   func() (context.Context, context.CancelFunc)
		start bool
		stop  bool
		want  bool
	}{
		{"cancelled parent", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}, true, false, true},
		{"timed out parent", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), time.Millisecond)
		}, true, false, true},
		{"cancelled then stopped", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}, true, true, true},
		{"stopped without start", func() (context.Context, context.CancelFunc) {
			return context.WithCancel(context.Background())
		}, false, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()
			s := newSpinnerWithContext(ctx, io.Discard, "x")
			if tt.start {
				s.Start()
			}
			time.Sleep(20 * time.Millisecond)
			if tt.stop {
				s.Stop()
			}
			if got := s.Cancelled(); got != tt.want {
				t.Errorf("Cancelled() = %v, want %v", got, tt.want)
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	s := newSpinner(io.Discard, "x")
	s.Start()
	s.Stop()
	s.Stop()
}

// syncBuffer lets the test read what the spinner goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
