package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	spinnerFrames   = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"
	spinnerInterval = 80 * time.Millisecond
)

// spinner redraws a single status line until it is stopped or its parent
// context ends.
type spinner struct {
	w      io.Writer
	msg    string
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	wg      sync.WaitGroup
	once    sync.Once
	stopped atomic.Bool
	aborted atomic.Bool
}

func newSpinner(w io.Writer, msg string) *spinner {
	return newSpinnerWithContext(context.Background(), w, msg)
}

func newSpinnerWithContext(parent context.Context, w io.Writer, msg string) *spinner {
	ctx, cancel := context.WithCancel(parent)
	return &spinner{w: w, msg: msg, parent: parent, ctx: ctx, cancel: cancel}
}

// Start draws the first frame and keeps animating in the background.
func (s *spinner) Start() {
	s.wg.Add(1)
	go s.spin()
}

func (s *spinner) spin() {
	defer s.wg.Done()
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	frames := []rune(spinnerFrames)
	for i := 0; ; i++ {
		fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(string(frames[i%len(frames)])), StyleDim.Render(s.msg))
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))
			return
		case <-ticker.C:
		}
	}
}

// Stop ends the animation and clears the line. Repeated calls are no-ops.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.aborted.Store(s.parent.Err() != nil)
		s.cancel()
		s.wg.Wait()
		s.stopped.Store(true)
	})
}

// Cancelled reports whether the parent context ended. After Stop it answers
// for the moment Stop was called.
func (s *spinner) Cancelled() bool {
	if s.stopped.Load() {
		return s.aborted.Load()
	}
	return s.parent.Err() != nil
}
