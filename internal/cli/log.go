// Package cli implements the archgraph command-line interface.
//
// Commands synthesize starter architectures, render and inspect them, edit
// them one mutation at a time, manage the graph store and run the HTTP
// editor API. The CLI is built using cobra and logs with
// charmbracelet/log.
//
// # Commands
//
//   - synth: Build a graph from a schema and endpoint list
//   - render: Export a graph as JSON, flow, DOT, SVG or PNG
//   - inspect: Summarize a graph, optionally in an interactive browser
//   - edit: Apply one editor operation to a graph file or stored graph
//   - graphs: List, import, export and delete stored graphs
//   - serve: Run the HTTP editor API
//   - cache: Manage the export cache
//   - config: Create and show the config file
//
// # Graph references
//
// Commands that take a graph accept either a path to a JSON snapshot or the
// ID of a graph in the configured store.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered 3 formats (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
