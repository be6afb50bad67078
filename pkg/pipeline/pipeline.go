// Package pipeline runs the synthesize → layout → export flow shared by the
// CLI and the HTTP API.
//
// # Stages
//
//  1. Synthesize: decode schema and endpoint inputs leniently and build a
//     laid-out starter graph with pkg/synth.
//  2. Export: project the graph to JSON, a flow projection, DOT, SVG or PNG.
//
// Exports are cached by a hash of the serialized graph plus the export
// options, so re-exporting an unchanged graph is a cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Execute(ctx, pipeline.SynthesisRequest{
//	    Name:      "Shop",
//	    Schema:    schemaJSON,
//	    Endpoints: endpointsJSON,
//	}, pipeline.ExportOptions{Format: pipeline.FormatSVG, ShowEdges: true})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("shop.svg", res.Artifact, 0644)
package pipeline

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/layout"
)

// =============================================================================
// Formats
// =============================================================================

// Export formats.
const (
	FormatJSON = "json"
	FormatFlow = "flow"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// DefaultFormat is used when ExportOptions.Format is empty.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatFlow: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatJSON: "application/json",
	FormatFlow: "application/json",
	FormatDOT:  "text/vnd.graphviz",
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
}

// ValidateFormat reports an INVALID_FORMAT error for unknown formats.
// Formats are case-sensitive.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format %q (must be one of: %s)", format, strings.Join(FormatNames(), ", "))
	}
	return nil
}

// FormatNames returns the supported formats in sorted order.
func FormatNames() []string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// =============================================================================
// Options
// =============================================================================

// SynthesisRequest is the input to [Runner.Synthesize]. Schema and Endpoints
// hold raw JSON in either the wrapped or the bare-array form; either may be
// empty.
type SynthesisRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"`
	Endpoints   json.RawMessage `json:"endpoints,omitempty"`
	TierGroups  bool            `json:"tier_groups,omitempty"`
	Layout      *layout.Config  `json:"layout,omitempty"`
}

// ExportOptions selects an export format and its presentation.
type ExportOptions struct {
	Format    string `json:"format"`
	ShowEdges bool   `json:"show_edges"`
	Detailed  bool   `json:"detailed,omitempty"`
	// Refresh bypasses the cache read; the result is still cached.
	Refresh bool `json:"refresh,omitempty"`
}

// DefaultExportOptions returns SVG with edges shown.
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Format: DefaultFormat, ShowEdges: true}
}

func (o *ExportOptions) setDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
}

// =============================================================================
// Results
// =============================================================================

// Synthesis is the outcome of [Runner.Synthesize]. Warnings lists inputs
// that could not be decoded and were treated as empty.
type Synthesis struct {
	Graph    *arch.Graph
	Warnings []string
}

// Result is the outcome of [Runner.Execute].
type Result struct {
	Graph     *arch.Graph
	GraphHash string
	Artifact  []byte
	Format    string
	Warnings  []string
	Stats     Stats
	CacheHit  bool
}

// Stats holds sizes and timings for one run.
type Stats struct {
	Components    int
	Connections   int
	SynthesisTime time.Duration
	ExportTime    time.Duration
}
