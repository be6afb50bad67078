package synth

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

// LoadHigh is the expected-load value that adds a cache tier.
const LoadHigh = "High"

// Column is a single column of a normalized table.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	PrimaryKey bool   `json:"primaryKey,omitempty"`
	References string `json:"references,omitempty"`
}

// Table is one table of the normalized database schema.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns,omitempty"`
}

// ScalingInsights carries the load expectation from schema analysis.
type ScalingInsights struct {
	ExpectedLoad string `json:"expectedLoad,omitempty"`
}

// DatabaseRecommendation names a database engine suggested for the schema.
// The first entry is the top recommendation.
type DatabaseRecommendation struct {
	Name   string `json:"name"`
	Reason string `json:"reason,omitempty"`
}

// Analysis is the optional analysis block attached to a schema.
type Analysis struct {
	ScalingInsights         *ScalingInsights         `json:"scalingInsights,omitempty"`
	DatabaseRecommendations []DatabaseRecommendation `json:"databaseRecommendations,omitempty"`
}

// SchemaInput is the normalized schema produced by the schema designer.
type SchemaInput struct {
	Schemas  []Table   `json:"schemas"`
	Analysis *Analysis `json:"analysis,omitempty"`
}

// TableCount returns the number of named tables. A nil input has none.
func (s *SchemaInput) TableCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, t := range s.Schemas {
		if strings.TrimSpace(t.Name) != "" {
			n++
		}
	}
	return n
}

// ExpectedLoad returns the analysis load expectation, or "" if absent.
func (s *SchemaInput) ExpectedLoad() string {
	if s == nil || s.Analysis == nil || s.Analysis.ScalingInsights == nil {
		return ""
	}
	return strings.TrimSpace(s.Analysis.ScalingInsights.ExpectedLoad)
}

// HighLoad reports whether the analysis signals high expected load.
func (s *SchemaInput) HighLoad() bool {
	return strings.EqualFold(s.ExpectedLoad(), LoadHigh)
}

// TopRecommendation returns the name of the first database recommendation
// with a non-blank name.
func (s *SchemaInput) TopRecommendation() (string, bool) {
	if s == nil || s.Analysis == nil {
		return "", false
	}
	for _, r := range s.Analysis.DatabaseRecommendations {
		if name := strings.TrimSpace(r.Name); name != "" {
			return name, true
		}
	}
	return "", false
}

// EndpointGroup is a named group of API endpoints. Endpoint entries are kept
// raw; only their count matters to synthesis.
type EndpointGroup struct {
	Group     string            `json:"group"`
	Endpoints []json.RawMessage `json:"endpoints"`
}

// EndpointInput is the grouped endpoint list produced by the API designer.
type EndpointInput struct {
	Endpoints []EndpointGroup `json:"endpoints"`
}

// Group is a distinct endpoint group with its total endpoint count.
type Group struct {
	Name          string
	EndpointCount int
}

// Groups returns the distinct group names in first-seen order. Names are
// compared after trimming surrounding space; blank names are skipped.
// Endpoint counts of repeated groups are summed.
func (e *EndpointInput) Groups() []Group {
	if e == nil {
		return nil
	}
	var groups []Group
	index := make(map[string]int)
	for _, eg := range e.Endpoints {
		name := strings.TrimSpace(eg.Group)
		if name == "" {
			continue
		}
		if i, ok := index[name]; ok {
			groups[i].EndpointCount += len(eg.Endpoints)
			continue
		}
		index[name] = len(groups)
		groups = append(groups, Group{Name: name, EndpointCount: len(eg.Endpoints)})
	}
	return groups
}

// HasAuth reports whether any group name contains "auth", ignoring case.
func (e *EndpointInput) HasAuth() bool {
	for _, g := range e.Groups() {
		if strings.Contains(strings.ToLower(g.Name), "auth") {
			return true
		}
	}
	return false
}

// =============================================================================
// Lenient decoding
// =============================================================================

// ParseSchemaInput decodes a schema document. Both the wrapped form
// {"schemas": [...], "analysis": {...}} and a bare array of tables are
// accepted. Malformed input yields an empty, non-nil input together with an
// INVALID_INPUT error; synthesis can proceed with the empty value.
func ParseSchemaInput(data []byte) (*SchemaInput, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &SchemaInput{}, nil
	}
	if data[0] == '[' {
		var tables []Table
		if err := json.Unmarshal(data, &tables); err != nil {
			return &SchemaInput{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed schema input")
		}
		return &SchemaInput{Schemas: tables}, nil
	}
	var s SchemaInput
	if err := json.Unmarshal(data, &s); err != nil {
		return &SchemaInput{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed schema input")
	}
	return &s, nil
}

// ParseEndpointInput decodes an endpoint document. Both the wrapped form
// {"endpoints": [...]} and a bare array of groups are accepted. Malformed
// input yields an empty, non-nil input together with an INVALID_INPUT error.
func ParseEndpointInput(data []byte) (*EndpointInput, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &EndpointInput{}, nil
	}
	if data[0] == '[' {
		var groups []EndpointGroup
		if err := json.Unmarshal(data, &groups); err != nil {
			return &EndpointInput{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed endpoint input")
		}
		return &EndpointInput{Endpoints: groups}, nil
	}
	var e EndpointInput
	if err := json.Unmarshal(data, &e); err != nil {
		return &EndpointInput{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "malformed endpoint input")
	}
	return &e, nil
}

// ReadSchemaInput reads and leniently decodes a schema document from r.
func ReadSchemaInput(r io.Reader) (*SchemaInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return &SchemaInput{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read schema input")
	}
	return ParseSchemaInput(data)
}

// ReadEndpointInput reads and leniently decodes an endpoint document from r.
func ReadEndpointInput(r io.Reader) (*EndpointInput, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return &EndpointInput{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read endpoint input")
	}
	return ParseEndpointInput(data)
}
