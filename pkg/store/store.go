package store

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is wrapped by every backend when a graph does not exist.
	ErrNotFound = errors.New("graph not found")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("store closed")
)

// Store persists architecture graphs by ID. Writes are last-write-wins:
// concurrent Puts of the same ID from different sessions are not merged.
type Store interface {
	// Get loads a graph. A missing graph returns an error with code
	// GRAPH_NOT_FOUND that wraps ErrNotFound.
	Get(ctx context.Context, id string) (*arch.Graph, error)

	// Put creates or replaces a graph.
	Put(ctx context.Context, g *arch.Graph) error

	// Delete removes a graph. Deleting a missing graph is not an error.
	Delete(ctx context.Context, id string) error

	// List returns summaries of all stored graphs, most recently updated first.
	List(ctx context.Context) ([]Summary, error)

	// Close releases backend resources.
	Close() error
}

// Summary describes a stored graph without loading it into an editor.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Components  int       `json:"components"`
	Connections int       `json:"connections"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Summarize builds a summary from a graph. Group nodes are not counted.
func Summarize(g *arch.Graph) Summary {
	stats := g.Stats()
	return Summary{
		ID:          g.ID,
		Name:        g.Name,
		Components:  stats.Components,
		Connections: stats.Connections,
		UpdatedAt:   g.Metadata.UpdatedAt,
	}
}

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func notFound(id string) error {
	return apperrors.Wrap(apperrors.ErrCodeGraphNotFound, ErrNotFound, "graph %q", id)
}

func storageErr(err error, format string, args ...any) error {
	return apperrors.Wrap(apperrors.ErrCodeStorage, err, format, args...)
}

// checkGraph validates a graph before it is written.
func checkGraph(g *arch.Graph) error {
	if g == nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "nil graph")
	}
	if err := apperrors.ValidateID(g.ID); err != nil {
		return err
	}
	return g.Validate()
}
