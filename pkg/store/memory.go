package store

import (
	"context"
	"sync"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

// MemoryStore keeps graphs in process memory. Graphs are copied on the way
// in and out, so callers never share storage with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]*arch.Graph
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{graphs: make(map[string]*arch.Graph)}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*arch.Graph, error) {
	if err := apperrors.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.graphs[id]
	if !ok {
		return nil, notFound(id)
	}
	return g.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, g *arch.Graph) error {
	if err := checkGraph(g); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[g.ID] = g.Clone()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, id)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.graphs))
	for _, g := range s.graphs {
		out = append(out, Summarize(g))
	}
	sortSummaries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
