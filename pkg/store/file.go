package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
)

// FileStore is a file-based graph store for CLI and single-instance use.
// Each graph is stored as one JSON snapshot named <id>.json.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-based store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/archgraph/graphs/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "archgraph", "graphs")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, storageErr(err, "create graph dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) graphPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (*arch.Graph, error) {
	if err := apperrors.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := graph.ReadGraphFile(s.graphPath(id))
	if apperrors.Is(err, apperrors.ErrCodeFileNotFound) {
		return nil, notFound(id)
	}
	return g, err
}

// Put writes the snapshot to a temporary file and renames it into place, so
// readers never observe a partial write.
func (s *FileStore) Put(ctx context.Context, g *arch.Graph) error {
	if err := checkGraph(g); err != nil {
		return err
	}
	data, err := graph.MarshalGraph(g)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.graphPath(g.ID)
	tmp, err := os.CreateTemp(s.baseDir, ".tmp-*")
	if err != nil {
		return storageErr(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return storageErr(err, "write graph file")
	}
	if err := tmp.Close(); err != nil {
		return storageErr(err, "close graph file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return storageErr(err, "rename graph file")
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := apperrors.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.graphPath(id)); err != nil && !os.IsNotExist(err) {
		return storageErr(err, "remove graph file")
	}
	return nil
}

// List reads every snapshot in the directory. Files that fail to decode are
// skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, storageErr(err, "read graph dir")
	}

	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g, err := graph.ReadGraphFile(filepath.Join(s.baseDir, name))
		if err != nil {
			continue
		}
		out = append(out, Summarize(g))
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for graph files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
