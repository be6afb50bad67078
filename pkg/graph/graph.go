package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a graph to indented JSON bytes.
func MarshalGraph(g *arch.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a graph to a JSON file. The graph is encoded into a
// temporary file in the same directory and renamed over path, so a failed
// write leaves any existing file untouched.
func WriteGraphFile(g *arch.Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "create %s", path)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "close %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return apperrors.Wrap(apperrors.ErrCodeStorage, err, "rename %s", path)
	}
	return nil
}

// WriteGraph writes a graph as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g *arch.Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded graph.
// A missing file is reported with FILE_NOT_FOUND.
func ReadGraphFile(path string) (*arch.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeStorage, err, "open %s", path)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
// Use ReadGraphFile for files or pass bytes.NewReader for in-memory data.
func ReadGraph(r io.Reader) (*arch.Graph, error) {
	return readGraphFrom(r)
}

// UnmarshalGraph decodes a JSON graph from bytes.
func UnmarshalGraph(data []byte) (*arch.Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *arch.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

func readGraphFrom(r io.Reader) (*arch.Graph, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidSnapshot, err, "decode graph")
	}
	return s.ToGraph()
}
