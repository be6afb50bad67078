package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/store"
)

// graphRef names a graph on the command line: a JSON snapshot on disk or
// an ID in the configured store.
type graphRef struct {
	Path string
	ID   string
}

// parseRef treats arg as a path when it exists or ends in .json, and as a
// store ID otherwise.
func parseRef(arg string) graphRef {
	if strings.EqualFold(filepath.Ext(arg), ".json") || strings.ContainsRune(arg, os.PathSeparator) {
		return graphRef{Path: arg}
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return graphRef{Path: arg}
	}
	return graphRef{ID: arg}
}

func (r graphRef) IsFile() bool { return r.Path != "" }

// Name is the file base name without extension, or the store ID.
func (r graphRef) Name() string {
	if r.IsFile() {
		return strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
	}
	return r.ID
}

func (r graphRef) String() string {
	if r.IsFile() {
		return r.Path
	}
	return r.ID
}

// loadGraph reads the graph behind ref. For store references the opened
// store is returned and must be closed by the caller; for files it is nil.
func (c *CLI) loadGraph(cmd *cobra.Command, ref graphRef) (*arch.Graph, store.Store, error) {
	if ref.IsFile() {
		g, err := graph.ReadGraphFile(ref.Path)
		return g, nil, err
	}
	st, err := c.openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	g, err := st.Get(cmd.Context(), ref.ID)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return g, st, nil
}

// readGraph is loadGraph for commands that only read.
func (c *CLI) readGraph(cmd *cobra.Command, ref graphRef) (*arch.Graph, error) {
	g, st, err := c.loadGraph(cmd, ref)
	if st != nil {
		st.Close()
	}
	return g, err
}
