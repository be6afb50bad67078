package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/archgraph/pkg/arch"
	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/render/flow"
	"github.com/matzehuels/archgraph/pkg/render/nodelink"
)

// Render produces one export of g without caching.
func Render(ctx context.Context, g *arch.Graph, opts ExportOptions) ([]byte, error) {
	opts.setDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	switch opts.Format {
	case FormatJSON:
		return graph.MarshalGraph(g)
	case FormatFlow:
		data, err := json.MarshalIndent(flow.Project(g, flow.Options{ShowEdges: opts.ShowEdges}), "", "  ")
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode flow")
		}
		return data, nil
	default:
		dot := nodelink.ToDOT(g, nodelink.Options{ShowEdges: opts.ShowEdges, Detailed: opts.Detailed})
		return nodelink.Render(ctx, dot, opts.Format)
	}
}
