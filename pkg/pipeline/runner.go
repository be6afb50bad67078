package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/cache"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/observability"
	"github.com/matzehuels/archgraph/pkg/synth"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state; one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// NewID overrides the graph ID generator used by Synthesize.
	NewID func() string

	// TTL bounds cached artifacts. Zero means [cache.TTLArtifact].
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer] and a nil logger means the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute synthesizes a graph and exports it in one call.
func (r *Runner) Execute(ctx context.Context, req SynthesisRequest, opts ExportOptions) (*Result, error) {
	opts.setDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}

	start := time.Now()
	s := r.Synthesize(ctx, req)
	res := &Result{
		Graph:    s.Graph,
		Format:   opts.Format,
		Warnings: s.Warnings,
	}
	res.Stats.SynthesisTime = time.Since(start)
	stats := s.Graph.Stats()
	res.Stats.Components = stats.Components
	res.Stats.Connections = stats.Connections

	start = time.Now()
	data, hash, hit, err := r.export(ctx, s.Graph, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	res.Artifact = data
	res.GraphHash = hash
	res.CacheHit = hit
	res.Stats.ExportTime = time.Since(start)
	return res, nil
}

// Synthesize decodes the request inputs and builds a graph. Undecodable
// inputs are logged, reported as warnings and treated as empty.
func (r *Runner) Synthesize(ctx context.Context, req SynthesisRequest) Synthesis {
	var out Synthesis

	var schema *synth.SchemaInput
	if !isEmptyJSON(req.Schema) {
		var err error
		if schema, err = synth.ParseSchemaInput(req.Schema); err != nil {
			r.Logger.Warn("ignoring schema input", "error", err)
			out.Warnings = append(out.Warnings, "schema: "+err.Error())
		}
	}
	var endpoints *synth.EndpointInput
	if !isEmptyJSON(req.Endpoints) {
		var err error
		if endpoints, err = synth.ParseEndpointInput(req.Endpoints); err != nil {
			r.Logger.Warn("ignoring endpoint input", "error", err)
			out.Warnings = append(out.Warnings, "endpoints: "+err.Error())
		}
	}

	start := time.Now()
	out.Graph = synth.Synthesize(ctx, req.Name, schema, endpoints, synth.Options{
		NewID:       r.NewID,
		Description: req.Description,
		TierGroups:  req.TierGroups,
		Layout:      req.Layout,
	})
	r.Logger.Info("synthesized architecture",
		"name", out.Graph.Name,
		"nodes", len(out.Graph.Nodes),
		"edges", len(out.Graph.Edges),
		"duration", time.Since(start))
	return out
}

// ExportWithCacheInfo renders g in the requested format and reports whether
// the bytes came from the cache.
func (r *Runner) ExportWithCacheInfo(ctx context.Context, g *arch.Graph, opts ExportOptions) ([]byte, bool, error) {
	opts.setDefaults()
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, false, err
	}
	data, _, hit, err := r.export(ctx, g, opts)
	return data, hit, err
}

// Export is ExportWithCacheInfo without the cache hit flag.
func (r *Runner) Export(ctx context.Context, g *arch.Graph, opts ExportOptions) ([]byte, error) {
	data, _, err := r.ExportWithCacheInfo(ctx, g, opts)
	return data, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) export(ctx context.Context, g *arch.Graph, opts ExportOptions) ([]byte, string, bool, error) {
	snapshot, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, "", false, err
	}
	hash := cache.Hash(snapshot)
	key := r.Keyer.ExportKey(hash, cache.ExportKeyOpts{
		Format:    opts.Format,
		ShowEdges: opts.ShowEdges,
		Detailed:  opts.Detailed,
	})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			r.Logger.Debug("export cache hit", "graph", g.ID, "format", opts.Format)
			return data, hash, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, g.ID, opts.Format)
	start := time.Now()
	var data []byte
	if opts.Format == FormatJSON {
		data = snapshot
	} else {
		data, err = Render(ctx, g, opts)
	}
	hooks.OnExportComplete(ctx, g.ID, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, hash, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
	}
	r.Logger.Debug("exported graph",
		"graph", g.ID,
		"format", opts.Format,
		"bytes", len(data),
		"duration", time.Since(start))
	return data, hash, false, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

func isEmptyJSON(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
