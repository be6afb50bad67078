package synth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/layout"
	"github.com/matzehuels/archgraph/pkg/observability"
)

// MaxServices caps the number of api-service nodes emitted for endpoint groups.
const MaxServices = 4

// DefaultDatabaseName names the primary database when no recommendation exists.
const DefaultDatabaseName = "Primary Database"

// SearchTableThreshold is the table count at which a search engine is added.
const SearchTableThreshold = 3

// Layer indices of the synthesized tiers.
const (
	LayerClient = iota
	LayerEdge
	LayerService
	LayerData
	LayerPlatform
	LayerOps
)

// TierNames labels each layer when tier groups are enabled.
var TierNames = [...]string{
	LayerClient:   "Client Tier",
	LayerEdge:     "Edge Tier",
	LayerService:  "Service Tier",
	LayerData:     "Data Tier",
	LayerPlatform: "Platform Tier",
	LayerOps:      "Ops Tier",
}

// Edge labels used by synthesis.
const (
	LabelServe   = "Serve"
	LabelAPI     = "API Calls"
	LabelRoute   = "Route"
	LabelVerify  = "Verify"
	LabelQuery   = "Query"
	LabelCache   = "Cache"
	LabelMetrics = "Metrics"
	LabelLogs    = "Logs"
	LabelSecrets = "Secrets"
	LabelSync    = "Sync"
	LabelBackup  = "Backup"
)

// Options configures Synthesize. The zero value is ready to use.
type Options struct {
	// NewID returns the graph ID. Defaults to a random UUID.
	NewID func() string
	// Now returns the creation timestamp. Defaults to time.Now.
	Now func() time.Time
	// Description is copied onto the graph.
	Description string
	// TierGroups adds one group backdrop per populated layer.
	TierGroups bool
	// Layout overrides the default spacing.
	Layout *layout.Config
}

func (o Options) newID() string {
	if o.NewID != nil {
		return o.NewID()
	}
	return uuid.NewString()
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) layout() layout.Config {
	if o.Layout != nil {
		return *o.Layout
	}
	return layout.DefaultConfig()
}

// Synthesize builds a starter architecture graph from a schema and a grouped
// endpoint list. Either input may be nil; Synthesize never fails and always
// returns a graph that passes [arch.Graph.Validate].
//
// Node and edge IDs are slugs derived from archetype and group names, so
// identical inputs produce identical IDs. Only the graph ID and timestamps
// vary between runs.
func Synthesize(ctx context.Context, name string, schema *SchemaInput, endpoints *EndpointInput, opts Options) *arch.Graph {
	start := time.Now()

	if strings.TrimSpace(name) == "" {
		name = "Untitled Architecture"
	}
	b := newBuilder(arch.New(opts.newID(), name, opts.now()))
	b.g.Description = opts.Description

	// Layer 0: client tier.
	cdn := b.node(LayerClient, arch.TypeCDN, "", "CDN", "Content delivery network serving static assets", nil)
	frontend := b.node(LayerClient, arch.TypeFrontend, "", "Frontend Application", "User-facing web application", nil)

	// Layer 1: edge tier.
	gateway := b.node(LayerEdge, arch.TypeAPIGateway, "", "API Gateway", "Routes and rate-limits client API traffic", nil)
	var auth string
	if endpoints.HasAuth() {
		auth = b.node(LayerEdge, arch.TypeAuthentication, "", "Auth Service", "Issues and verifies access tokens", nil)
	}

	// Layer 2: service tier.
	groups := endpoints.Groups()
	if len(groups) > MaxServices {
		groups = groups[:MaxServices]
	}
	services := make([]string, 0, len(groups))
	for _, grp := range groups {
		id := b.node(LayerService, arch.TypeAPIService, "api-"+slugify(grp.Name),
			grp.Name+" API",
			fmt.Sprintf("Serves the %s endpoints", grp.Name),
			func(m *arch.Metadata) { m.EndpointCount = grp.EndpointCount })
		services = append(services, id)
	}
	var cache string
	if schema.HighLoad() {
		cache = b.node(LayerService, arch.TypeCache, "", "Cache", "In-memory cache for hot reads", nil)
	}

	// Layer 3: data tier.
	tables := schema.TableCount()
	dbName, recommended := schema.TopRecommendation()
	if !recommended {
		dbName = DefaultDatabaseName
	}
	database := b.node(LayerData, arch.TypeDatabase, "", dbName,
		fmt.Sprintf("Primary data store with %d tables", tables),
		func(m *arch.Metadata) {
			if recommended {
				m.Technology = dbName
			}
			m.TableCount = tables
		})
	var search string
	if tables >= SearchTableThreshold {
		search = b.node(LayerData, arch.TypeSearchEngine, "", "Search Engine", "Full-text index over the primary data", nil)
	}

	// Layer 4: platform tier.
	monitoring := b.node(LayerPlatform, arch.TypeMonitoring, "", "Monitoring", "Collects service metrics and alerts", nil)
	logging := b.node(LayerPlatform, arch.TypeLogging, "", "Logging", "Centralized log aggregation", nil)
	b.node(LayerPlatform, arch.TypeNotificationService, "", "Notification Service", "Delivers email and push notifications", nil)

	// Layer 5: ops tier.
	b.node(LayerOps, arch.TypeCICD, "", "CI/CD Pipeline", "Builds, tests and deploys services", nil)
	secrets := b.node(LayerOps, arch.TypeSecretsManager, "", "Secrets Manager", "Stores credentials and API keys", nil)
	backup := b.node(LayerOps, arch.TypeBackupStorage, "", "Backup Storage", "Encrypted database backups", nil)

	https := arch.EdgeData{Protocol: arch.ProtocolHTTPS}

	b.edge(cdn, frontend, LabelServe, https)
	b.edge(frontend, gateway, LabelAPI, https)
	for _, svc := range services {
		b.edge(gateway, svc, LabelRoute, https)
		if auth != "" {
			b.edge(auth, svc, LabelVerify, arch.EdgeData{Protocol: arch.ProtocolHTTPS, Security: arch.SecurityJWT})
		}
		b.edge(svc, database, LabelQuery, arch.EdgeData{Protocol: arch.ProtocolSQL})
		if cache != "" {
			b.edge(svc, cache, LabelCache, arch.EdgeData{Protocol: arch.ProtocolTCP})
		}
		b.edge(svc, monitoring, LabelMetrics, https)
		b.edge(svc, logging, LabelLogs, https)
		b.edge(svc, secrets, LabelSecrets, https)
	}
	if search != "" {
		b.edge(database, search, LabelSync, arch.EdgeData{Protocol: arch.ProtocolTCP})
	}
	b.edge(database, backup, LabelBackup, arch.EdgeData{Protocol: arch.ProtocolEncrypted})

	cfg := opts.layout()
	cfg.Apply(b.g, b.layers)
	if opts.TierGroups {
		b.tierGroups(cfg)
	}

	observability.Pipeline().OnSynthesize(ctx, b.g.ID, len(b.g.Nodes), len(b.g.Edges), time.Since(start))
	return b.g
}

// =============================================================================
// Builder
// =============================================================================

type builder struct {
	g      *arch.Graph
	layers layout.Layers
	used   map[string]bool
}

func newBuilder(g *arch.Graph) *builder {
	return &builder{g: g, used: make(map[string]bool)}
}

// node appends a node to layer and returns its ID. An empty slug derives the
// ID from the archetype and a sequence number ("cdn-1").
func (b *builder) node(layer int, t arch.NodeType, slug, name, desc string, meta func(*arch.Metadata)) string {
	var id string
	if slug == "" {
		id = b.sequence(string(t))
	} else {
		id = b.unique(slug)
	}

	data := arch.NodeData{
		Name:        name,
		Description: desc,
		Metadata:    arch.DefaultMetadata(t),
	}
	if meta != nil {
		meta(&data.Metadata)
	}
	b.g.Nodes = append(b.g.Nodes, arch.Node{ID: id, Type: t, Data: data})
	b.layers.Add(layer, id)
	return id
}

func (b *builder) edge(source, target, label string, data arch.EdgeData) {
	b.g.Edges = append(b.g.Edges, arch.Edge{
		ID:     b.unique("e-" + source + "-" + target),
		Source: source,
		Target: target,
		Type:   arch.DefaultEdgeType,
		Label:  label,
		Data:   data,
	})
}

// tierGroups prepends one backdrop node per populated layer, sized to cover
// the layer's column.
func (b *builder) tierGroups(cfg layout.Config) {
	groups := make([]arch.Node, 0, len(b.layers))
	for layer, ids := range b.layers {
		if len(ids) == 0 || layer >= len(TierNames) {
			continue
		}
		top := cfg.Position(layer, 0, len(ids))
		groups = append(groups, arch.Node{
			ID:       b.unique("group-" + slugify(TierNames[layer])),
			Type:     arch.TypeGroup,
			Position: top.Offset(-cfg.HorizontalSpacing/4, -cfg.VerticalSpacing/2),
			Data: arch.NodeData{
				Name:     TierNames[layer],
				Metadata: arch.DefaultMetadata(arch.TypeGroup),
			},
		})
	}
	b.g.Nodes = append(groups, b.g.Nodes...)
}

// sequence returns prefix-N for the lowest unused N starting at 1.
func (b *builder) sequence(prefix string) string {
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s-%d", prefix, n)
		if !b.used[id] {
			b.used[id] = true
			return id
		}
	}
}

// unique returns base if unused, otherwise base-N for the lowest free N >= 2.
func (b *builder) unique(base string) string {
	id := base
	for n := 2; b.used[id]; n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}
	b.used[id] = true
	return id
}

// slugify lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen.
func slugify(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(sb.String(), "-")
	if out == "" {
		return "service"
	}
	return out
}
