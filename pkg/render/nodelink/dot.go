package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/archgraph/pkg/arch"
)

// Options configures node-link diagram generation.
type Options struct {
	// ShowEdges includes connections. When false only nodes are drawn.
	ShowEdges bool
	// Detailed adds the archetype and technology to node labels and the
	// protocol to edge labels.
	Detailed bool
}

// DefaultOptions shows edges with plain labels.
func DefaultOptions() Options { return Options{ShowEdges: true} }

// ToDOT converts a graph to Graphviz DOT format with every node pinned at
// its graph-space position. The result must be laid out with the neato
// engine, which honours pinned positions; [RenderSVG] and [RenderPNG] do so.
//
// Graph space has y growing downward, so y is negated for Graphviz. Group
// nodes are drawn as dashed, unfilled boxes behind their tier.
func ToDOT(g *arch.Graph, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", g.Name)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=11, color=\"#64748b\", fontcolor=\"#334155\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}

	if opts.ShowEdges {
		buf.WriteString("\n")
		for _, e := range g.Edges {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(e, opts.Detailed), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n arch.Node, detailed bool) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", nodeLabel(n, detailed)),
		fmt.Sprintf("pos=\"%s,%s!\"", num(n.Position.X), num(-n.Position.Y)),
	}
	if n.IsGroup() {
		return append(attrs, "style=\"rounded,dashed\"", "color=\"#94a3b8\"", "fontcolor=\"#64748b\"")
	}
	return append(attrs, fmt.Sprintf("fillcolor=%q", FillColor(n)))
}

func nodeLabel(n arch.Node, detailed bool) string {
	if !detailed || n.IsGroup() {
		return n.Data.Name
	}
	parts := []string{n.Data.Name, string(n.Type)}
	if tech := n.Data.Metadata.Technology; tech != "" {
		if port := n.Data.Metadata.Port; port != 0 {
			tech = fmt.Sprintf("%s :%d", tech, port)
		}
		parts = append(parts, tech)
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(e arch.Edge, detailed bool) []string {
	label := e.Label
	if detailed && e.Data.Protocol != "" {
		label = fmt.Sprintf("%s (%s)", label, e.Data.Protocol)
	}
	var attrs []string
	if label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
	}
	if e.Data.Protocol == arch.ProtocolEncrypted {
		attrs = append(attrs, "style=dashed")
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "label=\"\"")
	}
	return attrs
}

// num formats a coordinate without trailing zeros.
func num(f float64) string {
	return fmt.Sprintf("%g", f)
}
