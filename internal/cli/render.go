package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/pipeline"
)

// extensions maps export formats to output file suffixes.
var extensions = map[string]string{
	pipeline.FormatJSON: ".json",
	pipeline.FormatFlow: ".flow.json",
	pipeline.FormatDOT:  ".dot",
	pipeline.FormatSVG:  ".svg",
	pipeline.FormatPNG:  ".png",
}

type renderOpts struct {
	formats  string
	output   string
	noEdges  bool
	detailed bool
	noCache  bool
	refresh  bool
}

// renderCommand creates the render command for exporting a graph.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <graph>",
		Short: "Export a graph as JSON, flow, DOT, SVG or PNG",
		Long: `Export a graph file or stored graph in one or more formats.

Formats:
  json  canonical graph snapshot
  flow  React Flow document for the web editor
  dot   Graphviz source
  svg   node-link diagram
  png   node-link diagram

Artifacts are cached by graph content; --refresh re-renders and updates the
cache, --no-cache bypasses it.`,
		Example: `  archgraph render shop.json -f svg,png
  archgraph render 1f0c... -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, parseRef(args[0]), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.DefaultFormat, "output formats, comma-separated ("+strings.Join(pipeline.FormatNames(), ", ")+")")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, or - for stdout (single format only)")
	cmd.Flags().BoolVar(&opts.noEdges, "no-edges", false, "omit connections")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include component metadata in node labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the export cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and update cached artifacts")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, ref graphRef, opts renderOpts) error {
	formats := parseFormats(opts.formats)
	for _, f := range formats {
		if err := pipeline.ValidateFormat(f); err != nil {
			return err
		}
	}
	if opts.output == "-" && len(formats) > 1 {
		return usageError("--output - needs exactly one format")
	}

	g, err := c.readGraph(cmd, ref)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	out := cmd.OutOrStdout()
	prog := newProgress(c.Logger)
	spin := newSpinnerWithContext(cmd.Context(), cmd.ErrOrStderr(), "Rendering "+ref.Name()+"...")
	if opts.output != "-" {
		spin.Start()
	}
	defer spin.Stop()

	var (
		paths  []string
		cached = true
	)
	for _, format := range formats {
		data, hit, err := runner.ExportWithCacheInfo(cmd.Context(), g, pipeline.ExportOptions{
			Format:    format,
			ShowEdges: !opts.noEdges,
			Detailed:  opts.detailed,
			Refresh:   opts.refresh,
		})
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		cached = cached && hit

		if opts.output == "-" {
			_, err := out.Write(data)
			return err
		}
		path := outputPath(opts.output, ref, format, len(formats))
		if ref.IsFile() && filepath.Clean(path) == filepath.Clean(ref.Path) {
			return usageError("refusing to overwrite input %s; pass --output", ref.Path)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	spin.Stop()

	stats := g.Stats()
	printSuccess(out, "Rendered %s", g.Name)
	printStats(out, stats.Components, stats.Connections, cached)
	for _, p := range paths {
		printFile(out, p)
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(formats)))
	return nil
}

// outputPath returns output verbatim for a single format, and otherwise
// derives <base><ext> from output or the graph reference.
func outputPath(output string, ref graphRef, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return basePath(output, ref) + extensions[format]
}

func basePath(output string, ref graphRef) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	if ref.IsFile() {
		return strings.TrimSuffix(ref.Path, filepath.Ext(ref.Path))
	}
	return ref.ID
}
