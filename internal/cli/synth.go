package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/archgraph/pkg/errors"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/pipeline"
)

type synthOpts struct {
	schema      string
	endpoints   string
	name        string
	description string
	tierGroups  bool
	output      string
	save        bool
}

// synthCommand creates the synth command for generating a starter architecture.
func (c *CLI) synthCommand() *cobra.Command {
	opts := synthOpts{}

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate an architecture graph from a schema and endpoint list",
		Long: `Generate a layered architecture graph from a database schema analysis and a
grouped API endpoint list. Either input may be omitted or malformed; the
result then falls back to the tiers every architecture gets.

Without --output or --save the graph JSON is written to stdout.`,
		Example: `  archgraph synth --schema schema.json --endpoints endpoints.json --name Shop -o shop.json
  archgraph synth --endpoints endpoints.json --name Shop --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSynth(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.schema, "schema", "", "schema analysis JSON file (- for stdin)")
	cmd.Flags().StringVar(&opts.endpoints, "endpoints", "", "endpoint groups JSON file (- for stdin)")
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "project name")
	cmd.Flags().StringVar(&opts.description, "description", "", "graph description")
	cmd.Flags().BoolVar(&opts.tierGroups, "tier-groups", false, "add a labelled backdrop behind each tier")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the graph to the configured store")

	return cmd
}

func (c *CLI) runSynth(cmd *cobra.Command, opts synthOpts) error {
	if opts.schema == "-" && opts.endpoints == "-" {
		return usageError("only one of --schema and --endpoints can read stdin")
	}
	if opts.name != "" {
		if err := apperrors.ValidateName(opts.name); err != nil {
			return err
		}
	}
	schema, err := readInput(cmd, opts.schema)
	if err != nil {
		return inputError(err, opts.schema)
	}
	endpoints, err := readInput(cmd, opts.endpoints)
	if err != nil {
		return inputError(err, opts.endpoints)
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return err
	}
	defer runner.Close()

	layoutCfg := c.cfg.Layout
	s := runner.Synthesize(cmd.Context(), pipeline.SynthesisRequest{
		Name:        opts.name,
		Description: opts.description,
		Schema:      json.RawMessage(schema),
		Endpoints:   json.RawMessage(endpoints),
		TierGroups:  opts.tierGroups,
		Layout:      &layoutCfg,
	})

	out := cmd.OutOrStdout()
	if opts.output == "" && !opts.save {
		return graph.WriteGraph(s.Graph, out)
	}

	for _, w := range s.Warnings {
		printWarning(out, "%s", w)
	}
	stats := s.Graph.Stats()

	if opts.output != "" {
		if err := graph.WriteGraphFile(s.Graph, opts.output); err != nil {
			return err
		}
		printSuccess(out, "Synthesized %s", s.Graph.Name)
		printStats(out, stats.Components, stats.Connections, false)
		printFile(out, opts.output)
	}

	if opts.save {
		st, err := c.openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Put(cmd.Context(), s.Graph); err != nil {
			return err
		}
		printSuccess(out, "Saved %s as %s", s.Graph.Name, StyleHighlight.Render(s.Graph.ID))
		printNextStep(out, "Render it", "archgraph render "+s.Graph.ID+" -f svg")
	}
	return nil
}
