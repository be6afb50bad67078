package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/graph"
)

// graphsCommand creates the graphs command for managing the graph store.
func (c *CLI) graphsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "graphs",
		Aliases: []string{"ls"},
		Short:   "Manage graphs in the configured store",
	}

	cmd.AddCommand(c.graphsListCommand())
	cmd.AddCommand(c.graphsImportCommand())
	cmd.AddCommand(c.graphsExportCommand())
	cmd.AddCommand(c.graphsDeleteCommand())

	return cmd
}

func (c *CLI) graphsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored graphs, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()

			summaries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				printInfo(out, "No graphs stored")
				printNextStep(out, "Create one", "archgraph synth --endpoints endpoints.json --save")
				return nil
			}
			rows := make([][]string, len(summaries))
			for i, s := range summaries {
				rows[i] = []string{
					s.ID,
					s.Name,
					strconv.Itoa(s.Components),
					strconv.Itoa(s.Connections),
					s.UpdatedAt.Local().Format(time.DateTime),
				}
			}
			printTable(out, []string{"ID", "Name", "Components", "Connections", "Updated"}, rows)
			return nil
		},
	}
}

func (c *CLI) graphsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Save a graph file to the store under its own ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return err
			}
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Put(cmd.Context(), g); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Imported %s as %s", g.Name, StyleHighlight.Render(g.ID))
			return nil
		},
	}
}

func (c *CLI) graphsExportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Write a stored graph as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.readGraph(cmd, graphRef{ID: args[0]})
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				return graph.WriteGraph(g, cmd.OutOrStdout())
			}
			if err := graph.WriteGraphFile(g, output); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Exported %s", g.Name)
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (c *CLI) graphsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Remove stored graphs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd)
			if err != nil {
				return err
			}
			defer st.Close()
			for _, id := range args {
				if err := st.Delete(cmd.Context(), id); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Deleted %s", id)
			}
			return nil
		},
	}
}
