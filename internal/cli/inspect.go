package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/arch"
)

type inspectOpts struct {
	interactive bool
	nodes       bool
}

// inspectCommand creates the inspect command for summarizing a graph.
func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect <graph>",
		Short: "Summarize a graph's components and connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.readGraph(cmd, parseRef(args[0]))
			if err != nil {
				return err
			}
			if opts.interactive {
				_, err := tea.NewProgram(NewNodeBrowser(g), tea.WithContext(cmd.Context())).Run()
				return err
			}
			printGraphSummary(cmd.OutOrStdout(), g, opts.nodes)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "browse nodes interactively")
	cmd.Flags().BoolVar(&opts.nodes, "nodes", false, "list every node and edge")

	return cmd
}

func printGraphSummary(w io.Writer, g *arch.Graph, listNodes bool) {
	stats := g.Stats()

	fmt.Fprintln(w, StyleTitle.Render(g.Name))
	if g.Description != "" {
		printDetail(w, "%s", g.Description)
	}
	fmt.Fprintln(w)
	printKeyValue(w, "ID", g.ID)
	printKeyValue(w, "Version", g.Metadata.Version)
	printKeyValue(w, "Updated", g.Metadata.UpdatedAt.Format(time.RFC3339))
	printKeyValue(w, "Components", strconv.Itoa(stats.Components))
	printKeyValue(w, "Connections", strconv.Itoa(stats.Connections))
	if stats.Groups > 0 {
		printKeyValue(w, "Groups", strconv.Itoa(stats.Groups))
	}

	if len(stats.ByType) > 0 {
		fmt.Fprintln(w)
		printTable(w, []string{"Type", "Count"}, countRows(stats.ByType))
	}
	if len(stats.ByProtocol) > 0 {
		printTable(w, []string{"Protocol", "Connections"}, countRows(stats.ByProtocol))
	}

	if !listNodes {
		return
	}
	fmt.Fprintln(w)
	printTable(w, []string{"Node", "Type", "Name", "Position"}, nodeRows(g))
	if len(g.Edges) > 0 {
		printTable(w, []string{"Edge", "From", "To", "Label", "Protocol"}, edgeRows(g))
	}
}

// countRows sorts a histogram by descending count, then key.
func countRows[K ~string](counts map[K]int) [][]string {
	keys := make([]K, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{string(k), strconv.Itoa(counts[k])}
	}
	return rows
}

func nodeRows(g *arch.Graph) [][]string {
	rows := make([][]string, len(g.Nodes))
	for i, n := range g.Nodes {
		rows[i] = []string{n.ID, string(n.Type), n.Data.Name, formatPosition(n.Position)}
	}
	return rows
}

func edgeRows(g *arch.Graph) [][]string {
	rows := make([][]string, len(g.Edges))
	for i, e := range g.Edges {
		rows[i] = []string{e.ID, e.Source, e.Target, e.Label, e.Data.Protocol}
	}
	return rows
}

func formatPosition(p arch.Position) string {
	return fmt.Sprintf("%.0f, %.0f", p.X, p.Y)
}
