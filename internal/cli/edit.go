package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/editor"
	"github.com/matzehuels/archgraph/pkg/graph"
	"github.com/matzehuels/archgraph/pkg/session"
)

// editCommand creates the edit command group. Each subcommand applies one
// editor operation and writes the graph back where it came from.
func (c *CLI) editCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Apply one change to a graph file or stored graph",
		Long: `Apply one change to a graph and save it.

A change that names a missing node or edge leaves the graph untouched and
exits with an error.`,
	}

	cmd.AddCommand(c.addNodeCommand())
	cmd.AddCommand(c.editNodeCommand())
	cmd.AddCommand(c.duplicateNodeCommand())
	cmd.AddCommand(c.deleteNodeCommand())
	cmd.AddCommand(c.moveNodeCommand())
	cmd.AddCommand(c.connectCommand())
	cmd.AddCommand(c.relabelEdgeCommand())
	cmd.AddCommand(c.deleteEdgeCommand())
	cmd.AddCommand(c.relayoutCommand())

	return cmd
}

// applyEdit loads ref, runs fn through an editor and persists the result.
// Files are rewritten in place; stored graphs are saved through a session.
func (c *CLI) applyEdit(cmd *cobra.Command, ref graphRef, op, target string, fn func(ed *editor.Editor) bool) error {
	g, st, err := c.loadGraph(cmd, ref)
	if err != nil {
		return err
	}

	if st == nil {
		ed := editor.New(g)
		if !fn(ed) {
			return notApplied(op, ref, target)
		}
		if err := graph.WriteGraphFile(ed.Graph(), ref.Path); err != nil {
			return err
		}
		c.Logger.Debug("graph written", "op", op, "path", ref.Path)
		return nil
	}
	defer st.Close()

	s := session.New(g, st, c.sessionOptions())
	defer s.Close()
	if !s.Mutate(fn) {
		return notApplied(op, ref, target)
	}
	return s.Save(cmd.Context())
}

// =============================================================================
// Nodes
// =============================================================================

func (c *CLI) addNodeCommand() *cobra.Command {
	var (
		typ  string
		req  editor.AddNodeRequest
		x, y float64
	)
	cmd := &cobra.Command{
		Use:   "add-node <graph>",
		Short: "Add a component",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := arch.ParseNodeType(typ)
			if err != nil {
				return err
			}
			req.Type = t
			req.Position = arch.Position{X: x, Y: y}

			var id string
			ref := parseRef(args[0])
			err = c.applyEdit(cmd, ref, editor.OpAddNode, typ, func(ed *editor.Editor) bool {
				var ok bool
				id, ok = ed.AddNode(req)
				return ok
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Added %s", StyleHighlight.Render(id))
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "", "component type (required)")
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Description, "description", "", "description")
	cmd.Flags().Float64Var(&x, "x", 0, "x position")
	cmd.Flags().Float64Var(&y, "y", 0, "y position")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (c *CLI) editNodeCommand() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "edit-node <graph> <node>",
		Short: "Change a component's name and description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, id := parseRef(args[0]), args[1]
			err := c.applyEdit(cmd, ref, editor.OpEditNode, id, func(ed *editor.Editor) bool {
				n, ok := ed.Graph().Node(id)
				if !ok {
					return false
				}
				newName, newDesc := n.Data.Name, n.Data.Description
				if cmd.Flags().Changed("name") {
					newName = name
				}
				if cmd.Flags().Changed("description") {
					newDesc = description
				}
				return ed.EditNode(id, newName, newDesc)
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Updated %s", StyleHighlight.Render(id))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.MarkFlagsOneRequired("name", "description")
	return cmd
}

func (c *CLI) duplicateNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate <graph> <node>",
		Short: "Copy a component next to the original",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, id := parseRef(args[0]), args[1]
			var dup string
			err := c.applyEdit(cmd, ref, editor.OpDuplicateNode, id, func(ed *editor.Editor) bool {
				var ok bool
				dup, ok = ed.DuplicateNode(id)
				return ok
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Duplicated %s as %s", id, StyleHighlight.Render(dup))
			return nil
		},
	}
}

func (c *CLI) deleteNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-node <graph> <node>",
		Short: "Remove a component and its connections",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, id := parseRef(args[0]), args[1]
			err := c.applyEdit(cmd, ref, editor.OpDeleteNode, id, func(ed *editor.Editor) bool {
				return ed.DeleteNode(id)
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s", id)
			return nil
		},
	}
}

func (c *CLI) moveNodeCommand() *cobra.Command {
	var x, y float64
	cmd := &cobra.Command{
		Use:   "move <graph> <node>",
		Short: "Place a component at a new position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, id := parseRef(args[0]), args[1]
			err := c.applyEdit(cmd, ref, editor.OpMoveNode, id, func(ed *editor.Editor) bool {
				return ed.MoveNode(id, arch.Position{X: x, Y: y})
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Moved %s to %s", id, formatPosition(arch.Position{X: x, Y: y}))
			return nil
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "x position")
	cmd.Flags().Float64Var(&y, "y", 0, "y position")
	cmd.MarkFlagsRequiredTogether("x", "y")
	return cmd
}

// =============================================================================
// Edges
// =============================================================================

func (c *CLI) connectCommand() *cobra.Command {
	var label, protocol, security string
	cmd := &cobra.Command{
		Use:   "connect <graph> <source> <target>",
		Short: "Connect two components, replacing any existing connection",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := parseRef(args[0])
			req := editor.ConnectRequest{
				Source: args[1],
				Target: args[2],
				Label:  label,
				Data:   arch.EdgeData{Protocol: protocol, Security: security},
			}
			var id string
			err := c.applyEdit(cmd, ref, editor.OpConnect, req.Source+" -> "+req.Target, func(ed *editor.Editor) bool {
				var ok bool
				id, ok = ed.Connect(req)
				return ok
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Connected %s %s %s as %s", req.Source, iconArrow, req.Target, StyleHighlight.Render(id))
			return nil
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "connection label")
	cmd.Flags().StringVar(&protocol, "protocol", "", "transport protocol (default HTTPS)")
	cmd.Flags().StringVar(&security, "security", "", "security mechanism (default JWT)")
	return cmd
}

func (c *CLI) relabelEdgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "relabel <graph> <edge> <label>",
		Short: "Change a connection's label",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, id, label := parseRef(args[0]), args[1], args[2]
			err := c.applyEdit(cmd, ref, editor.OpRelabelEdge, id, func(ed *editor.Editor) bool {
				return ed.RelabelEdge(id, label)
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Relabelled %s", id)
			return nil
		},
	}
}

func (c *CLI) deleteEdgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-edge <graph> <edge>",
		Short: "Remove a connection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, id := parseRef(args[0]), args[1]
			err := c.applyEdit(cmd, ref, editor.OpDeleteEdge, id, func(ed *editor.Editor) bool {
				return ed.DeleteEdge(id)
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted %s", id)
			return nil
		},
	}
}

// =============================================================================
// Layout
// =============================================================================

func (c *CLI) relayoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "relayout <graph>",
		Short: "Reposition every component from its connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := parseRef(args[0])
			err := c.applyEdit(cmd, ref, editor.OpRelayout, ref.String(), func(ed *editor.Editor) bool {
				return ed.Relayout(c.cfg.Layout)
			})
			if err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Laid out %s", ref)
			return nil
		},
	}
}
