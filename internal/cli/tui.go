package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/archgraph/pkg/arch"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorFaint)
	detailKeyStyle = lipgloss.NewStyle().Foreground(colorMuted).Width(11)
)

// =============================================================================
// NodeBrowser - Interactive node inspection
// =============================================================================

// NodeBrowser is the bubbletea model behind "inspect --interactive". It
// lists the graph's nodes and shows the selected node's details and
// connections.
type NodeBrowser struct {
	Graph  *arch.Graph
	Cursor int
	Height int
	Offset int
}

// NewNodeBrowser creates a browser over g.
func NewNodeBrowser(g *arch.Graph) NodeBrowser {
	return NodeBrowser{Graph: g, Height: 12}
}

func (m NodeBrowser) Init() tea.Cmd {
	return nil
}

func (m NodeBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Graph.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			if n := len(m.Graph.Nodes); n > 0 {
				m.Cursor = n - 1
				m.Offset = max(0, n-m.Height)
			}
		}
	case tea.WindowSizeMsg:
		// Leave room for the header and the detail pane.
		m.Height = max(msg.Height-16, 5)
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

// Selected returns the node under the cursor.
func (m NodeBrowser) Selected() (arch.Node, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Graph.Nodes) {
		return arch.Node{}, false
	}
	return m.Graph.Nodes[m.Cursor], true
}

func (m NodeBrowser) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Graph.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Graph.Nodes) == 0 {
		b.WriteString(listDimStyle.Render("  (no nodes)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Graph.Nodes))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.Graph.Nodes[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, n.Data.Name, string(n.Type), strconv.Itoa(len(m.Graph.EdgesOf(n.ID)))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("", "Name", "Type", "Edges").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Graph.Nodes) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorOK).Bold(true)
			case m.Graph.Nodes[idx].IsGroup():
				return lipgloss.NewStyle().Foreground(colorFaint)
			}
			return lipgloss.NewStyle().Foreground(colorText)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Nodes))))
	b.WriteString("\n\n")

	if n, ok := m.Selected(); ok {
		b.WriteString(m.detail(n))
	}
	return b.String()
}

func (m NodeBrowser) detail(n arch.Node) string {
	var b strings.Builder
	line := func(k, v string) {
		if v == "" {
			return
		}
		b.WriteString(detailKeyStyle.Render(k) + " " + StyleValue.Render(v) + "\n")
	}

	line("ID", n.ID)
	line("Description", n.Data.Description)
	line("Position", formatPosition(n.Position))
	md := n.Data.Metadata
	line("Technology", md.Technology)
	if md.Port > 0 {
		line("Port", strconv.Itoa(md.Port))
	}
	if md.TableCount > 0 {
		line("Tables", strconv.Itoa(md.TableCount))
	}
	if md.EndpointCount > 0 {
		line("Endpoints", strconv.Itoa(md.EndpointCount))
	}
	if md.External {
		line("External", "yes")
	}

	for _, e := range m.Graph.EdgesOf(n.ID) {
		peer, arrow := e.Target, iconArrow
		if e.Target == n.ID {
			peer, arrow = e.Source, "←"
		}
		if p, ok := m.Graph.Node(peer); ok {
			peer = p.Data.Name
		}
		desc := e.Label
		if e.Data.Protocol != "" {
			desc += " (" + e.Data.Protocol + ")"
		}
		b.WriteString("  " + StyleHighlight.Render(arrow) + " " + peer + " " + listDimStyle.Render(desc) + "\n")
	}
	return b.String()
}
