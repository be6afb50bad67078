package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/archgraph/pkg/arch"
	"github.com/matzehuels/archgraph/pkg/editor"
)

func browserGraph(t *testing.T, n int) *arch.Graph {
	t.Helper()
	g := arch.New("g", "Browser Test", time.Unix(0, 0))
	ed := editor.New(g)
	var ids []string
	for i := 0; i < n; i++ {
		id, ok := ed.AddNode(editor.AddNodeRequest{Type: arch.TypeAPIService})
		if !ok {
			t.Fatal("add node failed")
		}
		ids = append(ids, id)
	}
	if n >= 2 {
		if _, ok := ed.Connect(editor.ConnectRequest{Source: ids[0], Target: ids[1], Label: "Calls"}); !ok {
			t.Fatal("connect failed")
		}
	}
	return g
}

func press(m tea.Model, key string) tea.Model {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m, _ = m.Update(msg)
	return m
}

func TestNodeBrowserNavigation(t *testing.T) {
	g := browserGraph(t, 3)
	var m tea.Model = NewNodeBrowser(g)

	m = press(m, "up")
	if got := m.(NodeBrowser).Cursor; got != 0 {
		t.Errorf("cursor moved above the first node: %d", got)
	}

	m = press(press(press(press(m, "down"), "down"), "down"), "j")
	if got := m.(NodeBrowser).Cursor; got != 2 {
		t.Errorf("cursor = %d, want 2", got)
	}

	m = press(m, "g")
	if got := m.(NodeBrowser).Cursor; got != 0 {
		t.Errorf("g: cursor = %d, want 0", got)
	}
	m = press(m, "G")
	if got := m.(NodeBrowser).Cursor; got != 2 {
		t.Errorf("G: cursor = %d, want 2", got)
	}

	sel, ok := m.(NodeBrowser).Selected()
	if !ok || sel.ID != g.Nodes[2].ID {
		t.Errorf("selected = %+v", sel)
	}
}

func TestNodeBrowserScrolls(t *testing.T) {
	g := browserGraph(t, 20)
	var m tea.Model = NewNodeBrowser(g)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 21})
	b := m.(NodeBrowser)
	if b.Height != 5 {
		t.Fatalf("height = %d, want 5", b.Height)
	}

	for i := 0; i < 7; i++ {
		m = press(m, "down")
	}
	b = m.(NodeBrowser)
	if b.Cursor != 7 || b.Offset != 3 {
		t.Errorf("cursor/offset = %d/%d, want 7/3", b.Cursor, b.Offset)
	}
}

func TestNodeBrowserView(t *testing.T) {
	g := browserGraph(t, 2)
	view := NewNodeBrowser(g).View()

	for _, want := range []string{"Browser Test", g.Nodes[0].ID, "Calls", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestNodeBrowserEmpty(t *testing.T) {
	g := arch.New("g", "Empty", time.Unix(0, 0))
	m := NewNodeBrowser(g)
	if _, ok := m.Selected(); ok {
		t.Error("empty graph has no selection")
	}
	if !strings.Contains(m.View(), "no nodes") {
		t.Error("empty view should say so")
	}
}

func TestNodeBrowserQuit(t *testing.T) {
	_, cmd := NewNodeBrowser(browserGraph(t, 1)).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
