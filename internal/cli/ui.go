package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette roles. Adaptive colors keep output legible on light terminals.
var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	colorOK     = lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	colorLink   = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#93C5FD"}
	colorText   = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F3F4F6"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#4B5563", Dark: "#9CA3AF"}
	colorFaint  = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#4B5563"}
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleDim       = lipgloss.NewStyle().Foreground(colorFaint)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleCommand     = lipgloss.NewStyle().Foreground(colorLink)
	styleKey         = lipgloss.NewStyle().Foreground(colorMuted).Width(12)
	styleTableHeader = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)
	styleTableBorder = lipgloss.NewStyle().Foreground(colorFaint)
	styleFirstColumn = lipgloss.NewStyle().Foreground(colorAccent)
)

const iconArrow = "→"

// statusLine pairs a glyph with the style it is drawn in.
type statusLine struct {
	glyph string
	style lipgloss.Style
	body  lipgloss.Style
}

var (
	lineSuccess = statusLine{"✓", lipgloss.NewStyle().Foreground(colorOK), lipgloss.NewStyle()}
	lineWarning = statusLine{"!", lipgloss.NewStyle().Foreground(colorWarn), StyleWarning}
	lineInfo    = statusLine{"›", lipgloss.NewStyle().Foreground(colorMuted), lipgloss.NewStyle()}
)

func (l statusLine) print(w io.Writer, format string, args []any) {
	fmt.Fprintf(w, "%s %s\n", l.style.Render(l.glyph), l.body.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(w io.Writer, format string, args ...any) { lineSuccess.print(w, format, args) }
func printWarning(w io.Writer, format string, args ...any) { lineWarning.print(w, format, args) }
func printInfo(w io.Writer, format string, args ...any)    { lineInfo.print(w, format, args) }

// printDetail prints an indented secondary line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string) {
	fmt.Fprintf(w, "  %s %s\n", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s %s\n", styleKey.Render(key), StyleValue.Render(value))
}

// printStats summarises a rendered graph and whether it came from cache.
func printStats(w io.Writer, components, connections int, cached bool) {
	origin := lipgloss.NewStyle().Foreground(colorMuted).Render("fresh")
	if cached {
		origin = lipgloss.NewStyle().Foreground(colorOK).Render("cached")
	}
	fields := []string{
		StyleDim.Render(fmt.Sprintf("%d components", components)),
		StyleDim.Render(fmt.Sprintf("%d connections", connections)),
		origin,
	}
	fmt.Fprintf(w, "  %s\n", strings.Join(fields, StyleDim.Render(" · ")))
}

// renderTable draws rows under headers with a rounded border. The first
// column is accented.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleTableHeader
			case col == 0:
				return styleFirstColumn
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func printTable(w io.Writer, headers []string, rows [][]string) {
	fmt.Fprintln(w, renderTable(headers, rows))
}

// printNextStep suggests a follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintf(w, "%s %s\n", StyleDim.Render(description+":"), styleCommand.Render(cmd))
}
