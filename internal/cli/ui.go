package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Palette
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
	styleCell    = lipgloss.NewStyle().Padding(0, 1)
)

// mark is a status glyph with its color.
type mark struct {
	glyph string
	style lipgloss.Style
}

var (
	markOK   = mark{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	markFail = mark{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	markWarn = mark{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	markInfo = mark{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// printer writes human-oriented command output. Machine output (JSON on
// stdout) bypasses it.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) printer {
	return printer{w: w}
}

func (p printer) status(m mark, msg string) {
	fmt.Fprintln(p.w, m.style.Render(m.glyph)+" "+msg)
}

func (p printer) success(format string, args ...any) {
	p.status(markOK, fmt.Sprintf(format, args...))
}

func (p printer) failure(format string, args ...any) {
	p.status(markFail, fmt.Sprintf(format, args...))
}

func (p printer) warn(format string, args ...any) {
	p.status(markWarn, styleWarning.Render(fmt.Sprintf(format, args...)))
}

func (p printer) info(format string, args ...any) {
	p.status(markInfo, fmt.Sprintf(format, args...))
}

// detail prints an indented, dimmed line.
func (p printer) detail(format string, args ...any) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints the path of a written output.
func (p printer) file(path string) {
	fmt.Fprintln(p.w, "  "+StyleDim.Render("→")+" "+styleValue.Render(path))
}

// graphStats prints node and edge counts and whether the result was cached.
func (p printer) graphStats(nodes, edges int, cached bool) {
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d nodes", nodes)),
		StyleDim.Render(fmt.Sprintf("%d edges", edges)),
		cacheStatus(cached),
	}
	fmt.Fprintln(p.w, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// next suggests a follow-up command after a blank line.
func (p printer) next(label, command string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, StyleDim.Render(label+":")+" "+styleCommand.Render(command))
}

func (p printer) table(headers []string, rows [][]string) {
	fmt.Fprintln(p.w, newTable(headers...).Rows(rows...).Render())
}

func cacheStatus(cached bool) string {
	if cached {
		return markOK.style.Render("cached")
	}
	return StyleDim.Render("fresh")
}

// newTable returns an empty table with rounded borders and padded cells.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
}
