package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // Teal - primary actions
	colorGreen = lipgloss.Color("35")  // Green - success
	colorBlue  = lipgloss.Color("75")  // Light blue - commands
	colorWhite = lipgloss.Color("255") // Bright white - values
	colorGray  = lipgloss.Color("245") // Gray - secondary text
	colorDim   = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim      = lipgloss.NewStyle().Foreground(colorDim)
	styleValue    = lipgloss.NewStyle().Foreground(colorWhite)
	styleKey      = lipgloss.NewStyle().Foreground(colorGray).Width(14)
	styleSelected = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleIconOK   = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconSpin = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func (c *CLI) printSuccess(format string, args ...any) {
	fmt.Fprintln(c.out, styleIconOK.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func (c *CLI) printDetail(format string, args ...any) {
	fmt.Fprintln(c.out, "  "+styleDim.Render(fmt.Sprintf(format, args...)))
}

func (c *CLI) printFile(path string) {
	fmt.Fprintln(c.out, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printStats prints node count and cache status on one line.
func (c *CLI) printStats(nodes int, cached bool) {
	status := styleComputed.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	parts := []string{styleDim.Render(fmt.Sprintf("%d nodes", nodes)), status}
	fmt.Fprintln(c.out, "  "+strings.Join(parts, styleDim.Render(" · ")))
}

func (c *CLI) printNextStep(description, cmd string) {
	fmt.Fprintln(c.out, styleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// keyValue renders a labeled value for the explore detail pane.
func keyValue(key, value string) string {
	return styleKey.Render(key) + " " + styleValue.Render(value)
}
