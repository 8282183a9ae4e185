package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

// row renders cells padded to widths, one space apart. A zero width leaves
// the cell as is.
func row(widths []int, cells ...string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		if i < len(widths) && widths[i] > 0 {
			c = lipgloss.NewStyle().Width(widths[i]).MaxWidth(widths[i]).Render(c)
		}
		parts[i] = c
	}
	return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, strings.Join(parts, " ")), " ")
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
