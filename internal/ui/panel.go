package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	full, empty := "█", "░"
	if current.Name == "mono" {
		full, empty = "#", "."
	}
	bar := strings.Repeat(full, filled) + strings.Repeat(empty, width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %d%%", bar, pct)
}

// PanelString frames inner using the current theme.
func PanelString(inner string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(inner)
}

// Panel draws a framed box of lines to w.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelString(strings.Join(lines, "\n")))
}
