package ui

import (
	"fmt"

	"github.com/idilsaglam/tasks/internal/model"
)

const maxTextWidth = 80

// Truncate shortens s to max runes, ending in "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// Header returns the title line with live counts.
func Header(tasks []model.Task) string {
	t := Current()
	d, p := model.Stats(tasks)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(tasks),
	)
}

// Row renders one task. pos is its 1-based display position.
func Row(pos int, task model.Task, showID bool) string {
	t := Current()
	box := t.Muted.Render(t.BoxUnchecked)
	text := Truncate(task.Text, maxTextWidth)
	if task.Completed {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	line := fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("%2d.", pos)), box, text)
	if showID {
		line += " " + t.Muted.Render(fmt.Sprintf("(id:%d)", task.ID))
	}
	return line
}

// Listing returns the lines of `tasks ls`: header, progress, then the rows
// in display order. With group set, pending and completed get their own
// headings.
func Listing(tasks []model.Task, group, showID bool) []string {
	t := Current()
	d, p := model.Stats(tasks)

	var lines []string
	lines = append(lines, Header(tasks))
	lines = append(lines, t.Muted.Render(ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	pending, completed := model.Split(tasks)
	switch {
	case len(tasks) == 0:
		lines = append(lines, t.Muted.Render("no tasks"))
	case group:
		lines = append(lines, t.Accent.Render("Pending"))
		lines = append(lines, section(pending, 1, showID)...)
		lines = append(lines, "")
		lines = append(lines, t.Accent.Render("Completed"))
		lines = append(lines, section(completed, len(pending)+1, showID)...)
	default:
		lines = append(lines, section(model.DisplayOrder(tasks), 1, showID)...)
	}

	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `tasks add \"Buy milk\"`"))
	return lines
}

func section(tasks []model.Task, start int, showID bool) []string {
	if len(tasks) == 0 {
		return []string{Current().Muted.Render("(none)")}
	}
	out := make([]string, 0, len(tasks))
	for i, task := range tasks {
		out = append(out, Row(start+i, task, showID))
	}
	return out
}
