package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/ui"
)

// listItem adapts a task to bubbles/list.Item.
type listItem struct {
	task     model.Task
	removing bool
}

func (i listItem) FilterValue() string { return i.task.Text }

// itemDelegate renders one task per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()

	box := t.Muted.Render(t.BoxUnchecked)
	width := m.Width() - 8
	if width < 10 {
		width = 10
	}
	text := ui.Truncate(it.task.Text, width)
	switch {
	case it.removing:
		text = t.Removing.Render(text)
	case it.task.Completed:
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
	}
	fmt.Fprint(w, prefix+box+" "+text)
}
