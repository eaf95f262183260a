package tui

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/idilsaglam/tasks/internal/model"
)

// board is the rendered copy of the collection. It is kept current by the
// store's listener events and never reads the store after construction.
type board struct {
	tasks    []model.Task
	removing map[int64]bool
	notices  []string
}

func newBoard(tasks []model.Task) *board {
	return &board{tasks: tasks, removing: make(map[int64]bool)}
}

func (b *board) OnTaskAdded(t model.Task) {
	b.tasks = append(b.tasks, t)
}

func (b *board) OnTaskEdited(id int64, text string) {
	if i := b.index(id); i >= 0 {
		b.tasks[i].Text = text
	}
}

func (b *board) OnTaskCompleted(t model.Task) {
	if i := b.index(t.ID); i >= 0 {
		b.tasks[i] = t
	}
	delete(b.removing, t.ID)
}

func (b *board) OnTaskDeleted(id int64) {
	if i := b.index(id); i >= 0 {
		b.tasks = append(b.tasks[:i], b.tasks[i+1:]...)
	}
	delete(b.removing, id)
}

func (b *board) Notify(msg string) {
	b.notices = append(b.notices, msg)
}

// takeNotice returns the latest notification since the last call.
func (b *board) takeNotice() (string, bool) {
	if len(b.notices) == 0 {
		return "", false
	}
	msg := b.notices[len(b.notices)-1]
	b.notices = b.notices[:0]
	return msg, true
}

func (b *board) index(id int64) int {
	for i, t := range b.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// items returns the list rows: pending first, then completed.
func (b *board) items() []list.Item {
	ordered := model.DisplayOrder(b.tasks)
	out := make([]list.Item, 0, len(ordered))
	for _, t := range ordered {
		out = append(out, listItem{task: t, removing: b.removing[t.ID]})
	}
	return out
}
