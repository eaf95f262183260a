package model

// Task is the domain model for a single entry in the list.
// ID is fixed at creation and survives edits and completion.
type Task struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// Split returns the pending and completed tasks, each in collection order.
func Split(tasks []Task) (pending, completed []Task) {
	for _, t := range tasks {
		if t.Completed {
			completed = append(completed, t)
		} else {
			pending = append(pending, t)
		}
	}
	return
}

// Stats counts completed and pending tasks.
func Stats(tasks []Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// DisplayOrder returns pending tasks followed by completed ones. This is the
// order lists are shown in and the order 1-based positions refer to.
func DisplayOrder(tasks []Task) []Task {
	p, c := Split(tasks)
	return append(p, c...)
}
