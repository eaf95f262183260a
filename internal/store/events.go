package store

import "github.com/idilsaglam/tasks/internal/model"

// Listener receives the result of every successful mutation.
// Tasks are passed by value; listeners cannot reach the store's collection.
type Listener interface {
	OnTaskAdded(t model.Task)
	OnTaskEdited(id int64, text string)
	OnTaskCompleted(t model.Task)
	OnTaskDeleted(id int64)
}

// ListenerFuncs adapts optional callbacks to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Added     func(model.Task)
	Edited    func(id int64, text string)
	Completed func(model.Task)
	Deleted   func(id int64)
}

func (l ListenerFuncs) OnTaskAdded(t model.Task) {
	if l.Added != nil {
		l.Added(t)
	}
}

func (l ListenerFuncs) OnTaskEdited(id int64, text string) {
	if l.Edited != nil {
		l.Edited(id, text)
	}
}

func (l ListenerFuncs) OnTaskCompleted(t model.Task) {
	if l.Completed != nil {
		l.Completed(t)
	}
}

func (l ListenerFuncs) OnTaskDeleted(id int64) {
	if l.Deleted != nil {
		l.Deleted(id)
	}
}

// Notifier shows a short human-readable message. Fire and forget.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }
