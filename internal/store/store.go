// Package store owns the task collection and mirrors it to a key-value
// backend after every mutation.
//
// All mutations go through Store methods. Callers receive copies of tasks,
// so the persisted mirror cannot drift from memory behind the store's back.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/idilsaglam/tasks/internal/model"
)

// DefaultKey is the backend key the collection is stored under.
const DefaultKey = "tasks"

// msgNotFound is shown when Edit or Complete is given an unknown id.
const msgNotFound = "Task not found."

// Store is the authoritative task collection.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	key       string
	now       func() time.Time
	logger    *log.Logger
	notifier  Notifier
	listeners []Listener

	tasks  []model.Task
	lastID int64
	loaded bool
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the backend key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the time source used for id allocation.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for warnings about loading and saving.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

// WithListener registers a listener at construction time.
func WithListener(l Listener) Option {
	return func(s *Store) { s.listeners = append(s.listeners, l) }
}

// New returns a Store over b. The collection is loaded by Initialize,
// or lazily by the first operation.
func New(b Backend, opts ...Option) *Store {
	s := &Store{
		backend: b,
		key:     DefaultKey,
		now:     time.Now,
		logger:  log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddListener registers l for all subsequent mutations.
func (s *Store) AddListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// SetNotifier replaces the notification sink.
func (s *Store) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Initialize loads the persisted collection. A missing, unreadable or
// corrupt value yields an empty collection; nothing is returned because
// nothing here is fatal. Calls after the first are no-ops.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)
}

func (s *Store) load(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true
	s.tasks = nil

	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		s.logger.Printf("warning: read %q: %v; starting with an empty list", s.key, err)
		return
	}
	if !ok || len(raw) == 0 {
		return
	}
	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		s.logger.Printf("warning: decode %q: %v; starting with an empty list", s.key, err)
		return
	}

	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			s.logger.Printf("warning: dropping duplicate task id %d", t.ID)
			continue
		}
		seen[t.ID] = true
		s.tasks = append(s.tasks, t)
		if t.ID > s.lastID {
			s.lastID = t.ID
		}
	}
}

// Add appends a new pending task with the trimmed text.
func (s *Store) Add(ctx context.Context, raw string) (model.Task, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		s.notify("Please enter a task.")
		return model.Task{}, ErrValidation
	}

	s.mu.Lock()
	s.load(ctx)
	prev := s.snapshot()
	t := model.Task{ID: s.nextID(), Text: text}
	s.tasks = append(s.tasks, t)
	err := s.persist(ctx, prev)
	ls := s.listenersLocked()
	s.mu.Unlock()

	if err != nil {
		s.notify(saveFailed(err))
		return model.Task{}, err
	}
	for _, l := range ls {
		l.OnTaskAdded(t)
	}
	s.notify(fmt.Sprintf("Task \"%s\" added successfully.", text))
	return t, nil
}

// Edit replaces the text of task id. Position, id and completion are unchanged.
func (s *Store) Edit(ctx context.Context, id int64, raw string) (model.Task, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		s.notify("Please enter a task.")
		return model.Task{}, ErrValidation
	}

	s.mu.Lock()
	s.load(ctx)
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		s.notify(msgNotFound)
		return model.Task{}, fmt.Errorf("edit %d: %w", id, ErrNotFound)
	}
	prev := s.snapshot()
	s.tasks[i].Text = text
	t := s.tasks[i]
	err := s.persist(ctx, prev)
	ls := s.listenersLocked()
	s.mu.Unlock()

	if err != nil {
		s.notify(saveFailed(err))
		return model.Task{}, err
	}
	for _, l := range ls {
		l.OnTaskEdited(id, text)
	}
	s.notify("Task updated successfully.")
	return t, nil
}

// Complete marks task id completed. Completing a completed task returns it
// unchanged without writing.
func (s *Store) Complete(ctx context.Context, id int64) (model.Task, error) {
	s.mu.Lock()
	s.load(ctx)
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		s.notify(msgNotFound)
		return model.Task{}, fmt.Errorf("complete %d: %w", id, ErrNotFound)
	}
	if s.tasks[i].Completed {
		t := s.tasks[i]
		s.mu.Unlock()
		return t, nil
	}
	prev := s.snapshot()
	s.tasks[i].Completed = true
	t := s.tasks[i]
	err := s.persist(ctx, prev)
	ls := s.listenersLocked()
	s.mu.Unlock()

	if err != nil {
		s.notify(saveFailed(err))
		return model.Task{}, err
	}
	for _, l := range ls {
		l.OnTaskCompleted(t)
	}
	s.notify("Task marked as completed.")
	return t, nil
}

// Delete removes task id whatever its state. Unknown ids are a silent no-op:
// the task is already gone, which is what the caller asked for.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	s.load(ctx)
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil
	}
	prev := s.snapshot()
	gone := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	err := s.persist(ctx, prev)
	ls := s.listenersLocked()
	s.mu.Unlock()

	if err != nil {
		s.notify(saveFailed(err))
		return err
	}
	for _, l := range ls {
		l.OnTaskDeleted(id)
	}
	if gone.Completed {
		s.notify(fmt.Sprintf("Completed task \"%s\" deleted successfully.", gone.Text))
	} else {
		s.notify(fmt.Sprintf("Task \"%s\" deleted successfully.", gone.Text))
	}
	return nil
}

// Tasks returns a copy of the whole collection in order.
func (s *Store) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Pending returns a copy of the tasks not yet completed.
func (s *Store) Pending() []model.Task {
	p, _ := model.Split(s.Tasks())
	return p
}

// Completed returns a copy of the completed tasks.
func (s *Store) Completed() []model.Task {
	_, c := model.Split(s.Tasks())
	return c
}

// Get returns task id and whether it exists.
func (s *Store) Get(id int64) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// nextID is time based but never reuses or goes below an id already handed out.
func (s *Store) nextID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	for _, t := range s.tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	s.lastID = id
	return id
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) listenersLocked() []Listener {
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

// persist writes the collection, retrying once. When both attempts fail the
// collection is restored to prev so memory matches what is on disk.
func (s *Store) persist(ctx context.Context, prev []model.Task) error {
	b, err := Encode(s.tasks)
	if err != nil {
		s.tasks = prev
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if err = s.backend.Set(ctx, s.key, b); err == nil {
		return nil
	}
	s.logger.Printf("warning: write %q: %v; retrying", s.key, err)
	if err = s.backend.Set(ctx, s.key, b); err == nil {
		return nil
	}
	s.logger.Printf("warning: write %q failed again: %v; change discarded", s.key, err)
	s.tasks = prev
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func (s *Store) notify(msg string) {
	s.mu.Lock()
	n := s.notifier
	s.mu.Unlock()
	if n != nil {
		n.Notify(msg)
	}
}

func saveFailed(err error) string {
	cause := strings.TrimPrefix(err.Error(), ErrPersistence.Error()+": ")
	return "Could not save tasks: " + cause
}

// Encode serialises tasks in the persisted layout. An empty collection is "[]".
func Encode(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}
