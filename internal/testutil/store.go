package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// Clock returns a time source that advances one millisecond per call,
// starting at start. Ids allocated through it are start, start+1, ...
func Clock(start int64) func() time.Time {
	next := start
	return func() time.Time {
		t := time.UnixMilli(next)
		next++
		return t
	}
}

// NewStore returns an initialized store over a fresh Memory backend with
// ids starting at 1. Each seed is added in order; a leading "x " marks the
// task completed.
func NewStore(t *testing.T, seed ...string) (*store.Store, *store.Memory) {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	st := store.New(mem, store.WithClock(Clock(1)))
	st.Initialize(ctx)
	for _, s := range seed {
		done := len(s) > 2 && s[:2] == "x "
		if done {
			s = s[2:]
		}
		task, err := st.Add(ctx, s)
		if err != nil {
			t.Fatalf("seed %q: %v", s, err)
		}
		if done {
			if _, err := st.Complete(ctx, task.ID); err != nil {
				t.Fatalf("complete %q: %v", s, err)
			}
		}
	}
	return st, mem
}

// Texts returns the text of each task in order.
func Texts(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Text)
	}
	return out
}
