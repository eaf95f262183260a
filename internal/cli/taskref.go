package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/idilsaglam/tasks/internal/model"
	"github.com/idilsaglam/tasks/internal/store"
)

// TaskRef is a parsed task reference.
type TaskRef struct {
	Pos int   // 1-based position in `tasks ls` order, 0 if ID is set
	ID  int64 // task id, 0 if Pos is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference.
//
// Parsing rules:
//  1. All digits: a position, counted from 1 in display order
//  2. "id:" followed by digits: a task id
//  3. Anything else is invalid
func ParseTaskRef(s string) (TaskRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", s)
		}
		return TaskRef{Pos: n}, nil
	}

	if rest, ok := cutPrefixFold(s, "id:"); ok && isAllDigits(rest) {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil || id < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", s)
		}
		return TaskRef{ID: id}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", s)
}

// Resolve finds the referenced task in tasks. Positions count pending tasks
// first, then completed ones, matching `tasks ls`.
func (r TaskRef) Resolve(tasks []model.Task) (model.Task, error) {
	if r.ID != 0 {
		for _, t := range tasks {
			if t.ID == r.ID {
				return t, nil
			}
		}
		return model.Task{}, fmt.Errorf("no task with id %d: %w", r.ID, store.ErrNotFound)
	}
	ordered := model.DisplayOrder(tasks)
	if r.Pos < 1 || r.Pos > len(ordered) {
		return model.Task{}, fmt.Errorf("no task at position %d: %w", r.Pos, store.ErrNotFound)
	}
	return ordered[r.Pos-1], nil
}

func (r TaskRef) String() string {
	if r.ID != 0 {
		return fmt.Sprintf("id:%d", r.ID)
	}
	return strconv.Itoa(r.Pos)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
