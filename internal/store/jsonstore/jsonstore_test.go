package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestGetMissingKey(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	v, ok, err := s.Get(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok || v != nil {
		t.Errorf("expected missing key, got %q", v)
	}
}

func TestSetThenGet(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := s.Set(ctx, "tasks", []byte(`[1]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set(ctx, "tasks", []byte(`[1,2]`)); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	v, ok, err := s.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != `[1,2]` {
		t.Errorf("expected [1,2], got %s", v)
	}

	// file is where users expect it and no temp files are left behind
	if _, err := os.Stat(filepath.Join(dir, "tasks.json")); err != nil {
		t.Errorf("expected tasks.json: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected a single file, got %v", names)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if _, err := New(dir); err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("directory not created: %v", err)
	}
}

func TestInvalidKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "../escape", `a\b`, ".."} {
		if err := s.Set(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Set(%q) should fail", key)
		}
		if _, _, err := s.Get(context.Background(), key); err == nil {
			t.Errorf("Get(%q) should fail", key)
		}
	}
}

func TestSetFailsWhenDirectoryIsGone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(context.Background(), "tasks", []byte("[]")); err == nil {
		t.Error("expected an error writing into a removed directory")
	}
}
