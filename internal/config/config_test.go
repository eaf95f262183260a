package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// isolate points HOME and the working directory at fresh temp dirs.
func isolate(t *testing.T) (home, cwd string) {
	t.Helper()
	home = t.TempDir()
	cwd = t.TempDir()
	t.Setenv("HOME", home)
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(cwd); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })
	return home, cwd
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if cfg.Storage != want.Storage {
		t.Errorf("storage: expected %+v, got %+v", want.Storage, cfg.Storage)
	}
	if cfg.UI != want.UI {
		t.Errorf("ui: expected %+v, got %+v", want.UI, cfg.UI)
	}
	if cfg.Server.Addr != "127.0.0.1:8080" {
		t.Errorf("unexpected addr %q", cfg.Server.Addr)
	}
}

func TestProjectOverridesGlobal(t *testing.T) {
	home, cwd := isolate(t)
	writeFile(t, filepath.Join(home, ".tasks", "config.yaml"), `
storage:
  driver: sqlite
  path: /tmp/global.db
ui:
  theme: neon
`)
	writeFile(t, filepath.Join(cwd, ".tasks", "config.yaml"), `
storage:
  path: ./project.db
ui:
  removal_delay: 0s
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("expected driver from global file, got %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Path != "./project.db" {
		t.Errorf("expected project path, got %q", cfg.Storage.Path)
	}
	if cfg.UI.Theme != "neon" {
		t.Errorf("expected neon theme, got %q", cfg.UI.Theme)
	}
	if cfg.UI.RemovalDelay != 0 {
		t.Errorf("expected zero removal delay, got %v", cfg.UI.RemovalDelay)
	}
	if cfg.UI.NotifyTimeout != 3*time.Second {
		t.Errorf("expected default notify timeout, got %v", cfg.UI.NotifyTimeout)
	}
}

func TestEnvOverridesFiles(t *testing.T) {
	_, cwd := isolate(t)
	writeFile(t, filepath.Join(cwd, ".tasks", "config.yaml"), "storage:\n  driver: sqlite\n")
	t.Setenv("TASKS_STORAGE_DRIVER", "memory")
	t.Setenv("TASKS_UI_NOTIFY_TIMEOUT", "1s")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.Driver != "memory" {
		t.Errorf("expected env driver, got %q", cfg.Storage.Driver)
	}
	if cfg.UI.NotifyTimeout != time.Second {
		t.Errorf("expected 1s, got %v", cfg.UI.NotifyTimeout)
	}
}

func TestExplicitFile(t *testing.T) {
	_, cwd := isolate(t)
	p := filepath.Join(cwd, "custom.yaml")
	writeFile(t, p, "server:\n  addr: \":9999\"\n")

	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Addr != ":9999" {
		t.Errorf("expected :9999, got %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(cwd, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit file")
	}
}

func TestMalformedFile(t *testing.T) {
	_, cwd := isolate(t)
	writeFile(t, filepath.Join(cwd, ".tasks", "config.yaml"), "storage: [unclosed\n")
	if _, err := Load(""); err == nil {
		t.Error("expected parse error")
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	_, cwd := isolate(t)
	p := filepath.Join(cwd, "out", "config.yaml")

	if err := WriteDefault(p, false); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	b, _ := os.ReadFile(p)
	if !strings.Contains(string(b), "removal_delay: 300ms") {
		t.Errorf("expected human readable duration, got:\n%s", b)
	}

	cfg, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI != Default().UI || cfg.Storage != Default().Storage {
		t.Errorf("round trip mismatch: %+v", cfg)
	}

	if err := WriteDefault(p, false); err == nil {
		t.Error("expected refusal to overwrite")
	}
	if err := WriteDefault(p, true); err != nil {
		t.Errorf("forced overwrite failed: %v", err)
	}
}
