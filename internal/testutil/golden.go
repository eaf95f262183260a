package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

// Golden compares rendered output against testdata/<name>.golden.
// Terminal styling and trailing spaces are dropped first, so a golden file
// holds what a reader sees whatever the theme or color profile.
// If the GOLDEN_UPDATE environment variable is set, updates the golden file.
func Golden(t *testing.T, name string, got []byte) {
	t.Helper()

	got = Normalize(got)
	goldenPath := filepath.Join("testdata", name+".golden")

	if os.Getenv("GOLDEN_UPDATE") != "" {
		if err := os.MkdirAll("testdata", 0755); err != nil {
			t.Fatalf("failed to create testdata dir: %v", err)
		}
		if err := os.WriteFile(goldenPath, got, 0644); err != nil {
			t.Fatalf("failed to update golden file: %v", err)
		}
		return
	}

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		t.Fatalf("failed to read golden file %s: %v\nGot:\n%s", goldenPath, err, got)
	}

	if !bytes.Equal(got, want) {
		t.Errorf("output mismatch for %s\nWant:\n%s\nGot:\n%s", name, want, got)
	}
}

// GoldenLines joins lines with newlines and compares them like Golden.
func GoldenLines(t *testing.T, name string, lines []string) {
	t.Helper()
	Golden(t, name, []byte(strings.Join(lines, "\n")+"\n"))
}

// Normalize strips ANSI escape sequences and trailing spaces from each line.
func Normalize(b []byte) []byte {
	lines := strings.Split(ansi.Strip(string(b)), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return []byte(strings.Join(lines, "\n"))
}
