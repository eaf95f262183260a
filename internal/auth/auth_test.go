package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func useTempDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".tasks")
	old := Dir
	Dir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { Dir = old })
	t.Setenv(EnvToken, "")
	return dir
}

func TestGetWithoutToken(t *testing.T) {
	useTempDir(t)
	ti, err := Get()
	if err != nil || ti != nil {
		t.Fatalf("expected no token, got %+v err=%v", ti, err)
	}
}

func TestSetGetDelete(t *testing.T) {
	dir := useTempDir(t)

	if err := Set("Bearer  abc123 "); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	fi, err := os.Stat(filepath.Join(dir, credFileName))
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("expected 0600, got %v", fi.Mode().Perm())
	}

	ti, err := Get()
	if err != nil || ti == nil {
		t.Fatalf("Get: %+v err=%v", ti, err)
	}
	if ti.Token != "abc123" || ti.Source != "file" {
		t.Errorf("unexpected token info %+v", ti)
	}

	if err := Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := Delete(); err != nil {
		t.Errorf("second Delete should be a no-op, got %v", err)
	}
	if ti, _ := Get(); ti != nil {
		t.Errorf("token still present: %+v", ti)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	useTempDir(t)
	if err := Set("from-file"); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvToken, "bearer from-env")

	ti, err := Get()
	if err != nil {
		t.Fatal(err)
	}
	if ti.Token != "from-env" || ti.Source != "env" {
		t.Errorf("unexpected token info %+v", ti)
	}
}

func TestSetRejectsEmpty(t *testing.T) {
	useTempDir(t)
	for _, tok := range []string{"", "   ", "Bearer "} {
		if err := Set(tok); err == nil {
			t.Errorf("Set(%q) should fail", tok)
		}
	}
}

func TestCorruptCredentials(t *testing.T) {
	dir := useTempDir(t)
	os.MkdirAll(dir, 0o700)
	os.WriteFile(filepath.Join(dir, credFileName), []byte("nope"), 0o600)
	if _, err := Get(); err == nil {
		t.Error("expected parse error")
	}
}

func TestStripBearer(t *testing.T) {
	cases := map[string]string{
		"abc":          "abc",
		"Bearer abc":   "abc",
		"BEARER  abc ": "abc",
		"Bearerabc":    "Bearerabc",
		"":             "",
	}
	for in, want := range cases {
		if got := StripBearer(in); got != want {
			t.Errorf("StripBearer(%q) = %q, want %q", in, got, want)
		}
	}
}
