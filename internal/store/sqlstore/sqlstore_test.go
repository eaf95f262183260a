package sqlstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "db", "tasks.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteGetMissing(t *testing.T) {
	s := openTemp(t)
	_, ok, err := s.Get(context.Background(), "tasks")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestSQLiteUpsert(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for _, v := range []string{`[]`, `[{"id":1}]`} {
		if err := s.Set(ctx, "tasks", []byte(v)); err != nil {
			t.Fatalf("Set(%s) failed: %v", v, err)
		}
	}
	v, ok, err := s.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(v) != `[{"id":1}]` {
		t.Errorf("unexpected value %s", v)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 row, got %d", n)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "tasks", []byte(`[1]`)); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s2, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	v, ok, err := s2.Get(ctx, "tasks")
	if err != nil || !ok || string(v) != `[1]` {
		t.Errorf("unexpected reopen result %q ok=%v err=%v", v, ok, err)
	}
}

func TestOpenUnsupportedDialect(t *testing.T) {
	if _, err := Open(context.Background(), Dialect("oracle"), "x"); err == nil {
		t.Error("expected error for unsupported dialect")
	}
}

// Runs against a real server only when TASKS_TEST_MYSQL_DSN is set.
func TestMySQLUpsert(t *testing.T) {
	dsn := os.Getenv("TASKS_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("TASKS_TEST_MYSQL_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, MySQL, dsn)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	key := "tasks_test_" + t.Name()
	if err := s.Set(ctx, key, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, key, []byte(`[2]`)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok || string(v) != `[2]` {
		t.Errorf("unexpected result %q ok=%v err=%v", v, ok, err)
	}
	s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
}
