package pgstore

import (
	"context"
	"os"
	"testing"
)

// Runs against a real server only when TASKS_TEST_PG_DSN is set.
func TestUpsert(t *testing.T) {
	dsn := os.Getenv("TASKS_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TASKS_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	key := "tasks_test_upsert"
	defer s.pool.Exec(ctx, `DELETE FROM kv WHERE k = $1`, key)

	if _, ok, err := s.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, key, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, key, []byte(`[3]`)); err != nil {
		t.Fatal(err)
	}
	v, ok, err := s.Get(ctx, key)
	if err != nil || !ok || string(v) != `[3]` {
		t.Errorf("unexpected result %q ok=%v err=%v", v, ok, err)
	}
}

func TestOpenBadDSN(t *testing.T) {
	if _, err := Open(context.Background(), "::not a dsn::"); err == nil {
		t.Error("expected error for malformed dsn")
	}
}
