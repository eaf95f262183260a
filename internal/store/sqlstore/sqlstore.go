// Package sqlstore keeps key-value entries in a SQL table through database/sql.
// SQLite and MySQL are supported.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect names a supported database.
type Dialect string

const (
	SQLite Dialect = "sqlite3"
	MySQL  Dialect = "mysql"
)

var schema = map[Dialect]string{
	SQLite: `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v BLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	MySQL: `CREATE TABLE IF NOT EXISTS kv (
		k VARCHAR(191) PRIMARY KEY,
		v LONGBLOB NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
}

var upsert = map[Dialect]string{
	SQLite: `INSERT INTO kv (k, v, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = CURRENT_TIMESTAMP`,
	MySQL: `INSERT INTO kv (k, v) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE v = VALUES(v)`,
}

// Store is a SQL-backed key-value table.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// OpenSQLite opens (and creates) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return Open(ctx, SQLite, path)
}

// Open connects with dsn and ensures the kv table exists.
func Open(ctx context.Context, d Dialect, dsn string) (*Store, error) {
	ddl, ok := schema[d]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", d)
	}
	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if d == SQLite {
		// one writer; avoids "database is locked" between pooled connections
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db, dialect: d}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, upsert[s.dialect], key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
