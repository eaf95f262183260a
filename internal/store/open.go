package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/idilsaglam/tasks/internal/store/jsonstore"
	"github.com/idilsaglam/tasks/internal/store/pgstore"
	"github.com/idilsaglam/tasks/internal/store/sqlstore"
)

// Drivers lists the names accepted by OpenBackend.
var Drivers = []string{"json", "sqlite", "mysql", "postgres", "memory"}

// OpenBackend opens the backend named by driver. path is used by the file
// based drivers (json: a directory, sqlite: a database file); dsn by the
// server based ones.
func OpenBackend(ctx context.Context, driver, path, dsn string) (Backend, error) {
	switch strings.ToLower(driver) {
	case "", "json":
		return jsonstore.New(path)
	case "sqlite", "sqlite3":
		if path == "" {
			path = "tasks.db"
		}
		return sqlstore.OpenSQLite(ctx, path)
	case "mysql":
		if dsn == "" {
			return nil, fmt.Errorf("mysql: storage.dsn is required")
		}
		return sqlstore.Open(ctx, sqlstore.MySQL, dsn)
	case "postgres", "postgresql", "pg":
		if dsn == "" {
			return nil, fmt.Errorf("postgres: storage.dsn is required")
		}
		return pgstore.Open(ctx, dsn)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q (want one of %s)", driver, strings.Join(Drivers, ", "))
}
