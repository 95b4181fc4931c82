// Package sql opens the databases translation tables are created in.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Drivers of the supported dialects.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/syssam/velox-i18n/dialect"
	"github.com/syssam/velox-i18n/dialect/sql/schema"
)

// Driver wraps a database of one dialect.
type Driver struct {
	db      *sql.DB
	dialect string
}

// DriverName returns the database/sql driver name of a dialect.
func DriverName(d string) (string, error) {
	switch d {
	case dialect.MySQL:
		return "mysql", nil
	case dialect.Postgres:
		return "postgres", nil
	case dialect.SQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("sql: unsupported dialect %q", d)
	}
}

// Open opens a database of the given dialect. The connection is checked
// with a ping.
func Open(ctx context.Context, d, source string) (*Driver, error) {
	name, err := DriverName(d)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, source)
	if err != nil {
		return nil, fmt.Errorf("sql: open %s: %w", d, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sql: ping %s: %w", d, err)
	}
	return OpenDB(d, db), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(d string, db *sql.DB) *Driver {
	return &Driver{db: db, dialect: d}
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect name. Driver names wrapped by other drivers,
// e.g. "sqlite3-otel", resolve to the dialect they start with.
func (d *Driver) Dialect() string {
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// Create creates the given tables within a single transaction.
func (d *Driver) Create(ctx context.Context, tables ...*schema.Table) error {
	return schema.Create(ctx, d.db, d.Dialect(), tables...)
}

// Close closes the underlying database.
func (d *Driver) Close() error { return d.db.Close() }
