// Package dialect names the database dialects translation tables can be
// rendered for.
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
package dialect

import "fmt"

// Dialect names for external usage.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// Validate returns an error if name is not a supported dialect.
func Validate(name string) error {
	switch name {
	case MySQL, SQLite, Postgres:
		return nil
	default:
		return fmt.Errorf("dialect: unsupported dialect %q", name)
	}
}
