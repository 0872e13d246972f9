// Package dialect identifies the active SQL backend.
//
// The engine ships two query implementations for every aggregate (Postgres
// for production, SQLite for tests). Which one runs is decided exactly once,
// at startup, from explicit configuration - repositories receive the parsed
// value and never inspect the environment themselves.
package dialect

import "fmt"

// Dialect is the SQL syntax variant of the configured database engine.
type Dialect string

const (
	// Postgres is the production backend.
	Postgres Dialect = "postgres"

	// SQLite is the embedded backend used by tests and local development.
	SQLite Dialect = "sqlite"
)

// Parse validates a configured dialect name.
// An unknown value is a fatal configuration error: callers are expected to
// abort startup rather than fall back to a guess.
func Parse(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, SQLite:
		return Dialect(s), nil
	case "":
		// Unset defaults to the production dialect.
		return Postgres, nil
	default:
		return "", fmt.Errorf("unknown storage dialect %q (expected %q or %q)", s, Postgres, SQLite)
	}
}

// IsSQLite reports whether the test/embedded dialect is active.
func (d Dialect) IsSQLite() bool { return d == SQLite }

// String implements fmt.Stringer.
func (d Dialect) String() string { return string(d) }
