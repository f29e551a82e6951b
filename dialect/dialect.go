package dialect

import (
	"context"
	"database/sql/driver"
)

// Dialect names.
const (
	Informix = "informix"
	SQLite   = "sqlite"
)

// ExecQuerier runs rendered migration statements and catalog queries.
type ExecQuerier interface {
	// Exec runs a DDL or DML statement of a migration step. If v is not
	// nil, the driver result is stored in it (dialect/sql.Result for SQL
	// drivers).
	Exec(ctx context.Context, stmt string, args, v any) error
	// Query runs a catalog or table read and stores the rows in v
	// (*dialect/sql.Rows for SQL drivers).
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for migration
// executors.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	// The provided context is used until the transaction is committed or rolled back.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}

type nopTx struct {
	Driver
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

// NopTx returns a Tx with a no-op Commit / Rollback methods wrapping
// the given driver. Statements are executed outside of any transaction.
func NopTx(d Driver) Tx {
	return nopTx{d}
}
