// Package dialect provides the executor abstraction that migrix hands its
// rendered SQL to.
//
// The generators never open connections. They produce SQL text that is
// executed by a Driver, usually the database/sql backed implementation in
// dialect/sql.
//
// # Dialect Constants
//
//	dialect.Informix = "informix"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Transaction Interface
//
// The Tx interface extends ExecQuerier with transaction methods:
//
//	type Tx interface {
//	    ExecQuerier
//	    Commit() error
//	    Rollback() error
//	}
//
// NopTx adapts a Driver to Tx for callers that run outside a transaction.
//
// # Sub-packages
//
//   - dialect/sql: database/sql driver, quoting, type maps, clause pipelines
//   - dialect/sql/informix: Informix generator and processor
//   - dialect/sql/schema: atlas interop, migration directories, validation
package dialect
