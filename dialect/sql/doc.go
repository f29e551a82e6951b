// Package sql provides the dialect independent building blocks of the SQL
// generators and a database/sql backed dialect.Driver.
//
// # Rendering primitives
//
//   - Quoter: identifier and literal quoting, configured per dialect
//   - TypeMap: semantic type to native type resolution with size tiers
//   - Pipeline: ordered column clause steps, rendered in a RenderContext
//   - CompatibilityPolicy: fallback text for operations a dialect lacks
//
// A dialect package composes them:
//
//	q := &sql.Quoter{Open: `"`, Close: `"`, Special: `"%'()*+|,{}-./:;<=>?^[]`}
//	q.QuoteIdentifier("users")      // users
//	q.QuoteIdentifier("order-line") // "order-line"
//	q.QuoteValue("O'Brien")         // 'O''Brien'
//
//	m := sql.NewTypeMap().
//	    Set(schema.TypeString, "NVARCHAR(255)").
//	    SetMax(schema.TypeString, 255, "NVARCHAR($size)")
//	m.Resolve(schema.TypeString, 100, 0) // NVARCHAR(100)
//
// # Execution
//
// Driver wraps *sql.DB and implements dialect.Driver. StatsDriver and
// DebugDriver decorate any dialect.Driver with statistics and slog output:
//
//	drv, err := sql.Open(dialect.Informix, "odbc", dsn)
//	if err != nil {
//	    return err
//	}
//	stats := sql.NewStatsDriver(drv, sql.WithSlowLog(nil))
package sql
