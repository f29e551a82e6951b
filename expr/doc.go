// Package expr defines the closed set of migration expressions.
//
// An expression is an immutable description of one schema or data change,
// built by a caller per migration step and rendered once by a dialect
// generator:
//
//	e := &expr.CreateForeignKey{ForeignKey: &schema.ForeignKey{
//	    Table:      "orders",
//	    Columns:    []string{"customer_id"},
//	    RefTable:   "customers",
//	    RefColumns: []string{"id"},
//	    OnDelete:   schema.Cascade,
//	}}
//	query, err := e.Accept(generator)
//
// Dispatch is exhaustive: Renderer has one method per expression type, so a
// dialect that misses a kind does not compile.
package expr
