// Package schema defines the database-agnostic model that migration
// expressions carry: columns, foreign keys, indexes and constraints.
//
// Values in this package are plain data. They are never mutated while being
// rendered; the rendering context (create or alter) is passed to the column
// formatter explicitly.
//
//	col := &schema.Column{
//	    Name:     "created_at",
//	    Type:     schema.TypeDateTime,
//	    Nullable: schema.NullFalse,
//	    Default:  schema.CurrentDateTime,
//	}
//
// # Defaults
//
// A column default is one of:
//
//   - schema.Undefined{}: no DEFAULT clause (nil is treated the same)
//   - schema.Literal{V: 42}: a literal quoted by the dialect
//   - a schema.SystemMethod such as schema.CurrentDateTime
//
// # Nullability
//
// Nullability is tri-state. Dialects decide what NullUnspecified means; the
// Informix generator renders it as NOT NULL.
package schema
