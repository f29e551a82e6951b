// Package informix renders migration expressions into IBM Informix SQL and
// executes them.
//
// Generator implements expr.Renderer. Every expression kind maps to one
// statement, several statements joined by a space (data operations, the
// primary key of CREATE TABLE) or nothing:
//
//	g := informix.NewGenerator()
//	g.Generate(&expr.RenameTable{OldName: "users", NewName: "people"})
//	// RENAME TABLE users TO people
//
// Operations Informix cannot express, such as renaming a column, go through
// the compatibility policy. By default they render as an SQL comment:
//
//	g.Generate(&expr.RenameColumn{Table: "users", OldName: "a", NewName: "b"})
//	// -- This feature not directly supported by most versions of Informix.
//
// Processor executes rendered statements on a dialect.ExecQuerier and runs
// the catalog queries used for existence checks.
package informix
