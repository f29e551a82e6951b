package schema

import (
	"context"
	stdsql "database/sql"
	"fmt"

	atlas "ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/expr"
)

// OpenInspector returns the atlas inspector for a database of the given
// dialect. Only SQLite sources can be inspected.
func OpenInspector(name string, db *stdsql.DB) (atlas.Inspector, error) {
	switch name {
	case dialect.SQLite:
		drv, err := sqlite.Open(db)
		if err != nil {
			return nil, fmt.Errorf("sql/schema: opening sqlite inspector: %w", err)
		}
		return drv, nil
	default:
		return nil, migrix.NewUnimplementedFeatureError(name, "schema inspection")
	}
}

// Inspect reads the tables of the named schema, the connection default if
// empty, and returns the expressions recreating them in another database.
// The expressions are not schema qualified. Tables and their indexes come
// first, foreign keys last so that every referenced table exists.
func Inspect(ctx context.Context, insp atlas.Inspector, name string) ([]expr.Expression, error) {
	s, err := insp.InspectSchema(ctx, name, nil)
	if err != nil {
		return nil, fmt.Errorf("sql/schema: inspecting schema: %w", err)
	}
	var tables, fks []expr.Expression
	for _, t := range s.Tables {
		exprs, err := FromTable(t)
		if err != nil {
			return nil, err
		}
		for _, e := range exprs {
			unqualify(e)
			if _, ok := e.(*expr.CreateForeignKey); ok {
				fks = append(fks, e)
			} else {
				tables = append(tables, e)
			}
		}
	}
	return append(tables, fks...), nil
}

func unqualify(e expr.Expression) {
	switch e := e.(type) {
	case *expr.CreateTable:
		e.Schema = ""
	case *expr.CreateIndex:
		e.Index.Schema = ""
	case *expr.CreateForeignKey:
		e.ForeignKey.Schema, e.ForeignKey.RefSchema = "", ""
	}
}
