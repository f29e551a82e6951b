package informix

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/expr"
	"github.com/syssam/migrix/schema"
)

// unsupported is the fallback message of operations Informix has no
// statement for.
const unsupported = "This feature not directly supported by most versions of Informix."

// Generator renders expressions into Informix SQL. It is immutable after
// construction and safe for concurrent use.
type Generator struct {
	quoter *sql.Quoter
	column *ColumnFormatter
	compat *sql.CompatibilityPolicy
}

// Option configures the Generator.
type Option func(*Generator)

// WithCompatibilityMode sets how operations without Informix syntax are
// rendered. The default is sql.CompatComment.
func WithCompatibilityMode(mode sql.CompatibilityMode) Option {
	return func(g *Generator) {
		g.compat.Mode = mode
	}
}

// WithLogger sets the logger receiving compatibility warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.compat.Logger = logger
	}
}

// NewGenerator returns an Informix generator.
func NewGenerator(opts ...Option) *Generator {
	q := NewQuoter()
	g := &Generator{
		quoter: q,
		column: NewColumnFormatter(q, NewTypeMap()),
		compat: &sql.CompatibilityPolicy{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Quoter returns the quoter of the generator.
func (g *Generator) Quoter() *sql.Quoter { return g.quoter }

// Column returns the column formatter of the generator.
func (g *Generator) Column() *ColumnFormatter { return g.column }

// Generate renders e.
func (g *Generator) Generate(e expr.Expression) (string, error) {
	if e == nil {
		return "", errors.New("informix: nil expression")
	}
	return e.Accept(g)
}

// CreateTable implements expr.Renderer.
func (g *Generator) CreateTable(e *expr.CreateTable) (string, error) {
	table := g.quoter.QuoteTable(e.Schema, e.Table)
	columns, err := g.column.RenderColumns(table, e.Columns)
	if err != nil {
		return "", err
	}
	return "CREATE TABLE " + table + " (" + columns + ")", nil
}

// DeleteTable implements expr.Renderer.
func (g *Generator) DeleteTable(e *expr.DeleteTable) (string, error) {
	return "DROP TABLE " + g.quoter.QuoteTable(e.Schema, e.Table), nil
}

// RenameTable implements expr.Renderer.
func (g *Generator) RenameTable(e *expr.RenameTable) (string, error) {
	return "RENAME TABLE " + g.quoter.QuoteTable(e.Schema, e.OldName) + " TO " + g.quoter.QuoteIdentifier(e.NewName), nil
}

// AlterTable implements expr.Renderer. Informix has no table descriptions.
func (g *Generator) AlterTable(*expr.AlterTable) (string, error) {
	return "", nil
}

// CreateColumn implements expr.Renderer.
func (g *Generator) CreateColumn(e *expr.CreateColumn) (string, error) {
	if e.Column == nil {
		return "", missing(e, "column")
	}
	def, err := g.column.RenderForCreate(e.Column)
	if err != nil {
		return "", err
	}
	return "ALTER TABLE " + g.quoter.QuoteTable(e.Schema, e.Table) + " ADD " + def, nil
}

// AlterColumn implements expr.Renderer. Columns that cannot be altered
// render the compatibility fallback.
func (g *Generator) AlterColumn(e *expr.AlterColumn) (string, error) {
	if e.Column == nil {
		return "", missing(e, "column")
	}
	clause, err := g.column.RenderForAlter(e.Column)
	if err != nil {
		return g.fallback(err)
	}
	return "ALTER TABLE " + g.quoter.QuoteTable(e.Schema, e.Table) + " " + clause, nil
}

// RenameColumn implements expr.Renderer.
func (g *Generator) RenameColumn(*expr.RenameColumn) (string, error) {
	return g.compat.Handle(unsupported)
}

// DeleteColumn implements expr.Renderer. An empty column list renders
// nothing.
func (g *Generator) DeleteColumn(e *expr.DeleteColumn) (string, error) {
	if len(e.Columns) == 0 || e.Columns[0] == "" {
		return "", nil
	}
	var b strings.Builder
	b.WriteString("ALTER TABLE ")
	b.WriteString(g.quoter.QuoteTable(e.Schema, e.Table))
	for _, c := range e.Columns {
		b.WriteString(" DROP COLUMN ")
		b.WriteString(g.quoter.QuoteIdentifier(c))
	}
	return b.String(), nil
}

// CreateSchema implements expr.Renderer.
func (g *Generator) CreateSchema(e *expr.CreateSchema) (string, error) {
	return "CREATE SCHEMA " + g.quoter.QuoteIdentifier(e.Schema), nil
}

// AlterSchema implements expr.Renderer.
func (g *Generator) AlterSchema(*expr.AlterSchema) (string, error) {
	return g.compat.Handle(unsupported)
}

// DeleteSchema implements expr.Renderer.
func (g *Generator) DeleteSchema(e *expr.DeleteSchema) (string, error) {
	return "DROP SCHEMA " + g.quoter.QuoteIdentifier(e.Schema) + " RESTRICT", nil
}

// CreateIndex implements expr.Renderer.
func (g *Generator) CreateIndex(e *expr.CreateIndex) (string, error) {
	idx := e.Index
	if idx == nil {
		return "", missing(e, "index")
	}
	columns := make([]string, len(idx.Columns))
	for i, c := range idx.Columns {
		columns[i] = g.quoter.QuoteIdentifier(c.Name)
		if c.Direction == schema.Desc {
			columns[i] += " DESC"
		}
	}
	var unique string
	if idx.Unique {
		unique = "UNIQUE "
	}
	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique,
		g.objectName(idx.Schema, idx.Name),
		g.quoter.QuoteTable(idx.Schema, idx.Table),
		strings.Join(columns, ", "),
	), nil
}

// DeleteIndex implements expr.Renderer.
func (g *Generator) DeleteIndex(e *expr.DeleteIndex) (string, error) {
	if e.Index == nil {
		return "", missing(e, "index")
	}
	return "DROP INDEX " + g.objectName(e.Index.Schema, e.Index.Name), nil
}

// CreateConstraint implements expr.Renderer.
func (g *Generator) CreateConstraint(e *expr.CreateConstraint) (string, error) {
	c := e.Constraint
	if c == nil {
		return "", missing(e, "constraint")
	}
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s (%s) CONSTRAINT %s",
		g.quoter.QuoteTable(c.Schema, c.Table),
		c.Kind,
		g.quoter.QuoteIdentifiers(c.Columns),
		g.objectName(c.Schema, c.Name),
	), nil
}

// DeleteConstraint implements expr.Renderer.
func (g *Generator) DeleteConstraint(e *expr.DeleteConstraint) (string, error) {
	c := e.Constraint
	if c == nil {
		return "", missing(e, "constraint")
	}
	return "ALTER TABLE " + g.quoter.QuoteTable(c.Schema, c.Table) + " DROP CONSTRAINT " + g.objectName(c.Schema, c.Name), nil
}

// CreateForeignKey implements expr.Renderer. Referential actions other
// than ON DELETE CASCADE have no Informix syntax and render the
// compatibility fallback.
func (g *Generator) CreateForeignKey(e *expr.CreateForeignKey) (string, error) {
	fk := e.ForeignKey
	if fk == nil {
		return "", missing(e, "foreign key")
	}
	name := fk.KeyName()
	if len(fk.Columns) != len(fk.RefColumns) {
		return "", migrix.NewArgumentCountMismatchError("foreign key "+name, fk.Columns, fk.RefColumns)
	}
	var onDelete string
	switch fk.OnDelete {
	case schema.None, schema.NoAction, schema.Restrict:
	case schema.Cascade:
		onDelete = " ON DELETE CASCADE"
	default:
		return g.compat.Handle(fmt.Sprintf("ON DELETE %s is not supported by Informix (foreign key %s).", fk.OnDelete, name))
	}
	switch fk.OnUpdate {
	case schema.None, schema.NoAction, schema.Restrict:
	default:
		return g.compat.Handle(fmt.Sprintf("ON UPDATE %s is not supported by Informix (foreign key %s).", fk.OnUpdate, name))
	}
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT FOREIGN KEY (%s) REFERENCES %s (%s)%s CONSTRAINT %s",
		g.quoter.QuoteTable(fk.Schema, fk.Table),
		g.quoter.QuoteIdentifiers(fk.Columns),
		g.quoter.QuoteTable(fk.RefSchema, fk.RefTable),
		g.quoter.QuoteIdentifiers(fk.RefColumns),
		onDelete,
		g.objectName(fk.Schema, name),
	), nil
}

// DeleteForeignKey implements expr.Renderer.
func (g *Generator) DeleteForeignKey(e *expr.DeleteForeignKey) (string, error) {
	fk := e.ForeignKey
	if fk == nil {
		return "", missing(e, "foreign key")
	}
	return "ALTER TABLE " + g.quoter.QuoteTable(fk.Schema, fk.Table) + " DROP CONSTRAINT " + g.objectName(fk.Schema, fk.KeyName()), nil
}

// AlterDefaultConstraint implements expr.Renderer.
func (g *Generator) AlterDefaultConstraint(e *expr.AlterDefaultConstraint) (string, error) {
	v, err := g.column.DefaultValue(e.Default)
	if err != nil {
		return g.fallback(err)
	}
	return "ALTER TABLE " + g.quoter.QuoteTable(e.Schema, e.Table) + " ALTER COLUMN " + g.quoter.QuoteIdentifier(e.Column) + " SET DEFAULT " + v, nil
}

// DeleteDefaultConstraint implements expr.Renderer.
func (g *Generator) DeleteDefaultConstraint(e *expr.DeleteDefaultConstraint) (string, error) {
	return "ALTER TABLE " + g.quoter.QuoteTable(e.Schema, e.Table) + " ALTER COLUMN " + g.quoter.QuoteIdentifier(e.Column) + " DROP DEFAULT", nil
}

// CreateSequence implements expr.Renderer.
func (g *Generator) CreateSequence(*expr.CreateSequence) (string, error) {
	return g.compat.Handle(unsupported)
}

// DeleteSequence implements expr.Renderer.
func (g *Generator) DeleteSequence(*expr.DeleteSequence) (string, error) {
	return g.compat.Handle(unsupported)
}

// InsertData implements expr.Renderer. Informix has no multi-row VALUES,
// every row is a statement of its own.
func (g *Generator) InsertData(e *expr.InsertData) (string, error) {
	table := g.quoter.QuoteTable(e.Schema, e.Table)
	stmts := make([]string, 0, len(e.Rows))
	for _, row := range e.Rows {
		values := make([]string, len(row))
		for i, cv := range row {
			v, err := g.quoter.QuoteValue(cv.Value)
			if err != nil {
				return "", err
			}
			values[i] = v
		}
		stmts = append(stmts, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, g.quoter.QuoteIdentifiers(row.Columns()), strings.Join(values, ", ")))
	}
	return strings.Join(stmts, " "), nil
}

// UpdateData implements expr.Renderer.
func (g *Generator) UpdateData(e *expr.UpdateData) (string, error) {
	set := make([]string, len(e.Set))
	for i, cv := range e.Set {
		v, err := g.quoter.QuoteValue(cv.Value)
		if err != nil {
			return "", err
		}
		set[i] = g.quoter.QuoteIdentifier(cv.Column) + " = " + v
	}
	stmt := "UPDATE " + g.quoter.QuoteTable(e.Schema, e.Table) + " SET " + strings.Join(set, ", ")
	if e.AllRows {
		return stmt, nil
	}
	where, err := g.where(e.Where)
	if err != nil {
		return "", err
	}
	return stmt + " WHERE " + where, nil
}

// DeleteData implements expr.Renderer.
func (g *Generator) DeleteData(e *expr.DeleteData) (string, error) {
	table := g.quoter.QuoteTable(e.Schema, e.Table)
	if e.AllRows {
		return "DELETE FROM " + table, nil
	}
	stmts := make([]string, 0, len(e.Rows))
	for _, row := range e.Rows {
		where, err := g.where(row)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, "DELETE FROM "+table+" WHERE "+where)
	}
	return strings.Join(stmts, " "), nil
}

// ExecuteSQL implements expr.Renderer.
func (g *Generator) ExecuteSQL(e *expr.ExecuteSQL) (string, error) {
	return e.SQL, nil
}

// PerformDBOperation implements expr.Renderer. The operation is run by the
// processor, it has no SQL text.
func (g *Generator) PerformDBOperation(*expr.PerformDBOperation) (string, error) {
	return "", nil
}

// where renders the AND-ed predicates of a row. NULL values compare with IS.
func (g *Generator) where(row expr.Row) (string, error) {
	preds := make([]string, len(row))
	for i, cv := range row {
		v, err := g.quoter.QuoteValue(cv.Value)
		if err != nil {
			return "", err
		}
		op := " = "
		if cv.Value == nil {
			op = " IS "
		}
		preds[i] = g.quoter.QuoteIdentifier(cv.Column) + op + v
	}
	return strings.Join(preds, " AND "), nil
}

// objectName returns the schema qualified name of an index or constraint.
func (g *Generator) objectName(schema, name string) string {
	return g.quoter.QuoteTable(schema, name)
}

// fallback converts an UnsupportedOperationError into the compatibility
// result. Other errors are returned as-is.
func (g *Generator) fallback(err error) (string, error) {
	var uerr *migrix.UnsupportedOperationError
	if !errors.As(err, &uerr) {
		return "", err
	}
	return g.compat.Handle(uerr.Message)
}

func missing(e expr.Expression, what string) error {
	return fmt.Errorf("informix: %s: missing %s", e.Kind(), what)
}

var _ expr.Renderer = (*Generator)(nil)
