package expr

import (
	"context"

	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/schema"
)

// Expression describes one schema or data change. The set of expressions is
// closed: only types in this package implement it, and every dialect
// implements a Renderer method for each of them.
type Expression interface {
	// Kind returns the expression kind, e.g. "CreateTable".
	Kind() string
	// Accept calls the Renderer method matching the expression.
	Accept(Renderer) (string, error)
	expression()
}

// Renderer renders every expression kind. Adding an expression kind adds a
// method here, so each dialect fails to compile until it handles it.
type Renderer interface {
	CreateTable(*CreateTable) (string, error)
	DeleteTable(*DeleteTable) (string, error)
	RenameTable(*RenameTable) (string, error)
	AlterTable(*AlterTable) (string, error)
	CreateColumn(*CreateColumn) (string, error)
	AlterColumn(*AlterColumn) (string, error)
	RenameColumn(*RenameColumn) (string, error)
	DeleteColumn(*DeleteColumn) (string, error)
	CreateSchema(*CreateSchema) (string, error)
	AlterSchema(*AlterSchema) (string, error)
	DeleteSchema(*DeleteSchema) (string, error)
	CreateIndex(*CreateIndex) (string, error)
	DeleteIndex(*DeleteIndex) (string, error)
	CreateConstraint(*CreateConstraint) (string, error)
	DeleteConstraint(*DeleteConstraint) (string, error)
	CreateForeignKey(*CreateForeignKey) (string, error)
	DeleteForeignKey(*DeleteForeignKey) (string, error)
	AlterDefaultConstraint(*AlterDefaultConstraint) (string, error)
	DeleteDefaultConstraint(*DeleteDefaultConstraint) (string, error)
	CreateSequence(*CreateSequence) (string, error)
	DeleteSequence(*DeleteSequence) (string, error)
	InsertData(*InsertData) (string, error)
	UpdateData(*UpdateData) (string, error)
	DeleteData(*DeleteData) (string, error)
	ExecuteSQL(*ExecuteSQL) (string, error)
	PerformDBOperation(*PerformDBOperation) (string, error)
}

type (
	// CreateTable creates a table with its columns. Columns flagged as
	// primary key are collected into a single primary key constraint.
	CreateTable struct {
		Schema      string
		Table       string
		Columns     []*schema.Column
		Description string
	}

	// DeleteTable drops a table.
	DeleteTable struct {
		Schema string
		Table  string
	}

	// RenameTable renames a table.
	RenameTable struct {
		Schema  string
		OldName string
		NewName string
	}

	// AlterTable changes table level metadata (its description).
	AlterTable struct {
		Schema      string
		Table       string
		Description string
	}

	// CreateColumn adds a column to an existing table.
	CreateColumn struct {
		Schema string
		Table  string
		Column *schema.Column
	}

	// AlterColumn changes the type, nullability and default of a column.
	AlterColumn struct {
		Schema string
		Table  string
		Column *schema.Column
	}

	// RenameColumn renames a column.
	RenameColumn struct {
		Schema  string
		Table   string
		OldName string
		NewName string
	}

	// DeleteColumn drops one or more columns of a table.
	DeleteColumn struct {
		Schema  string
		Table   string
		Columns []string
	}

	// CreateSchema creates a schema.
	CreateSchema struct {
		Schema string
	}

	// AlterSchema moves a table from one schema to another.
	AlterSchema struct {
		SourceSchema string
		Table        string
		DestSchema   string
	}

	// DeleteSchema drops a schema.
	DeleteSchema struct {
		Schema string
	}

	// CreateIndex creates an index.
	CreateIndex struct {
		Index *schema.Index
	}

	// DeleteIndex drops an index.
	DeleteIndex struct {
		Index *schema.Index
	}

	// CreateConstraint adds a primary key or unique constraint.
	CreateConstraint struct {
		Constraint *schema.Constraint
	}

	// DeleteConstraint drops a constraint.
	DeleteConstraint struct {
		Constraint *schema.Constraint
	}

	// CreateForeignKey adds a foreign key.
	CreateForeignKey struct {
		ForeignKey *schema.ForeignKey
	}

	// DeleteForeignKey drops a foreign key.
	DeleteForeignKey struct {
		ForeignKey *schema.ForeignKey
	}

	// AlterDefaultConstraint sets the default value of a column.
	AlterDefaultConstraint struct {
		Schema  string
		Table   string
		Column  string
		Default schema.Default
	}

	// DeleteDefaultConstraint removes the default value of a column.
	DeleteDefaultConstraint struct {
		Schema string
		Table  string
		Column string
	}

	// CreateSequence creates a sequence.
	CreateSequence struct {
		Schema    string
		Name      string
		StartWith int64
		Increment int64
		MinValue  int64
		MaxValue  int64
		Cache     int64
		Cycle     bool
	}

	// DeleteSequence drops a sequence.
	DeleteSequence struct {
		Schema string
		Name   string
	}

	// InsertData inserts rows into a table.
	InsertData struct {
		Schema string
		Table  string
		Rows   []Row
	}

	// UpdateData updates the rows matching Where, or all rows if AllRows is set.
	UpdateData struct {
		Schema  string
		Table   string
		Set     Row
		Where   Row
		AllRows bool
	}

	// DeleteData deletes the rows matching each of Rows, or all rows if
	// AllRows is set.
	DeleteData struct {
		Schema  string
		Table   string
		Rows    []Row
		AllRows bool
	}

	// ExecuteSQL runs a raw SQL statement as-is.
	ExecuteSQL struct {
		SQL string
	}

	// PerformDBOperation runs arbitrary code against the database. It renders
	// no SQL; the processor invokes Operation.
	PerformDBOperation struct {
		Description string
		Operation   func(context.Context, dialect.ExecQuerier) error
	}
)

// ColumnValue is a column name and its value.
type ColumnValue struct {
	Column string
	Value  any
}

// Row is an ordered list of column values.
type Row []ColumnValue

// Columns returns the column names of the row in order.
func (r Row) Columns() []string {
	names := make([]string, len(r))
	for i, cv := range r {
		names[i] = cv.Column
	}
	return names
}

// Values returns the values of the row in order.
func (r Row) Values() []any {
	values := make([]any, len(r))
	for i, cv := range r {
		values[i] = cv.Value
	}
	return values
}

// Kind implementations.
func (*CreateTable) Kind() string             { return "CreateTable" }
func (*DeleteTable) Kind() string             { return "DeleteTable" }
func (*RenameTable) Kind() string             { return "RenameTable" }
func (*AlterTable) Kind() string              { return "AlterTable" }
func (*CreateColumn) Kind() string            { return "CreateColumn" }
func (*AlterColumn) Kind() string             { return "AlterColumn" }
func (*RenameColumn) Kind() string            { return "RenameColumn" }
func (*DeleteColumn) Kind() string            { return "DeleteColumn" }
func (*CreateSchema) Kind() string            { return "CreateSchema" }
func (*AlterSchema) Kind() string             { return "AlterSchema" }
func (*DeleteSchema) Kind() string            { return "DeleteSchema" }
func (*CreateIndex) Kind() string             { return "CreateIndex" }
func (*DeleteIndex) Kind() string             { return "DeleteIndex" }
func (*CreateConstraint) Kind() string        { return "CreateConstraint" }
func (*DeleteConstraint) Kind() string        { return "DeleteConstraint" }
func (*CreateForeignKey) Kind() string        { return "CreateForeignKey" }
func (*DeleteForeignKey) Kind() string        { return "DeleteForeignKey" }
func (*AlterDefaultConstraint) Kind() string  { return "AlterDefaultConstraint" }
func (*DeleteDefaultConstraint) Kind() string { return "DeleteDefaultConstraint" }
func (*CreateSequence) Kind() string          { return "CreateSequence" }
func (*DeleteSequence) Kind() string          { return "DeleteSequence" }
func (*InsertData) Kind() string              { return "InsertData" }
func (*UpdateData) Kind() string              { return "UpdateData" }
func (*DeleteData) Kind() string              { return "DeleteData" }
func (*ExecuteSQL) Kind() string              { return "ExecuteSQL" }
func (*PerformDBOperation) Kind() string      { return "PerformDBOperation" }

// Accept implementations.
func (e *CreateTable) Accept(r Renderer) (string, error)  { return r.CreateTable(e) }
func (e *DeleteTable) Accept(r Renderer) (string, error)  { return r.DeleteTable(e) }
func (e *RenameTable) Accept(r Renderer) (string, error)  { return r.RenameTable(e) }
func (e *AlterTable) Accept(r Renderer) (string, error)   { return r.AlterTable(e) }
func (e *CreateColumn) Accept(r Renderer) (string, error) { return r.CreateColumn(e) }
func (e *AlterColumn) Accept(r Renderer) (string, error)  { return r.AlterColumn(e) }
func (e *RenameColumn) Accept(r Renderer) (string, error) { return r.RenameColumn(e) }
func (e *DeleteColumn) Accept(r Renderer) (string, error) { return r.DeleteColumn(e) }
func (e *CreateSchema) Accept(r Renderer) (string, error) { return r.CreateSchema(e) }
func (e *AlterSchema) Accept(r Renderer) (string, error)  { return r.AlterSchema(e) }
func (e *DeleteSchema) Accept(r Renderer) (string, error) { return r.DeleteSchema(e) }
func (e *CreateIndex) Accept(r Renderer) (string, error)  { return r.CreateIndex(e) }
func (e *DeleteIndex) Accept(r Renderer) (string, error)  { return r.DeleteIndex(e) }
func (e *CreateConstraint) Accept(r Renderer) (string, error) {
	return r.CreateConstraint(e)
}
func (e *DeleteConstraint) Accept(r Renderer) (string, error) {
	return r.DeleteConstraint(e)
}
func (e *CreateForeignKey) Accept(r Renderer) (string, error) {
	return r.CreateForeignKey(e)
}
func (e *DeleteForeignKey) Accept(r Renderer) (string, error) {
	return r.DeleteForeignKey(e)
}
func (e *AlterDefaultConstraint) Accept(r Renderer) (string, error) {
	return r.AlterDefaultConstraint(e)
}
func (e *DeleteDefaultConstraint) Accept(r Renderer) (string, error) {
	return r.DeleteDefaultConstraint(e)
}
func (e *CreateSequence) Accept(r Renderer) (string, error) { return r.CreateSequence(e) }
func (e *DeleteSequence) Accept(r Renderer) (string, error) { return r.DeleteSequence(e) }
func (e *InsertData) Accept(r Renderer) (string, error)     { return r.InsertData(e) }
func (e *UpdateData) Accept(r Renderer) (string, error)     { return r.UpdateData(e) }
func (e *DeleteData) Accept(r Renderer) (string, error)     { return r.DeleteData(e) }
func (e *ExecuteSQL) Accept(r Renderer) (string, error)     { return r.ExecuteSQL(e) }
func (e *PerformDBOperation) Accept(r Renderer) (string, error) {
	return r.PerformDBOperation(e)
}

func (*CreateTable) expression()             {}
func (*DeleteTable) expression()             {}
func (*RenameTable) expression()             {}
func (*AlterTable) expression()              {}
func (*CreateColumn) expression()            {}
func (*AlterColumn) expression()             {}
func (*RenameColumn) expression()            {}
func (*DeleteColumn) expression()            {}
func (*CreateSchema) expression()            {}
func (*AlterSchema) expression()             {}
func (*DeleteSchema) expression()            {}
func (*CreateIndex) expression()             {}
func (*DeleteIndex) expression()             {}
func (*CreateConstraint) expression()        {}
func (*DeleteConstraint) expression()        {}
func (*CreateForeignKey) expression()        {}
func (*DeleteForeignKey) expression()        {}
func (*AlterDefaultConstraint) expression()  {}
func (*DeleteDefaultConstraint) expression() {}
func (*CreateSequence) expression()          {}
func (*DeleteSequence) expression()          {}
func (*InsertData) expression()              {}
func (*UpdateData) expression()              {}
func (*DeleteData) expression()              {}
func (*ExecuteSQL) expression()              {}
func (*PerformDBOperation) expression()      {}

// Ensure expressions implement Expression.
var (
	_ Expression = (*CreateTable)(nil)
	_ Expression = (*DeleteTable)(nil)
	_ Expression = (*RenameTable)(nil)
	_ Expression = (*AlterTable)(nil)
	_ Expression = (*CreateColumn)(nil)
	_ Expression = (*AlterColumn)(nil)
	_ Expression = (*RenameColumn)(nil)
	_ Expression = (*DeleteColumn)(nil)
	_ Expression = (*CreateSchema)(nil)
	_ Expression = (*AlterSchema)(nil)
	_ Expression = (*DeleteSchema)(nil)
	_ Expression = (*CreateIndex)(nil)
	_ Expression = (*DeleteIndex)(nil)
	_ Expression = (*CreateConstraint)(nil)
	_ Expression = (*DeleteConstraint)(nil)
	_ Expression = (*CreateForeignKey)(nil)
	_ Expression = (*DeleteForeignKey)(nil)
	_ Expression = (*AlterDefaultConstraint)(nil)
	_ Expression = (*DeleteDefaultConstraint)(nil)
	_ Expression = (*CreateSequence)(nil)
	_ Expression = (*DeleteSequence)(nil)
	_ Expression = (*InsertData)(nil)
	_ Expression = (*UpdateData)(nil)
	_ Expression = (*DeleteData)(nil)
	_ Expression = (*ExecuteSQL)(nil)
	_ Expression = (*PerformDBOperation)(nil)
)
