package schema

import (
	"fmt"
	"strings"

	"github.com/syssam/migrix/expr"
	"github.com/syssam/migrix/schema"
)

// ValidationError represents a problem found in a migration step.
type ValidationError struct {
	Step    int
	Kind    string
	Table   string
	Column  string
	Message string
	// Breaking indicates if this is a breaking change.
	Breaking bool
}

func (e *ValidationError) Error() string {
	target := e.Table
	if e.Column != "" {
		target += "." + e.Column
	}
	if target == "" {
		return fmt.Sprintf("step %d (%s): %s", e.Step, e.Kind, e.Message)
	}
	return fmt.Sprintf("step %d (%s) %s: %s", e.Step, e.Kind, target, e.Message)
}

// ValidationResult holds the results of migration validation.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// HasBreakingChanges returns true if there are any breaking changes.
func (r *ValidationResult) HasBreakingChanges() bool {
	for _, e := range r.Errors {
		if e.Breaking {
			return true
		}
	}
	for _, w := range r.Warnings {
		if w.Breaking {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	writeGroup := func(title string, errs []*ValidationError) {
		if len(errs) == 0 {
			return
		}
		sb.WriteString(title + ":\n")
		for _, e := range errs {
			sb.WriteString("  - " + e.Error())
			if e.Breaking {
				sb.WriteString(" [BREAKING]")
			}
			sb.WriteString("\n")
		}
	}
	writeGroup("Errors", r.Errors)
	writeGroup("Warnings", r.Warnings)
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

// ValidateOption configures migration validation.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	allowDropColumn    bool
	allowDropTable     bool
	allowDropIndex     bool
	allowNullToNotNull bool
	allowDataLoss      bool
}

// AllowDropColumn reports dropped columns as warnings instead of errors.
func AllowDropColumn() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropColumn = true
	}
}

// AllowDropTable reports dropped tables as warnings instead of errors.
func AllowDropTable() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropTable = true
	}
}

// AllowDropIndex reports dropped indexes as warnings instead of errors.
func AllowDropIndex() ValidateOption {
	return func(c *validateConfig) {
		c.allowDropIndex = true
	}
}

// AllowNullToNotNull silences warnings about columns altered to NOT NULL.
func AllowNullToNotNull() ValidateOption {
	return func(c *validateConfig) {
		c.allowNullToNotNull = true
	}
}

// AllowDataLoss reports unconditional data deletes as warnings instead of
// errors.
func AllowDataLoss() ValidateOption {
	return func(c *validateConfig) {
		c.allowDataLoss = true
	}
}

// Validate checks a batch of migration expressions before it is rendered.
// Malformed expressions are errors. Destructive steps are breaking errors
// unless allowed by an option, in which case they are reported as
// warnings.
//
// Example:
//
//	result := schema.Validate(steps, schema.AllowDropColumn())
//	if result.HasErrors() {
//	    log.Fatal(result)
//	}
func Validate(exprs []expr.Expression, opts ...ValidateOption) *ValidationResult {
	v := &validator{
		result:  &ValidationResult{},
		tables:  make(map[string]bool),
		indexes: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(&v.cfg)
	}
	for i, e := range exprs {
		if e == nil {
			v.fail(i, "nil", "", "", "missing expression", false)
			continue
		}
		v.step(i, e)
	}
	return v.result
}

type validator struct {
	cfg     validateConfig
	result  *ValidationResult
	tables  map[string]bool
	indexes map[string]bool
}

func (v *validator) fail(step int, kind, table, column, msg string, breaking bool) {
	v.result.Errors = append(v.result.Errors, &ValidationError{
		Step: step, Kind: kind, Table: table, Column: column, Message: msg, Breaking: breaking,
	})
}

func (v *validator) warn(step int, kind, table, column, msg string, breaking bool) {
	v.result.Warnings = append(v.result.Warnings, &ValidationError{
		Step: step, Kind: kind, Table: table, Column: column, Message: msg, Breaking: breaking,
	})
}

// destructive reports a breaking step as an error, or as a warning when
// allowed.
func (v *validator) destructive(allowed bool, step int, kind, table, column, msg string) {
	if allowed {
		v.warn(step, kind, table, column, msg, true)
		return
	}
	v.fail(step, kind, table, column, msg, true)
}

func (v *validator) step(i int, e expr.Expression) {
	k := e.Kind()
	switch e := e.(type) {
	case *expr.CreateTable:
		v.createTable(i, e)
	case *expr.DeleteTable:
		v.requireName(i, k, e.Table, "table")
		v.destructive(v.cfg.allowDropTable, i, k, e.Table, "", "table will be dropped")
	case *expr.RenameTable:
		v.requireName(i, k, e.OldName, "old table name")
		v.requireName(i, k, e.NewName, "new table name")
	case *expr.CreateColumn:
		if v.column(i, k, e.Table, e.Column) && !e.Column.IsNullable() && !e.Column.HasDefault() {
			v.warn(i, k, e.Table, e.Column.Name, "NOT NULL column without default fails on a table with rows", false)
		}
	case *expr.AlterColumn:
		if v.column(i, k, e.Table, e.Column) && !e.Column.IsNullable() && !v.cfg.allowNullToNotNull {
			v.warn(i, k, e.Table, e.Column.Name, "column becomes NOT NULL, existing NULL values fail the change", true)
		}
	case *expr.RenameColumn:
		v.requireName(i, k, e.Table, "table")
		v.warn(i, k, e.Table, e.OldName, "renaming a column has no Informix statement", false)
	case *expr.DeleteColumn:
		v.requireName(i, k, e.Table, "table")
		if len(e.Columns) == 0 {
			v.fail(i, k, e.Table, "", "no columns to drop", false)
		}
		for _, c := range e.Columns {
			v.destructive(v.cfg.allowDropColumn, i, k, e.Table, c, "column will be dropped")
		}
	case *expr.AlterSchema:
		v.warn(i, k, e.Table, "", "moving a table between schemas has no Informix statement", false)
	case *expr.CreateIndex:
		v.createIndex(i, k, e.Index)
	case *expr.DeleteIndex:
		if e.Index == nil {
			v.fail(i, k, "", "", "missing index", false)
			return
		}
		v.requireName(i, k, e.Index.Name, "index name")
		v.destructive(v.cfg.allowDropIndex, i, k, e.Index.Table, "", fmt.Sprintf("index %s will be dropped", e.Index.Name))
	case *expr.CreateConstraint:
		if e.Constraint == nil {
			v.fail(i, k, "", "", "missing constraint", false)
			return
		}
		v.requireName(i, k, e.Constraint.Table, "table")
		if len(e.Constraint.Columns) == 0 {
			v.fail(i, k, e.Constraint.Table, "", "constraint without columns", false)
		}
	case *expr.CreateForeignKey:
		if e.ForeignKey == nil {
			v.fail(i, k, "", "", "missing foreign key", false)
			return
		}
		fk := e.ForeignKey
		v.requireName(i, k, fk.Table, "table")
		v.requireName(i, k, fk.RefTable, "referenced table")
		if len(fk.Columns) == 0 || len(fk.Columns) != len(fk.RefColumns) {
			v.fail(i, k, fk.Table, "", fmt.Sprintf("foreign key has %d columns and %d referenced columns", len(fk.Columns), len(fk.RefColumns)), false)
		}
	case *expr.DeleteForeignKey:
		if e.ForeignKey == nil || e.ForeignKey.Name == "" && e.ForeignKey.Table == "" {
			v.fail(i, k, "", "", "missing foreign key name", false)
		}
	case *expr.AlterDefaultConstraint:
		if schema.IsUndefined(e.Default) {
			v.fail(i, k, e.Table, e.Column, "no default value given", false)
		}
	case *expr.CreateSequence, *expr.DeleteSequence:
		v.warn(i, k, "", "", "sequences are not managed on Informix", false)
	case *expr.UpdateData:
		v.requireName(i, k, e.Table, "table")
		if len(e.Set) == 0 {
			v.fail(i, k, e.Table, "", "no columns to set", false)
		}
		if e.AllRows {
			v.warn(i, k, e.Table, "", "updates every row", false)
		}
	case *expr.DeleteData:
		v.requireName(i, k, e.Table, "table")
		if e.AllRows {
			v.destructive(v.cfg.allowDataLoss, i, k, e.Table, "", "deletes every row")
		}
	case *expr.InsertData:
		v.requireName(i, k, e.Table, "table")
	case *expr.ExecuteSQL:
		if strings.TrimSpace(e.SQL) == "" {
			v.fail(i, k, "", "", "empty SQL", false)
		}
	}
}

func (v *validator) createTable(i int, e *expr.CreateTable) {
	const k = "CreateTable"
	if !v.requireName(i, k, e.Table, "table") {
		return
	}
	key := e.Schema + "." + e.Table
	if v.tables[key] {
		v.fail(i, k, e.Table, "", "table is created twice", false)
	}
	v.tables[key] = true
	if len(e.Columns) == 0 {
		v.fail(i, k, e.Table, "", "table without columns", false)
	}
	seen := make(map[string]bool, len(e.Columns))
	for _, c := range e.Columns {
		if !v.column(i, k, e.Table, c) {
			continue
		}
		if seen[c.Name] {
			v.fail(i, k, e.Table, c.Name, "duplicate column", false)
		}
		seen[c.Name] = true
	}
	if len(e.Columns) > 0 && len(schema.PrimaryKeyColumns(e.Columns)) == 0 {
		v.warn(i, k, e.Table, "", "table without primary key", false)
	}
}

func (v *validator) createIndex(i int, k string, idx *schema.Index) {
	if idx == nil {
		v.fail(i, k, "", "", "missing index", false)
		return
	}
	v.requireName(i, k, idx.Name, "index name")
	v.requireName(i, k, idx.Table, "table")
	if len(idx.Columns) == 0 {
		v.fail(i, k, idx.Table, "", fmt.Sprintf("index %s without columns", idx.Name), false)
	}
	key := idx.Schema + "." + idx.Name
	if idx.Name != "" && v.indexes[key] {
		v.fail(i, k, idx.Table, "", fmt.Sprintf("index %s is created twice", idx.Name), false)
	}
	v.indexes[key] = true
}

// column reports whether c is usable for further checks.
func (v *validator) column(i int, k, table string, c *schema.Column) bool {
	if c == nil {
		v.fail(i, k, table, "", "missing column", false)
		return false
	}
	if c.Name == "" {
		v.fail(i, k, table, "", "column without name", false)
		return false
	}
	if !c.Type.Valid() && c.CustomType == "" {
		v.fail(i, k, table, c.Name, "column without type", false)
	}
	return true
}

func (v *validator) requireName(i int, k, name, what string) bool {
	if strings.TrimSpace(name) == "" {
		v.fail(i, k, "", "", "missing "+what, false)
		return false
	}
	return true
}
