package schema

import (
	"fmt"

	"ariga.io/atlas/sql/migrate"

	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/expr"
)

// Generator renders a single expression.
type Generator interface {
	Generate(expr.Expression) (string, error)
}

// DirWriter renders expressions into versioned migration files of an atlas
// migration directory and keeps its atlas.sum file up to date.
type DirWriter struct {
	dir       migrate.Dir
	gen       Generator
	formatter migrate.Formatter
	errNoPlan bool
}

// DirOption configures the DirWriter.
type DirOption func(*DirWriter)

// WithFormatter sets the formatter used to name and lay out migration
// files. Defaults to migrate.DefaultFormatter.
func WithFormatter(f migrate.Formatter) DirOption {
	return func(w *DirWriter) {
		w.formatter = f
	}
}

// WithErrNoPlan makes Write return migrate.ErrNoPlan when the expressions
// render no statement.
func WithErrNoPlan(b bool) DirOption {
	return func(w *DirWriter) {
		w.errNoPlan = b
	}
}

// NewDirWriter returns a writer rendering with gen into dir.
func NewDirWriter(dir migrate.Dir, gen Generator, opts ...DirOption) *DirWriter {
	w := &DirWriter{dir: dir, gen: gen, formatter: migrate.DefaultFormatter}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Plan renders exprs into an atlas migration plan. Expressions rendering
// nothing are left out. Statements that are comments only are kept so the
// written file records them.
func (w *DirWriter) Plan(version, name string, exprs []expr.Expression) (*migrate.Plan, error) {
	plan := &migrate.Plan{Version: version, Name: name}
	for i, e := range exprs {
		stmt, err := w.gen.Generate(e)
		if err != nil {
			return nil, fmt.Errorf("sql/schema: render step %d (%s): %w", i, e.Kind(), err)
		}
		if stmt == "" {
			continue
		}
		c := &migrate.Change{Cmd: stmt, Comment: e.Kind()}
		if sql.IsComment(stmt) {
			c.Comment = ""
		}
		plan.Changes = append(plan.Changes, c)
	}
	return plan, nil
}

// Write renders exprs and writes them as a new migration version. The
// directory checksum is validated before writing and updated after. It
// returns the names of the written files.
func (w *DirWriter) Write(version, name string, exprs []expr.Expression) ([]string, error) {
	if err := migrate.Validate(w.dir); err != nil {
		return nil, fmt.Errorf("sql/schema: validating migration directory: %w", err)
	}
	plan, err := w.Plan(version, name, exprs)
	if err != nil {
		return nil, err
	}
	if len(plan.Changes) == 0 {
		if w.errNoPlan {
			return nil, migrate.ErrNoPlan
		}
		return nil, nil
	}
	files, err := w.formatter.Format(plan)
	if err != nil {
		return nil, fmt.Errorf("sql/schema: formatting migration plan: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if err := w.dir.WriteFile(f.Name(), f.Bytes()); err != nil {
			return nil, fmt.Errorf("sql/schema: writing migration file: %w", err)
		}
		names = append(names, f.Name())
	}
	sum, err := w.dir.Checksum()
	if err != nil {
		return nil, fmt.Errorf("sql/schema: computing checksum: %w", err)
	}
	if err := migrate.WriteSumFile(w.dir, sum); err != nil {
		return nil, fmt.Errorf("sql/schema: writing checksum: %w", err)
	}
	return names, nil
}
