package informix

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/expr"
)

// Processor executes rendered statements and answers catalog questions
// against an Informix database. It runs on any dialect.ExecQuerier, a
// driver or a transaction.
type Processor struct {
	conn    dialect.ExecQuerier
	gen     *Generator
	catalog *catalog
	logger  *slog.Logger
	preview bool
	timeout time.Duration
}

// ProcessorOption configures the Processor.
type ProcessorOption func(*Processor)

// WithPreviewOnly announces statements without executing them. Catalog
// queries still run.
func WithPreviewOnly(preview bool) ProcessorOption {
	return func(p *Processor) {
		p.preview = preview
	}
}

// WithTimeout bounds the execution time of each statement. Zero means no
// timeout.
func WithTimeout(d time.Duration) ProcessorOption {
	return func(p *Processor) {
		p.timeout = d
	}
}

// WithGenerator sets the generator used by Process.
func WithGenerator(g *Generator) ProcessorOption {
	return func(p *Processor) {
		p.gen = g
	}
}

// WithProcessorLogger sets the logger statements are announced to.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor returns a processor executing on conn.
func NewProcessor(conn dialect.ExecQuerier, opts ...ProcessorOption) *Processor {
	p := &Processor{conn: conn, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.gen == nil {
		p.gen = NewGenerator(WithLogger(p.logger))
	}
	p.catalog = newCatalog(p.gen.Quoter())
	return p
}

// DatabaseType returns the name of the database the processor targets.
func (p *Processor) DatabaseType() string { return "IBM Informix" }

// Generator returns the generator used by Process.
func (p *Processor) Generator() *Generator { return p.gen }

// Process renders e and executes the result. PerformDBOperation
// expressions run their operation on the processor connection.
func (p *Processor) Process(ctx context.Context, e expr.Expression) error {
	if op, ok := e.(*expr.PerformDBOperation); ok {
		return p.perform(ctx, op)
	}
	query, err := p.gen.Generate(e)
	if err != nil {
		return err
	}
	return p.Execute(ctx, query)
}

func (p *Processor) perform(ctx context.Context, op *expr.PerformDBOperation) error {
	p.logger.InfoContext(ctx, "performing db operation", "description", op.Description)
	if p.preview || op.Operation == nil {
		return nil
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return op.Operation(ctx, p.conn)
}

// Execute announces query and executes it. Empty and comment-only
// statements are announced but not sent to the database.
func (p *Processor) Execute(ctx context.Context, query string, args ...any) error {
	p.logger.InfoContext(ctx, "sql", "statement", query)
	if p.preview || strings.TrimSpace(query) == "" || sql.IsComment(query) {
		return nil
	}
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if args == nil {
		args = []any{}
	}
	return p.conn.Exec(ctx, query, args, nil)
}

// Exists reports whether query returns at least one row.
func (p *Processor) Exists(ctx context.Context, query string, args ...any) (bool, error) {
	p.logger.DebugContext(ctx, "exists", "query", query)
	if args == nil {
		args = []any{}
	}
	rows := &sql.Rows{}
	if err := p.conn.Query(ctx, query, args, rows); err != nil {
		return false, err
	}
	defer rows.Close()
	if rows.Next() {
		return true, nil
	}
	return false, rows.Err()
}

// ReadTable returns all rows of a table keyed by column name.
func (p *Processor) ReadTable(ctx context.Context, schema, table string) ([]map[string]any, error) {
	query := "SELECT * FROM " + p.gen.Quoter().QuoteTable(schema, table)
	rows := &sql.Rows{}
	if err := p.conn.Query(ctx, query, []any{}, rows); err != nil {
		return nil, err
	}
	return sql.ScanMaps(rows)
}

// TableExists reports whether the table exists.
func (p *Processor) TableExists(ctx context.Context, schema, table string) (bool, error) {
	return p.Exists(ctx, p.catalog.tableExists(schema, table))
}

// ColumnExists reports whether the column exists.
func (p *Processor) ColumnExists(ctx context.Context, schema, table, column string) (bool, error) {
	return p.Exists(ctx, p.catalog.columnExists(schema, table, column))
}

// ConstraintExists reports whether the constraint exists on the table.
func (p *Processor) ConstraintExists(ctx context.Context, schema, table, constraint string) (bool, error) {
	return p.Exists(ctx, p.catalog.constraintExists(schema, table, constraint))
}

// IndexExists reports whether the index exists on the table.
func (p *Processor) IndexExists(ctx context.Context, schema, table, index string) (bool, error) {
	return p.Exists(ctx, p.catalog.indexExists(schema, table, index))
}

// DefaultValueExists reports whether the column has a default containing
// the text of value.
func (p *Processor) DefaultValueExists(ctx context.Context, schema, table, column string, value any) (bool, error) {
	return p.Exists(ctx, p.catalog.defaultExists(schema, table, column, value))
}

// SchemaExists is not implemented for Informix.
func (p *Processor) SchemaExists(context.Context, string) (bool, error) {
	return false, migrix.NewUnimplementedFeatureError(dialect.Informix, "schema existence check")
}

// SequenceExists always reports false, sequences are not managed on
// Informix.
func (p *Processor) SequenceExists(context.Context, string, string) (bool, error) {
	return false, nil
}

func (p *Processor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.timeout)
}
