package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/dialect/sql/informix"
	sqlschema "github.com/syssam/migrix/dialect/sql/schema"
	"github.com/syssam/migrix/expr"
)

// Runner applies migration steps to a database. Each step is rendered by
// the Informix generator and executed in its own transaction.
type Runner struct {
	cfg    *Config
	drv    dialect.Driver
	gen    *informix.Generator
	stats  *sql.StatsDriver
	logger *slog.Logger
}

// New returns a runner executing on drv. drv may be nil when the config
// is preview only.
func New(drv dialect.Driver, cfg *Config) *Runner {
	logger := cfg.logger()
	return &Runner{
		cfg:    cfg,
		drv:    drv,
		logger: logger,
		gen: informix.NewGenerator(
			informix.WithCompatibilityMode(cfg.Compatibility),
			informix.WithLogger(logger),
		),
	}
}

// Open opens the database described by cfg and returns a runner on it.
// Statements are counted by a StatsDriver and, with Debug set, logged.
// A preview only config without a DSN opens no database.
func Open(cfg *Config) (*Runner, error) {
	if cfg.PreviewOnly && cfg.DSN == "" {
		return New(nil, cfg), nil
	}
	db, err := sql.Open(cfg.Dialect, cfg.driverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("runner: open %s: %w", cfg.driverName(), err)
	}
	var drv dialect.Driver = db
	if cfg.Debug {
		drv = sql.NewDebugDriver(drv, cfg.logger())
	}
	opts := []sql.StatsOption{sql.WithSlowLog(cfg.logger())}
	if cfg.SlowThreshold > 0 {
		opts = append(opts, sql.WithSlowThreshold(cfg.SlowThreshold))
	}
	stats := sql.NewStatsDriver(drv, opts...)
	r := New(stats, cfg)
	r.stats = stats
	return r, nil
}

// Close closes the underlying driver.
func (r *Runner) Close() error {
	if r.drv == nil {
		return nil
	}
	return r.drv.Close()
}

// Generator returns the generator rendering the steps.
func (r *Runner) Generator() *informix.Generator { return r.gen }

// Stats returns the statement statistics of a runner created by Open.
func (r *Runner) Stats() (sql.StatsSnapshot, bool) {
	if r.stats == nil {
		return sql.StatsSnapshot{}, false
	}
	return r.stats.Stats().Snapshot(), true
}

// Report describes a run.
type Report struct {
	RunID    uuid.UUID
	Steps    []StepResult
	Duration time.Duration
	// Validation holds the validation findings. It is nil when validation
	// is skipped.
	Validation *sqlschema.ValidationResult
}

// StepResult describes an applied step.
type StepResult struct {
	Index    int
	Kind     string
	SQL      string
	Duration time.Duration
}

// Render renders exprs without executing them.
func (r *Runner) Render(exprs []expr.Expression) ([]string, error) {
	stmts := make([]string, 0, len(exprs))
	for i, e := range exprs {
		stmt, err := r.render(e)
		if err != nil {
			return nil, migrix.NewStepError(i, kind(e), err)
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// Apply validates exprs and applies them in order. It stops at the first
// failing step, whose transaction is rolled back, and returns a
// *migrix.StepError. Steps before it stay applied.
func (r *Runner) Apply(ctx context.Context, exprs []expr.Expression) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.New()}
	logger := r.logger.With("run", report.RunID.String())
	if !r.cfg.SkipValidation {
		report.Validation = sqlschema.Validate(exprs, r.validateOptions()...)
		for _, w := range report.Validation.Warnings {
			logger.WarnContext(ctx, "validation warning", "step", w.Step, "kind", w.Kind, "message", w.Message)
		}
		if report.Validation.HasErrors() {
			return report, fmt.Errorf("runner: validation failed:\n%s", report.Validation)
		}
	}
	if r.drv == nil && !r.cfg.PreviewOnly {
		return report, errors.New("runner: no database driver")
	}
	logger.InfoContext(ctx, "run started", "steps", len(exprs), "preview", r.cfg.PreviewOnly)
	for i, e := range exprs {
		res, err := r.step(ctx, logger, i, e)
		if err != nil {
			logger.ErrorContext(ctx, "step failed", "step", i, "kind", kind(e), "class", sql.Classify(err), "error", err)
			report.Duration = time.Since(start)
			return report, migrix.NewStepError(i, kind(e), err)
		}
		report.Steps = append(report.Steps, res)
	}
	report.Duration = time.Since(start)
	logger.InfoContext(ctx, "run finished", "steps", len(report.Steps), "duration", report.Duration)
	return report, nil
}

func (r *Runner) step(ctx context.Context, logger *slog.Logger, i int, e expr.Expression) (StepResult, error) {
	start := time.Now()
	res := StepResult{Index: i, Kind: kind(e)}
	stmt, err := r.render(e)
	if err != nil {
		return res, err
	}
	res.SQL = stmt
	logger = logger.With("step", i, "kind", res.Kind)
	if r.cfg.PreviewOnly {
		err = r.execute(ctx, r.processor(nil, logger), e, stmt)
		res.Duration = time.Since(start)
		return res, err
	}
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return res, err
	}
	if err := r.execute(ctx, r.processor(tx, logger), e, stmt); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rerr))
		}
		return res, err
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("committing: %w", err)
	}
	res.Duration = time.Since(start)
	return res, nil
}

// execute runs a rendered step. Database operations carry code instead of
// SQL and go through Process.
func (r *Runner) execute(ctx context.Context, p *informix.Processor, e expr.Expression, stmt string) error {
	if op, ok := e.(*expr.PerformDBOperation); ok {
		return p.Process(ctx, op)
	}
	return p.Execute(ctx, stmt)
}

func (r *Runner) processor(conn dialect.ExecQuerier, logger *slog.Logger) *informix.Processor {
	return informix.NewProcessor(conn,
		informix.WithGenerator(r.gen),
		informix.WithPreviewOnly(r.cfg.PreviewOnly),
		informix.WithTimeout(r.cfg.Timeout),
		informix.WithProcessorLogger(logger),
	)
}

func (r *Runner) render(e expr.Expression) (string, error) {
	if e == nil {
		return "", errors.New("nil expression")
	}
	return r.gen.Generate(e)
}

func (r *Runner) validateOptions() []sqlschema.ValidateOption {
	if !r.cfg.AllowDataLoss {
		return nil
	}
	return []sqlschema.ValidateOption{
		sqlschema.AllowDropTable(),
		sqlschema.AllowDropColumn(),
		sqlschema.AllowDropIndex(),
		sqlschema.AllowDataLoss(),
	}
}

func kind(e expr.Expression) string {
	if e == nil {
		return "nil"
	}
	return e.Kind()
}
