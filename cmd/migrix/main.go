// migrix renders migration plans to Informix SQL, writes them into atlas
// migration directories and applies them.
//
//	migrix [flags] plan.yaml...
//
// Without -apply or -out the rendered statements are printed.
package main

import (
	"context"
	stdsql "database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"ariga.io/atlas/sql/migrate"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/syssam/migrix/dialect/sql"
	sqlschema "github.com/syssam/migrix/dialect/sql/schema"
	"github.com/syssam/migrix/internal/scaffold"
	"github.com/syssam/migrix/plan"
	"github.com/syssam/migrix/runner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "migrix: %v\n", err)
		}
		os.Exit(1)
	}
}

type flags struct {
	config   string
	dialect  string
	driver   string
	dsn      string
	compat   string
	out      string
	scaffold string
	inspect  string
	apply    bool
	preview  bool
	dataLoss bool
	watch    bool
	verbose  bool
}

func parse(args []string, stderr io.Writer) (*flags, *flag.FlagSet, error) {
	f := &flags{}
	fs := flag.NewFlagSet("migrix", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "YAML config file")
	fs.StringVar(&f.dialect, "dialect", "", "target dialect: informix or sqlite")
	fs.StringVar(&f.driver, "driver", "", "database/sql driver name (defaults to the dialect)")
	fs.StringVar(&f.dsn, "dsn", "", "data source name")
	fs.StringVar(&f.compat, "compat", "", "handling of unsupported operations: comment, loose or strict")
	fs.StringVar(&f.out, "out", "", "write the plans into this atlas migration directory")
	fs.StringVar(&f.scaffold, "scaffold", "", "generate a Go file declaring the plans")
	fs.StringVar(&f.inspect, "inspect", "", "print the DDL of a schema of the -dsn database; \"main\" for sqlite")
	fs.BoolVar(&f.apply, "apply", false, "apply the plans to the -dsn database")
	fs.BoolVar(&f.preview, "preview", false, "log statements without executing them")
	fs.BoolVar(&f.dataLoss, "allow-data-loss", false, "allow destructive steps")
	fs.BoolVar(&f.watch, "watch", false, "render the plans again whenever they change")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs, nil
}

// options returns the config options of the flags given on the command
// line, so they override the config file.
func (f *flags) options(fs *flag.FlagSet, logger *slog.Logger) ([]runner.Option, error) {
	opts := []runner.Option{runner.WithLogger(logger)}
	var err error
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "dialect":
			opts = append(opts, runner.WithDialect(f.dialect))
		case "driver":
			opts = append(opts, func(c *runner.Config) error {
				c.Driver = f.driver
				return nil
			})
		case "dsn":
			opts = append(opts, func(c *runner.Config) error {
				c.DSN = f.dsn
				return nil
			})
		case "compat":
			var mode sql.CompatibilityMode
			if uerr := mode.UnmarshalText([]byte(f.compat)); uerr != nil {
				err = uerr
				return
			}
			opts = append(opts, runner.WithCompatibility(mode))
		case "out":
			opts = append(opts, runner.WithDir(f.out))
		case "preview":
			opts = append(opts, runner.WithPreviewOnly(f.preview))
		case "allow-data-loss":
			opts = append(opts, runner.WithAllowDataLoss(f.dataLoss))
		case "v":
			opts = append(opts, runner.WithDebug(f.verbose))
		}
	})
	return opts, err
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	f, fs, err := parse(args, stderr)
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	opts, err := f.options(fs, logger)
	if err != nil {
		return err
	}
	var cfg *runner.Config
	if f.config != "" {
		cfg, err = runner.LoadConfig(f.config, opts...)
	} else {
		cfg, err = runner.NewConfig(opts...)
	}
	if err != nil {
		return err
	}
	if f.inspect != "" {
		return inspect(ctx, cfg, f.inspect, stdout)
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("no plan files given")
	}
	if !f.apply {
		// Rendering and writing need no database.
		cfg.DSN = ""
		cfg.PreviewOnly = true
	}
	r, err := runner.Open(cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	c := &command{flags: f, cfg: cfg, runner: r, stdout: stdout, logger: logger}
	if err := c.run(ctx, paths); err != nil {
		return err
	}
	if f.watch {
		return c.watchPlans(ctx, paths)
	}
	return nil
}

type command struct {
	*flags
	cfg    *runner.Config
	runner *runner.Runner
	stdout io.Writer
	logger *slog.Logger
}

func (c *command) run(ctx context.Context, paths []string) error {
	plans, err := load(ctx, paths)
	if err != nil {
		return err
	}
	if c.scaffold != "" {
		if err := scaffold.WriteFile(c.scaffold, plans...); err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "generated %s\n", c.scaffold)
	}
	switch {
	case c.apply:
		return c.applyPlans(ctx, plans)
	case c.cfg.Dir != "":
		return c.write(plans)
	case c.scaffold == "":
		return c.print(plans)
	}
	return nil
}

// load reads the plan files concurrently. Plans keep the order of paths.
func load(ctx context.Context, paths []string) ([]*plan.Plan, error) {
	plans := make([]*plan.Plan, len(paths))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := plan.Load(path)
			if err != nil {
				return err
			}
			plans[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *command) print(plans []*plan.Plan) error {
	for _, p := range plans {
		stmts, err := c.runner.Render(p.Expressions())
		if err != nil {
			return fmt.Errorf("plan %s: %w", p.Name, err)
		}
		fmt.Fprintf(c.stdout, "-- plan: %s\n", p.Name)
		for _, stmt := range stmts {
			if stmt == "" {
				continue
			}
			fmt.Fprintf(c.stdout, "%s;\n", stmt)
		}
	}
	return nil
}

func (c *command) write(plans []*plan.Plan) error {
	if err := os.MkdirAll(c.cfg.Dir, 0o755); err != nil {
		return err
	}
	dir, err := migrate.NewLocalDir(c.cfg.Dir)
	if err != nil {
		return err
	}
	w := sqlschema.NewDirWriter(dir, c.runner.Generator())
	base := time.Now().UTC()
	for i, p := range plans {
		version := p.Version
		if version == "" {
			version = base.Add(time.Duration(i) * time.Second).Format("20060102150405")
		}
		files, err := w.Write(version, p.Name, p.Expressions())
		if err != nil {
			return fmt.Errorf("plan %s: %w", p.Name, err)
		}
		for _, name := range files {
			fmt.Fprintln(c.stdout, filepath.Join(c.cfg.Dir, name))
		}
	}
	return nil
}

func (c *command) applyPlans(ctx context.Context, plans []*plan.Plan) error {
	for _, p := range plans {
		report, err := c.runner.Apply(ctx, p.Expressions())
		if err != nil {
			return fmt.Errorf("plan %s: %w", p.Name, err)
		}
		fmt.Fprintf(c.stdout, "%s: %d steps applied in %s (run %s)\n", p.Name, len(report.Steps), report.Duration, report.RunID)
	}
	if stats, ok := c.runner.Stats(); ok {
		fmt.Fprintln(c.stdout, stats)
	}
	return nil
}

// watchPlans runs the command again whenever one of the plan files is written.
func (c *command) watchPlans(ctx context.Context, paths []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Editors replace files on save, so the directory is watched.
		if dir := filepath.Dir(abs); !dirs[dir] {
			dirs[dir] = true
			if err := w.Add(dir); err != nil {
				return err
			}
		}
	}
	c.logger.Warn("watching plans", "files", len(paths))
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("watch", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !watched[ev.Name] || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := c.run(ctx, paths); err != nil {
				c.logger.Error("render", "file", ev.Name, "error", err)
			}
		}
	}
}

// inspect prints the Informix DDL of an existing database schema.
func inspect(ctx context.Context, cfg *runner.Config, name string, stdout io.Writer) error {
	driver := cfg.Driver
	if driver == "" {
		driver = cfg.Dialect
	}
	db, err := stdsql.Open(driver, cfg.DSN)
	if err != nil {
		return err
	}
	defer db.Close()
	insp, err := sqlschema.OpenInspector(cfg.Dialect, db)
	if err != nil {
		return err
	}
	if name == "main" {
		name = ""
	}
	exprs, err := sqlschema.Inspect(ctx, insp, name)
	if err != nil {
		return err
	}
	r := runner.New(nil, cfg)
	stmts, err := r.Render(exprs)
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		fmt.Fprintf(stdout, "%s;\n", stmt)
	}
	return nil
}
