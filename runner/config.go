package runner

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/dialect/sql"
)

// Config configures a Runner.
type Config struct {
	// Dialect is the SQL dialect of the target database.
	Dialect string `yaml:"dialect,omitempty"`
	// Driver is the database/sql driver name. Defaults to Dialect.
	Driver string `yaml:"driver,omitempty"`
	// DSN is the data source name passed to the driver.
	DSN string `yaml:"dsn,omitempty"`
	// Dir is the atlas migration directory rendered plans are written to.
	Dir string `yaml:"dir,omitempty"`
	// Compatibility selects how operations Informix cannot express are
	// handled: comment, loose or strict.
	Compatibility sql.CompatibilityMode `yaml:"compatibility,omitempty"`
	// PreviewOnly announces statements without executing them.
	PreviewOnly bool `yaml:"preview_only,omitempty"`
	// Timeout bounds each statement. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty"`
	// SlowThreshold is the duration above which statements are logged as
	// slow. Zero uses the driver default.
	SlowThreshold time.Duration `yaml:"slow_threshold,omitempty"`
	// Debug logs every statement sent to the database.
	Debug bool `yaml:"debug,omitempty"`
	// AllowDataLoss lets destructive steps (dropped tables, columns,
	// indexes and unconditional deletes) pass validation.
	AllowDataLoss bool `yaml:"allow_data_loss,omitempty"`
	// SkipValidation disables validation of the steps before they run.
	SkipValidation bool `yaml:"skip_validation,omitempty"`

	// Logger receives run and statement logs. Defaults to slog.Default.
	Logger *slog.Logger `yaml:"-"`
}

// Option configures a Runner.
type Option func(*Config) error

// WithDialect sets the dialect of the target database.
func WithDialect(name string) Option {
	return func(c *Config) error {
		switch name {
		case dialect.Informix, dialect.SQLite:
			c.Dialect = name
			return nil
		default:
			return migrix.NewConfigError("Dialect", name, "unsupported dialect; use informix or sqlite")
		}
	}
}

// WithDriver sets the database/sql driver name and data source.
func WithDriver(driver, dsn string) Option {
	return func(c *Config) error {
		if driver == "" {
			return migrix.NewConfigError("Driver", nil, "driver cannot be empty")
		}
		c.Driver, c.DSN = driver, dsn
		return nil
	}
}

// WithDir sets the migration directory.
func WithDir(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return migrix.NewConfigError("Dir", nil, "directory cannot be empty")
		}
		c.Dir = dir
		return nil
	}
}

// WithCompatibility sets the compatibility mode.
func WithCompatibility(mode sql.CompatibilityMode) Option {
	return func(c *Config) error {
		if mode > sql.CompatStrict {
			return migrix.NewConfigError("Compatibility", int(mode), "unknown compatibility mode")
		}
		c.Compatibility = mode
		return nil
	}
}

// WithPreviewOnly announces statements without executing them.
func WithPreviewOnly(b bool) Option {
	return func(c *Config) error {
		c.PreviewOnly = b
		return nil
	}
}

// WithTimeout bounds the execution time of each statement.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return migrix.NewConfigError("Timeout", d, "timeout cannot be negative")
		}
		c.Timeout = d
		return nil
	}
}

// WithSlowThreshold sets the slow statement threshold.
func WithSlowThreshold(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return migrix.NewConfigError("SlowThreshold", d, "threshold cannot be negative")
		}
		c.SlowThreshold = d
		return nil
	}
}

// WithDebug logs every statement sent to the database.
func WithDebug(b bool) Option {
	return func(c *Config) error {
		c.Debug = b
		return nil
	}
}

// WithAllowDataLoss lets destructive steps pass validation.
func WithAllowDataLoss(b bool) Option {
	return func(c *Config) error {
		c.AllowDataLoss = b
		return nil
	}
}

// WithSkipValidation disables step validation.
func WithSkipValidation(b bool) Option {
	return func(c *Config) error {
		c.SkipValidation = b
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return migrix.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig returns a config targeting Informix with the given options
// applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{Dialect: dialect.Informix}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadConfig reads a YAML config file and applies opts on top of it.
func LoadConfig(path string, opts ...Option) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c := &Config{Dialect: dialect.Informix}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// validate checks the fields decoded from a file, which bypass the option
// checks.
func (c *Config) validate() error {
	return c.ApplyAll(
		WithDialect(c.Dialect),
		WithTimeout(c.Timeout),
		WithSlowThreshold(c.SlowThreshold),
	)
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Config) driverName() string {
	if c.Driver != "" {
		return c.Driver
	}
	return c.Dialect
}
