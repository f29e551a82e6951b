package sql

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/syssam/migrix"
)

// CompatibilityMode selects what a generator emits for an operation the
// dialect cannot express.
type CompatibilityMode uint8

const (
	// CompatComment emits the message as an SQL comment. It is the default.
	CompatComment CompatibilityMode = iota
	// CompatLoose emits nothing and logs a warning.
	CompatLoose
	// CompatStrict fails with an UnsupportedOperationError.
	CompatStrict
)

var compatModeNames = [...]string{
	CompatComment: "comment",
	CompatLoose:   "loose",
	CompatStrict:  "strict",
}

// String returns the name of the mode.
func (m CompatibilityMode) String() string {
	if int(m) < len(compatModeNames) {
		return compatModeNames[m]
	}
	return "invalid"
}

// ParseCompatibilityMode parses a mode name, case-insensitively.
func ParseCompatibilityMode(s string) (CompatibilityMode, error) {
	for i, name := range compatModeNames {
		if strings.EqualFold(s, name) {
			return CompatibilityMode(i), nil
		}
	}
	return 0, fmt.Errorf("dialect/sql: unknown compatibility mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m CompatibilityMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CompatibilityMode) UnmarshalText(text []byte) error {
	mode, err := ParseCompatibilityMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// CompatibilityPolicy converts a capability gap into fallback text or an
// error, according to its mode.
type CompatibilityPolicy struct {
	Mode CompatibilityMode
	// Logger receives the warnings of CompatLoose. Defaults to slog.Default.
	Logger *slog.Logger
}

// Handle returns the fallback for message.
func (p *CompatibilityPolicy) Handle(message string) (string, error) {
	switch p.Mode {
	case CompatLoose:
		logger := p.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("unsupported operation skipped", "reason", message)
		return "", nil
	case CompatStrict:
		return "", migrix.NewUnsupportedOperationError("", message)
	default:
		return "-- " + message, nil
	}
}

// IsComment reports whether stmt holds only whitespace and "--" comment lines.
func IsComment(stmt string) bool {
	stmt = strings.TrimSpace(stmt)
	if stmt == "" {
		return false
	}
	for line := range strings.Lines(stmt) {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
