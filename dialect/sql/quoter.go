package sql

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/syssam/migrix"
)

// RawSQL is a value emitted verbatim by QuoteValue, e.g. a function call.
type RawSQL string

// DefaultDateTimeLayout renders timestamps with exactly three fractional
// digits.
const DefaultDateTimeLayout = "2006-01-02 15:04:05.000"

// Quoter quotes identifiers and literal values for a dialect. A Quoter is
// immutable after construction and safe for concurrent use.
type Quoter struct {
	// Open and Close wrap quoted identifiers. Embedded Close characters
	// are doubled.
	Open, Close string
	// Special lists the characters that force an identifier to be quoted.
	// An empty Special quotes every identifier.
	Special string
	// DateTimeLayout is the time.Format layout of timestamp literals.
	// Defaults to DefaultDateTimeLayout.
	DateTimeLayout string
	// True and False are the boolean literals. Default to 1 and 0.
	True, False string
}

// QuoteIdentifier quotes name if it contains a special character.
func (q *Quoter) QuoteIdentifier(name string) string {
	if q.Special != "" && !strings.ContainsAny(name, q.Special) {
		return name
	}
	return q.Open + strings.ReplaceAll(name, q.Close, q.Close+q.Close) + q.Close
}

// QuoteTable quotes a table name, qualified with its schema if given.
func (q *Quoter) QuoteTable(schema, table string) string {
	if schema == "" {
		return q.QuoteIdentifier(table)
	}
	return q.QuoteIdentifier(schema) + "." + q.QuoteIdentifier(table)
}

// QuoteIdentifiers quotes each name and joins them with ", ".
func (q *Quoter) QuoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = q.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}

// Unquote reverses QuoteIdentifier. Unquoted names are returned as-is.
func (q *Quoter) Unquote(s string) string {
	if len(s) < len(q.Open)+len(q.Close) || !strings.HasPrefix(s, q.Open) || !strings.HasSuffix(s, q.Close) {
		return s
	}
	s = s[len(q.Open) : len(s)-len(q.Close)]
	return strings.ReplaceAll(s, q.Close+q.Close, q.Close)
}

// FormatDateTime renders t as a quoted timestamp literal.
func (q *Quoter) FormatDateTime(t time.Time) string {
	layout := q.DateTimeLayout
	if layout == "" {
		layout = DefaultDateTimeLayout
	}
	return "'" + t.Format(layout) + "'"
}

// QuoteString renders s as a string literal, doubling embedded quotes.
func (q *Quoter) QuoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteValue renders v as an SQL literal. Types without a literal form
// return an UnmappedTypeError.
func (q *Quoter) QuoteValue(v any) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case RawSQL:
		return string(v), nil
	case string:
		return q.QuoteString(v), nil
	case bool:
		if v {
			return valueOr(q.True, "1"), nil
		}
		return valueOr(q.False, "0"), nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case []byte:
		return fmt.Sprintf("0x%X", v), nil
	case time.Time:
		return q.FormatDateTime(v), nil
	case uuid.UUID:
		return q.QuoteString(v.String()), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "", fmt.Errorf("dialect/sql: value of %T: %w", v, err)
		}
		return q.QuoteValue(dv)
	case fmt.Stringer:
		return q.QuoteString(v.String()), nil
	default:
		return "", migrix.NewUnmappedTypeError(fmt.Sprintf("%T", v), 0)
	}
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
