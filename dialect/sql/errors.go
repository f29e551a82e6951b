package sql

import (
	"errors"
	"strings"
)

// ErrorClass is the kind of a database error raised by a migration
// statement.
type ErrorClass uint8

const (
	// ErrorUnknown is an error that could not be classified.
	ErrorUnknown ErrorClass = iota
	// ErrorObjectExists is raised when creating a table, column or index
	// that already exists.
	ErrorObjectExists
	// ErrorObjectNotFound is raised when referring to a missing table,
	// column or index.
	ErrorObjectNotFound
	// ErrorUniqueViolation is a duplicate value in a unique index.
	ErrorUniqueViolation
	// ErrorForeignKeyViolation is a missing or still referenced key.
	ErrorForeignKeyViolation
	// ErrorCheckViolation is a value rejected by a check constraint.
	ErrorCheckViolation
)

var errorClassNames = [...]string{
	ErrorUnknown:             "unknown",
	ErrorObjectExists:        "object exists",
	ErrorObjectNotFound:      "object not found",
	ErrorUniqueViolation:     "unique violation",
	ErrorForeignKeyViolation: "foreign key violation",
	ErrorCheckViolation:      "check violation",
}

// String returns the name of the class.
func (c ErrorClass) String() string {
	if int(c) < len(errorClassNames) {
		return errorClassNames[c]
	}
	return errorClassNames[ErrorUnknown]
}

// sqlStateError is implemented by drivers reporting SQLSTATE codes, such as
// the ODBC drivers used to reach Informix.
type sqlStateError interface {
	SQLState() string
}

// resultCoder is implemented by modernc.org/sqlite errors. The code is the
// extended SQLite result code.
type resultCoder interface {
	Code() int
}

// ODBC SQLSTATE codes.
const (
	stateIntegrity      = "23000"
	stateTableExists    = "42S01"
	stateTableNotFound  = "42S02"
	stateIndexExists    = "42S11"
	stateIndexNotFound  = "42S12"
	stateColumnExists   = "42S21"
	stateColumnNotFound = "42S22"
)

// SQLite extended result codes.
const (
	sqliteCheck      = 275
	sqliteForeignKey = 787
	sqlitePrimaryKey = 1555
	sqliteUnique     = 2067
)

// Messages of drivers that expose neither interface. Informix messages are
// matched by their text, ODBC drivers prefix them with the SQLSTATE.
var classMessages = []struct {
	class ErrorClass
	subs  []string
}{
	{ErrorObjectExists, []string{
		"{" + stateTableExists + "}", "{" + stateIndexExists + "}", "{" + stateColumnExists + "}",
		"already exists in database", // Informix -310, -316
		"already exists in table",    // Informix -328
		"already exists",             // SQLite
		"duplicate column name",      // SQLite
	}},
	{ErrorObjectNotFound, []string{
		"{" + stateTableNotFound + "}", "{" + stateIndexNotFound + "}", "{" + stateColumnNotFound + "}",
		"is not in the database",                           // Informix -206
		"not found in any table",                           // Informix -217
		"does not exist",                                   // Informix -319
		"no such table", "no such column", "no such index", // SQLite
	}},
	{ErrorUniqueViolation, []string{
		"Unique constraint",           // Informix -268
		"duplicate value in a UNIQUE", // Informix -239
		"UNIQUE constraint failed",    // SQLite
	}},
	{ErrorForeignKeyViolation, []string{
		"Missing key in referenced table", // Informix -691
		"is still being referenced",       // Informix -692
		"FOREIGN KEY constraint failed",   // SQLite
	}},
	{ErrorCheckViolation, []string{
		"Check constraint",        // Informix -530
		"CHECK constraint failed", // SQLite
	}},
}

// Classify returns the class of err.
func Classify(err error) ErrorClass {
	if err == nil {
		return ErrorUnknown
	}
	if e, ok := asError[sqlStateError](err); ok {
		switch e.SQLState() {
		case stateTableExists, stateIndexExists, stateColumnExists:
			return ErrorObjectExists
		case stateTableNotFound, stateIndexNotFound, stateColumnNotFound:
			return ErrorObjectNotFound
		}
	}
	if e, ok := asError[resultCoder](err); ok {
		switch e.Code() {
		case sqliteUnique, sqlitePrimaryKey:
			return ErrorUniqueViolation
		case sqliteForeignKey:
			return ErrorForeignKeyViolation
		case sqliteCheck:
			return ErrorCheckViolation
		}
	}
	msg := err.Error()
	for _, m := range classMessages {
		if containsAny(msg, m.subs...) {
			return m.class
		}
	}
	return ErrorUnknown
}

// IsObjectExistsError reports whether err was raised because the created
// object already exists.
func IsObjectExistsError(err error) bool {
	return Classify(err) == ErrorObjectExists
}

// IsObjectNotFoundError reports whether err was raised because the
// referenced object does not exist.
func IsObjectNotFoundError(err error) bool {
	return Classify(err) == ErrorObjectNotFound
}

// IsConstraintError reports whether err is a constraint violation.
func IsConstraintError(err error) bool {
	switch Classify(err) {
	case ErrorUniqueViolation, ErrorForeignKeyViolation, ErrorCheckViolation:
		return true
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState() == stateIntegrity
	}
	return false
}

// IsUniqueConstraintError reports whether err is a duplicate value in a
// unique index.
func IsUniqueConstraintError(err error) bool {
	return Classify(err) == ErrorUniqueViolation
}

// IsForeignKeyConstraintError reports whether err is a foreign key
// violation.
func IsForeignKeyConstraintError(err error) bool {
	return Classify(err) == ErrorForeignKeyViolation
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
