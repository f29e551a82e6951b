package migrix

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the rendering failure classes.
var (
	// ErrUnmappedType is returned when a semantic column type has no native mapping.
	ErrUnmappedType = errors.New("migrix: unmapped type")

	// ErrUnimplementedFeature is returned for operations the dialect is known
	// to lack and that have no fallback text.
	ErrUnimplementedFeature = errors.New("migrix: unimplemented feature")

	// ErrUnsupportedOperation is returned when an operation is disallowed in
	// a specific context, e.g. altering an identity column.
	ErrUnsupportedOperation = errors.New("migrix: unsupported operation")

	// ErrArgumentCountMismatch is returned for structurally invalid expressions.
	ErrArgumentCountMismatch = errors.New("migrix: argument count mismatch")
)

// UnmappedTypeError represents a semantic type with no native type mapping.
type UnmappedTypeError struct {
	Type string // Semantic type name
	Size int    // Requested size, 0 if unspecified
}

// Error returns the error string.
func (e *UnmappedTypeError) Error() string {
	if e.Size > 0 {
		return fmt.Sprintf("migrix: unsupported type %s (size=%d)", e.Type, e.Size)
	}
	return fmt.Sprintf("migrix: unsupported type %s", e.Type)
}

// Is reports whether the target error matches UnmappedTypeError.
// This allows errors.Is(err, ErrUnmappedType) to return true.
func (e *UnmappedTypeError) Is(err error) bool {
	return err == ErrUnmappedType
}

// NewUnmappedTypeError returns a new UnmappedTypeError for the given type.
func NewUnmappedTypeError(typ string, size int) *UnmappedTypeError {
	return &UnmappedTypeError{Type: typ, Size: size}
}

// IsUnmappedType returns true if the error is an UnmappedTypeError.
func IsUnmappedType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnmappedTypeError
	return errors.As(err, &e) || errors.Is(err, ErrUnmappedType)
}

// UnimplementedFeatureError represents a dialect capability gap with no fallback.
type UnimplementedFeatureError struct {
	Dialect string
	Feature string
}

// Error returns the error string.
func (e *UnimplementedFeatureError) Error() string {
	if e.Dialect != "" {
		return fmt.Sprintf("migrix: %s: %s is not implemented", e.Dialect, e.Feature)
	}
	return fmt.Sprintf("migrix: %s is not implemented", e.Feature)
}

// Is reports whether the target error matches UnimplementedFeatureError.
func (e *UnimplementedFeatureError) Is(err error) bool {
	return err == ErrUnimplementedFeature
}

// NewUnimplementedFeatureError returns a new UnimplementedFeatureError.
func NewUnimplementedFeatureError(dialect, feature string) *UnimplementedFeatureError {
	return &UnimplementedFeatureError{Dialect: dialect, Feature: feature}
}

// IsUnimplementedFeature returns true if the error is an UnimplementedFeatureError.
func IsUnimplementedFeature(err error) bool {
	if err == nil {
		return false
	}
	var e *UnimplementedFeatureError
	return errors.As(err, &e) || errors.Is(err, ErrUnimplementedFeature)
}

// UnsupportedOperationError represents an operation that is not allowed in
// the context it was requested in. Generators convert it into a
// compatibility fallback instead of propagating it.
type UnsupportedOperationError struct {
	Op      string // Operation, e.g. "alter column"
	Message string
}

// Error returns the error string.
func (e *UnsupportedOperationError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("migrix: %s: %s", e.Op, e.Message)
	}
	return "migrix: " + e.Message
}

// Is reports whether the target error matches UnsupportedOperationError.
func (e *UnsupportedOperationError) Is(err error) bool {
	return err == ErrUnsupportedOperation
}

// NewUnsupportedOperationError returns a new UnsupportedOperationError.
func NewUnsupportedOperationError(op, message string) *UnsupportedOperationError {
	return &UnsupportedOperationError{Op: op, Message: message}
}

// IsUnsupportedOperation returns true if the error is an UnsupportedOperationError.
func IsUnsupportedOperation(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedOperationError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedOperation)
}

// ArgumentCountMismatchError represents two argument lists that must have
// the same length but do not.
type ArgumentCountMismatchError struct {
	What  string // e.g. "foreign key FK_users_group_id_groups_id"
	Left  []string
	Right []string
}

// Error returns the error string.
func (e *ArgumentCountMismatchError) Error() string {
	var b strings.Builder
	b.WriteString("migrix: argument count mismatch")
	if e.What != "" {
		b.WriteString(" in ")
		b.WriteString(e.What)
	}
	fmt.Fprintf(&b, ": %d (%s) != %d (%s)",
		len(e.Left), strings.Join(e.Left, ", "),
		len(e.Right), strings.Join(e.Right, ", "))
	return b.String()
}

// Is reports whether the target error matches ArgumentCountMismatchError.
func (e *ArgumentCountMismatchError) Is(err error) bool {
	return err == ErrArgumentCountMismatch
}

// NewArgumentCountMismatchError returns a new ArgumentCountMismatchError.
func NewArgumentCountMismatchError(what string, left, right []string) *ArgumentCountMismatchError {
	return &ArgumentCountMismatchError{What: what, Left: left, Right: right}
}

// IsArgumentCountMismatch returns true if the error is an ArgumentCountMismatchError.
func IsArgumentCountMismatch(err error) bool {
	if err == nil {
		return false
	}
	var e *ArgumentCountMismatchError
	return errors.As(err, &e) || errors.Is(err, ErrArgumentCountMismatch)
}

// ConfigError represents an invalid configuration option.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("migrix: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("migrix: config error for %q: %s", e.Option, e.Message)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// StepError wraps a failure of a single migration step with its position
// and expression kind.
type StepError struct {
	Index int    // Zero-based position in the batch
	Kind  string // Expression kind
	Err   error
}

// Error returns the error string.
func (e *StepError) Error() string {
	return fmt.Sprintf("migrix: step %d (%s): %v", e.Index, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError returns a new StepError.
func NewStepError(index int, kind string, err error) *StepError {
	return &StepError{Index: index, Kind: kind, Err: err}
}
