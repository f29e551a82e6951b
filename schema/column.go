package schema

// Nullability is the tri-state nullability of a column.
type Nullability uint8

const (
	// NullUnspecified leaves nullability to the dialect's column rules.
	NullUnspecified Nullability = iota
	// NullTrue allows NULL values.
	NullTrue
	// NullFalse rejects NULL values.
	NullFalse
)

// String returns the name of the nullability state.
func (n Nullability) String() string {
	switch n {
	case NullTrue:
		return "nullable"
	case NullFalse:
		return "not-null"
	default:
		return "unspecified"
	}
}

// Column describes a single table column.
type Column struct {
	Name string
	// Type is the semantic type. When it is TypeInvalid, CustomType is
	// emitted verbatim.
	Type       Type
	CustomType string
	// Size is the length (strings, binaries) or the total number of digits
	// (decimals). Zero means unspecified.
	Size int
	// Precision is the number of digits after the decimal point.
	Precision      int
	Nullable       Nullability
	Default        Default
	Identity       bool
	PrimaryKey     bool
	PrimaryKeyName string
	Unique         bool
	// Features holds caller owned key-value data carried along with the
	// column. Renderers never read it; the create or alter context is passed
	// to the formatter explicitly.
	Features map[string]any
}

// Feature returns the additional feature stored under key, or def if the
// column does not have it.
func (c *Column) Feature(key string, def any) any {
	if v, ok := c.Features[key]; ok {
		return v
	}
	return def
}

// IsNullable reports whether the column explicitly allows NULL values.
func (c *Column) IsNullable() bool {
	return c.Nullable == NullTrue
}

// HasDefault reports whether the column has a default other than Undefined.
func (c *Column) HasDefault() bool {
	return !IsUndefined(c.Default)
}

// PrimaryKeyColumns returns the columns flagged as primary key, in order.
func PrimaryKeyColumns(columns []*Column) []*Column {
	var pks []*Column
	for _, c := range columns {
		if c.PrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}
