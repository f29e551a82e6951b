package schema

import "strings"

// ReferenceOption is a foreign key action for ON DELETE / ON UPDATE.
type ReferenceOption string

// Reference options. The zero value means no action was requested.
const (
	None       ReferenceOption = ""
	NoAction   ReferenceOption = "NO ACTION"
	Restrict   ReferenceOption = "RESTRICT"
	Cascade    ReferenceOption = "CASCADE"
	SetNull    ReferenceOption = "SET NULL"
	SetDefault ReferenceOption = "SET DEFAULT"
)

// ConstName returns the constant name of the reference option.
func (r ReferenceOption) ConstName() string {
	switch r {
	case None:
		return "None"
	case NoAction:
		return "NoAction"
	case Restrict:
		return "Restrict"
	case Cascade:
		return "Cascade"
	case SetNull:
		return "SetNull"
	case SetDefault:
		return "SetDefault"
	}
	return "invalid"
}

// ForeignKey describes a foreign key owned by Table and referencing RefTable.
type ForeignKey struct {
	// Name is optional. An empty name is replaced by DefaultName.
	Name       string
	Schema     string
	Table      string
	Columns    []string
	RefSchema  string
	RefTable   string
	RefColumns []string
	OnDelete   ReferenceOption
	OnUpdate   ReferenceOption
}

// DefaultName returns the deterministic name used for unnamed foreign keys:
// FK_<table>_<columns...>_<reftable>_<refcolumns...>.
func (fk *ForeignKey) DefaultName() string {
	var b strings.Builder
	b.WriteString("FK_")
	b.WriteString(fk.Table)
	for _, c := range fk.Columns {
		b.WriteByte('_')
		b.WriteString(c)
	}
	b.WriteByte('_')
	b.WriteString(fk.RefTable)
	for _, c := range fk.RefColumns {
		b.WriteByte('_')
		b.WriteString(c)
	}
	return b.String()
}

// KeyName returns the foreign key name, generating one if it is empty.
func (fk *ForeignKey) KeyName() string {
	if fk.Name != "" {
		return fk.Name
	}
	return fk.DefaultName()
}

// Direction is the sort direction of an index column.
type Direction uint8

const (
	Asc Direction = iota
	Desc
)

// String returns the SQL keyword of the direction.
func (d Direction) String() string {
	if d == Desc {
		return "DESC"
	}
	return "ASC"
}

// IndexColumn is a single column of an index.
type IndexColumn struct {
	Name      string
	Direction Direction
}

// Index describes a table index.
type Index struct {
	Name    string
	Schema  string
	Table   string
	Columns []IndexColumn
	Unique  bool
}

// ConstraintKind is the kind of a table constraint.
type ConstraintKind uint8

const (
	PrimaryKey ConstraintKind = iota + 1
	Unique
)

// String returns the SQL keyword of the constraint kind.
func (k ConstraintKind) String() string {
	if k == PrimaryKey {
		return "PRIMARY KEY"
	}
	return "UNIQUE"
}

// Constraint describes a primary key or unique constraint.
type Constraint struct {
	Name    string
	Schema  string
	Table   string
	Columns []string
	Kind    ConstraintKind
}
