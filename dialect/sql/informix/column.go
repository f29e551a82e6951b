package informix

import (
	"strings"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/schema"
)

// systemMethods are the engine computed defaults Informix can express.
var systemMethods = map[schema.SystemMethod]string{
	schema.CurrentDateTime: "CURRENT YEAR TO FRACTION(3)",
	schema.CurrentUser:     "USER",
}

// ColumnFormatter renders column definitions for CREATE TABLE, ADD and
// ALTER COLUMN statements. It never modifies the columns it renders.
type ColumnFormatter struct {
	quoter *sql.Quoter
	types  *sql.TypeMap
	create sql.Pipeline
	alter  sql.Pipeline
}

// NewColumnFormatter returns a formatter using the given quoter and type map.
func NewColumnFormatter(q *sql.Quoter, types *sql.TypeMap) *ColumnFormatter {
	f := &ColumnFormatter{quoter: q, types: types}
	f.create = sql.Pipeline{f.name, f.typ, f.nullable, f.defaultValue, f.unique}
	f.alter = sql.Pipeline{f.typ, f.nullable, f.defaultValue}
	return f
}

// RenderForCreate renders the column as it appears in CREATE TABLE or
// ALTER TABLE ... ADD.
func (f *ColumnFormatter) RenderForCreate(c *schema.Column) (string, error) {
	return f.create.Render(sql.ForCreate, c)
}

// RenderForAlter renders the ALTER COLUMN clause of the column. Identity
// columns cannot be altered and fail with an UnsupportedOperationError.
func (f *ColumnFormatter) RenderForAlter(c *schema.Column) (string, error) {
	if c.Identity {
		return "", migrix.NewUnsupportedOperationError("alter column", "Altering an identity column is not supported.")
	}
	clauses, err := f.alter.Render(sql.ForAlter, c)
	if err != nil {
		return "", err
	}
	return "ALTER COLUMN " + f.quoter.QuoteIdentifier(c.Name) + " SET DATA TYPE " + clauses, nil
}

// RenderColumns renders the column list of a CREATE TABLE statement. The
// primary key columns are added by a constraint fragment spliced into the
// list, see AddPrimaryKeyConstraint.
func (f *ColumnFormatter) RenderColumns(table string, columns []*schema.Column) (string, error) {
	defs := make([]string, len(columns))
	for i, c := range columns {
		def, err := f.RenderForCreate(c)
		if err != nil {
			return "", err
		}
		defs[i] = def
	}
	list := strings.Join(defs, ", ")
	if pks := schema.PrimaryKeyColumns(columns); len(pks) > 0 {
		list += f.AddPrimaryKeyConstraint(table, pks)
	}
	return list, nil
}

// AddPrimaryKeyConstraint returns the fragment that closes the column list
// of an open CREATE TABLE and adds the primary key in a second statement.
// The caller appends the closing parenthesis. table must already be quoted.
//
//	CREATE TABLE t (id INT NOT NULL); ALTER TABLE t ADD CONSTRAINT PRIMARY KEY (id)
//	CREATE TABLE t (id INT NOT NULL); ALTER TABLE t ADD CONSTRAINT (PRIMARY KEY (id) CONSTRAINT pk_t)
func (f *ColumnFormatter) AddPrimaryKeyConstraint(table string, columns []*schema.Column) string {
	names := make([]string, len(columns))
	var keyName string
	for i, c := range columns {
		names[i] = c.Name
		if keyName == "" {
			keyName = c.PrimaryKeyName
		}
	}
	if keyName == "" {
		return "); ALTER TABLE " + table + " ADD CONSTRAINT PRIMARY KEY (" + f.quoter.QuoteIdentifiers(names)
	}
	return "); ALTER TABLE " + table + " ADD CONSTRAINT (PRIMARY KEY (" + f.quoter.QuoteIdentifiers(names) +
		") CONSTRAINT " + f.quoter.QuoteIdentifier(keyName)
}

// DefaultValue renders a default value without the DEFAULT keyword, as
// used by ALTER COLUMN ... SET DEFAULT.
func (f *ColumnFormatter) DefaultValue(d schema.Default) (string, error) {
	switch d := d.(type) {
	case schema.SystemMethod:
		return f.systemMethod(d)
	case schema.Literal:
		return f.quoter.QuoteValue(d.V)
	default:
		return "", migrix.NewUnsupportedOperationError("set default", "No default value given.")
	}
}

func (f *ColumnFormatter) name(_ sql.RenderContext, c *schema.Column) (string, error) {
	return f.quoter.QuoteIdentifier(c.Name), nil
}

func (f *ColumnFormatter) typ(_ sql.RenderContext, c *schema.Column) (string, error) {
	if !c.Type.Valid() {
		if c.CustomType == "" {
			return "", migrix.NewUnmappedTypeError(c.Type.String(), c.Size)
		}
		return c.CustomType, nil
	}
	return f.types.Resolve(c.Type, c.Size, c.Precision)
}

// nullable omits the clause only for explicitly nullable columns.
func (f *ColumnFormatter) nullable(_ sql.RenderContext, c *schema.Column) (string, error) {
	if c.Nullable == schema.NullTrue {
		return "", nil
	}
	return "NOT NULL", nil
}

func (f *ColumnFormatter) defaultValue(_ sql.RenderContext, c *schema.Column) (string, error) {
	if !c.HasDefault() {
		return "", nil
	}
	v, err := f.DefaultValue(c.Default)
	if err != nil {
		return "", err
	}
	return "DEFAULT " + v, nil
}

// unique adds the single column constraint. ALTER COLUMN cannot add one,
// use CreateConstraint instead.
func (f *ColumnFormatter) unique(ctx sql.RenderContext, c *schema.Column) (string, error) {
	if ctx != sql.ForCreate || !c.Unique || c.PrimaryKey {
		return "", nil
	}
	return "UNIQUE", nil
}

func (f *ColumnFormatter) systemMethod(m schema.SystemMethod) (string, error) {
	if s, ok := systemMethods[m]; ok {
		return s, nil
	}
	return "", migrix.NewUnimplementedFeatureError(dialect.Informix, "system method "+m.String())
}
