package schema

import (
	"fmt"
	"strconv"
	"strings"

	atlas "ariga.io/atlas/sql/schema"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/expr"
	"github.com/syssam/migrix/schema"
)

// FromChanges converts a list of atlas schema changes, as produced by an
// atlas differ or inspector, into migration expressions. Changes nested in
// a ModifyTable are flattened in order.
func FromChanges(changes []atlas.Change) ([]expr.Expression, error) {
	var exprs []expr.Expression
	for _, c := range changes {
		converted, err := fromChange(c)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, converted...)
	}
	return exprs, nil
}

// FromTable returns the expressions creating t, its indexes and its
// foreign keys.
func FromTable(t *atlas.Table) ([]expr.Expression, error) {
	columns, err := Columns(t)
	if err != nil {
		return nil, err
	}
	exprs := []expr.Expression{&expr.CreateTable{
		Schema:  schemaName(t),
		Table:   t.Name,
		Columns: columns,
	}}
	for _, idx := range t.Indexes {
		i, err := Index(t, idx)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, &expr.CreateIndex{Index: i})
	}
	for _, fk := range t.ForeignKeys {
		exprs = append(exprs, &expr.CreateForeignKey{ForeignKey: ForeignKey(t, fk)})
	}
	return exprs, nil
}

func fromChange(c atlas.Change) ([]expr.Expression, error) {
	switch c := c.(type) {
	case *atlas.AddSchema:
		return []expr.Expression{&expr.CreateSchema{Schema: c.S.Name}}, nil
	case *atlas.DropSchema:
		return []expr.Expression{&expr.DeleteSchema{Schema: c.S.Name}}, nil
	case *atlas.AddTable:
		return FromTable(c.T)
	case *atlas.DropTable:
		return []expr.Expression{&expr.DeleteTable{Schema: schemaName(c.T), Table: c.T.Name}}, nil
	case *atlas.RenameTable:
		return []expr.Expression{&expr.RenameTable{Schema: schemaName(c.From), OldName: c.From.Name, NewName: c.To.Name}}, nil
	case *atlas.ModifyTable:
		var exprs []expr.Expression
		for _, tc := range c.Changes {
			e, err := fromTableChange(c.T, tc)
			if err != nil {
				return nil, err
			}
			exprs = append(exprs, e)
		}
		return exprs, nil
	default:
		return nil, migrix.NewUnimplementedFeatureError("atlas", fmt.Sprintf("change %T", c))
	}
}

func fromTableChange(t *atlas.Table, c atlas.Change) (expr.Expression, error) {
	switch c := c.(type) {
	case *atlas.AddColumn:
		col, err := Column(c.C)
		if err != nil {
			return nil, err
		}
		return &expr.CreateColumn{Schema: schemaName(t), Table: t.Name, Column: col}, nil
	case *atlas.ModifyColumn:
		col, err := Column(c.To)
		if err != nil {
			return nil, err
		}
		return &expr.AlterColumn{Schema: schemaName(t), Table: t.Name, Column: col}, nil
	case *atlas.DropColumn:
		return &expr.DeleteColumn{Schema: schemaName(t), Table: t.Name, Columns: []string{c.C.Name}}, nil
	case *atlas.RenameColumn:
		return &expr.RenameColumn{Schema: schemaName(t), Table: t.Name, OldName: c.From.Name, NewName: c.To.Name}, nil
	case *atlas.AddIndex:
		idx, err := Index(t, c.I)
		if err != nil {
			return nil, err
		}
		return &expr.CreateIndex{Index: idx}, nil
	case *atlas.DropIndex:
		return &expr.DeleteIndex{Index: &schema.Index{Name: c.I.Name, Schema: schemaName(t), Table: t.Name}}, nil
	case *atlas.AddForeignKey:
		return &expr.CreateForeignKey{ForeignKey: ForeignKey(t, c.F)}, nil
	case *atlas.DropForeignKey:
		return &expr.DeleteForeignKey{ForeignKey: ForeignKey(t, c.F)}, nil
	default:
		return nil, migrix.NewUnimplementedFeatureError("atlas", fmt.Sprintf("table change %T", c))
	}
}

// Columns converts the columns of t. Columns that are part of the table
// primary key are flagged as such.
func Columns(t *atlas.Table) ([]*schema.Column, error) {
	pk := make(map[string]bool)
	var pkName string
	if t.PrimaryKey != nil {
		pkName = t.PrimaryKey.Name
		for _, p := range t.PrimaryKey.Parts {
			if p.C != nil {
				pk[p.C.Name] = true
			}
		}
	}
	columns := make([]*schema.Column, 0, len(t.Columns))
	for _, c := range t.Columns {
		col, err := Column(c)
		if err != nil {
			return nil, err
		}
		if pk[c.Name] {
			col.PrimaryKey = true
			col.PrimaryKeyName = pkName
		}
		columns = append(columns, col)
	}
	return columns, nil
}

// Column converts an atlas column. Atlas types without a semantic
// counterpart are carried as a custom type.
func Column(c *atlas.Column) (*schema.Column, error) {
	if c.Type == nil || c.Type.Type == nil {
		return nil, migrix.NewUnmappedTypeError(fmt.Sprintf("column %q without type", c.Name), 0)
	}
	col := &schema.Column{Name: c.Name, Nullable: schema.NullFalse}
	if c.Type.Null {
		col.Nullable = schema.NullTrue
	}
	switch t := c.Type.Type.(type) {
	case *atlas.IntegerType:
		switch baseType(t.T) {
		case "tinyint":
			col.Type = schema.TypeByte
		case "smallint", "int2":
			col.Type = schema.TypeInt16
		case "int", "integer", "int4", "mediumint":
			col.Type = schema.TypeInt32
		case "bigint", "int8":
			col.Type = schema.TypeInt64
		default:
			col.CustomType = strings.ToUpper(t.T)
		}
		if t.Unsigned && col.Type == schema.TypeInt64 {
			col.Type = schema.TypeUInt64
		}
	case *atlas.StringType:
		col.Size = t.Size
		if col.Size == 0 {
			col.Size = typeSize(t.T)
		}
		switch baseType(t.T) {
		case "char", "character":
			col.Type = schema.TypeAnsiStringFixedLength
		case "nchar":
			col.Type = schema.TypeStringFixedLength
		case "varchar", "character varying":
			col.Type = schema.TypeAnsiString
		case "nvarchar", "lvarchar", "text", "string":
			col.Type = schema.TypeString
		default:
			col.CustomType = strings.ToUpper(t.T)
		}
	case *atlas.BoolType:
		col.Type = schema.TypeBoolean
	case *atlas.DecimalType:
		col.Type = schema.TypeDecimal
		col.Size, col.Precision = t.Precision, t.Scale
	case *atlas.FloatType:
		col.Type = schema.TypeDouble
		if t.Precision > 0 && t.Precision <= 24 || baseType(t.T) == "real" || baseType(t.T) == "smallfloat" {
			col.Type = schema.TypeSingle
		}
	case *atlas.TimeType:
		switch baseType(t.T) {
		case "date":
			col.Type = schema.TypeDate
		case "time":
			col.Type = schema.TypeTime
		default:
			col.Type = schema.TypeDateTime
		}
	case *atlas.BinaryType:
		col.Type = schema.TypeBinary
		if t.Size != nil {
			col.Size = *t.Size
		}
	case *atlas.UUIDType:
		col.Type = schema.TypeGuid
	case *atlas.JSONType:
		col.CustomType = strings.ToUpper(t.T)
	case *atlas.UnsupportedType:
		col.CustomType = strings.ToUpper(t.T)
	default:
		if c.Type.Raw == "" {
			return nil, migrix.NewUnmappedTypeError(fmt.Sprintf("%T", t), 0)
		}
		col.CustomType = c.Type.Raw
	}
	col.Default = Default(c.Default)
	return col, nil
}

// Default converts an atlas default expression.
func Default(x atlas.Expr) schema.Default {
	switch x := x.(type) {
	case *atlas.Literal:
		return schema.Literal{V: literalValue(x.V)}
	case *atlas.RawExpr:
		switch strings.ToUpper(strings.TrimSuffix(x.X, "()")) {
		case "CURRENT_TIMESTAMP", "NOW", "CURRENT", "GETDATE":
			return schema.CurrentDateTime
		case "CURRENT_USER", "USER":
			return schema.CurrentUser
		}
		return schema.Literal{V: sql.RawSQL(x.X)}
	default:
		return schema.Undefined{}
	}
}

// Index converts an atlas index of table t. Expression parts are not
// supported.
func Index(t *atlas.Table, idx *atlas.Index) (*schema.Index, error) {
	i := &schema.Index{Name: idx.Name, Schema: schemaName(t), Table: t.Name, Unique: idx.Unique}
	for _, p := range idx.Parts {
		if p.C == nil {
			return nil, migrix.NewUnimplementedFeatureError("atlas", "expression index "+idx.Name)
		}
		dir := schema.Asc
		if p.Desc {
			dir = schema.Desc
		}
		i.Columns = append(i.Columns, schema.IndexColumn{Name: p.C.Name, Direction: dir})
	}
	return i, nil
}

// ForeignKey converts an atlas foreign key of table t.
func ForeignKey(t *atlas.Table, fk *atlas.ForeignKey) *schema.ForeignKey {
	k := &schema.ForeignKey{
		Name:     fk.Symbol,
		Schema:   schemaName(t),
		Table:    t.Name,
		OnDelete: schema.ReferenceOption(fk.OnDelete),
		OnUpdate: schema.ReferenceOption(fk.OnUpdate),
	}
	for _, c := range fk.Columns {
		k.Columns = append(k.Columns, c.Name)
	}
	if fk.RefTable != nil {
		k.RefSchema, k.RefTable = schemaName(fk.RefTable), fk.RefTable.Name
	}
	for _, c := range fk.RefColumns {
		k.RefColumns = append(k.RefColumns, c.Name)
	}
	return k
}

func schemaName(t *atlas.Table) string {
	if t == nil || t.Schema == nil {
		return ""
	}
	return t.Schema.Name
}

// baseType returns the lower case type name without its arguments,
// "varchar(255)" gives "varchar".
func baseType(t string) string {
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

// typeSize returns the size argument of a type name, "varchar(255)" gives 255.
func typeSize(t string) int {
	i, j := strings.IndexByte(t, '('), strings.IndexByte(t, ')')
	if i < 0 || j < i {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(t[i+1 : j]))
	if err != nil {
		return 0
	}
	return n
}

func literalValue(v string) any {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	case "null":
		return nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return sql.RawSQL(v)
}
