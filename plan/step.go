package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/expr"
	"github.com/syssam/migrix/schema"
)

// Column is the YAML form of a column definition.
type Column struct {
	Name           string    `yaml:"name"`
	Type           string    `yaml:"type,omitempty"`
	CustomType     string    `yaml:"custom_type,omitempty"`
	Size           int       `yaml:"size,omitempty"`
	Precision      int       `yaml:"precision,omitempty"`
	Nullable       *bool     `yaml:"nullable,omitempty"`
	Default        yaml.Node `yaml:"default,omitempty"`
	Identity       bool      `yaml:"identity,omitempty"`
	PrimaryKey     bool      `yaml:"primary_key,omitempty"`
	PrimaryKeyName string    `yaml:"primary_key_name,omitempty"`
	Unique         bool      `yaml:"unique,omitempty"`
}

func (c *Column) column() (*schema.Column, error) {
	if c.Name == "" {
		return nil, errors.New("column without name")
	}
	col := &schema.Column{
		Name:           c.Name,
		CustomType:     c.CustomType,
		Size:           c.Size,
		Precision:      c.Precision,
		Identity:       c.Identity,
		PrimaryKey:     c.PrimaryKey,
		PrimaryKeyName: c.PrimaryKeyName,
		Unique:         c.Unique,
	}
	if c.Type != "" {
		t, ok := schema.ParseType(c.Type)
		if !ok {
			return nil, fmt.Errorf("column %s: unknown type %q", c.Name, c.Type)
		}
		col.Type = t
	}
	if c.Nullable != nil {
		col.Nullable = schema.NullFalse
		if *c.Nullable {
			col.Nullable = schema.NullTrue
		}
	}
	d, err := defaultValue(&c.Default)
	if err != nil {
		return nil, fmt.Errorf("column %s: %w", c.Name, err)
	}
	col.Default = d
	return col, nil
}

// defaultValue decodes a default. Scalars are literals, null included. A
// mapping names a system method ({method: CurrentDateTime}) or raw SQL
// ({sql: TODAY}).
func defaultValue(n *yaml.Node) (schema.Default, error) {
	switch n.Kind {
	case 0:
		return schema.Undefined{}, nil
	case yaml.ScalarNode:
		v, err := scalar(n)
		if err != nil {
			return nil, err
		}
		return schema.Literal{V: v}, nil
	case yaml.MappingNode:
		var d struct {
			Method string `yaml:"method"`
			SQL    string `yaml:"sql"`
		}
		if err := n.Decode(&d); err != nil {
			return nil, err
		}
		switch {
		case d.Method != "":
			m, ok := schema.ParseSystemMethod(d.Method)
			if !ok {
				return nil, fmt.Errorf("unknown system method %q", d.Method)
			}
			return m, nil
		case d.SQL != "":
			return schema.Literal{V: sql.RawSQL(d.SQL)}, nil
		}
	}
	return nil, fmt.Errorf("line %d: invalid default", n.Line)
}

func scalar(n *yaml.Node) (any, error) {
	if n.Tag == "!!null" {
		return nil, nil
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// row decodes a mapping into a row, keeping the key order of the file.
func row(n *yaml.Node) (expr.Row, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: row must be a mapping", n.Line)
	}
	r := make(expr.Row, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		v, err := scalar(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		r = append(r, expr.ColumnValue{Column: n.Content[i].Value, Value: v})
	}
	return r, nil
}

func rows(nodes []yaml.Node) ([]expr.Row, error) {
	rs := make([]expr.Row, 0, len(nodes))
	for i := range nodes {
		r, err := row(&nodes[i])
		if err != nil {
			return nil, err
		}
		rs = append(rs, r)
	}
	return rs, nil
}

func optionalRow(n *yaml.Node) (expr.Row, error) {
	if n.Kind == 0 {
		return nil, nil
	}
	return row(n)
}

func referenceOption(s string) (schema.ReferenceOption, error) {
	r := schema.ReferenceOption(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case schema.None, schema.NoAction, schema.Restrict, schema.Cascade, schema.SetNull, schema.SetDefault:
		return r, nil
	}
	return "", fmt.Errorf("unknown reference option %q", s)
}

// indexColumns parses "name" and "name desc" entries.
func indexColumns(cols []string) ([]schema.IndexColumn, error) {
	out := make([]schema.IndexColumn, 0, len(cols))
	for _, c := range cols {
		fields := strings.Fields(c)
		switch {
		case len(fields) == 1:
			out = append(out, schema.IndexColumn{Name: fields[0]})
		case len(fields) == 2 && strings.EqualFold(fields[1], "asc"):
			out = append(out, schema.IndexColumn{Name: fields[0]})
		case len(fields) == 2 && strings.EqualFold(fields[1], "desc"):
			out = append(out, schema.IndexColumn{Name: fields[0], Direction: schema.Desc})
		default:
			return nil, fmt.Errorf("invalid index column %q", c)
		}
	}
	return out, nil
}

// normalizeKind accepts both expression kinds ("CreateTable") and their
// snake case form ("create_table").
func normalizeKind(kind string) string {
	return inflect.Underscore(strings.TrimSpace(kind))
}

type decoder func(*yaml.Node) (expr.Expression, error)

// table holds the fields shared by table level steps.
type table struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
}

var decoders = map[string]decoder{
	"create_table": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table       `yaml:",inline"`
			Description string   `yaml:"description"`
			Columns     []Column `yaml:"columns"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		e := &expr.CreateTable{Schema: s.Schema, Table: s.Table, Description: s.Description}
		for i := range s.Columns {
			c, err := s.Columns[i].column()
			if err != nil {
				return nil, err
			}
			e.Columns = append(e.Columns, c)
		}
		return e, nil
	},
	"delete_table": func(n *yaml.Node) (expr.Expression, error) {
		var s table
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.DeleteTable{Schema: s.Schema, Table: s.Table}, nil
	},
	"rename_table": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table   `yaml:",inline"`
			NewName string `yaml:"new_name"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.RenameTable{Schema: s.Schema, OldName: s.Table, NewName: s.NewName}, nil
	},
	"alter_table": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table       `yaml:",inline"`
			Description string `yaml:"description"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.AlterTable{Schema: s.Schema, Table: s.Table, Description: s.Description}, nil
	},
	"create_column": func(n *yaml.Node) (expr.Expression, error) {
		t, c, err := columnStep(n)
		if err != nil {
			return nil, err
		}
		return &expr.CreateColumn{Schema: t.Schema, Table: t.Table, Column: c}, nil
	},
	"alter_column": func(n *yaml.Node) (expr.Expression, error) {
		t, c, err := columnStep(n)
		if err != nil {
			return nil, err
		}
		return &expr.AlterColumn{Schema: t.Schema, Table: t.Table, Column: c}, nil
	},
	"rename_column": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table   `yaml:",inline"`
			Column  string `yaml:"column"`
			NewName string `yaml:"new_name"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.RenameColumn{Schema: s.Schema, Table: s.Table, OldName: s.Column, NewName: s.NewName}, nil
	},
	"delete_column": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table   `yaml:",inline"`
			Columns StringList `yaml:"columns"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.DeleteColumn{Schema: s.Schema, Table: s.Table, Columns: s.Columns}, nil
	},
	"create_schema": func(n *yaml.Node) (expr.Expression, error) {
		var s table
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.CreateSchema{Schema: s.Schema}, nil
	},
	"alter_schema": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table `yaml:",inline"`
			To    string `yaml:"to"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.AlterSchema{SourceSchema: s.Schema, Table: s.Table, DestSchema: s.To}, nil
	},
	"delete_schema": func(n *yaml.Node) (expr.Expression, error) {
		var s table
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.DeleteSchema{Schema: s.Schema}, nil
	},
	"create_index": func(n *yaml.Node) (expr.Expression, error) {
		idx, err := index(n)
		if err != nil {
			return nil, err
		}
		return &expr.CreateIndex{Index: idx}, nil
	},
	"delete_index": func(n *yaml.Node) (expr.Expression, error) {
		idx, err := index(n)
		if err != nil {
			return nil, err
		}
		return &expr.DeleteIndex{Index: idx}, nil
	},
	"create_constraint": func(n *yaml.Node) (expr.Expression, error) {
		c, err := constraint(n)
		if err != nil {
			return nil, err
		}
		return &expr.CreateConstraint{Constraint: c}, nil
	},
	"delete_constraint": func(n *yaml.Node) (expr.Expression, error) {
		c, err := constraint(n)
		if err != nil {
			return nil, err
		}
		return &expr.DeleteConstraint{Constraint: c}, nil
	},
	"create_foreign_key": func(n *yaml.Node) (expr.Expression, error) {
		fk, err := foreignKey(n)
		if err != nil {
			return nil, err
		}
		return &expr.CreateForeignKey{ForeignKey: fk}, nil
	},
	"delete_foreign_key": func(n *yaml.Node) (expr.Expression, error) {
		fk, err := foreignKey(n)
		if err != nil {
			return nil, err
		}
		return &expr.DeleteForeignKey{ForeignKey: fk}, nil
	},
	"alter_default_constraint": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table   `yaml:",inline"`
			Column  string    `yaml:"column"`
			Default yaml.Node `yaml:"default"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		d, err := defaultValue(&s.Default)
		if err != nil {
			return nil, err
		}
		return &expr.AlterDefaultConstraint{Schema: s.Schema, Table: s.Table, Column: s.Column, Default: d}, nil
	},
	"delete_default_constraint": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table  `yaml:",inline"`
			Column string `yaml:"column"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.DeleteDefaultConstraint{Schema: s.Schema, Table: s.Table, Column: s.Column}, nil
	},
	"create_sequence": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			Schema    string `yaml:"schema"`
			Name      string `yaml:"name"`
			StartWith int64  `yaml:"start_with"`
			Increment int64  `yaml:"increment"`
			MinValue  int64  `yaml:"min_value"`
			MaxValue  int64  `yaml:"max_value"`
			Cache     int64  `yaml:"cache"`
			Cycle     bool   `yaml:"cycle"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.CreateSequence{
			Schema: s.Schema, Name: s.Name, StartWith: s.StartWith, Increment: s.Increment,
			MinValue: s.MinValue, MaxValue: s.MaxValue, Cache: s.Cache, Cycle: s.Cycle,
		}, nil
	},
	"delete_sequence": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			Schema string `yaml:"schema"`
			Name   string `yaml:"name"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.DeleteSequence{Schema: s.Schema, Name: s.Name}, nil
	},
	"insert_data": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table `yaml:",inline"`
			Rows  []yaml.Node `yaml:"rows"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		rs, err := rows(s.Rows)
		if err != nil {
			return nil, err
		}
		return &expr.InsertData{Schema: s.Schema, Table: s.Table, Rows: rs}, nil
	},
	"update_data": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table   `yaml:",inline"`
			Set     yaml.Node `yaml:"set"`
			Where   yaml.Node `yaml:"where"`
			AllRows bool      `yaml:"all_rows"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		set, err := row(&s.Set)
		if err != nil {
			return nil, err
		}
		where, err := optionalRow(&s.Where)
		if err != nil {
			return nil, err
		}
		return &expr.UpdateData{Schema: s.Schema, Table: s.Table, Set: set, Where: where, AllRows: s.AllRows}, nil
	},
	"delete_data": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			table   `yaml:",inline"`
			Rows    []yaml.Node `yaml:"rows"`
			AllRows bool        `yaml:"all_rows"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		rs, err := rows(s.Rows)
		if err != nil {
			return nil, err
		}
		return &expr.DeleteData{Schema: s.Schema, Table: s.Table, Rows: rs, AllRows: s.AllRows}, nil
	},
	"execute_sql": func(n *yaml.Node) (expr.Expression, error) {
		var s struct {
			SQL string `yaml:"sql"`
		}
		if err := n.Decode(&s); err != nil {
			return nil, err
		}
		return &expr.ExecuteSQL{SQL: s.SQL}, nil
	},
}

func columnStep(n *yaml.Node) (table, *schema.Column, error) {
	var s struct {
		table  `yaml:",inline"`
		Column Column `yaml:"column"`
	}
	if err := n.Decode(&s); err != nil {
		return table{}, nil, err
	}
	c, err := s.Column.column()
	return s.table, c, err
}

func index(n *yaml.Node) (*schema.Index, error) {
	var s struct {
		table   `yaml:",inline"`
		Name    string     `yaml:"name"`
		Unique  bool       `yaml:"unique"`
		Columns StringList `yaml:"columns"`
	}
	if err := n.Decode(&s); err != nil {
		return nil, err
	}
	cols, err := indexColumns(s.Columns)
	if err != nil {
		return nil, err
	}
	return &schema.Index{Name: s.Name, Schema: s.Schema, Table: s.Table, Unique: s.Unique, Columns: cols}, nil
}

func constraint(n *yaml.Node) (*schema.Constraint, error) {
	var s struct {
		table      `yaml:",inline"`
		Name       string     `yaml:"name"`
		Constraint string     `yaml:"constraint"`
		Columns    StringList `yaml:"columns"`
	}
	if err := n.Decode(&s); err != nil {
		return nil, err
	}
	c := &schema.Constraint{Name: s.Name, Schema: s.Schema, Table: s.Table, Columns: s.Columns}
	switch strings.ToLower(strings.TrimSpace(s.Constraint)) {
	case "primary_key", "primary key":
		c.Kind = schema.PrimaryKey
	case "unique", "":
		c.Kind = schema.Unique
	default:
		return nil, fmt.Errorf("unknown constraint %q", s.Constraint)
	}
	return c, nil
}

func foreignKey(n *yaml.Node) (*schema.ForeignKey, error) {
	var s struct {
		table      `yaml:",inline"`
		Name       string     `yaml:"name"`
		Columns    StringList `yaml:"columns"`
		RefSchema  string     `yaml:"ref_schema"`
		RefTable   string     `yaml:"ref_table"`
		RefColumns StringList `yaml:"ref_columns"`
		OnDelete   string     `yaml:"on_delete"`
		OnUpdate   string     `yaml:"on_update"`
	}
	if err := n.Decode(&s); err != nil {
		return nil, err
	}
	onDelete, err := referenceOption(s.OnDelete)
	if err != nil {
		return nil, err
	}
	onUpdate, err := referenceOption(s.OnUpdate)
	if err != nil {
		return nil, err
	}
	return &schema.ForeignKey{
		Name: s.Name, Schema: s.Schema, Table: s.Table, Columns: s.Columns,
		RefSchema: s.RefSchema, RefTable: s.RefTable, RefColumns: s.RefColumns,
		OnDelete: onDelete, OnUpdate: onUpdate,
	}, nil
}

// StringList is a YAML value that is either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}
