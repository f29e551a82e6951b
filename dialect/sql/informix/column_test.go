package informix

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/schema"
)

func newColumnFormatter() *ColumnFormatter {
	return NewColumnFormatter(NewQuoter(), NewTypeMap())
}

func TestRenderForCreate(t *testing.T) {
	t.Parallel()

	f := newColumnFormatter()
	tests := []struct {
		name string
		col  *schema.Column
		want string
	}{
		{"unspecified_nullability", &schema.Column{Name: "id", Type: schema.TypeInt32}, "id INT NOT NULL"},
		{"not_null", &schema.Column{Name: "id", Type: schema.TypeInt16, Nullable: schema.NullFalse}, "id SMALLINT NOT NULL"},
		{"nullable", &schema.Column{Name: "note", Type: schema.TypeString, Nullable: schema.NullTrue}, "note NVARCHAR(255)"},
		{"identity_ignored", &schema.Column{Name: "id", Type: schema.TypeInt64, Identity: true}, "id BIGINT NOT NULL"},
		{"custom_type", &schema.Column{Name: "id", CustomType: "SERIAL8"}, "id SERIAL8 NOT NULL"},
		{"literal_default", &schema.Column{Name: "n", Type: schema.TypeInt32, Default: schema.Literal{V: 0}}, "n INT NOT NULL DEFAULT 0"},
		{"null_default", &schema.Column{Name: "n", Type: schema.TypeInt32, Nullable: schema.NullTrue, Default: schema.Literal{}}, "n INT DEFAULT NULL"},
		{"user_default", &schema.Column{Name: "by", Type: schema.TypeAnsiString, Size: 32, Default: schema.CurrentUser}, "by VARCHAR(32) NOT NULL DEFAULT USER"},
		{"nil_default", &schema.Column{Name: "b", Type: schema.TypeBoolean, Default: nil}, "b BOOLEAN NOT NULL"},
		{"quoted_name", &schema.Column{Name: "a b;c", Type: schema.TypeDate}, `"a b;c" DATE NOT NULL`},
		{"unique", &schema.Column{Name: "email", Type: schema.TypeString, Size: 100, Unique: true}, "email NVARCHAR(100) NOT NULL UNIQUE"},
		{"unique_after_default", &schema.Column{Name: "code", Type: schema.TypeInt32, Default: schema.Literal{V: 0}, Unique: true}, "code INT NOT NULL DEFAULT 0 UNIQUE"},
		{"unique_primary_key", &schema.Column{Name: "id", Type: schema.TypeInt32, PrimaryKey: true, Unique: true}, "id INT NOT NULL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.RenderForCreate(tt.col)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderForAlter(t *testing.T) {
	t.Parallel()

	f := newColumnFormatter()
	got, err := f.RenderForAlter(&schema.Column{Name: "status", Type: schema.TypeString, Size: 20, Default: schema.Literal{V: "new"}})
	require.NoError(t, err)
	assert.Equal(t, "ALTER COLUMN status SET DATA TYPE NVARCHAR(20) NOT NULL DEFAULT 'new'", got)

	got, err = f.RenderForAlter(&schema.Column{Name: "status", Type: schema.TypeString, Size: 20, Nullable: schema.NullTrue})
	require.NoError(t, err)
	assert.Equal(t, "ALTER COLUMN status SET DATA TYPE NVARCHAR(20)", got)

	got, err = f.RenderForAlter(&schema.Column{Name: "email", Type: schema.TypeString, Size: 100, Unique: true})
	require.NoError(t, err)
	assert.Equal(t, "ALTER COLUMN email SET DATA TYPE NVARCHAR(100) NOT NULL", got)

	got, err = f.RenderForAlter(&schema.Column{Name: "id", Type: schema.TypeInt32, Identity: true})
	require.Error(t, err)
	assert.Empty(t, got)
	assert.True(t, migrix.IsUnsupportedOperation(err))
}

func TestRenderUndefinedDefault(t *testing.T) {
	t.Parallel()

	f := newColumnFormatter()
	for _, d := range []schema.Default{nil, schema.Undefined{}} {
		col := &schema.Column{Name: "c", Type: schema.TypeString, Size: 10, Default: d}
		create, err := f.RenderForCreate(col)
		require.NoError(t, err)
		alter, err := f.RenderForAlter(col)
		require.NoError(t, err)
		assert.NotContains(t, create, "DEFAULT")
		assert.NotContains(t, alter, "DEFAULT")
	}
}

func TestSystemMethods(t *testing.T) {
	t.Parallel()

	f := newColumnFormatter()
	for _, m := range []schema.SystemMethod{schema.CurrentDateTime, schema.CurrentUser} {
		_, err := f.DefaultValue(m)
		require.NoError(t, err, m.String())
	}
	for _, m := range []schema.SystemMethod{schema.NewGuid, schema.NewSequentialID, schema.CurrentUTCDateTime, schema.CurrentDateTimeOffset} {
		_, err := f.DefaultValue(m)
		require.Error(t, err, m.String())
		assert.True(t, migrix.IsUnimplementedFeature(err))
		assert.Contains(t, err.Error(), m.String())
	}
}

func TestAddPrimaryKeyConstraint(t *testing.T) {
	t.Parallel()

	f := newColumnFormatter()
	cols := []*schema.Column{{Name: "id"}, {Name: "line-no"}}
	assert.Equal(t, `); ALTER TABLE app.orders ADD CONSTRAINT PRIMARY KEY (id, "line-no"`,
		f.AddPrimaryKeyConstraint("app.orders", cols))

	cols[1].PrimaryKeyName = "pk_orders"
	assert.Equal(t, `); ALTER TABLE orders ADD CONSTRAINT (PRIMARY KEY (id, "line-no") CONSTRAINT pk_orders`,
		f.AddPrimaryKeyConstraint("orders", cols))
}

func TestTypeMapResolvesEverySize(t *testing.T) {
	t.Parallel()

	m := NewTypeMap()
	sizes := []int{0, 1, 31, 32, 255, 256, 32767, 32768, math.MaxInt32}
	for typ := schema.TypeAnsiString; typ <= schema.TypeXml; typ++ {
		if !m.Has(typ) {
			_, err := m.Resolve(typ, 0, 0)
			assert.True(t, migrix.IsUnmappedType(err), typ.String())
			continue
		}
		for _, size := range sizes {
			got, err := m.Resolve(typ, size, 2)
			require.NoError(t, err, "%s(%d)", typ, size)
			assert.NotContains(t, got, "$size")
			assert.NotContains(t, got, "$precision")
		}
	}
}

func TestTypeMap(t *testing.T) {
	t.Parallel()

	m := NewTypeMap()
	tests := []struct {
		typ       schema.Type
		size      int
		precision int
		want      string
	}{
		{schema.TypeAnsiString, 0, 0, "VARCHAR(255)"},
		{schema.TypeAnsiString, 50, 0, "VARCHAR(50)"},
		{schema.TypeAnsiString, 256, 0, "VARCHAR(255)"},
		{schema.TypeAnsiStringFixedLength, 10, 0, "CHAR(10)"},
		{schema.TypeAnsiStringFixedLength, 0, 0, "CHAR(32767)"},
		{schema.TypeBinary, 100, 0, "BLOB"},
		{schema.TypeBoolean, 0, 0, "BOOLEAN"},
		{schema.TypeByte, 0, 0, "BYTE"},
		{schema.TypeDate, 0, 0, "DATE"},
		{schema.TypeDateTime, 0, 0, "DATETIME YEAR TO FRACTION"},
		{schema.TypeDecimal, 0, 0, "DECIMAL(19,5)"},
		{schema.TypeDecimal, 18, 4, "DECIMAL(18,4)"},
		{schema.TypeDecimal, 32, 4, "DECIMAL(19,5)"},
		{schema.TypeInt16, 0, 0, "SMALLINT"},
		{schema.TypeInt32, 0, 0, "INT"},
		{schema.TypeInt64, 0, 0, "BIGINT"},
		{schema.TypeSingle, 0, 0, "FLOAT"},
		{schema.TypeString, 0, 0, "NVARCHAR(255)"},
		{schema.TypeString, 255, 0, "NVARCHAR(255)"},
		{schema.TypeString, 256, 0, "LVARCHAR(256)"},
		{schema.TypeString, math.MaxInt32, 0, "LVARCHAR(2147483647)"},
		{schema.TypeStringFixedLength, 0, 0, "NCHAR(32767)"},
		{schema.TypeStringFixedLength, 8, 0, "NCHAR(8)"},
	}
	for _, tt := range tests {
		got, err := m.Resolve(tt.typ, tt.size, tt.precision)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s(%d,%d)", tt.typ, tt.size, tt.precision)
	}
	for _, typ := range []schema.Type{schema.TypeDouble, schema.TypeGuid, schema.TypeXml, schema.TypeUInt64, schema.TypeCurrency} {
		_, err := m.Resolve(typ, 0, 0)
		assert.True(t, migrix.IsUnmappedType(err), typ.String())
	}
}

func TestQuoterRoundTrip(t *testing.T) {
	t.Parallel()

	q := NewQuoter()
	plain := []string{"users", "Users", "order_line", "x1", "a b"}
	for _, n := range plain {
		assert.Equal(t, n, q.QuoteIdentifier(n))
		assert.Equal(t, n, q.Unquote(n))
	}
	for _, c := range SpecialChars {
		n := "a" + string(c) + "b"
		quoted := q.QuoteIdentifier(n)
		assert.True(t, strings.HasPrefix(quoted, `"`), n)
		assert.Equal(t, n, q.Unquote(quoted), n)
	}
	assert.Equal(t, `"say""hi"`, q.QuoteIdentifier(`say"hi`))
}
