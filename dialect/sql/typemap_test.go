package sql

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/schema"
)

func TestTypeMapResolve(t *testing.T) {
	t.Parallel()

	m := NewTypeMap().
		Set(schema.TypeString, "NVARCHAR(255)").
		SetMax(schema.TypeString, math.MaxInt32, "LVARCHAR($size)").
		SetMax(schema.TypeString, 255, "NVARCHAR($size)").
		Set(schema.TypeDecimal, "DECIMAL(19,5)").
		SetMax(schema.TypeDecimal, 31, "DECIMAL($size,$precision)").
		Set(schema.TypeInt32, "INT")

	tests := []struct {
		name      string
		typ       schema.Type
		size      int
		precision int
		want      string
	}{
		{"default", schema.TypeString, 0, 0, "NVARCHAR(255)"},
		{"negative_size", schema.TypeString, -1, 0, "NVARCHAR(255)"},
		{"first_tier", schema.TypeString, 100, 0, "NVARCHAR(100)"},
		{"tier_boundary", schema.TypeString, 255, 0, "NVARCHAR(255)"},
		{"second_tier", schema.TypeString, 256, 0, "LVARCHAR(256)"},
		{"precision", schema.TypeDecimal, 10, 2, "DECIMAL(10,2)"},
		{"over_every_tier", schema.TypeDecimal, 40, 2, "DECIMAL(19,5)"},
		{"no_tiers", schema.TypeInt32, 4, 0, "INT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Resolve(tt.typ, tt.size, tt.precision)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeMapUnmapped(t *testing.T) {
	t.Parallel()

	m := NewTypeMap().SetMax(schema.TypeBinary, 10, "BYTE($size)")
	assert.True(t, m.Has(schema.TypeBinary))
	assert.False(t, m.Has(schema.TypeXml))

	_, err := m.Resolve(schema.TypeXml, 0, 0)
	require.Error(t, err)
	assert.True(t, migrix.IsUnmappedType(err))
	assert.Contains(t, err.Error(), "Xml")

	// Tiers without a default template.
	got, err := m.Resolve(schema.TypeBinary, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "BYTE(5)", got)
	_, err = m.Resolve(schema.TypeBinary, 0, 0)
	assert.True(t, migrix.IsUnmappedType(err))
	_, err = m.Resolve(schema.TypeBinary, 11, 0)
	assert.True(t, migrix.IsUnmappedType(err))
}

func TestTypeMapReplaceTier(t *testing.T) {
	t.Parallel()

	m := NewTypeMap().
		SetMax(schema.TypeAnsiString, 255, "VARCHAR($size)").
		SetMax(schema.TypeAnsiString, 255, "CHAR VARYING($size)")
	got, err := m.Resolve(schema.TypeAnsiString, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, "CHAR VARYING(20)", got)
}
