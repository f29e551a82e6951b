package sql

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/migrix"
)

func TestCompatibilityPolicy(t *testing.T) {
	t.Parallel()

	const msg = "This feature not directly supported by most versions of Informix."

	t.Run("comment", func(t *testing.T) {
		p := &CompatibilityPolicy{}
		got, err := p.Handle(msg)
		require.NoError(t, err)
		assert.Equal(t, "-- "+msg, got)
	})

	t.Run("loose", func(t *testing.T) {
		var buf bytes.Buffer
		p := &CompatibilityPolicy{Mode: CompatLoose, Logger: slog.New(slog.NewTextHandler(&buf, nil))}
		got, err := p.Handle(msg)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "Informix")
	})

	t.Run("strict", func(t *testing.T) {
		p := &CompatibilityPolicy{Mode: CompatStrict}
		_, err := p.Handle(msg)
		require.Error(t, err)
		assert.True(t, migrix.IsUnsupportedOperation(err))
		assert.Equal(t, "migrix: "+msg, err.Error())
	})
}

func TestCompatibilityMode(t *testing.T) {
	t.Parallel()

	for _, m := range []CompatibilityMode{CompatComment, CompatLoose, CompatStrict} {
		text, err := m.MarshalText()
		require.NoError(t, err)
		var got CompatibilityMode
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, m, got)
	}
	m, err := ParseCompatibilityMode("STRICT")
	require.NoError(t, err)
	assert.Equal(t, CompatStrict, m)
	_, err = ParseCompatibilityMode("lenient")
	assert.Error(t, err)
	assert.Equal(t, "invalid", CompatibilityMode(9).String())
}

func TestIsComment(t *testing.T) {
	t.Parallel()

	assert.True(t, IsComment("-- skipped"))
	assert.True(t, IsComment("  -- a\n\n-- b\n"))
	assert.False(t, IsComment(""))
	assert.False(t, IsComment("   "))
	assert.False(t, IsComment("-- a\nDROP TABLE t"))
	assert.False(t, IsComment("DROP TABLE t -- x"))
}
