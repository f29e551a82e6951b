package scaffold

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/expr"
	"github.com/syssam/migrix/plan"
)

const usersPlan = `
name: create_users
version: "20240101000000"
steps:
  - kind: create_table
    table: users
    columns:
      - {name: id, type: Int32, primary_key: true, nullable: false}
      - {name: created, type: DateTime, default: {method: CurrentDateTime}}
      - {name: code, custom_type: SERIAL8, default: {sql: TODAY}}
  - kind: create_index
    table: users
    name: ix_users_created
    columns: [created desc]
  - kind: create_foreign_key
    table: users
    columns: group_id
    ref_table: groups
    ref_columns: id
    on_delete: cascade
  - kind: create_sequence
    name: users_seq
    start_with: 10
  - kind: insert_data
    table: users
    rows:
      - {id: 1, code: abc, ratio: 1.5}
`

func TestRender(t *testing.T) {
	p, err := plan.Parse([]byte(usersPlan))
	require.NoError(t, err)

	src, err := Render(filepath.Join(t.TempDir(), "plans.go"), "migrations", p)
	require.NoError(t, err)
	out := string(src)
	assert.True(t, strings.HasPrefix(out, "// Code generated by migrix. DO NOT EDIT."))
	assert.Contains(t, out, "package migrations")
	assert.Contains(t, out, `"github.com/syssam/migrix/expr"`)
	assert.Contains(t, out, `"github.com/syssam/migrix/schema"`)
	assert.Contains(t, out, "// CreateUsers returns the steps of plan create_users (version 20240101000000).")
	assert.Contains(t, out, "func CreateUsers() []expr.Expression {")
	for _, re := range []string{
		`&expr\.CreateTable\{`,
		`Type:\s+schema\.TypeInt32`,
		`Nullable:\s+schema\.NullFalse`,
		`PrimaryKey:\s+true`,
		`Default:\s+schema\.CurrentDateTime`,
		`CustomType:\s+"SERIAL8"`,
		`V:\s+sql\.RawSQL\("TODAY"\)`,
		`Direction:\s+schema\.Desc`,
		`OnDelete:\s+schema\.Cascade`,
		`StartWith:\s+10,`,
		`Column:\s+"ratio"`,
		`Value:\s+1\.5`,
		`\[\]expr\.Row\{`,
	} {
		assert.Regexp(t, re, out)
	}
	assert.NotContains(t, out, "NullUnspecified")
	assert.NotContains(t, out, "schema.Asc")
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate("migrations", &plan.Plan{Name: "backfill", Steps: []plan.Step{{
		Kind: "perform_db_operation",
		Expr: &expr.PerformDBOperation{Operation: func(context.Context, dialect.ExecQuerier) error { return nil }},
	}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `plan "backfill" step 0`)
	assert.Contains(t, err.Error(), "unsupported value of type func(")

	_, err = Generate("migrations", &plan.Plan{Name: "users"}, &plan.Plan{Name: "users"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both generate")
}

func TestWriteFile(t *testing.T) {
	p, err := plan.Parse([]byte("name: drop_logs\nsteps:\n  - {kind: delete_table, table: logs}\n"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "migrations", "plans.go")
	require.NoError(t, WriteFile(path, p))
	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(src), "package migrations")
	assert.Contains(t, string(src), "// DropLogs returns the steps of plan drop_logs.")
	assert.Regexp(t, `Table:\s+"logs"`, string(src))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "CreateUsers", FuncName("create_users"))
	assert.True(t, strings.HasPrefix(FuncName("2024_users"), "Plan"))
	assert.Equal(t, "mymigrations", PackageName("/tmp/My-Migrations"))
	assert.Equal(t, "migrations", PackageName("/tmp/2024"))
}
