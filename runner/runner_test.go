package runner

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/expr"
	"github.com/syssam/migrix/schema"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newMockRunner(t *testing.T, opts ...Option) (*Runner, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	cfg, err := NewConfig(append([]Option{WithLogger(discard())}, opts...)...)
	require.NoError(t, err)
	return New(sql.OpenDB(dialect.Informix, db), cfg), mock
}

func usersSteps() []expr.Expression {
	return []expr.Expression{
		&expr.CreateTable{
			Table: "users",
			Columns: []*schema.Column{
				{Name: "id", Type: schema.TypeInt32, PrimaryKey: true},
			},
		},
		&expr.InsertData{Table: "users", Rows: []expr.Row{
			{{Column: "id", Value: 1}},
		}},
	}
}

func TestRunnerApply(t *testing.T) {
	r, mock := newMockRunner(t)
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE users (id INT NOT NULL); ALTER TABLE users ADD CONSTRAINT PRIMARY KEY (id)").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users (id) VALUES (1)").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	report, err := r.Apply(context.Background(), usersSteps())
	require.NoError(t, err)
	require.Len(t, report.Steps, 2)
	assert.NotEmpty(t, report.RunID.String())
	assert.Equal(t, "CreateTable", report.Steps[0].Kind)
	assert.Equal(t, 1, report.Steps[1].Index)
	assert.Equal(t, "INSERT INTO users (id) VALUES (1)", report.Steps[1].SQL)
	require.NotNil(t, report.Validation)
	assert.False(t, report.Validation.HasErrors())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerApplyStepError(t *testing.T) {
	r, mock := newMockRunner(t)
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE users (id INT NOT NULL); ALTER TABLE users ADD CONSTRAINT PRIMARY KEY (id)").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO users (id) VALUES (1)").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	report, err := r.Apply(context.Background(), usersSteps())
	require.Error(t, err)
	var serr *migrix.StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Index)
	assert.Equal(t, "InsertData", serr.Kind)
	assert.Contains(t, err.Error(), "duplicate key")
	require.Len(t, report.Steps, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerApplyRenderError(t *testing.T) {
	r, mock := newMockRunner(t)
	_, err := r.Apply(context.Background(), []expr.Expression{
		&expr.CreateColumn{Table: "t", Column: &schema.Column{Name: "x", Type: schema.TypeXml}},
	})
	require.Error(t, err)
	assert.True(t, migrix.IsUnmappedType(err))
	var serr *migrix.StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, serr.Index)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerApplyValidation(t *testing.T) {
	steps := []expr.Expression{&expr.DeleteTable{Table: "users"}}

	r, mock := newMockRunner(t)
	report, err := r.Apply(context.Background(), steps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.True(t, report.Validation.HasErrors())
	assert.Empty(t, report.Steps)
	require.NoError(t, mock.ExpectationsWereMet())

	r, mock = newMockRunner(t, WithAllowDataLoss(true))
	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	report, err = r.Apply(context.Background(), steps)
	require.NoError(t, err)
	assert.True(t, report.Validation.HasBreakingChanges())
	require.NoError(t, mock.ExpectationsWereMet())

	r, mock = newMockRunner(t, WithSkipValidation(true))
	mock.ExpectBegin()
	mock.ExpectExec("DROP TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	report, err = r.Apply(context.Background(), steps)
	require.NoError(t, err)
	assert.Nil(t, report.Validation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerApplyCommentStep(t *testing.T) {
	r, mock := newMockRunner(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	report, err := r.Apply(context.Background(), []expr.Expression{
		&expr.RenameColumn{Table: "users", OldName: "a", NewName: "b"},
	})
	require.NoError(t, err)
	require.Len(t, report.Steps, 1)
	assert.True(t, sql.IsComment(report.Steps[0].SQL))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerApplyStrict(t *testing.T) {
	r, mock := newMockRunner(t, WithCompatibility(sql.CompatStrict))
	_, err := r.Apply(context.Background(), []expr.Expression{
		&expr.RenameColumn{Table: "users", OldName: "a", NewName: "b"},
	})
	require.Error(t, err)
	assert.True(t, migrix.IsUnsupportedOperation(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerApplyDBOperation(t *testing.T) {
	r, mock := newMockRunner(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users SET active = 't'").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	_, err := r.Apply(context.Background(), []expr.Expression{
		&expr.PerformDBOperation{
			Description: "activate users",
			Operation: func(ctx context.Context, conn dialect.ExecQuerier) error {
				return conn.Exec(ctx, "UPDATE users SET active = 't'", []any{}, nil)
			},
		},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerPreview(t *testing.T) {
	r, mock := newMockRunner(t, WithPreviewOnly(true))
	called := false
	steps := append(usersSteps(), &expr.PerformDBOperation{
		Operation: func(context.Context, dialect.ExecQuerier) error {
			called = true
			return nil
		},
	})
	report, err := r.Apply(context.Background(), steps)
	require.NoError(t, err)
	require.Len(t, report.Steps, 3)
	assert.Equal(t, "INSERT INTO users (id) VALUES (1)", report.Steps[1].SQL)
	assert.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunnerRender(t *testing.T) {
	r, _ := newMockRunner(t)
	stmts, err := r.Render(usersSteps())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE TABLE users (id INT NOT NULL); ALTER TABLE users ADD CONSTRAINT PRIMARY KEY (id)",
		"INSERT INTO users (id) VALUES (1)",
	}, stmts)

	_, err = r.Render([]expr.Expression{&expr.DeleteTable{Table: "users"}, nil})
	var serr *migrix.StepError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Index)
	assert.Equal(t, "nil", serr.Kind)
}

func TestOpenPreview(t *testing.T) {
	cfg, err := NewConfig(WithPreviewOnly(true), WithLogger(discard()))
	require.NoError(t, err)
	r, err := Open(cfg)
	require.NoError(t, err)
	defer r.Close()
	_, ok := r.Stats()
	assert.False(t, ok)

	report, err := r.Apply(context.Background(), []expr.Expression{&expr.CreateSchema{Schema: "app"}})
	require.NoError(t, err)
	require.Len(t, report.Steps, 1)

	cfg, err = NewConfig(WithLogger(discard()))
	require.NoError(t, err)
	_, err = New(nil, cfg).Apply(context.Background(), []expr.Expression{&expr.CreateSchema{Schema: "app"}})
	require.EqualError(t, err, "runner: no database driver")
}
