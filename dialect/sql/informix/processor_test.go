package informix

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/migrix"
	"github.com/syssam/migrix/dialect"
	"github.com/syssam/migrix/dialect/sql"
	"github.com/syssam/migrix/expr"
	"github.com/syssam/migrix/schema"
)

func newMockProcessor(t *testing.T, opts ...ProcessorOption) (*Processor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	opts = append([]ProcessorOption{WithProcessorLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return NewProcessor(sql.OpenDB(dialect.Informix, db), opts...), mock
}

func TestProcessorProcess(t *testing.T) {
	p, mock := newMockProcessor(t)
	mock.ExpectExec("CREATE TABLE users (id INT NOT NULL)").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DROP INDEX ix").WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	require.NoError(t, p.Process(ctx, &expr.CreateTable{
		Table:   "users",
		Columns: []*schema.Column{{Name: "id", Type: schema.TypeInt32}},
	}))
	require.NoError(t, p.Process(ctx, &expr.DeleteIndex{Index: &schema.Index{Name: "ix"}}))
	// Rendered as a comment and an empty statement, neither reaches the database.
	require.NoError(t, p.Process(ctx, &expr.RenameColumn{Table: "users", OldName: "a", NewName: "b"}))
	require.NoError(t, p.Process(ctx, &expr.AlterTable{Table: "users"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessorProcessError(t *testing.T) {
	p, mock := newMockProcessor(t)
	mock.ExpectExec("DROP TABLE users").WillReturnError(errors.New("table not found"))

	err := p.Process(context.Background(), &expr.DeleteTable{Table: "users"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table not found")

	err = p.Process(context.Background(), &expr.CreateColumn{Table: "t", Column: &schema.Column{Name: "x", Type: schema.TypeXml}})
	assert.True(t, migrix.IsUnmappedType(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessorPreviewOnly(t *testing.T) {
	var buf bytes.Buffer
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	called := false
	p := NewProcessor(sql.OpenDB(dialect.Informix, db),
		WithPreviewOnly(true),
		WithProcessorLogger(slog.New(slog.NewTextHandler(&buf, nil))),
	)
	ctx := context.Background()
	require.NoError(t, p.Process(ctx, &expr.DeleteTable{Table: "users"}))
	require.NoError(t, p.Process(ctx, &expr.PerformDBOperation{
		Description: "backfill",
		Operation: func(context.Context, dialect.ExecQuerier) error {
			called = true
			return nil
		},
	}))
	assert.False(t, called)
	assert.Contains(t, buf.String(), `statement="DROP TABLE users"`)
	assert.Contains(t, buf.String(), "description=backfill")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessorPerformDBOperation(t *testing.T) {
	p, mock := newMockProcessor(t, WithTimeout(time.Minute))
	mock.ExpectExec("UPDATE users SET active = 't'").WillReturnResult(sqlmock.NewResult(0, 4))

	err := p.Process(context.Background(), &expr.PerformDBOperation{
		Operation: func(ctx context.Context, conn dialect.ExecQuerier) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			return conn.Exec(ctx, "UPDATE users SET active = 't'", []any{}, nil)
		},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessorExecuteTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := sql.OpenDB(dialect.Informix, db)
	mock.ExpectBegin()
	mock.ExpectExec("ALTER TABLE users DROP COLUMN a").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ctx := context.Background()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	p := NewProcessor(tx, WithProcessorLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, p.Process(ctx, &expr.DeleteColumn{Table: "users", Columns: []string{"a"}}))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessorExists(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(*Processor) (bool, error)
	}{
		{
			name:  "table",
			query: "SELECT TABNAME FROM SYSTABLES WHERE TABNAME = 'users'",
			check: func(p *Processor) (bool, error) { return p.TableExists(context.Background(), "", "Users") },
		},
		{
			name:  "table_owner",
			query: "SELECT TABNAME FROM SYSTABLES WHERE OWNER = 'app' AND TABNAME = 'users'",
			check: func(p *Processor) (bool, error) { return p.TableExists(context.Background(), "APP", "users") },
		},
		{
			name: "column",
			query: "SELECT c.colname FROM systables AS t INNER JOIN syscolumns AS c ON t.tabid = c.tabid " +
				"WHERE t.owner = 'app' AND t.tabname = 'users' AND c.colname = 'o''neil'",
			check: func(p *Processor) (bool, error) {
				return p.ColumnExists(context.Background(), "app", "users", `"O'Neil"`)
			},
		},
		{
			name: "constraint",
			query: "SELECT c.constrname FROM sysconstraints c INNER JOIN systables t ON t.tabid = c.tabid " +
				"WHERE t.tabname = 'users' AND c.constrname = 'uq_email'",
			check: func(p *Processor) (bool, error) {
				return p.ConstraintExists(context.Background(), "", "users", "UQ_Email")
			},
		},
		{
			name: "index",
			query: "SELECT i.idxname FROM sysindexes i INNER JOIN systables t ON t.tabid = i.tabid " +
				"WHERE t.owner = 'app' AND t.tabname = 'users' AND i.idxname = 'ix_name'",
			check: func(p *Processor) (bool, error) {
				return p.IndexExists(context.Background(), "app", "users", "ix_name")
			},
		},
		{
			name: "default",
			query: "SELECT d.default FROM systables AS t INNER JOIN syscolumns AS c ON t.tabid = c.tabid " +
				"INNER JOIN sysdefaults AS d ON d.tabid = c.tabid AND d.colno = c.colno " +
				"WHERE t.tabname = 'users' AND c.colname = 'status' AND d.default LIKE '%it''s%'",
			check: func(p *Processor) (bool, error) {
				return p.DefaultValueExists(context.Background(), "", "users", "status", "it's")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, mock := newMockProcessor(t)
			mock.ExpectQuery(tt.query).WillReturnRows(sqlmock.NewRows([]string{"x"}).AddRow("x"))
			mock.ExpectQuery(tt.query).WillReturnRows(sqlmock.NewRows([]string{"x"}))

			exists, err := tt.check(p)
			require.NoError(t, err)
			assert.True(t, exists)
			exists, err = tt.check(p)
			require.NoError(t, err)
			assert.False(t, exists)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProcessorExistsError(t *testing.T) {
	p, mock := newMockProcessor(t)
	mock.ExpectQuery("SELECT TABNAME FROM SYSTABLES WHERE TABNAME = 'users'").WillReturnError(errors.New("connection lost"))

	_, err := p.TableExists(context.Background(), "", "users")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessorSchemaAndSequence(t *testing.T) {
	p, _ := newMockProcessor(t)

	_, err := p.SchemaExists(context.Background(), "app")
	require.Error(t, err)
	assert.True(t, migrix.IsUnimplementedFeature(err))

	exists, err := p.SequenceExists(context.Background(), "app", "seq")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, "IBM Informix", p.DatabaseType())
}

func TestProcessorReadTable(t *testing.T) {
	p, mock := newMockProcessor(t)
	mock.ExpectQuery(`SELECT * FROM app."order-line"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "qty"}).AddRow(1, 3).AddRow(2, 5))

	rows, err := p.ReadTable(context.Background(), "app", "order-line")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, 5, rows[1]["qty"])
	require.NoError(t, mock.ExpectationsWereMet())
}
