package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/syssam/migrix/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestOpenDB tests the OpenDB function with different dialects.
func TestOpenDB(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
		want    string
	}{
		{"Informix", dialect.Informix, dialect.Informix},
		{"SQLite", dialect.SQLite, dialect.SQLite},
		{"Wrapped", dialect.Informix + "+debug", dialect.Informix},
		{"Unknown", "db2", "db2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, _, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			drv := OpenDB(tt.dialect, db)
			assert.NotNil(t, drv)
			assert.Equal(t, tt.want, drv.Dialect())
			assert.Same(t, db, drv.DB())
		})
	}
}

// TestDriverQuery tests query operations.
func TestDriverQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Informix, db)

	t.Run("simple_query", func(t *testing.T) {
		mock.ExpectQuery("SELECT tabname FROM systables").
			WillReturnRows(sqlmock.NewRows([]string{"tabname"}).
				AddRow("users").
				AddRow("groups"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT tabname FROM systables", []any{}, rows)
		require.NoError(t, err)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_with_args", func(t *testing.T) {
		mock.ExpectQuery(`SELECT tabname FROM systables WHERE tabid = \?`).
			WithArgs(100).
			WillReturnRows(sqlmock.NewRows([]string{"tabname"}).AddRow("users"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT tabname FROM systables WHERE tabid = ?", []any{100}, rows)
		require.NoError(t, err)
		require.NoError(t, rows.Close())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query_error", func(t *testing.T) {
		mock.ExpectQuery("SELECT").WillReturnError(errors.New("database error"))

		rows := &Rows{}
		err := drv.Query(context.Background(), "SELECT", []any{}, rows)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dialect/sql: query")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_args", func(t *testing.T) {
		err := drv.Query(context.Background(), "SELECT 1", "x", &Rows{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expect []any for args")
	})

	t.Run("invalid_dest", func(t *testing.T) {
		var dest []string
		err := drv.Query(context.Background(), "SELECT 1", []any{}, &dest)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expect *sql.Rows")
	})
}

// TestDriverExec tests execute operations.
func TestDriverExec(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Informix, db)

	t.Run("simple_exec", func(t *testing.T) {
		mock.ExpectExec("CREATE TABLE users").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := drv.Exec(context.Background(), "CREATE TABLE users (id INT NOT NULL)", []any{}, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nil_args", func(t *testing.T) {
		mock.ExpectExec("ALTER TABLE users ADD email").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := drv.Exec(context.Background(), "ALTER TABLE users ADD email NVARCHAR(100) UNIQUE", nil, nil)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_with_result", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM users").
			WillReturnResult(sqlmock.NewResult(0, 3))

		var res Result
		err := drv.Exec(context.Background(), "DELETE FROM users", []any{}, &res)
		require.NoError(t, err)
		n, err := res.RowsAffected()
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exec_error", func(t *testing.T) {
		mock.ExpectExec("DROP TABLE").WillReturnError(errors.New("table not found"))

		err := drv.Exec(context.Background(), "DROP TABLE users", []any{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "table not found")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid_dest", func(t *testing.T) {
		var n int
		err := drv.Exec(context.Background(), "DROP TABLE users", []any{}, &n)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expect *sql.Result")
	})
}

// TestDriverTransaction tests transaction operations.
func TestDriverTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Informix, db)

	t.Run("successful_commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("ALTER TABLE users ADD").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		err = tx.Exec(context.Background(), "ALTER TABLE users ADD age INT NOT NULL", []any{}, nil)
		require.NoError(t, err)
		require.NoError(t, tx.Commit())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("ALTER TABLE users ADD").WillReturnError(errors.New("duplicate column"))
		mock.ExpectRollback()

		tx, err := drv.Tx(context.Background())
		require.NoError(t, err)
		err = tx.Exec(context.Background(), "ALTER TABLE users ADD age INT NOT NULL", []any{}, nil)
		require.Error(t, err)
		require.NoError(t, tx.Rollback())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin_error", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("no connection"))

		_, err := drv.Tx(context.Background())
		require.Error(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNopTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Informix, db)
	mock.ExpectExec("DROP TABLE users").WillReturnResult(sqlmock.NewResult(0, 0))

	tx := dialect.NopTx(drv)
	require.NoError(t, tx.Exec(context.Background(), "DROP TABLE users", []any{}, nil))
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestScanMaps(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Informix, db)
	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Alice").
			AddRow(2, nil))

	rows := &Rows{}
	require.NoError(t, drv.Query(context.Background(), "SELECT * FROM users", []any{}, rows))
	got, err := ScanMaps(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.EqualValues(t, 1, got[0]["id"])
	assert.Equal(t, "Alice", got[0]["name"])
	assert.Nil(t, got[1]["name"])
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestContextCancellation tests that context cancellation is respected.
func TestContextCancellation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := OpenDB(dialect.Informix, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mock.ExpectQuery("SELECT").WillReturnError(context.Canceled)
	rows := &Rows{}
	err = drv.Query(ctx, "SELECT 1", []any{}, rows)
	assert.Error(t, err)
}
