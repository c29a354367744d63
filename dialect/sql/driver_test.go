package sql

import (
	"context"
	"errors"
	"testing"

	"github.com/owl-K/nebula-carina/dialect"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSpace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	drv := OpenDB(db)

	mock.ExpectExec("USE main").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SHOW TAGS").WillReturnRows(sqlmock.NewRows([]string{"Name"}).AddRow("person"))
	rows, err := drv.Execute(dialect.WithSpace(context.Background(), "main"), "SHOW TAGS")
	require.NoError(t, err)
	got, err := dialect.Collect(rows)
	require.NoError(t, err, "rows should be closed to release the connection")
	assert.Equal(t, []dialect.Row{{"Name": "person"}}, got)
	require.NoError(t, mock.ExpectationsWereMet())

	// The pinned connection went back to the pool, so a second statement
	// can take it again.
	mock.ExpectExec("USE `match`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SHOW EDGES").WillReturnRows(sqlmock.NewRows([]string{"Name"}))
	rows, err = drv.Execute(dialect.WithSpace(context.Background(), "match"), "SHOW EDGES")
	require.NoError(t, err)
	_, err = dialect.Collect(rows)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSpaceInvalid(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(db)

	_, err = drv.Execute(dialect.WithSpace(context.Background(), "main; DROP SPACE x"), "SHOW TAGS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid space name")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSpaceUseFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(db)

	mock.ExpectExec("USE missing").WillReturnError(errors.New("SpaceNotFound: missing"))
	_, err = drv.Execute(dialect.WithSpace(context.Background(), "missing"), "SHOW TAGS")
	require.Error(t, err)
	assert.True(t, dialect.IsSchemaNotFoundError(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestDriverExecute tests statement execution and row conversion.
func TestDriverExecute(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	drv := OpenDB(db)
	assert.Same(t, db, drv.DB())

	t.Run("rows", func(t *testing.T) {
		mock.ExpectQuery(`FETCH PROP ON \* "a" YIELD vertex AS v`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age"}).
				AddRow([]byte("a"), "alice", int64(42)).
				AddRow("b", nil, int64(7)))
		rows, err := drv.Execute(context.Background(), `FETCH PROP ON * "a" YIELD vertex AS v`)
		require.NoError(t, err)
		got, err := dialect.Collect(rows)
		require.NoError(t, err)
		assert.Equal(t, []dialect.Row{
			{"id": "a", "name": "alice", "age": int64(42)},
			{"id": "b", "name": nil, "age": int64(7)},
		}, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error", func(t *testing.T) {
		boom := errors.New("SyntaxError: syntax error near `X'")
		mock.ExpectQuery("X").WillReturnError(boom)
		_, err := drv.Execute(context.Background(), "X")
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.True(t, dialect.IsSyntaxError(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row_error", func(t *testing.T) {
		mock.ExpectQuery("GO").
			WillReturnRows(sqlmock.NewRows([]string{"e"}).
				AddRow("x").
				RowError(0, errors.New("stream broken")))
		rows, err := drv.Execute(context.Background(), "GO FROM \"a\" OVER * YIELD edge AS e")
		require.NoError(t, err)
		_, err = dialect.Collect(rows)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stream broken")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestDriverClose tests closing the driver.
func TestDriverClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mock.ExpectClose()
	drv := OpenDB(db)
	require.NoError(t, drv.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestRowsWithCloser tests the custom closer hook.
func TestRowsWithCloser(t *testing.T) {
	closed := false
	r := rowsWithCloser{
		ColumnScanner: &Rows{ColumnScanner: nopScanner{}},
		closer: func() error {
			closed = true
			return errors.New("release")
		},
	}
	err := r.Close()
	assert.True(t, closed)
	assert.EqualError(t, err, "release")
}

type nopScanner struct{}

func (nopScanner) Close() error               { return nil }
func (nopScanner) Columns() ([]string, error) { return nil, nil }
func (nopScanner) Err() error                 { return nil }
func (nopScanner) Next() bool                 { return false }
func (nopScanner) Scan(...any) error          { return nil }

func TestIsValidSpace(t *testing.T) {
	for s, want := range map[string]bool{
		"main":     true,
		"_g1":      true,
		"":         false,
		"1g":       false,
		"a-b":      false,
		"a;DROP":   false,
		"a.b":      false,
		"space_01": true,
	} {
		assert.Equal(t, want, isValidSpace(s), s)
	}
}
