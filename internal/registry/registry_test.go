package registry

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func newTestDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqldb, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	return bun.NewDB(sqldb, pgdialect.New()), mock
}

func TestRegister(t *testing.T) {
	db, mock := newTestDB(t)
	reg := New(db, "/api")

	mock.ExpectExec(`INSERT INTO (.+)registered_endpoints`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	path, err := reg.Register(context.Background(), "active_subs",
		"SELECT substation_id, substation_name FROM network.substations WHERE status = :status")
	require.NoError(t, err)
	assert.Equal(t, "/api/custom/active_subs", path)
	assert.Equal(t, 1, reg.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateName(t *testing.T) {
	db, mock := newTestDB(t)
	reg := New(db, "/api")

	// only the first registration reaches the database
	mock.ExpectExec(`INSERT INTO (.+)registered_endpoints`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := reg.Register(context.Background(), "subs", "SELECT 1")
	require.NoError(t, err)

	_, err = reg.Register(context.Background(), "subs", "SELECT 2")
	assert.ErrorIs(t, err, ErrEndpointExists)
	assert.Equal(t, 1, reg.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterValidation(t *testing.T) {
	db, _ := newTestDB(t)
	reg := New(db, "/api")
	ctx := context.Background()

	_, err := reg.Register(ctx, "", "SELECT 1")
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = reg.Register(ctx, "bad name/..", "SELECT 1")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = reg.Register(ctx, "drop", "DROP TABLE network.substations")
	assert.ErrorIs(t, err, ErrNotReadOnly)

	_, err = reg.Register(ctx, "stacked", "SELECT 1; DELETE FROM network.meters")
	assert.ErrorIs(t, err, ErrNotReadOnly)

	_, err = reg.Register(ctx, "empty_sql", "   ")
	assert.ErrorIs(t, err, ErrNotReadOnly)

	assert.Equal(t, 0, reg.Len())
}

func TestRegisterPersistFailure(t *testing.T) {
	db, mock := newTestDB(t)
	reg := New(db, "/api")

	mock.ExpectExec(`INSERT INTO (.+)registered_endpoints`).
		WillReturnError(sql.ErrConnDone)

	_, err := reg.Register(context.Background(), "subs", "SELECT 1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEndpointExists)
	// failed registrations must not be published
	assert.Equal(t, 0, reg.Len())
}

func TestRegisterConcurrentDistinctNames(t *testing.T) {
	db, mock := newTestDB(t)
	mock.MatchExpectationsInOrder(false)
	reg := New(db, "/api")

	mock.ExpectExec(`INSERT INTO (.+)registered_endpoints`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO (.+)registered_endpoints`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	names := []string{"subs_a", "subs_b"}
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			_, errs[i] = reg.Register(context.Background(), name, "SELECT 1")
		}(i, name)
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])
	assert.Equal(t, 2, reg.Len())

	for _, name := range names {
		_, ok := reg.Lookup(name)
		assert.True(t, ok, "expected %s to be registered", name)
	}
}

func TestRegisterConcurrentSameName(t *testing.T) {
	db, mock := newTestDB(t)
	reg := New(db, "/api")

	// exactly one attempt may reach the database
	mock.ExpectExec(`INSERT INTO (.+)registered_endpoints`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = reg.Register(context.Background(), "subs", "SELECT 1")
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, ErrEndpointExists):
			conflicts++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
	assert.Equal(t, 1, reg.Len())
}

func TestLoad(t *testing.T) {
	db, mock := newTestDB(t)
	reg := New(db, "/api")

	now := time.Now()
	rows := sqlmock.NewRows([]string{"name", "sql_template", "path", "created_at"}).
		AddRow("active_subs", "SELECT 1", "/api/custom/active_subs", now).
		AddRow("meters_by_pole", "SELECT 2", "/api/custom/meters_by_pole", now)
	mock.ExpectQuery(`SELECT (.+) FROM (.+)registered_endpoints`).WillReturnRows(rows)

	count, err := reg.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, reg.Len())

	tmpl, ok := reg.Lookup("active_subs")
	assert.True(t, ok)
	assert.Equal(t, "SELECT 1", tmpl)
}

func TestExecute(t *testing.T) {
	db, mock := newTestDB(t)
	reg := New(db, "/api")
	reg.endpoints["active_subs"] = "SELECT substation_id, substation_name FROM network.substations WHERE status = :status"

	rows := sqlmock.NewRows([]string{"substation_id", "substation_name"}).
		AddRow(int64(1), "Achimota BSP").
		AddRow(int64(2), []byte("Mallam BSP"))
	mock.ExpectQuery(`SELECT (.+) FROM network.substations`).WillReturnRows(rows)

	results, err := reg.Execute(context.Background(), "active_subs", map[string]string{"status": "Active"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, int64(1), results[0]["substation_id"])
	assert.Equal(t, "Achimota BSP", results[0]["substation_name"])
	// byte-typed columns come back as strings
	assert.Equal(t, "Mallam BSP", results[1]["substation_name"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteExtraParamsIgnored(t *testing.T) {
	db, mock := newTestDB(t)
	reg := New(db, "/api")
	reg.endpoints["all_meters"] = "SELECT meter_number FROM network.meters"

	mock.ExpectQuery(`SELECT meter_number FROM network.meters`).
		WillReturnRows(sqlmock.NewRows([]string{"meter_number"}).AddRow("M-001"))

	results, err := reg.Execute(context.Background(), "all_meters", map[string]string{"unused": "v"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestExecuteMissingParam(t *testing.T) {
	db, _ := newTestDB(t)
	reg := New(db, "/api")
	reg.endpoints["active_subs"] = "SELECT substation_id FROM network.substations WHERE status = :status"

	// nothing reaches the database; binding fails first
	_, err := reg.Execute(context.Background(), "active_subs", map[string]string{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEndpointNotFound)
	assert.Contains(t, err.Error(), `endpoint "active_subs" failed`)
	assert.Contains(t, err.Error(), `no value supplied for parameter "status"`)
}

func TestExecuteNotFound(t *testing.T) {
	db, _ := newTestDB(t)
	reg := New(db, "/api")

	_, err := reg.Execute(context.Background(), "nope", nil)
	assert.ErrorIs(t, err, ErrEndpointNotFound)
}

func TestExecuteQueryFailure(t *testing.T) {
	db, mock := newTestDB(t)
	reg := New(db, "/api")
	reg.endpoints["bad_column"] = "SELECT no_such_column FROM network.substations"

	mock.ExpectQuery(`SELECT no_such_column`).WillReturnError(sql.ErrConnDone)

	_, err := reg.Execute(context.Background(), "bad_column", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEndpointNotFound)
	assert.Contains(t, err.Error(), `endpoint "bad_column" failed`)
}

func TestValidateReadOnly(t *testing.T) {
	assert.NoError(t, validateReadOnly("SELECT 1"))
	assert.NoError(t, validateReadOnly("  select * from network.meters  "))
	assert.NoError(t, validateReadOnly("WITH x AS (SELECT 1) SELECT * FROM x"))
	assert.NoError(t, validateReadOnly("SELECT 1;"))
	assert.NoError(t, validateReadOnly("SELECT ';' AS sep"))
	assert.NoError(t, validateReadOnly("SELECT 'a;b' FROM network.meters;"))

	assert.ErrorIs(t, validateReadOnly("UPDATE network.meters SET pole_id = NULL"), ErrNotReadOnly)
	assert.ErrorIs(t, validateReadOnly("INSERT INTO network.meters VALUES (1)"), ErrNotReadOnly)
	assert.ErrorIs(t, validateReadOnly("SELECT 1; SELECT 2"), ErrNotReadOnly)
	assert.ErrorIs(t, validateReadOnly(""), ErrNotReadOnly)
}

func TestBindNamed(t *testing.T) {
	t.Run("binds named params in order", func(t *testing.T) {
		query, args, err := bindNamed(
			"SELECT * FROM network.meters WHERE pole_id = :pole AND meter_number = :number",
			map[string]string{"pole": "7", "number": "M-001"},
		)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM network.meters WHERE pole_id = ? AND meter_number = ?", query)
		assert.Equal(t, []any{"7", "M-001"}, args)
	})

	t.Run("repeated param binds each occurrence", func(t *testing.T) {
		query, args, err := bindNamed(
			"SELECT * FROM network.conductors WHERE start_pole_id = :pole OR end_pole_id = :pole",
			map[string]string{"pole": "3"},
		)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM network.conductors WHERE start_pole_id = ? OR end_pole_id = ?", query)
		assert.Equal(t, []any{"3", "3"}, args)
	})

	t.Run("missing param is an error", func(t *testing.T) {
		_, _, err := bindNamed("SELECT :a", map[string]string{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no value supplied for parameter "a"`)
	})

	t.Run("postgres casts pass through", func(t *testing.T) {
		query, args, err := bindNamed(
			"SELECT geom::jsonb FROM network.poles WHERE pole_id = :id",
			map[string]string{"id": "5"},
		)
		require.NoError(t, err)
		assert.Equal(t, "SELECT geom::jsonb FROM network.poles WHERE pole_id = ?", query)
		assert.Equal(t, []any{"5"}, args)
	})

	t.Run("colons inside string literals pass through", func(t *testing.T) {
		query, args, err := bindNamed(
			"SELECT * FROM network.meters WHERE location = 'gate:3' AND status = :status",
			map[string]string{"status": "Active"},
		)
		require.NoError(t, err)
		assert.Equal(t, "SELECT * FROM network.meters WHERE location = 'gate:3' AND status = ?", query)
		assert.Equal(t, []any{"Active"}, args)
	})
}

func TestPathFor(t *testing.T) {
	db, _ := newTestDB(t)

	reg := New(db, "/api")
	assert.Equal(t, "/api/custom/x", reg.PathFor("x"))

	// trailing slash on the prefix collapses
	reg = New(db, "/api/")
	assert.Equal(t, "/api/custom/x", reg.PathFor("x"))
}
