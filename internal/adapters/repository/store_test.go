package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/okian/ott/internal/adapters/repository"
	"github.com/okian/ott/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*repository.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return repository.NewWithDB(db), mock
}

func closeAndVerify(t *testing.T, store *repository.Store, mock sqlmock.Sqlmock) {
	t.Helper()
	mock.ExpectClose()
	require.NoError(t, store.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCallProcedure(t *testing.T) {
	ctx := context.Background()
	call := regexp.QuoteMeta("CALL sp_user_watch_summary(?)")

	t.Run("concatenates every result set in order", func(t *testing.T) {
		store, mock := newMockStore(t)

		first := sqlmock.NewRows([]string{"Content_Id", "Title"}).
			AddRow(int64(1), "Dune").
			AddRow(int64(2), "Heat")
		second := sqlmock.NewRows([]string{"Minutes_Watched"}).
			AddRow([]byte("95.50"))

		mock.ExpectBegin()
		mock.ExpectQuery(call).WithArgs(int64(7)).WillReturnRows(first, second)
		mock.ExpectCommit()

		res := store.CallProcedure(ctx, repository.ProcUserWatchSummary, int64(7))

		require.Equal(t, model.KindRows, res.Kind)
		assert.Equal(t, []model.Row{
			{"Content_Id": int64(1), "Title": "Dune"},
			{"Content_Id": int64(2), "Title": "Heat"},
			{"Minutes_Watched": "95.50"},
		}, res.Rows)
		closeAndVerify(t, store, mock)
	})

	t.Run("no rows is an ack", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("CALL sp_add_to_watchlist(?, ?)")).
			WithArgs(int64(7), int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"Watchlist_Id"}))
		mock.ExpectCommit()

		res := store.CallProcedure(ctx, repository.ProcAddToWatchlist, int64(7), int64(42))

		assert.Equal(t, model.KindAck, res.Kind)
		closeAndVerify(t, store, mock)
	})

	t.Run("driver errors become failures and roll back", func(t *testing.T) {
		store, mock := newMockStore(t)
		driverErr := &mysql.MySQLError{Number: 1305, Message: "PROCEDURE ott.sp_user_watch_summary does not exist"}

		mock.ExpectBegin()
		mock.ExpectQuery(call).WithArgs(int64(7)).WillReturnError(driverErr)
		mock.ExpectRollback()

		res := store.CallProcedure(ctx, repository.ProcUserWatchSummary, int64(7))

		require.True(t, res.IsError())
		assert.Equal(t, driverErr.Error(), res.Message)
		closeAndVerify(t, store, mock)
	})

	t.Run("begin failure is reported", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		res := store.CallProcedure(ctx, repository.ProcUserWatchSummary, int64(7))

		require.True(t, res.IsError())
		assert.Equal(t, "connection refused", res.Message)
		closeAndVerify(t, store, mock)
	})

	t.Run("commit failure is reported", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(call).WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"Title"}).AddRow("Dune"))
		mock.ExpectCommit().WillReturnError(errors.New("lock wait timeout"))

		res := store.CallProcedure(ctx, repository.ProcUserWatchSummary, int64(7))

		require.True(t, res.IsError())
		assert.Equal(t, "lock wait timeout", res.Message)
		closeAndVerify(t, store, mock)
	})

	t.Run("a row error mid-stream is a failure", func(t *testing.T) {
		store, mock := newMockStore(t)

		rows := sqlmock.NewRows([]string{"Title"}).
			AddRow("Dune").
			AddRow("Heat").
			RowError(1, errors.New("lost connection"))

		mock.ExpectBegin()
		mock.ExpectQuery(call).WithArgs(int64(7)).WillReturnRows(rows)
		mock.ExpectRollback()

		res := store.CallProcedure(ctx, repository.ProcUserWatchSummary, int64(7))

		require.True(t, res.IsError())
		assert.Equal(t, "lost connection", res.Message)
		closeAndVerify(t, store, mock)
	})
}

func TestQuery(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rows of the fixed content query", func(t *testing.T) {
		store, mock := newMockStore(t)

		rows := sqlmock.NewRows([]string{"Content_Id", "Title", "Content_Rating"}).
			AddRow(int64(3), "Dune", []byte("8.9"))
		mock.ExpectQuery(regexp.QuoteMeta(repository.QueryAllContent)).WillReturnRows(rows)

		res := store.Query(ctx, repository.QueryAllContent)

		require.Equal(t, model.KindRows, res.Kind)
		assert.Equal(t, []model.Row{{"Content_Id": int64(3), "Title": "Dune", "Content_Rating": "8.9"}}, res.Rows)
		closeAndVerify(t, store, mock)
	})

	t.Run("an empty result stays an empty row list", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta(repository.QueryGenres)).
			WillReturnRows(sqlmock.NewRows([]string{"Genre_Id", "Name"}))

		res := store.Query(ctx, repository.QueryGenres)

		assert.Equal(t, model.KindRows, res.Kind)
		assert.Empty(t, res.Rows)
		assert.NotNil(t, res.Rows)
		closeAndVerify(t, store, mock)
	})

	t.Run("errors become failures", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta(repository.QueryGenres)).
			WillReturnError(errors.New("table 'ott.genre' doesn't exist"))

		res := store.Query(ctx, repository.QueryGenres)

		require.True(t, res.IsError())
		assert.Equal(t, "table 'ott.genre' doesn't exist", res.Message)
		closeAndVerify(t, store, mock)
	})
}

func TestAddRating(t *testing.T) {
	ctx := context.Background()
	rating := model.Rating{ProfileID: 3, ContentID: 42, Rating: 4.5, Review: "Great"}
	lookup := regexp.QuoteMeta(repository.QueryNextRatingID)
	insert := regexp.QuoteMeta(repository.StmtInsertRating)

	t.Run("inserts with the looked-up id", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lookup).WillReturnRows(sqlmock.NewRows([]string{"next_id"}).AddRow(int64(13)))
		mock.ExpectExec(insert).
			WithArgs(int64(13), int64(3), int64(42), 4.5, "Great").
			WillReturnResult(sqlmock.NewResult(13, 1))
		mock.ExpectCommit()

		res := store.AddRating(ctx, rating)

		assert.Equal(t, model.KindAck, res.Kind)
		closeAndVerify(t, store, mock)
	})

	t.Run("a missing lookup row starts at 1", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lookup).WillReturnRows(sqlmock.NewRows([]string{"next_id"}))
		mock.ExpectExec(insert).
			WithArgs(int64(1), int64(3), int64(42), 4.5, "Great").
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		res := store.AddRating(ctx, rating)

		assert.Equal(t, model.KindAck, res.Kind)
		closeAndVerify(t, store, mock)
	})

	t.Run("an insert failure rolls back", func(t *testing.T) {
		store, mock := newMockStore(t)
		dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '13' for key 'PRIMARY'"}

		mock.ExpectBegin()
		mock.ExpectQuery(lookup).WillReturnRows(sqlmock.NewRows([]string{"next_id"}).AddRow(int64(13)))
		mock.ExpectExec(insert).WillReturnError(dup)
		mock.ExpectRollback()

		res := store.AddRating(ctx, rating)

		require.True(t, res.IsError())
		assert.Equal(t, dup.Error(), res.Message)
		closeAndVerify(t, store, mock)
	})

	t.Run("a deadlocked insert is retried once", func(t *testing.T) {
		store, mock := newMockStore(t)
		deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"}

		mock.ExpectBegin()
		mock.ExpectQuery(lookup).WillReturnRows(sqlmock.NewRows([]string{"next_id"}).AddRow(int64(1)))
		mock.ExpectExec(insert).WillReturnError(deadlock)
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectQuery(lookup).WillReturnRows(sqlmock.NewRows([]string{"next_id"}).AddRow(int64(2)))
		mock.ExpectExec(insert).
			WithArgs(int64(2), int64(3), int64(42), 4.5, "Great").
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		res := store.AddRating(ctx, rating)

		assert.Equal(t, model.KindAck, res.Kind)
		closeAndVerify(t, store, mock)
	})

	t.Run("a second deadlock is reported", func(t *testing.T) {
		store, mock := newMockStore(t)
		deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock; try restarting transaction"}

		for i := 0; i < 2; i++ {
			mock.ExpectBegin()
			mock.ExpectQuery(lookup).WillReturnRows(sqlmock.NewRows([]string{"next_id"}).AddRow(int64(1)))
			mock.ExpectExec(insert).WillReturnError(deadlock)
			mock.ExpectRollback()
		}

		res := store.AddRating(ctx, rating)

		require.True(t, res.IsError())
		assert.Equal(t, deadlock.Error(), res.Message)
		closeAndVerify(t, store, mock)
	})

	t.Run("a lookup failure never inserts", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectBegin()
		mock.ExpectQuery(lookup).WillReturnError(errors.New("deadlock found"))
		mock.ExpectRollback()

		res := store.AddRating(ctx, rating)

		require.True(t, res.IsError())
		assert.Equal(t, "deadlock found", res.Message)
		closeAndVerify(t, store, mock)
	})
}

func TestStoreLifecycle(t *testing.T) {
	t.Run("ping succeeds on a live handle", func(t *testing.T) {
		store, mock := newMockStore(t)
		assert.NoError(t, store.Ping(context.Background()))
		closeAndVerify(t, store, mock)
	})

	t.Run("pool options are applied", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		store := repository.NewWithDB(db, repository.WithMaxOpenConns(3))

		assert.Equal(t, 3, store.Stats().MaxOpenConnections)
		closeAndVerify(t, store, mock)
	})

	t.Run("closing twice reports the store as closed", func(t *testing.T) {
		store, mock := newMockStore(t)
		closeAndVerify(t, store, mock)

		assert.ErrorIs(t, store.Close(), repository.ErrClosed)
	})

	t.Run("New fails when the server is unreachable", func(t *testing.T) {
		cfg := repository.DefaultMySQLConfig()
		cfg.Addr = "127.0.0.1:1"
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		store, err := repository.New(ctx, repository.WithMySQLConfig(cfg))

		assert.Nil(t, store)
		assert.ErrorIs(t, err, repository.ErrPing)
	})
}
