package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/gamelobby/internal/domain/repository"
	"github.com/dropDatabas3/gamelobby/internal/store/adapters/sqldb"
)

func setupMock(t *testing.T) (*sqldb.Connection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	conn := sqldb.NewConnection(db, dialect, nil)
	t.Cleanup(func() { _ = conn.Close() })
	return conn, mock
}

func TestCreatePartyRollsBackOnMissingUser(t *testing.T) {
	conn, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, capacity FROM game WHERE name = ? FOR UPDATE")).
		WithArgs("chess").
		WillReturnRows(sqlmock.NewRows([]string{"id", "capacity"}).AddRow(int64(1), 4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM party WHERE id = ?")).
		WithArgs("p2", "p2").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM app_user WHERE id = ?")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM app_user WHERE id = ?")).
		WithArgs("u3").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	_, err := conn.Parties().Create(context.Background(), "p2", "chess", []string{"u1", "u3"})
	require.ErrorIs(t, err, repository.ErrReferential)
	require.Contains(t, err.Error(), "mysql: create party: ")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePartyInsertsPartyAndMemberships(t *testing.T) {
	conn, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, capacity FROM game WHERE name = ? FOR UPDATE")).
		WithArgs("chess").
		WillReturnRows(sqlmock.NewRows([]string{"id", "capacity"}).AddRow(int64(1), 2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM party WHERE id = ?")).
		WithArgs("p1", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	for _, id := range []string{"u1", "u2"} {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM app_user WHERE id = ?")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	}
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM party_membership m")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO party (id, game_id) VALUES (?, ?)")).
		WithArgs("p1", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep := mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO party_membership (party_id, user_id) VALUES (?, ?)"))
	prep.ExpectExec().WithArgs("p1", "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WithArgs("p1", "u2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	party, err := conn.Parties().Create(context.Background(), "p1", "chess", []string{"u2", "u1"})
	require.NoError(t, err)
	require.Equal(t, int64(1), party.GameID)
	require.Equal(t, []string{"u1", "u2"}, party.Members)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGameReturnsInsertID(t *testing.T) {
	conn, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM app_user WHERE id = ? FOR UPDATE")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM game WHERE name = ?")).
		WithArgs("chess").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO game (name, owner_id, capacity) VALUES (?, ?, ?)")).
		WithArgs("chess", "u1", 2).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectCommit()

	game, err := conn.Games().Create(context.Background(), repository.CreateGameInput{Name: "chess", OwnerID: "u1", Capacity: 2})
	require.NoError(t, err)
	require.Equal(t, int64(7), game.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetVerifiedUnknownUser(t *testing.T) {
	conn, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM app_user WHERE id = ? FOR UPDATE")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	mock.ExpectRollback()

	err := conn.Users().SetVerified(context.Background(), "ghost", true)
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeadlockIsConcurrencyConflict(t *testing.T) {
	conn, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, capacity FROM game WHERE name = ? FOR UPDATE")).
		WithArgs("chess").
		WillReturnError(&mysql.MySQLError{Number: erLockDeadlock, Message: "Deadlock found when trying to get lock"})
	mock.ExpectRollback()

	_, err := conn.Parties().Create(context.Background(), "p1", "chess", nil)
	require.ErrorIs(t, err, repository.ErrConcurrencyConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInputRejectedBeforeBegin(t *testing.T) {
	conn, mock := setupMock(t)
	ctx := context.Background()

	_, err := conn.Parties().Create(ctx, "p1", "chess", []string{"u1", "u1"})
	require.ErrorIs(t, err, repository.ErrConflict)
	require.False(t, repository.IsConcurrencyConflict(err))

	_, err = conn.Users().Create(ctx, repository.CreateUserInput{ID: "u1", Name: "alice", Email: "Élan@x.com", Password: []byte("p")})
	require.ErrorIs(t, err, repository.ErrInvalidInput)

	// Ninguna de las dos abrió transacción.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		number uint16
		want   []error
	}{
		{erDupEntry, []error{repository.ErrConflict, repository.ErrConcurrencyConflict}},
		{erNoReferencedRow, []error{repository.ErrReferential}},
		{erRowIsReferenced, []error{repository.ErrReferential}},
		{erCheckViolated, []error{repository.ErrInvalidInput}},
		{erLockWaitTimeout, []error{repository.ErrConcurrencyConflict}},
	}
	for _, tc := range cases {
		err := classify(&mysql.MySQLError{Number: tc.number})
		for _, target := range tc.want {
			require.ErrorIs(t, err, target, "error %d", tc.number)
		}
	}

	unknown := &mysql.MySQLError{Number: 1146}
	require.Equal(t, error(unknown), classify(unknown))
}
