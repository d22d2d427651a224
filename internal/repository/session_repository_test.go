package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/zhengdechang/auth-service/internal/auth"
)

func newSessionRepo(t *testing.T) (*SessionRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewSessionRepo(db)
	repo.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return repo, mock
}

func TestSessionRepoGet(t *testing.T) {
	repo, mock := newSessionRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"username", "access_token", "refresh_token", "created_at", "updated_at"}).
		AddRow("alice", "acc-1", "ref-1", now, now)
	mock.ExpectQuery("SELECT username, access_token, refresh_token, created_at, updated_at FROM sessions").
		WithArgs("alice").
		WillReturnRows(rows)

	rec, err := repo.Get(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", rec.PrincipalID)
	require.NotNil(t, rec.AccessToken)
	require.Equal(t, "acc-1", *rec.AccessToken)
	require.NotNil(t, rec.RefreshToken)
	require.Equal(t, "ref-1", *rec.RefreshToken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepoGetNullFields(t *testing.T) {
	repo, mock := newSessionRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"username", "access_token", "refresh_token", "created_at", "updated_at"}).
		AddRow("alice", "acc-1", nil, now, now)
	mock.ExpectQuery("SELECT username, access_token, refresh_token, created_at, updated_at FROM sessions").
		WithArgs("alice").
		WillReturnRows(rows)

	rec, err := repo.Get(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, rec.AccessToken)
	require.Nil(t, rec.RefreshToken)
}

func TestSessionRepoGetAbsent(t *testing.T) {
	repo, mock := newSessionRepo(t)

	mock.ExpectQuery("SELECT username, access_token, refresh_token, created_at, updated_at FROM sessions").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"username", "access_token", "refresh_token", "created_at", "updated_at"}))

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, auth.ErrSessionNotFound)
}

func TestSessionRepoUpserts(t *testing.T) {
	repo, mock := newSessionRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO sessions \\(id, username, access_token, created_at, updated_at\\)").
		WithArgs(sqlmock.AnyArg(), "alice", "acc-1", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.UpsertAccess(context.Background(), "alice", "acc-1"))

	mock.ExpectExec("INSERT INTO sessions \\(id, username, refresh_token, created_at, updated_at\\)").
		WithArgs(sqlmock.AnyArg(), "alice", "ref-1", now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.UpsertRefresh(context.Background(), "alice", "ref-1"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepoDelete(t *testing.T) {
	repo, mock := newSessionRepo(t)

	// Zero rows affected is still a success: delete is idempotent.
	mock.ExpectExec("DELETE FROM sessions WHERE username=").
		WithArgs("alice").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "alice"))
	require.NoError(t, mock.ExpectationsWereMet())
}
