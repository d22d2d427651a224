package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zhengdechang/auth-service/internal/auth"
	"github.com/zhengdechang/auth-service/internal/model"
	"github.com/zhengdechang/auth-service/internal/utils"
)

var userCols = []string{"id", "username", "email", "role_id", "name", "pw_hash", "experiments", "created_at", "updated_at"}

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewUserRepo(db, bcrypt.MinCost)
	repo.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return repo, mock
}

func TestFindByUsername(t *testing.T) {
	repo, mock := newUserRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(userCols).
		AddRow("u-1", "alice", "alice@example.com", 1, "admin", "hash", 5, now, now)
	mock.ExpectQuery("SELECT .+ FROM users u JOIN roles r ON r.id = u.role_id WHERE u.username=").
		WithArgs("alice").
		WillReturnRows(rows)

	p, err := repo.FindByUsername(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "u-1", p.ID)
	require.Equal(t, "admin", p.RoleName)
	require.EqualValues(t, 5, p.Experiments)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUsernameAbsent(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT .+ FROM users u JOIN roles r ON r.id = u.role_id WHERE u.username=").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.FindByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, auth.ErrPrincipalNotFound)
}

func TestVerifySecret(t *testing.T) {
	repo, _ := newUserRepo(t)

	hash, err := utils.HashPassword("pw1", bcrypt.MinCost)
	require.NoError(t, err)
	p := model.Principal{Username: "alice", PasswordHash: hash}

	require.True(t, repo.VerifySecret(p, "pw1"))
	require.False(t, repo.VerifySecret(p, "pw2"))
}

func TestCreateUser(t *testing.T) {
	repo, mock := newUserRepo(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE username=").
		WithArgs("bob", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE email=").
		WithArgs("bob@example.com", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "bob", "bob@example.com", int64(2), sqlmock.AnyArg(), int64(0), now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT .+ FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id=").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u-2", "bob", "bob@example.com", 2, "viewer", "hash", 0, now, now))

	p, err := repo.Create(context.Background(), NewUser{
		Username: "bob",
		Email:    "Bob@Example.com", // normalized to lower case
		Password: "secret",
		RoleID:   2,
	})
	require.NoError(t, err)
	require.Equal(t, "bob", p.Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users WHERE username=").
		WithArgs("bob", "").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := repo.Create(context.Background(), NewUser{Username: "bob", Email: "b@x.com", Password: "p"})
	require.ErrorIs(t, err, ErrUsernameExists)
}

func TestDeleteUserAbsent(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec("DELETE FROM users WHERE id=").
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "nope")
	require.ErrorIs(t, err, ErrUserNotFound)
}
