package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zhengdechang/auth-service/internal/auth"
	"github.com/zhengdechang/auth-service/internal/model"
	"github.com/zhengdechang/auth-service/internal/utils"
)

const principalColumns = "u.id, u.username, u.email, u.role_id, r.name, u.pw_hash, u.experiments, u.created_at, u.updated_at"

// UserRepo reads and mutates the 'users' table. It implements
// auth.IdentityStore for the session service and additionally carries the
// user management operations used by the admin endpoints. The role name is
// resolved with a join at query time.
type UserRepo struct {
	DB         *sql.DB
	BcryptCost int
	now        func() time.Time
}

var _ auth.IdentityStore = (*UserRepo)(nil)

func NewUserRepo(db *sql.DB, bcryptCost int) *UserRepo {
	return &UserRepo{DB: db, BcryptCost: bcryptCost, now: time.Now}
}

func (r *UserRepo) scanPrincipal(row *sql.Row) (model.Principal, error) {
	var (
		p           model.Principal
		experiments sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.RoleID, &p.RoleName,
		&p.PasswordHash, &experiments, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Principal{}, err
	}
	p.Experiments = experiments.Int64
	return p, nil
}

// FindByUsername resolves a principal by its login name.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.Principal, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+principalColumns+" FROM users u JOIN roles r ON r.id = u.role_id WHERE u.username=? LIMIT 1",
		username)
	p, err := r.scanPrincipal(row)
	if err == sql.ErrNoRows {
		return model.Principal{}, auth.ErrPrincipalNotFound
	}
	return p, err
}

// VerifySecret compares plaintext against the stored bcrypt hash.
func (r *UserRepo) VerifySecret(p model.Principal, plaintext string) bool {
	return utils.VerifyPassword(p.PasswordHash, plaintext)
}

// GetByID fetches a principal by its uuid.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.Principal, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+principalColumns+" FROM users u JOIN roles r ON r.id = u.role_id WHERE u.id=? LIMIT 1",
		id)
	p, err := r.scanPrincipal(row)
	if err == sql.ErrNoRows {
		return model.Principal{}, ErrUserNotFound
	}
	return p, err
}

// List returns all principals.
func (r *UserRepo) List(ctx context.Context) ([]model.Principal, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+principalColumns+" FROM users u JOIN roles r ON r.id = u.role_id ORDER BY u.created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Principal
	for rows.Next() {
		var (
			p           model.Principal
			experiments sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Username, &p.Email, &p.RoleID, &p.RoleName,
			&p.PasswordHash, &experiments, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.Experiments = experiments.Int64
		out = append(out, p)
	}
	return out, rows.Err()
}

// NewUser carries the fields accepted when creating a user.
type NewUser struct {
	Username    string
	Email       string
	Password    string
	RoleID      int64
	Experiments int64
}

// Create inserts a user after checking username and email uniqueness, and
// returns the stored principal. Timestamps are sampled from the clock at
// insert time.
func (r *UserRepo) Create(ctx context.Context, in NewUser) (model.Principal, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if err := r.checkUnique(ctx, in.Username, in.Email, ""); err != nil {
		return model.Principal{}, err
	}
	hash, err := utils.HashPassword(in.Password, r.BcryptCost)
	if err != nil {
		return model.Principal{}, err
	}

	id := uuid.NewString()
	now := r.now().UTC()
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, role_id, pw_hash, experiments, created_at, updated_at) VALUES (?,?,?,?,?,?,?,?)",
		id, in.Username, in.Email, in.RoleID, hash, in.Experiments, now, now)
	if err != nil {
		// Unique index race: the pre-check passed but the insert collided.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.Principal{}, ErrUsernameExists
		}
		return model.Principal{}, err
	}
	return r.GetByID(ctx, id)
}

// UserChanges carries the optional fields of an update; nil means unchanged.
type UserChanges struct {
	Username    *string
	Email       *string
	Password    *string
	RoleID      *int64
	Experiments *int64
}

// Update applies the non-nil changes to a user and returns the result.
func (r *UserRepo) Update(ctx context.Context, id string, ch UserChanges) (model.Principal, error) {
	if _, err := r.GetByID(ctx, id); err != nil {
		return model.Principal{}, err
	}

	username, email := "", ""
	if ch.Username != nil {
		username = strings.TrimSpace(*ch.Username)
	}
	if ch.Email != nil {
		email = strings.ToLower(strings.TrimSpace(*ch.Email))
	}
	if err := r.checkUnique(ctx, username, email, id); err != nil {
		return model.Principal{}, err
	}

	sets := []string{"updated_at=?"}
	args := []interface{}{r.now().UTC()}
	if ch.Username != nil {
		sets = append(sets, "username=?")
		args = append(args, username)
	}
	if ch.Email != nil {
		sets = append(sets, "email=?")
		args = append(args, email)
	}
	if ch.Password != nil {
		hash, err := utils.HashPassword(*ch.Password, r.BcryptCost)
		if err != nil {
			return model.Principal{}, err
		}
		sets = append(sets, "pw_hash=?")
		args = append(args, hash)
	}
	if ch.RoleID != nil {
		sets = append(sets, "role_id=?")
		args = append(args, *ch.RoleID)
	}
	if ch.Experiments != nil {
		sets = append(sets, "experiments=?")
		args = append(args, *ch.Experiments)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id=?", strings.Join(sets, ", "))
	if _, err := r.DB.ExecContext(ctx, query, args...); err != nil {
		return model.Principal{}, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a user; a missing row yields ErrUserNotFound.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// checkUnique verifies username and email are unused by any row other than
// excludeID. Empty values are skipped.
func (r *UserRepo) checkUnique(ctx context.Context, username, email, excludeID string) error {
	if username != "" {
		var n int
		err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM users WHERE username=? AND id<>?", username, excludeID).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrUsernameExists
		}
	}
	if email != "" {
		var n int
		err := r.DB.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM users WHERE email=? AND id<>?", email, excludeID).Scan(&n)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrEmailExists
		}
	}
	return nil
}
