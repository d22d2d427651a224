package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/zhengdechang/auth-service/internal/auth"
	"github.com/zhengdechang/auth-service/internal/model"
)

// SessionRepo persists session records in the 'sessions' table, one row per
// principal ('username' carries a unique index). Each upsert is a single
// INSERT ... ON DUPLICATE KEY UPDATE statement, so the row itself is the lock
// unit and concurrent writers for the same principal serialize on it.
type SessionRepo struct {
	DB  *sql.DB
	now func() time.Time
}

var _ auth.SessionStore = (*SessionRepo)(nil)

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db, now: time.Now}
}

// Get loads the session record for a principal.
func (r *SessionRepo) Get(ctx context.Context, principalID string) (model.SessionRecord, error) {
	var (
		rec             model.SessionRecord
		access, refresh sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT username, access_token, refresh_token, created_at, updated_at FROM sessions WHERE username=? LIMIT 1",
		principalID).Scan(&rec.PrincipalID, &access, &refresh, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.SessionRecord{}, auth.ErrSessionNotFound
	}
	if err != nil {
		return model.SessionRecord{}, err
	}
	if access.Valid {
		rec.AccessToken = &access.String
	}
	if refresh.Valid {
		rec.RefreshToken = &refresh.String
	}
	return rec, nil
}

// UpsertAccess writes the access field, creating the record if needed.
// Timestamps are sampled from the clock at write time.
func (r *SessionRepo) UpsertAccess(ctx context.Context, principalID, access string) error {
	now := r.now().UTC()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sessions (id, username, access_token, created_at, updated_at) VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE access_token=VALUES(access_token), updated_at=VALUES(updated_at)`,
		uuid.NewString(), principalID, access, now, now)
	return err
}

// UpsertRefresh writes the refresh field, creating the record if needed.
func (r *SessionRepo) UpsertRefresh(ctx context.Context, principalID, refresh string) error {
	now := r.now().UTC()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sessions (id, username, refresh_token, created_at, updated_at) VALUES (?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE refresh_token=VALUES(refresh_token), updated_at=VALUES(updated_at)`,
		uuid.NewString(), principalID, refresh, now, now)
	return err
}

// Delete removes the record. Deleting an absent record is not an error.
func (r *SessionRepo) Delete(ctx context.Context, principalID string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE username=?", principalID)
	return err
}
