package auth

import (
	"context"

	"github.com/zhengdechang/auth-service/internal/model"
)

// IdentityStore resolves principals by name and verifies submitted secrets.
// Implementations must use a slow hash with a constant-time comparison.
type IdentityStore interface {
	// FindByUsername returns ErrPrincipalNotFound when no principal matches.
	FindByUsername(ctx context.Context, username string) (model.Principal, error)
	// VerifySecret reports whether plaintext matches the principal's hash.
	VerifySecret(p model.Principal, plaintext string) bool
}

// SessionStore keeps at most one session record per principal. Each operation
// is a single-key read-modify-write and must be atomic with respect to that
// principal; no cross-principal coordination is required.
type SessionStore interface {
	// Get returns ErrSessionNotFound when the principal has no record.
	Get(ctx context.Context, principalID string) (model.SessionRecord, error)
	// UpsertAccess creates the record if absent, else overwrites only the
	// access field and bumps the updated timestamp.
	UpsertAccess(ctx context.Context, principalID, access string) error
	// UpsertRefresh is UpsertAccess for the refresh field.
	UpsertRefresh(ctx context.Context, principalID, refresh string) error
	// Delete removes the record; deleting an absent record is not an error.
	Delete(ctx context.Context, principalID string) error
}
