// Package auth implements the session lifecycle: authenticate a principal by
// password, issue a short-lived access credential and a longer-lived refresh
// credential, validate access credentials on every protected request, rotate
// the access credential via refresh, and revoke the session on logout.
//
// The service keeps exactly one live session per principal: a new login
// silently invalidates any prior session for the same principal. This is a
// design invariant, not a defect; multi-device support would require keying
// session records by (principal, session id).
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zhengdechang/auth-service/internal/model"
	"github.com/zhengdechang/auth-service/internal/token"
)

// Session is the result of a successful Authenticate or Refresh. The JSON
// tags match the wire shape existing clients expect.
type Session struct {
	AccessToken  string                `json:"access_token"`
	RefreshToken string                `json:"refresh_token"`
	UserInfo     model.PublicPrincipal `json:"userinfo"`
}

// Validation is the outcome of Validate. Claims is meaningful only when
// Valid is true.
type Validation struct {
	Valid  bool
	Claims token.Claims
}

// Config carries the expiration policy.
type Config struct {
	AccessTTL  time.Duration // access credential lifetime
	RefreshTTL time.Duration // refresh credential lifetime
	Leeway     time.Duration // clock-skew tolerance on expiry checks
}

// Service orchestrates the identity store, the session store and the
// credential codec. All dependencies are injected; there is no ambient
// registry.
type Service struct {
	identities IdentityStore
	sessions   SessionStore
	codec      *token.Codec
	cfg        Config
}

// NewService wires a Service with its adapters and expiration policy.
func NewService(identities IdentityStore, sessions SessionStore, codec *token.Codec, cfg Config) *Service {
	return &Service{
		identities: identities,
		sessions:   sessions,
		codec:      codec,
		cfg:        cfg,
	}
}

// AccessTTL returns the configured access credential lifetime.
func (s *Service) AccessTTL() time.Duration { return s.cfg.AccessTTL }

// RefreshTTL returns the configured refresh credential lifetime.
func (s *Service) RefreshTTL() time.Duration { return s.cfg.RefreshTTL }

// Authenticate verifies the password and issues a fresh credential pair,
// overwriting any prior session for the principal. It fails with
// ErrPrincipalNotFound when the lookup misses, ErrInvalidCredentials when the
// password check fails, and ErrStorageUnavailable when the session record
// cannot be written; no credential is considered issued in that case.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Session, error) {
	p, err := s.identities.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return Session{}, fmt.Errorf("username %q: %w", username, ErrPrincipalNotFound)
		}
		return Session{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if !s.identities.VerifySecret(p, password) {
		return Session{}, ErrInvalidCredentials
	}

	access, err := s.codec.Issue(p.Username, s.cfg.AccessTTL)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.codec.Issue(p.Username, s.cfg.RefreshTTL)
	if err != nil {
		return Session{}, err
	}

	// Two independent single-field writes. A crash in between leaves a fresh
	// access value with a stale refresh value, which is safe: the refresh
	// binding check fails on the next attempt and forces re-authentication.
	if err := s.sessions.UpsertRefresh(ctx, p.Username, refresh); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := s.sessions.UpsertAccess(ctx, p.Username, access); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return Session{AccessToken: access, RefreshToken: refresh, UserInfo: p.Public()}, nil
}

// Validate checks an access credential: signature, expiry with leeway, and
// the binding of the presented value to the one currently on record for the
// subject. It never returns an error; every failure collapses to Valid=false
// so callers fail closed without learning which check failed.
func (s *Service) Validate(ctx context.Context, access string) Validation {
	claims, err := s.codec.Decode(access, true, s.cfg.Leeway)
	if err != nil {
		return Validation{}
	}
	rec, err := s.sessions.Get(ctx, claims.Subject)
	if err != nil {
		return Validation{}
	}
	if rec.AccessToken == nil || *rec.AccessToken != access {
		// Stale credential: a newer login or refresh superseded it.
		return Validation{}
	}
	return Validation{Valid: true, Claims: claims}
}

// Refresh exchanges a valid refresh credential for a new access credential.
// The refresh credential is not rotated; it is echoed back and stays valid
// until its own expiry. Fails with ErrPrincipalNotFound when the subject no
// longer resolves and ErrInvalidRefreshCredential when the presented value
// does not match the one on record (revoked or superseded).
func (s *Service) Refresh(ctx context.Context, refresh string) (Session, error) {
	claims, err := s.codec.Decode(refresh, true, s.cfg.Leeway)
	if err != nil {
		return Session{}, err
	}
	p, err := s.identities.FindByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			return Session{}, ErrPrincipalNotFound
		}
		return Session{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	rec, err := s.sessions.Get(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return Session{}, ErrInvalidRefreshCredential
		}
		return Session{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if rec.RefreshToken == nil || *rec.RefreshToken != refresh {
		return Session{}, ErrInvalidRefreshCredential
	}

	access, err := s.codec.Issue(p.Username, s.cfg.AccessTTL)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.UpsertAccess(ctx, p.Username, access); err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return Session{AccessToken: access, RefreshToken: refresh, UserInfo: p.Public()}, nil
}

// Logout deletes the subject's session record and returns the subject for
// logging. Expiry is deliberately not enforced on the refresh credential so a
// client can always clear server state, even after the credential expired.
// Deleting an absent record is a success.
func (s *Service) Logout(ctx context.Context, refresh string) (string, error) {
	claims, err := s.codec.Decode(refresh, false, 0)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Delete(ctx, claims.Subject); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return claims.Subject, nil
}
