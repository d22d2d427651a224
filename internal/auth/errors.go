package auth

import "errors"

var (
	// ErrPrincipalNotFound means the username did not resolve to a principal.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrInvalidCredentials means the password check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshCredential means the presented refresh credential does
	// not match the one on record, i.e. it was revoked or superseded.
	ErrInvalidRefreshCredential = errors.New("invalid refresh credential")
	// ErrSessionNotFound is returned by SessionStore.Get when the principal
	// has no session record.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStorageUnavailable wraps adapter failures; the operation did not
	// complete and no credential may be treated as issued.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
