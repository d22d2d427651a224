package model

import "time"

// Principal is an authenticable identity as stored by the identity store.
// The password hash never leaves this package boundary in API responses;
// handlers always go through the Public projection.
type Principal struct {
	ID           string    // uuid primary key
	Username     string    // unique login name, also the credential subject
	Email        string
	RoleID       int64
	RoleName     string // resolved at query time, not lazily
	PasswordHash string
	Experiments  int64 // entitlement bitmask, opaque to this service
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicPrincipal is the flattened, client-safe projection of a Principal.
// It is built once at assembly time; there is no live object graph behind it.
type PublicPrincipal struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	RoleID      int64     `json:"role_id"`
	Role        string    `json:"role"`
	Experiments int64     `json:"experiments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Public returns the client-safe projection of p.
func (p Principal) Public() PublicPrincipal {
	return PublicPrincipal{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		RoleID:      p.RoleID,
		Role:        p.RoleName,
		Experiments: p.Experiments,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
