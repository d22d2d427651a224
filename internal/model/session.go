package model

import "time"

// SessionRecord holds the credentials last issued to a principal. At most one
// record exists per principal: a new login overwrites the previous session.
// Either field may be nil when only one side has been written so far.
type SessionRecord struct {
	PrincipalID  string // username, unique key
	AccessToken  *string
	RefreshToken *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
