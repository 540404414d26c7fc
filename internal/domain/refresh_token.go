package domain

import "time"

// RefreshTokenRecord is the stored rotation state for a session. The unique
// index on UserID enforces at most one record per user per role; expiry is
// checked lazily by the rotation engine, never swept.
type RefreshTokenRecord struct {
	TokenID   string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the record's lifetime has passed at the given time.
func (r *RefreshTokenRecord) Expired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}
