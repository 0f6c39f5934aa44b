package domain

import "time"

// User is a stored credential: identity plus password material and the
// optional TOTP enrollment. Mutable only through provisioning, never through
// the request path.
type User struct {
	ID           string
	Username     string
	Name         string  // display name
	PasswordHash string  // hex-encoded scrypt output
	PasswordSalt string  // hex-encoded per-user salt
	Admin        bool
	TOTPSecret   *string // base32 shared secret; nil when not enrolled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanDoSecondFactor reports whether the account is enrolled in TOTP.
func (u User) CanDoSecondFactor() bool {
	return u.TOTPSecret != nil && *u.TOTPSecret != ""
}
