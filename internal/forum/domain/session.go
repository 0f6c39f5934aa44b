package domain

import "time"

// SecondFactor is the second-factor completion stage of a session.
//
// A session row always binds a credential, so "verified with no credential
// bound" is unrepresentable; the anonymous state is the absence of a session.
type SecondFactor string

const (
	// SecondFactorPending means the account requires a TOTP code before the
	// session carries admin privilege.
	SecondFactorPending SecondFactor = "pending"
	// SecondFactorSatisfied means no second factor applies to this session
	// (account not enrolled, or the holder explicitly skipped and was
	// downgraded).
	SecondFactorSatisfied SecondFactor = "satisfied"
	// SecondFactorVerified means a correct TOTP code was presented for the
	// bound credential during this session.
	SecondFactorVerified SecondFactor = "verified"
)

// Valid reports whether s is one of the three known stages.
func (s SecondFactor) Valid() bool {
	switch s {
	case SecondFactorPending, SecondFactorSatisfied, SecondFactorVerified:
		return true
	}
	return false
}

// Session is server-side login state bound to a client via an opaque token.
// Only the token's SHA-256 fingerprint is stored.
type Session struct {
	ID              string
	TokenHash       string
	UserID          string
	SecondFactor    SecondFactor
	AdminDowngraded bool // holder skipped the second factor; admin is masked
	CreatedAt       time.Time
	ExpiresAt       time.Time
}
