package domain

// Principal is the resolved identity-plus-privilege view used for
// authorization decisions. It is derived fresh from the User and Session on
// every request and never stored.
type Principal struct {
	ID                string
	Username          string
	Name              string
	Admin             bool // user.is_admin masked by a skipped second factor
	SecondFactor      SecondFactor
	CanDoSecondFactor bool
}

// SecondFactorVerified reports whether a correct TOTP code was presented
// during this session.
func (p Principal) SecondFactorVerified() bool {
	return p.SecondFactor == SecondFactorVerified
}

// VerifiedAdmin reports whether the principal carries full admin privilege:
// the admin flag alone is not enough, the second factor must be verified.
func (p Principal) VerifiedAdmin() bool {
	return p.Admin && p.SecondFactor == SecondFactorVerified
}

// NewPrincipal derives the principal for a user within a session.
func NewPrincipal(u User, s Session) Principal {
	return Principal{
		ID:                u.ID,
		Username:          u.Username,
		Name:              u.Name,
		Admin:             u.Admin && !s.AdminDowngraded,
		SecondFactor:      s.SecondFactor,
		CanDoSecondFactor: u.CanDoSecondFactor(),
	}
}
