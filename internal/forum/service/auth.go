package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/corkboard/corkboard/pkg/cryptox"
	"github.com/corkboard/corkboard/pkg/idx"
	"github.com/corkboard/corkboard/pkg/slogx"
	"github.com/pquerna/otp/totp"
)

// DefaultSessionTTL is the absolute lifetime of a session when the config
// does not override it.
const DefaultSessionTTL = 7 * 24 * time.Hour

// AuthService runs the two-stage login state machine. Sessions are
// server-side rows keyed by the SHA-256 fingerprint of an opaque token; the
// raw token only ever lives in the client cookie. Each session is an
// independent state machine, so concurrent logins against the same credential
// from different clients never interfere.
type AuthService struct {
	Store      store.Store
	SessionTTL time.Duration
}

func (s *AuthService) ttl() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return DefaultSessionTTL
}

// Login verifies the secret against the stored credential and, on success,
// creates a session and returns the derived principal plus the opaque session
// token. Admins enrolled in TOTP start at stage pending; everyone else is
// satisfied immediately. All failures collapse to ErrInvalidCredentials so
// usernames cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, username, secret string) (domain.Principal, string, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || secret == "" {
		return domain.Principal{}, "", ErrInvalidCredentials
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed", "username", username)
			return domain.Principal{}, "", ErrInvalidCredentials
		}
		return domain.Principal{}, "", err
	}

	if err := cryptox.VerifySecret(secret, u.PasswordSalt, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrSecretMismatch) {
			l.Info("login failed", "username", username)
			return domain.Principal{}, "", ErrInvalidCredentials
		}
		return domain.Principal{}, "", fmt.Errorf("failed to verify secret: %w", err)
	}

	// TOTP gates admin privilege only: an admin enrolled in TOTP must
	// complete the second step before the session carries admin power.
	stage := domain.SecondFactorSatisfied
	if u.Admin && u.CanDoSecondFactor() {
		stage = domain.SecondFactorPending
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Principal{}, "", err
	}

	now := time.Now().UTC()
	sess := domain.Session{
		ID:           idx.New().String(),
		TokenHash:    cryptox.FingerprintToken(token),
		UserID:       u.ID,
		SecondFactor: stage,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl()),
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return domain.Principal{}, "", fmt.Errorf("failed to create session: %w", err)
	}

	l.Info("login succeeded", "user_id", u.ID, "second_factor", string(stage))
	return domain.NewPrincipal(u, sess), token, nil
}

// VerifySecondFactor checks a TOTP code against the credential bound to the
// session. The code is computed over 30-second windows with the library's
// standard one-step clock-skew tolerance. A correct code is the only way a
// session reaches stage verified; it also clears any earlier downgrade.
func (s *AuthService) VerifySecondFactor(ctx context.Context, token, code string) (domain.Principal, error) {
	l := slogx.FromContext(ctx)

	sess, u, err := s.resolve(ctx, token)
	if err != nil {
		return domain.Principal{}, err
	}

	if !u.CanDoSecondFactor() {
		return domain.Principal{}, ErrSecondFactorNotEnabled
	}

	if !totp.Validate(code, *u.TOTPSecret) {
		l.Info("second factor rejected", "user_id", u.ID)
		return domain.Principal{}, ErrInvalidSecondFactor
	}

	if err := s.Store.Sessions().UpdateSecondFactor(ctx, sess.ID, domain.SecondFactorVerified, false); err != nil {
		return domain.Principal{}, fmt.Errorf("failed to update session: %w", err)
	}
	sess.SecondFactor = domain.SecondFactorVerified
	sess.AdminDowngraded = false

	l.Info("second factor verified", "user_id", u.ID)
	return domain.NewPrincipal(u, sess), nil
}

// SkipSecondFactor lets the holder of a pending session continue without the
// second factor as a downgraded, non-admin session. No-op from any other
// stage.
func (s *AuthService) SkipSecondFactor(ctx context.Context, token string) (domain.Principal, error) {
	sess, u, err := s.resolve(ctx, token)
	if err != nil {
		return domain.Principal{}, err
	}

	if sess.SecondFactor == domain.SecondFactorPending {
		if err := s.Store.Sessions().UpdateSecondFactor(ctx, sess.ID, domain.SecondFactorSatisfied, true); err != nil {
			return domain.Principal{}, fmt.Errorf("failed to update session: %w", err)
		}
		sess.SecondFactor = domain.SecondFactorSatisfied
		sess.AdminDowngraded = true

		slogx.FromContext(ctx).Info("second factor skipped, admin privilege masked", "user_id", u.ID)
	}

	return domain.NewPrincipal(u, sess), nil
}

// Logout destroys the session. Idempotent: unknown or expired tokens succeed.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Store.Sessions().DeleteSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
}

// Principal re-derives the authenticated principal for a session token. It is
// computed fresh from the credential and session rows on every call, never
// cached.
func (s *AuthService) Principal(ctx context.Context, token string) (domain.Principal, error) {
	sess, u, err := s.resolve(ctx, token)
	if err != nil {
		return domain.Principal{}, err
	}
	return domain.NewPrincipal(u, sess), nil
}

func (s *AuthService) resolve(ctx context.Context, token string) (domain.Session, domain.User, error) {
	if token == "" {
		return domain.Session{}, domain.User{}, ErrNotAuthenticated
	}

	sess, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, domain.User{}, ErrNotAuthenticated
		}
		return domain.Session{}, domain.User{}, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Credential deleted out from under the session.
			return domain.Session{}, domain.User{}, ErrNotAuthenticated
		}
		return domain.Session{}, domain.User{}, err
	}

	return sess, u, nil
}
