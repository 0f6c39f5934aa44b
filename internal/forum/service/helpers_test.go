package service

import (
	"context"
	"testing"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/store/drivers/sqlite"
	"github.com/corkboard/corkboard/pkg/cryptox"
	"github.com/corkboard/corkboard/pkg/idx"
	"github.com/stretchr/testify/require"
)

// Valid base32 TOTP secret shared by tests that exercise the second factor.
const testTOTPSecret = "JBSWY3DPEHPK3PXP"

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st *sqlite.Store, username, password string, admin bool, totpSecret string) domain.User {
	t.Helper()

	salt, err := cryptox.GenerateSalt()
	require.NoError(t, err)
	hash, err := cryptox.HashSecret(password, salt)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Name:         username,
		PasswordHash: hash,
		PasswordSalt: salt,
		Admin:        admin,
	}
	if totpSecret != "" {
		u.TOTPSecret = &totpSecret
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}
