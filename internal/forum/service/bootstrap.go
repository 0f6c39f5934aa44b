package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/corkboard/corkboard/pkg/cryptox"
	"github.com/corkboard/corkboard/pkg/idx"
	"github.com/corkboard/corkboard/pkg/slogx"
)

var ErrBootstrapFailedToCreateAdmin = errors.New("failed to create admin user")

// AdminSeed describes the initial administrator created on first boot. It is
// sourced from the environment by the app layer.
type AdminSeed struct {
	Username   string
	Name       string
	Password   string
	TOTPSecret string // base32; empty leaves the second factor unenrolled
}

// BootstrapService seeds the first admin account on an empty database so a
// fresh deployment is usable without manual inserts. It never touches a
// database that already has users.
type BootstrapService struct {
	Store store.Store
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

// Bootstrap creates the seed admin when the user table is empty. Returns the
// new admin's id, or "" when the system was already bootstrapped or the seed
// is incomplete.
func (s *BootstrapService) Bootstrap(ctx context.Context, seed AdminSeed) (string, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return "", err
	} else if bootstrapped {
		return "", nil
	}

	seed.Username = strings.TrimSpace(seed.Username)
	if seed.Username == "" || seed.Password == "" {
		l.Warn("no admin seed configured, leaving database empty")
		return "", nil
	}
	if seed.Name == "" {
		seed.Name = seed.Username
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		l.Error("failed to generate admin salt", slog.Any("error", err))
		return "", ErrBootstrapFailedToCreateAdmin
	}
	hash, err := cryptox.HashSecret(seed.Password, salt)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", ErrBootstrapFailedToCreateAdmin
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Username:     seed.Username,
		Name:         seed.Name,
		PasswordHash: hash,
		PasswordSalt: salt,
		Admin:        true,
	}
	if secret := strings.TrimSpace(seed.TOTPSecret); secret != "" {
		admin.TOTPSecret = &secret
	}

	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		l.Error("failed to create admin user",
			slog.String("admin_user_id", admin.ID),
			slog.Any("error", err),
		)
		return "", ErrBootstrapFailedToCreateAdmin
	}

	l.Info("seeded initial admin user",
		slog.String("admin_user_id", admin.ID),
		slog.String("username", admin.Username),
		slog.Bool("totp_enrolled", admin.TOTPSecret != nil),
	)
	return admin.ID, nil
}
