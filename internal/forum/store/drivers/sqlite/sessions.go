package sqlite

import (
	"context"
	"time"

	"github.com/corkboard/corkboard/internal/forum/domain"
)

type sessionsRepo struct {
	db dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, token_hash, user_id, second_factor, admin_downgraded, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.TokenHash, s.UserID, string(s.SecondFactor), s.AdminDowngraded, s.ExpiresAt,
	)
	return err
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, token_hash, user_id, second_factor, admin_downgraded, created_at, expires_at
		 FROM sessions
		 WHERE token_hash = ? AND expires_at > ?`,
		tokenHash, time.Now().UTC(),
	)

	var (
		s     domain.Session
		stage string
	)
	err := row.Scan(&s.ID, &s.TokenHash, &s.UserID, &stage, &s.AdminDowngraded, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.SecondFactor = domain.SecondFactor(stage)
	return s, nil
}

func (r *sessionsRepo) UpdateSecondFactor(ctx context.Context, sessionID string, stage domain.SecondFactor, adminDowngraded bool) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET second_factor = ?, admin_downgraded = ? WHERE id = ?`,
		string(stage), adminDowngraded, sessionID,
	)
	return err
}

func (r *sessionsRepo) DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UTC())
	return err
}
