package sqlite

import "context"

type flagsRepo struct {
	db dbtx
}

func (r *flagsRepo) AddFlag(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO interesting_flags (comment_id, user_id) VALUES (?, ?)`,
		commentID, userID,
	)
	return err
}

func (r *flagsRepo) RemoveFlag(ctx context.Context, commentID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM interesting_flags WHERE comment_id = ? AND user_id = ?`,
		commentID, userID,
	)
	return err
}
