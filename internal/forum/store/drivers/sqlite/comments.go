package sqlite

import (
	"context"
	"database/sql"

	"github.com/corkboard/corkboard/internal/forum/domain"
)

type commentsRepo struct {
	db dbtx
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_id, text) VALUES (?, ?, ?, ?)`,
		c.ID, c.PostID, mapOptionalString(c.AuthorID), c.Text,
	)
	return err
}

func (r *commentsRepo) GetCommentByID(ctx context.Context, id string) (domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.post_id, c.author_id, COALESCE(u.name, '') AS author, c.text, c.created_at, c.updated_at
		FROM comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.id = ?`, id)

	var (
		c        domain.Comment
		authorID sql.NullString
	)
	err := row.Scan(&c.ID, &c.PostID, &authorID, &c.Author, &c.Text, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	c.AuthorID = mapNullStringPtr(authorID)
	return c, nil
}

func (r *commentsRepo) ListCommentsByPost(ctx context.Context, postID, viewerID string) ([]domain.Comment, error) {
	// The correlated subqueries compute the interesting aggregate and the
	// viewer's own flag per comment. An empty viewerID matches no flags.
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			c.id,
			c.post_id,
			c.author_id,
			COALESCE(u.name, '') AS author,
			c.text,
			c.created_at,
			c.updated_at,
			(SELECT COUNT(*) FROM interesting_flags f WHERE f.comment_id = c.id) AS interesting_count,
			EXISTS(SELECT 1 FROM interesting_flags f WHERE f.comment_id = c.id AND f.user_id = ?) AS interesting
		FROM comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at DESC, c.id DESC`,
		viewerID, postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var (
			c        domain.Comment
			authorID sql.NullString
		)
		err := rows.Scan(
			&c.ID, &c.PostID, &authorID, &c.Author, &c.Text,
			&c.CreatedAt, &c.UpdatedAt, &c.InterestingCount, &c.Interesting,
		)
		if err != nil {
			return nil, err
		}
		c.AuthorID = mapNullStringPtr(authorID)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentsRepo) UpdateCommentText(ctx context.Context, id, text string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET text = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, text, id)
	return err
}

func (r *commentsRepo) DeleteComment(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	return err
}
