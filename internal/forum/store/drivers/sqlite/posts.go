package sqlite

import (
	"context"
	"database/sql"

	"github.com/corkboard/corkboard/internal/forum/domain"
)

type postsRepo struct {
	db dbtx
}

const postQuery = `
	SELECT
		p.id,
		p.author_id,
		u.name AS author,
		p.title,
		p.text,
		p.max_comments,
		p.created_at,
		COUNT(c.id) AS comment_count
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN comments c ON c.post_id = p.id`

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (id, author_id, title, text, max_comments) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.AuthorID, p.Title, p.Text, mapOptionalInt(p.MaxComments),
	)
	return err
}

func (r *postsRepo) GetPostByID(ctx context.Context, id string) (domain.Post, error) {
	row := r.db.QueryRowContext(ctx,
		postQuery+` WHERE p.id = ? GROUP BY p.id`, id)

	p, err := scanPost(row.Scan)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.db.QueryContext(ctx,
		postQuery+` GROUP BY p.id ORDER BY p.created_at DESC, p.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postsRepo) DeletePost(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

func scanPost(scan func(dest ...any) error) (domain.Post, error) {
	var (
		p           domain.Post
		maxComments sql.NullInt64
	)
	err := scan(&p.ID, &p.AuthorID, &p.Author, &p.Title, &p.Text, &maxComments, &p.CreatedAt, &p.CommentCount)
	if err != nil {
		return domain.Post{}, err
	}
	p.MaxComments = mapNullIntPtr(maxComments)
	return p, nil
}
