package store

import (
	"context"
	"errors"

	"github.com/corkboard/corkboard/internal/forum/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Sessions() Sessions
	Posts() Posts
	Comments() Comments
	Flags() Flags

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn returns
	// an error and committing otherwise. This is the recommended way to run
	// multi-step operations that must be atomic (e.g. comment admission).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during password authentication.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty returns true if there are no users (bootstrap check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns a session by its token fingerprint.
	// Expired sessions are invisible and report ErrNotFound.
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)

	// UpdateSecondFactor sets the second-factor stage (and the downgrade
	// marker) for a session in a single statement.
	UpdateSecondFactor(ctx context.Context, sessionID string, stage domain.SecondFactor, adminDowngraded bool) error

	// DeleteSessionByTokenHash removes a session; deleting a missing session
	// is not an error (logout is idempotent).
	DeleteSessionByTokenHash(ctx context.Context, tokenHash string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type Posts interface {
	// CreatePost inserts a new post.
	CreatePost(ctx context.Context, p domain.Post) error

	// GetPostByID returns a post with its author name and comment count.
	GetPostByID(ctx context.Context, id string) (domain.Post, error)

	// ListPosts returns all posts, newest first, with comment counts.
	ListPosts(ctx context.Context) ([]domain.Post, error)

	// DeletePost removes a post; comments and flags cascade per schema.
	DeletePost(ctx context.Context, id string) error
}

type Comments interface {
	// CreateComment inserts a new comment (author id nil = anonymous).
	CreateComment(ctx context.Context, c domain.Comment) error

	// GetCommentByID returns a comment with its author name but without the
	// interesting aggregates, which only the list query computes.
	GetCommentByID(ctx context.Context, id string) (domain.Comment, error)

	// ListCommentsByPost returns a post's comments, newest first, with
	// interesting counts. viewerID marks the viewer's own flags; pass ""
	// for anonymous viewers.
	ListCommentsByPost(ctx context.Context, postID, viewerID string) ([]domain.Comment, error)

	// UpdateCommentText replaces the text and bumps updated_at.
	UpdateCommentText(ctx context.Context, id, text string) error

	// DeleteComment removes a comment; flags cascade per schema.
	DeleteComment(ctx context.Context, id string) error
}

type Flags interface {
	// AddFlag marks a comment interesting for a user. Idempotent.
	AddFlag(ctx context.Context, commentID, userID string) error

	// RemoveFlag clears a user's interesting mark. Idempotent.
	RemoveFlag(ctx context.Context, commentID, userID string) error
}
