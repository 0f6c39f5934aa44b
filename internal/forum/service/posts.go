package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/policy"
	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/corkboard/corkboard/pkg/idx"
	"github.com/corkboard/corkboard/pkg/slogx"
)

const maxTitleLength = 160

// CreatePostInput is the validated command for creating a post.
type CreatePostInput struct {
	Title       string
	Text        string
	MaxComments *int
}

// PostService owns post reads and mutations. Every mutation consults the
// policy package before touching the store.
type PostService struct {
	Store store.Store
}

func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id string) (domain.Post, error) {
	return s.Store.Posts().GetPostByID(ctx, id)
}

// CreatePost validates the input and inserts the post. Any authenticated
// identity may post; anonymous callers get ErrForbidden.
func (s *PostService) CreatePost(ctx context.Context, p *domain.Principal, in CreatePostInput) (domain.Post, error) {
	if !policy.CanCreatePost(p) {
		return domain.Post{}, ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Text = strings.TrimSpace(in.Text)

	switch {
	case in.Title == "" || utf8.RuneCountInString(in.Title) > maxTitleLength:
		return domain.Post{}, fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidInput, maxTitleLength)
	case in.Text == "":
		return domain.Post{}, fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
	case in.MaxComments != nil && *in.MaxComments < 0:
		return domain.Post{}, fmt.Errorf("%w: max_comments must not be negative", ErrInvalidInput)
	}

	post := domain.Post{
		ID:          idx.New().String(),
		AuthorID:    p.ID,
		Author:      p.Name,
		Title:       in.Title,
		Text:        in.Text,
		MaxComments: in.MaxComments,
	}
	if err := s.Store.Posts().CreatePost(ctx, post); err != nil {
		return domain.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	slogx.FromContext(ctx).Info("post created", "post_id", post.ID, "author_id", p.ID)

	// Re-read for database-assigned timestamps.
	return s.Store.Posts().GetPostByID(ctx, post.ID)
}

// DeletePost removes a post when the caller is its author or a verified
// admin. Comments and interesting flags cascade.
func (s *PostService) DeletePost(ctx context.Context, p *domain.Principal, id string) error {
	post, err := s.Store.Posts().GetPostByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanDeletePost(p, post) {
		return ErrForbidden
	}

	if err := s.Store.Posts().DeletePost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	slogx.FromContext(ctx).Info("post deleted", "post_id", id)
	return nil
}
