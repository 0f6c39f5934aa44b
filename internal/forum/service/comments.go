package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/policy"
	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/corkboard/corkboard/pkg/idx"
	"github.com/corkboard/corkboard/pkg/slogx"
)

// CommentService owns comment reads, mutations, and interesting flags.
// Mutations consult the policy package; the comment admission gate runs
// inside a transaction so the count cannot race past a post's limit.
type CommentService struct {
	Store store.Store
}

// ListComments returns a post's comments with interesting aggregates. The
// viewer may be nil (anonymous), in which case no comment is marked as
// flagged by the viewer.
func (s *CommentService) ListComments(ctx context.Context, postID string, viewer *domain.Principal) ([]domain.Comment, error) {
	// Confirm the post exists so callers get a 404 rather than an empty list.
	if _, err := s.Store.Posts().GetPostByID(ctx, postID); err != nil {
		return nil, err
	}

	viewerID := ""
	if viewer != nil {
		viewerID = viewer.ID
	}
	return s.Store.Comments().ListCommentsByPost(ctx, postID, viewerID)
}

// AddComment admits a comment to a post. Anonymous commenting is allowed;
// the post itself gates admission (max_comments = 0 disables, N caps). The
// check and insert run in one transaction.
func (s *CommentService) AddComment(ctx context.Context, postID string, viewer *domain.Principal, text string) (domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Comment{}, fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
	}

	comment := domain.Comment{
		ID:     idx.New().String(),
		PostID: postID,
		Text:   text,
	}
	if viewer != nil {
		id := viewer.ID
		comment.AuthorID = &id
		comment.Author = viewer.Name
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		post, err := tx.Posts().GetPostByID(ctx, postID)
		if err != nil {
			return err
		}
		if !policy.CanComment(post) {
			return ErrCommentsClosed
		}
		return tx.Comments().CreateComment(ctx, comment)
	})
	if err != nil {
		return domain.Comment{}, err
	}

	slogx.FromContext(ctx).Info("comment added", "comment_id", comment.ID, "post_id", postID, "anonymous", viewer == nil)
	return s.Store.Comments().GetCommentByID(ctx, comment.ID)
}

// EditComment replaces a comment's text when the caller is its author or a
// verified admin.
func (s *CommentService) EditComment(ctx context.Context, p *domain.Principal, id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: text must not be empty", ErrInvalidInput)
	}

	c, err := s.Store.Comments().GetCommentByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanEditComment(p, c) {
		return ErrForbidden
	}

	if err := s.Store.Comments().UpdateCommentText(ctx, id, text); err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return nil
}

// DeleteComment removes a comment under the same rule as EditComment.
func (s *CommentService) DeleteComment(ctx context.Context, p *domain.Principal, id string) error {
	c, err := s.Store.Comments().GetCommentByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanDeleteComment(p, c) {
		return ErrForbidden
	}

	if err := s.Store.Comments().DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	slogx.FromContext(ctx).Info("comment deleted", "comment_id", id)
	return nil
}

// MarkInteresting flags a comment for the caller. Any authenticated identity
// may flag; flagging twice is a no-op.
func (s *CommentService) MarkInteresting(ctx context.Context, p *domain.Principal, id string) error {
	if !policy.CanMarkInteresting(p) {
		return ErrForbidden
	}

	if _, err := s.Store.Comments().GetCommentByID(ctx, id); err != nil {
		return err
	}
	return s.Store.Flags().AddFlag(ctx, id, p.ID)
}

// UnmarkInteresting clears the caller's flag. Idempotent.
func (s *CommentService) UnmarkInteresting(ctx context.Context, p *domain.Principal, id string) error {
	if !policy.CanMarkInteresting(p) {
		return ErrForbidden
	}

	if _, err := s.Store.Comments().GetCommentByID(ctx, id); err != nil {
		return err
	}
	return s.Store.Flags().RemoveFlag(ctx, id, p.ID)
}
