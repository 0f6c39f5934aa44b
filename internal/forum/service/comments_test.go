package service

import (
	"context"
	"testing"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	alice := seedUser(t, st, "alice", "pw", false, "")
	aliceP := principalFor(alice, domain.SecondFactorSatisfied)

	posts := &PostService{Store: st}
	svc := &CommentService{Store: st}

	t.Run("authenticated comment carries author", func(t *testing.T) {
		post, err := posts.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x"})
		require.NoError(t, err)

		c, err := svc.AddComment(ctx, post.ID, aliceP, "  nice one  ")
		require.NoError(t, err)
		require.Equal(t, "nice one", c.Text)
		require.NotNil(t, c.AuthorID)
		require.Equal(t, alice.ID, *c.AuthorID)
		require.Equal(t, "alice", c.Author)
	})

	t.Run("anonymous comment allowed", func(t *testing.T) {
		post, err := posts.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x"})
		require.NoError(t, err)

		c, err := svc.AddComment(ctx, post.ID, nil, "drive-by")
		require.NoError(t, err)
		require.Nil(t, c.AuthorID)
		require.Empty(t, c.Author)
	})

	t.Run("limit closes the post", func(t *testing.T) {
		one := 1
		post, err := posts.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x", MaxComments: &one})
		require.NoError(t, err)

		_, err = svc.AddComment(ctx, post.ID, nil, "first")
		require.NoError(t, err)

		_, err = svc.AddComment(ctx, post.ID, aliceP, "second")
		require.ErrorIs(t, err, ErrCommentsClosed)
	})

	t.Run("zero disables comments entirely", func(t *testing.T) {
		zero := 0
		post, err := posts.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x", MaxComments: &zero})
		require.NoError(t, err)

		_, err = svc.AddComment(ctx, post.ID, aliceP, "nope")
		require.ErrorIs(t, err, ErrCommentsClosed)
	})

	t.Run("deleting a comment reopens a full post", func(t *testing.T) {
		one := 1
		post, err := posts.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x", MaxComments: &one})
		require.NoError(t, err)

		c, err := svc.AddComment(ctx, post.ID, aliceP, "first")
		require.NoError(t, err)
		require.NoError(t, svc.DeleteComment(ctx, aliceP, c.ID))

		_, err = svc.AddComment(ctx, post.ID, aliceP, "again")
		require.NoError(t, err)
	})

	t.Run("empty text rejected", func(t *testing.T) {
		post, err := posts.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x"})
		require.NoError(t, err)

		_, err = svc.AddComment(ctx, post.ID, aliceP, "   ")
		require.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.AddComment(ctx, "no-such-post", aliceP, "hello")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestEditAndDeleteComment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	alice := seedUser(t, st, "alice", "pw", false, "")
	bob := seedUser(t, st, "bob", "pw", false, "")
	admin := seedUser(t, st, "root", "pw", true, testTOTPSecret)

	aliceP := principalFor(alice, domain.SecondFactorSatisfied)
	bobP := principalFor(bob, domain.SecondFactorSatisfied)

	posts := &PostService{Store: st}
	svc := &CommentService{Store: st}

	post, err := posts.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x"})
	require.NoError(t, err)

	t.Run("author may edit", func(t *testing.T) {
		c, err := svc.AddComment(ctx, post.ID, bobP, "original")
		require.NoError(t, err)

		require.NoError(t, svc.EditComment(ctx, bobP, c.ID, "edited"))

		got, err := st.Comments().GetCommentByID(ctx, c.ID)
		require.NoError(t, err)
		require.Equal(t, "edited", got.Text)
	})

	t.Run("non-author forbidden, even the post owner", func(t *testing.T) {
		c, err := svc.AddComment(ctx, post.ID, bobP, "bob's words")
		require.NoError(t, err)

		require.ErrorIs(t, svc.EditComment(ctx, aliceP, c.ID, "rewritten"), ErrForbidden)
		require.ErrorIs(t, svc.DeleteComment(ctx, aliceP, c.ID), ErrForbidden)
	})

	t.Run("anonymous comments belong to nobody", func(t *testing.T) {
		c, err := svc.AddComment(ctx, post.ID, nil, "drive-by")
		require.NoError(t, err)

		require.ErrorIs(t, svc.EditComment(ctx, aliceP, c.ID, "claimed"), ErrForbidden)

		// Only a verified admin can moderate it away.
		require.ErrorIs(t, svc.DeleteComment(ctx, principalFor(admin, domain.SecondFactorPending), c.ID), ErrForbidden)
		require.NoError(t, svc.DeleteComment(ctx, principalFor(admin, domain.SecondFactorVerified), c.ID))
	})

	t.Run("missing comment", func(t *testing.T) {
		require.ErrorIs(t, svc.EditComment(ctx, bobP, "no-such-comment", "text"), store.ErrNotFound)
		require.ErrorIs(t, svc.DeleteComment(ctx, bobP, "no-such-comment"), store.ErrNotFound)
	})
}

func TestInterestingFlags(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	alice := seedUser(t, st, "alice", "pw", false, "")
	bob := seedUser(t, st, "bob", "pw", false, "")

	aliceP := principalFor(alice, domain.SecondFactorSatisfied)
	bobP := principalFor(bob, domain.SecondFactorSatisfied)

	posts := &PostService{Store: st}
	svc := &CommentService{Store: st}

	post, err := posts.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x"})
	require.NoError(t, err)
	c, err := svc.AddComment(ctx, post.ID, bobP, "flag me")
	require.NoError(t, err)

	t.Run("anonymous cannot flag", func(t *testing.T) {
		require.ErrorIs(t, svc.MarkInteresting(ctx, nil, c.ID), ErrForbidden)
		require.ErrorIs(t, svc.UnmarkInteresting(ctx, nil, c.ID), ErrForbidden)
	})

	t.Run("flags count per user and are idempotent", func(t *testing.T) {
		require.NoError(t, svc.MarkInteresting(ctx, aliceP, c.ID))
		require.NoError(t, svc.MarkInteresting(ctx, aliceP, c.ID))
		require.NoError(t, svc.MarkInteresting(ctx, bobP, c.ID))

		list, err := svc.ListComments(ctx, post.ID, aliceP)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, 2, list[0].InterestingCount)
		require.True(t, list[0].Interesting)
	})

	t.Run("unmark clears only the caller's flag", func(t *testing.T) {
		require.NoError(t, svc.UnmarkInteresting(ctx, aliceP, c.ID))
		require.NoError(t, svc.UnmarkInteresting(ctx, aliceP, c.ID))

		list, err := svc.ListComments(ctx, post.ID, aliceP)
		require.NoError(t, err)
		require.Equal(t, 1, list[0].InterestingCount)
		require.False(t, list[0].Interesting)

		list, err = svc.ListComments(ctx, post.ID, bobP)
		require.NoError(t, err)
		require.True(t, list[0].Interesting)
	})

	t.Run("anonymous viewer sees counts but no ownership", func(t *testing.T) {
		list, err := svc.ListComments(ctx, post.ID, nil)
		require.NoError(t, err)
		require.Equal(t, 1, list[0].InterestingCount)
		require.False(t, list[0].Interesting)
	})

	t.Run("missing comment", func(t *testing.T) {
		require.ErrorIs(t, svc.MarkInteresting(ctx, aliceP, "no-such-comment"), store.ErrNotFound)
		require.ErrorIs(t, svc.UnmarkInteresting(ctx, aliceP, "no-such-comment"), store.ErrNotFound)
	})
}
