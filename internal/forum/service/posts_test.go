package service

import (
	"context"
	"strings"
	"testing"

	"github.com/corkboard/corkboard/internal/forum/domain"
	"github.com/corkboard/corkboard/internal/forum/store"
	"github.com/stretchr/testify/require"
)

func principalFor(u domain.User, stage domain.SecondFactor) *domain.Principal {
	p := domain.NewPrincipal(u, domain.Session{SecondFactor: stage})
	return &p
}

func TestCreatePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	alice := seedUser(t, st, "alice", "pw", false, "")
	viewer := principalFor(alice, domain.SecondFactorSatisfied)

	svc := &PostService{Store: st}

	t.Run("creates and reads back", func(t *testing.T) {
		max := 5
		post, err := svc.CreatePost(ctx, viewer, CreatePostInput{
			Title:       "  Hello  ",
			Text:        "First post",
			MaxComments: &max,
		})
		require.NoError(t, err)
		require.Equal(t, "Hello", post.Title)
		require.Equal(t, alice.ID, post.AuthorID)
		require.Equal(t, "alice", post.Author)
		require.NotNil(t, post.MaxComments)
		require.Equal(t, 5, *post.MaxComments)
		require.Zero(t, post.CommentCount)
		require.False(t, post.CreatedAt.IsZero())
	})

	t.Run("anonymous forbidden", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, nil, CreatePostInput{Title: "t", Text: "x"})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.CreatePost(ctx, viewer, CreatePostInput{Title: "   ", Text: "x"})
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.CreatePost(ctx, viewer, CreatePostInput{Title: strings.Repeat("a", maxTitleLength+1), Text: "x"})
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = svc.CreatePost(ctx, viewer, CreatePostInput{Title: "t", Text: ""})
		require.ErrorIs(t, err, ErrInvalidInput)

		neg := -1
		_, err = svc.CreatePost(ctx, viewer, CreatePostInput{Title: "t", Text: "x", MaxComments: &neg})
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDeletePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	alice := seedUser(t, st, "alice", "pw", false, "")
	bob := seedUser(t, st, "bob", "pw", false, "")
	admin := seedUser(t, st, "root", "pw", true, testTOTPSecret)

	svc := &PostService{Store: st}
	aliceP := principalFor(alice, domain.SecondFactorSatisfied)

	newPost := func(t *testing.T) domain.Post {
		post, err := svc.CreatePost(ctx, aliceP, CreatePostInput{Title: "t", Text: "x"})
		require.NoError(t, err)
		return post
	}

	t.Run("author may delete", func(t *testing.T) {
		post := newPost(t)
		require.NoError(t, svc.DeletePost(ctx, aliceP, post.ID))
		_, err := svc.GetPost(ctx, post.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("other users forbidden", func(t *testing.T) {
		post := newPost(t)
		err := svc.DeletePost(ctx, principalFor(bob, domain.SecondFactorSatisfied), post.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("pending admin forbidden, verified admin allowed", func(t *testing.T) {
		post := newPost(t)

		err := svc.DeletePost(ctx, principalFor(admin, domain.SecondFactorPending), post.ID)
		require.ErrorIs(t, err, ErrForbidden)

		require.NoError(t, svc.DeletePost(ctx, principalFor(admin, domain.SecondFactorVerified), post.ID))
	})

	t.Run("missing post", func(t *testing.T) {
		err := svc.DeletePost(ctx, aliceP, "no-such-post")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestListPosts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newTestStore(t)
	alice := seedUser(t, st, "alice", "pw", false, "")
	aliceP := principalFor(alice, domain.SecondFactorSatisfied)

	svc := &PostService{Store: st}

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Empty(t, posts)

	first, err := svc.CreatePost(ctx, aliceP, CreatePostInput{Title: "first", Text: "x"})
	require.NoError(t, err)
	second, err := svc.CreatePost(ctx, aliceP, CreatePostInput{Title: "second", Text: "y"})
	require.NoError(t, err)

	posts, err = svc.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	// Newest first.
	require.Equal(t, second.ID, posts[0].ID)
	require.Equal(t, first.ID, posts[1].ID)
}
