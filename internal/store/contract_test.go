package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
)

type fixture struct {
	owner     *models.User
	commenter *models.User
	post      *models.Post
}

func seed(t *testing.T, s Store) fixture {
	t.Helper()
	ctx := context.Background()

	owner := &models.User{Username: "owner", Email: "owner@test.com", Password: "x", AutoReplyEnabled: true, AutoReplyDelay: 0}
	require.NoError(t, s.CreateUser(ctx, owner))
	commenter := &models.User{Username: "commenter", Email: "commenter@test.com", Password: "x", AutoReplyDelay: models.DefaultAutoReplyDelay}
	require.NoError(t, s.CreateUser(ctx, commenter))

	post := &models.Post{UserID: owner.ID, Title: "Test Post", Content: "This is a test post"}
	require.NoError(t, s.CreatePost(ctx, post))

	return fixture{owner: owner, commenter: commenter, post: post}
}

// runStoreContract exercises behaviour every Store implementation must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		s := newStore(t)
		f := seed(t, s)

		got, err := s.GetUserByID(ctx, f.owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "owner", got.Username)
		assert.True(t, got.AutoReplyEnabled)
		assert.Equal(t, 0, got.AutoReplyDelay)

		byEmail, err := s.GetUserByEmail(ctx, "commenter@test.com")
		require.NoError(t, err)
		assert.Equal(t, f.commenter.ID, byEmail.ID)

		_, err = s.GetUserByID(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)

		dup := &models.User{Username: "owner", Email: "other@test.com", Password: "x"}
		assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicate)

		updated, err := s.UpdateUserSettings(ctx, f.commenter.ID, true, 120)
		require.NoError(t, err)
		assert.True(t, updated.AutoReplyEnabled)
		assert.Equal(t, 120, updated.AutoReplyDelay)

		_, err = s.UpdateUserSettings(ctx, 999, true, 1)
		assert.ErrorIs(t, err, ErrNotFound)

		renamed, err := s.UpdateUserProfile(ctx, f.commenter.ID, "renamed", "renamed@test.com")
		require.NoError(t, err)
		assert.Equal(t, "renamed", renamed.Username)
		assert.Equal(t, "renamed@test.com", renamed.Email)
		assert.True(t, renamed.AutoReplyEnabled, "settings survive a profile update")

		_, err = s.UpdateUserProfile(ctx, f.commenter.ID, "owner", "renamed@test.com")
		assert.ErrorIs(t, err, ErrDuplicate)
		_, err = s.UpdateUserProfile(ctx, f.commenter.ID, "renamed", "owner@test.com")
		assert.ErrorIs(t, err, ErrDuplicate)
		_, err = s.UpdateUserProfile(ctx, 999, "ghost", "ghost@test.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("posts by user", func(t *testing.T) {
		s := newStore(t)
		f := seed(t, s)

		second := &models.Post{UserID: f.owner.ID, Title: "Second", Content: "More"}
		require.NoError(t, s.CreatePost(ctx, second))
		hidden := &models.Post{UserID: f.owner.ID, Title: "Hidden", Content: "Bad content"}
		require.NoError(t, s.CreatePost(ctx, hidden))
		_, err := s.BlockPost(ctx, hidden.ID)
		require.NoError(t, err)
		other := &models.Post{UserID: f.commenter.ID, Title: "Other", Content: "Not the owner's"}
		require.NoError(t, s.CreatePost(ctx, other))

		posts, err := s.ListPostsByUser(ctx, f.owner.ID)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, f.post.ID, posts[0].ID)
		assert.Equal(t, second.ID, posts[1].ID)

		none, err := s.ListPostsByUser(ctx, 999)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("missing references", func(t *testing.T) {
		s := newStore(t)
		f := seed(t, s)

		orphan := &models.Post{UserID: 999, Title: "Orphan", Content: "No author"}
		assert.ErrorIs(t, s.CreatePost(ctx, orphan), ErrNotFound)

		_, err := s.CreateComment(ctx, "Test comment", 999, f.commenter.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.CreateComment(ctx, "Test comment", f.post.ID, 999)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.CreateReply(ctx, "Thanks", f.post.ID, f.owner.ID, 999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("posts", func(t *testing.T) {
		s := newStore(t)
		f := seed(t, s)

		second := &models.Post{UserID: f.commenter.ID, Title: "Second", Content: "Bad content"}
		require.NoError(t, s.CreatePost(ctx, second))
		assert.False(t, second.IsBlocked)

		blocked, err := s.BlockPost(ctx, second.ID)
		require.NoError(t, err)
		assert.True(t, blocked.IsBlocked)

		posts, err := s.ListPosts(ctx, 0, 10)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, f.post.ID, posts[0].ID)

		posts, err = s.ListPosts(ctx, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, posts)

		updated, err := s.UpdatePost(ctx, f.post.ID, "updated title", "updated content")
		require.NoError(t, err)
		assert.Equal(t, "updated title", updated.Title)
		assert.Equal(t, "updated content", updated.Content)

		_, err = s.UpdatePost(ctx, 999, "a", "b")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.BlockPost(ctx, 999)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.DeletePost(ctx, second.ID))
		_, err = s.GetPost(ctx, second.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, s.DeletePost(ctx, second.ID), ErrNotFound)
	})

	t.Run("comments and replies", func(t *testing.T) {
		s := newStore(t)
		f := seed(t, s)

		comment, err := s.CreateComment(ctx, "Test comment", f.post.ID, f.commenter.ID)
		require.NoError(t, err)
		assert.Equal(t, "Test comment", comment.Content)
		assert.Equal(t, f.commenter.ID, comment.UserID)
		assert.Equal(t, f.post.ID, comment.PostID)
		assert.Nil(t, comment.ParentCommentID)
		assert.False(t, comment.IsBlocked)

		reply, err := s.CreateReply(ctx, "Thanks", f.post.ID, f.owner.ID, comment.ID)
		require.NoError(t, err)
		require.NotNil(t, reply.ParentCommentID)
		assert.Equal(t, comment.ID, *reply.ParentCommentID)
		assert.Equal(t, f.owner.ID, reply.UserID)

		bad, err := s.CreateComment(ctx, "bad", f.post.ID, f.commenter.ID)
		require.NoError(t, err)
		blocked, err := s.BlockComment(ctx, bad.ID)
		require.NoError(t, err)
		assert.True(t, blocked.IsBlocked)

		visible, err := s.ListCommentsByPost(ctx, f.post.ID)
		require.NoError(t, err)
		require.Len(t, visible, 2)
		assert.Equal(t, comment.ID, visible[0].ID)
		assert.Equal(t, reply.ID, visible[1].ID)

		// Blocked comments stay readable by id.
		fetched, err := s.GetComment(ctx, bad.ID)
		require.NoError(t, err)
		assert.True(t, fetched.IsBlocked)

		edited, err := s.UpdateComment(ctx, comment.ID, "edited")
		require.NoError(t, err)
		assert.Equal(t, "edited", edited.Content)

		require.NoError(t, s.DeleteComment(ctx, comment.ID))
		_, err = s.GetComment(ctx, comment.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		// Replies go with their parent.
		_, err = s.GetComment(ctx, reply.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, s.DeleteComment(ctx, comment.ID), ErrNotFound)
		_, err = s.BlockComment(ctx, comment.ID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.UpdateComment(ctx, comment.ID, "x")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("deleting a post removes its comments", func(t *testing.T) {
		s := newStore(t)
		f := seed(t, s)

		comment, err := s.CreateComment(ctx, "Test comment", f.post.ID, f.commenter.ID)
		require.NoError(t, err)

		require.NoError(t, s.DeletePost(ctx, f.post.ID))
		_, err = s.GetComment(ctx, comment.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("comments breakdown", func(t *testing.T) {
		s := newStore(t)
		f := seed(t, s)

		for _, content := range []string{"Test comment 1", "Test comment 2", "Test comment 3"} {
			_, err := s.CreateComment(ctx, content, f.post.ID, f.commenter.ID)
			require.NoError(t, err)
		}
		last, err := s.CreateComment(ctx, "Test comment 4", f.post.ID, f.commenter.ID)
		require.NoError(t, err)
		_, err = s.BlockComment(ctx, last.ID)
		require.NoError(t, err)

		now := time.Now().UTC()
		breakdown, err := s.CommentsBreakdown(ctx, now.Add(-24*time.Hour), now.Add(24*time.Hour))
		require.NoError(t, err)
		require.Len(t, breakdown, 1)
		assert.Equal(t, f.post.ID, breakdown[0].PostID)
		require.NotEmpty(t, breakdown[0].Stats)

		total, blocked := 0, 0
		for _, day := range breakdown[0].Stats {
			total += day.TotalComments
			blocked += day.BlockedComments
		}
		assert.Equal(t, 4, total)
		assert.Equal(t, 1, blocked)

		empty, err := s.CommentsBreakdown(ctx, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
