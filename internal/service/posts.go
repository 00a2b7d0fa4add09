package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
)

const MaxPageSize = 100

// CreatePost stores a post and blocks it if its content is toxic.
func (s *ContentService) CreatePost(ctx context.Context, userID int, title, content string) (*models.Post, error) {
	post := &models.Post{UserID: userID, Title: title, Content: content}
	if err := s.store.CreatePost(ctx, post); err != nil {
		return nil, fromStore(err, "User not found")
	}

	return s.screenPost(ctx, post, func(ctx context.Context) error {
		return s.store.DeletePost(ctx, post.ID)
	})
}

// screenPost blocks a toxic post. If blocking fails, undo reverts the write
// that made the content visible so no unblocked toxic post is left behind.
func (s *ContentService) screenPost(ctx context.Context, post *models.Post, undo func(ctx context.Context) error) (*models.Post, error) {
	verdict := s.moderator.Assess(ctx, post.Content)
	if !verdict.IsToxic {
		return post, nil
	}

	blocked, err := s.store.BlockPost(ctx, post.ID)
	if err != nil {
		if undoErr := undo(ctx); undoErr != nil {
			s.log.WithError(undoErr).WithField("post_id", post.ID).Error("failed to revert unblocked toxic post")
		}
		return nil, errors.Wrap(err, "failed to block post")
	}
	s.log.WithFields(logrus.Fields{"post_id": post.ID, "score": verdict.Score}).Info("post blocked")
	return blocked, nil
}

func (s *ContentService) ListPosts(ctx context.Context, skip, limit int) ([]models.Post, error) {
	if skip < 0 {
		return nil, invalid("skip must be zero or positive")
	}
	if limit < 1 || limit > MaxPageSize {
		return nil, invalid("limit must be between 1 and 100")
	}
	return s.store.ListPosts(ctx, skip, limit)
}

// GetPost returns a visible post. Blocked posts read as missing.
func (s *ContentService) GetPost(ctx context.Context, postID int) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, fromStore(err, "Post not found")
	}
	if post.IsBlocked {
		return nil, notFound("Post not found")
	}
	return post, nil
}

// UpdatePost edits the caller's post. Empty fields keep their current values.
func (s *ContentService) UpdatePost(ctx context.Context, userID, postID int, title, content string) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, fromStore(err, "Post not found")
	}
	if post.UserID != userID {
		return nil, forbidden("You can only edit your own posts")
	}
	if post.IsBlocked {
		return nil, conflict("You cannot update blocked posts")
	}

	if strings.TrimSpace(title) == "" {
		title = post.Title
	}
	if strings.TrimSpace(content) == "" {
		content = post.Content
	}
	contentChanged := content != post.Content

	updated, err := s.store.UpdatePost(ctx, postID, title, content)
	if err != nil {
		return nil, fromStore(err, "Post not found")
	}
	if !contentChanged {
		return updated, nil
	}
	return s.screenPost(ctx, updated, func(ctx context.Context) error {
		_, err := s.store.UpdatePost(ctx, postID, post.Title, post.Content)
		return err
	})
}

func (s *ContentService) DeletePost(ctx context.Context, userID, postID int) (*models.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, fromStore(err, "Post not found")
	}
	if post.UserID != userID {
		return nil, forbidden("You can only delete your own posts")
	}

	if err := s.store.DeletePost(ctx, postID); err != nil {
		return nil, fromStore(err, "Post not found")
	}
	return post, nil
}
