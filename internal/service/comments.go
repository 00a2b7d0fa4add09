package service

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
)

// CreateComment stores a comment on a visible post, screens it and, when the
// comment is clean and the post owner wants it, schedules an auto-reply.
func (s *ContentService) CreateComment(ctx context.Context, userID, postID int, content string) (*models.Comment, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, fromStore(err, "Post not found")
	}
	if post.IsBlocked {
		return nil, conflict("You can't create comment for blocked post")
	}

	comment, err := s.store.CreateComment(ctx, content, postID, userID)
	if err != nil {
		return nil, fromStore(err, "Post not found")
	}

	log := s.log.WithFields(logrus.Fields{"comment_id": comment.ID, "post_id": postID})

	verdict := s.moderator.Assess(ctx, comment.Content)
	if verdict.IsToxic {
		blocked, err := s.store.BlockComment(ctx, comment.ID)
		if err != nil {
			// Never leave an unblocked toxic comment behind.
			if delErr := s.store.DeleteComment(ctx, comment.ID); delErr != nil {
				log.WithError(delErr).Error("failed to remove unblocked toxic comment")
			}
			return nil, errors.Wrap(err, "failed to block comment")
		}
		log.WithField("score", verdict.Score).Info("comment blocked")
		return blocked, nil
	}

	// The comment is saved either way; auto-reply problems are not the author's.
	if err := s.scheduleAutoReply(ctx, post, comment); err != nil {
		log.WithError(err).Error("failed to evaluate auto-reply")
	}
	return comment, nil
}

func (s *ContentService) ListComments(ctx context.Context, postID int) ([]models.Comment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.ListCommentsByPost(ctx, postID)
}

// GetComment returns a comment. Blocked comments are only shown to their author.
func (s *ContentService) GetComment(ctx context.Context, userID, commentID int) (*models.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, fromStore(err, "Comment not found")
	}
	if comment.IsBlocked && comment.UserID != userID {
		return nil, notFound("Comment not found")
	}
	return comment, nil
}

func (s *ContentService) UpdateComment(ctx context.Context, userID, commentID int, content string) (*models.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, fromStore(err, "Comment not found")
	}
	if comment.UserID != userID {
		return nil, forbidden("You can only edit your own comments")
	}
	if comment.IsBlocked {
		return nil, conflict("You cannot update blocked comments")
	}

	updated, err := s.store.UpdateComment(ctx, commentID, content)
	if err != nil {
		return nil, fromStore(err, "Comment not found")
	}

	verdict := s.moderator.Assess(ctx, updated.Content)
	if !verdict.IsToxic {
		return updated, nil
	}
	blocked, err := s.store.BlockComment(ctx, commentID)
	if err != nil {
		if _, restoreErr := s.store.UpdateComment(ctx, commentID, comment.Content); restoreErr != nil {
			s.log.WithError(restoreErr).WithField("comment_id", commentID).Error("failed to restore comment after block failure")
		}
		return nil, errors.Wrap(err, "failed to block comment")
	}
	s.log.WithFields(logrus.Fields{"comment_id": commentID, "score": verdict.Score}).Info("edited comment blocked")
	return blocked, nil
}

// DeleteComment removes the caller's comment with its replies and drops any
// auto-reply still waiting for it.
func (s *ContentService) DeleteComment(ctx context.Context, userID, commentID int) (*models.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, fromStore(err, "Comment not found")
	}
	if comment.UserID != userID {
		return nil, forbidden("You can only delete your own comments")
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return nil, fromStore(err, "Comment not found")
	}
	if n := s.scheduler.CancelKey(autoReplyKey(commentID)); n > 0 {
		s.log.WithFields(logrus.Fields{"comment_id": commentID, "cancelled": n}).Info("pending auto-reply cancelled")
	}
	return comment, nil
}
