package service

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
)

func autoReplyKey(commentID int) string {
	return fmt.Sprintf("comment:%d", commentID)
}

// scheduleAutoReply queues a reply from the post owner if they enabled it.
// The task captures ids only and reloads everything when it runs.
func (s *ContentService) scheduleAutoReply(ctx context.Context, post *models.Post, comment *models.Comment) error {
	owner, err := s.store.GetUserByID(ctx, post.UserID)
	if err != nil {
		return errors.Wrap(err, "failed to load post owner")
	}
	if !owner.AutoReplyEnabled {
		return nil
	}

	ownerID, commentID := owner.ID, comment.ID
	handle := s.scheduler.Schedule(autoReplyKey(commentID), owner.AutoReplyDelayDuration(), func(ctx context.Context) {
		log := s.log.WithFields(logrus.Fields{"post_owner_id": ownerID, "comment_id": commentID})
		reply, err := s.RunAutoReply(ctx, ownerID, commentID)
		if err != nil {
			log.WithError(err).Error("auto-reply failed")
			return
		}
		if reply != nil {
			log.WithField("reply_id", reply.ID).Info("auto-reply posted")
		}
	})

	s.log.WithFields(logrus.Fields{
		"task_id":       handle.ID,
		"post_owner_id": ownerID,
		"comment_id":    commentID,
		"delay":         owner.AutoReplyDelayDuration().String(),
	}).Info("auto-reply scheduled")
	return nil
}

// RunAutoReply posts the owner's reply to a comment. It returns a nil reply
// when the owner has turned auto-reply off since the task was scheduled, or
// when the post or the comment has been blocked in the meantime.
// Every run inserts a new reply.
func (s *ContentService) RunAutoReply(ctx context.Context, ownerID, commentID int) (*models.Comment, error) {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, fromStore(err, "Comment not found")
	}
	owner, err := s.store.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, fromStore(err, "User not found")
	}
	if !owner.AutoReplyEnabled {
		return nil, nil
	}
	post, err := s.store.GetPost(ctx, comment.PostID)
	if err != nil {
		return nil, fromStore(err, "Post not found")
	}
	if post.IsBlocked || comment.IsBlocked {
		s.log.WithFields(logrus.Fields{
			"comment_id":      commentID,
			"post_id":         post.ID,
			"post_blocked":    post.IsBlocked,
			"comment_blocked": comment.IsBlocked,
		}).Info("auto-reply skipped, content blocked since scheduling")
		return nil, nil
	}

	text := s.drafter.Draft(ctx, post.Content, comment.Content, owner.Username)

	reply, err := s.store.CreateReply(ctx, text, post.ID, owner.ID, comment.ID)
	if err != nil {
		return nil, fromStore(err, "Comment not found")
	}
	return reply, nil
}
