package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/store"
)

func (s *ContentService) GetUser(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fromStore(err, "User not found")
	}
	return user, nil
}

// GetProfile returns a user with their visible posts.
func (s *ContentService) GetProfile(ctx context.Context, userID int) (*models.User, []models.Post, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.store.ListPostsByUser(ctx, userID)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list user posts")
	}
	return user, posts, nil
}

// UpdateProfile renames the caller. Empty fields keep their current values.
func (s *ContentService) UpdateProfile(ctx context.Context, userID int, username, email string) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if username = strings.TrimSpace(username); username == "" {
		username = user.Username
	}
	if email = strings.TrimSpace(email); email == "" {
		email = user.Email
	}

	updated, err := s.store.UpdateUserProfile(ctx, userID, username, email)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, invalid("Username or email already exists")
		}
		return nil, fromStore(err, "User not found")
	}
	s.log.WithField("user_id", userID).Info("profile updated")
	return updated, nil
}

// UpdateSettings changes the caller's auto-reply preferences. The new values
// apply to tasks that have not run yet, since tasks re-read the owner.
func (s *ContentService) UpdateSettings(ctx context.Context, userID int, enabled bool, delaySeconds int) (*models.User, error) {
	if delaySeconds < 0 {
		return nil, invalid("auto_reply_delay must be zero or positive")
	}

	user, err := s.store.UpdateUserSettings(ctx, userID, enabled, delaySeconds)
	if err != nil {
		return nil, fromStore(err, "User not found")
	}

	s.log.WithFields(logrus.Fields{
		"user_id":            userID,
		"auto_reply_enabled": enabled,
		"auto_reply_delay":   delaySeconds,
	}).Info("auto-reply settings updated")
	return user, nil
}
