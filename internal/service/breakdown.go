package service

import (
	"context"
	"time"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
)

// CommentsBreakdown reports per post, per day comment totals between from and to.
func (s *ContentService) CommentsBreakdown(ctx context.Context, from, to time.Time) ([]models.PostCommentStats, error) {
	if to.Before(from) {
		return nil, invalid("date_to must not be before date_from")
	}

	stats, err := s.store.CommentsBreakdown(ctx, from, to)
	if err != nil {
		return nil, err
	}
	if len(stats) == 0 {
		return nil, notFound("No comments found for the given date range")
	}
	return stats, nil
}
