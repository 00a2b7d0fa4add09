// Package service holds the content workflows: screening new posts and
// comments, and scheduling owner auto-replies for clean comments.
package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/moderation"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/scheduler"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/store"
)

type Moderator interface {
	Assess(ctx context.Context, text string) moderation.Verdict
}

type ReplyDrafter interface {
	Draft(ctx context.Context, postContent, commentContent, authorName string) string
}

type Scheduler interface {
	Schedule(key string, delay time.Duration, task scheduler.Task) scheduler.Handle
	CancelKey(key string) int
}

// ContentService coordinates the store with moderation and auto-replies.
type ContentService struct {
	store     store.Store
	moderator Moderator
	drafter   ReplyDrafter
	scheduler Scheduler
	log       logrus.FieldLogger
}

func NewContentService(st store.Store, moderator Moderator, drafter ReplyDrafter, sched Scheduler, log logrus.FieldLogger) *ContentService {
	return &ContentService{
		store:     st,
		moderator: moderator,
		drafter:   drafter,
		scheduler: sched,
		log:       log,
	}
}
