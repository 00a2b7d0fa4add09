package service

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/moderation"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/scheduler"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/store"
)

const toxicText = "Fuck you bitch"

type mockModerator struct {
	mock.Mock
}

func (m *mockModerator) Assess(ctx context.Context, text string) moderation.Verdict {
	args := m.Called(ctx, text)
	return args.Get(0).(moderation.Verdict)
}

// newModerator flags toxicText and passes everything else.
func newModerator() *mockModerator {
	m := &mockModerator{}
	m.On("Assess", mock.Anything, toxicText).Return(moderation.Verdict{IsToxic: true, Score: 0.98})
	m.On("Assess", mock.Anything, mock.Anything).Return(moderation.Verdict{Score: 0.05})
	return m
}

type mockDrafter struct {
	mock.Mock
}

func (m *mockDrafter) Draft(ctx context.Context, postContent, commentContent, authorName string) string {
	args := m.Called(ctx, postContent, commentContent, authorName)
	return args.String(0)
}

type mockScheduler struct {
	mock.Mock
}

func (m *mockScheduler) Schedule(key string, delay time.Duration, task scheduler.Task) scheduler.Handle {
	args := m.Called(key, delay, task)
	return args.Get(0).(scheduler.Handle)
}

func (m *mockScheduler) CancelKey(key string) int {
	args := m.Called(key)
	return args.Int(0)
}

type env struct {
	svc       *ContentService
	store     *store.MemoryStore
	moderator *mockModerator
	drafter   *mockDrafter
	scheduler *mockScheduler

	owner     *models.User
	commenter *models.User
	post      *models.Post
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemoryStore()
	owner := &models.User{Username: "owner", Email: "owner@test.com", Password: "x", AutoReplyEnabled: true, AutoReplyDelay: 0}
	require.NoError(t, st.CreateUser(ctx, owner))
	commenter := &models.User{Username: "commenter", Email: "commenter@test.com", Password: "x", AutoReplyDelay: models.DefaultAutoReplyDelay}
	require.NoError(t, st.CreateUser(ctx, commenter))
	post := &models.Post{UserID: owner.ID, Title: "Test Post", Content: "This is a test post"}
	require.NoError(t, st.CreatePost(ctx, post))

	log, _ := test.NewNullLogger()
	e := &env{
		store:     st,
		moderator: newModerator(),
		drafter:   &mockDrafter{},
		scheduler: &mockScheduler{},
		owner:     owner,
		commenter: commenter,
		post:      post,
	}
	e.svc = NewContentService(st, e.moderator, e.drafter, e.scheduler, log)
	return e
}

// captureTask expects one Schedule call and returns a pointer to the task it receives.
func (e *env) captureTask(key string, delay time.Duration) *scheduler.Task {
	var task scheduler.Task
	e.scheduler.On("Schedule", key, delay, mock.AnythingOfType("scheduler.Task")).
		Run(func(args mock.Arguments) { task = args.Get(2).(scheduler.Task) }).
		Return(scheduler.Handle{ID: "task-1", Key: key}).
		Once()
	return &task
}

var errBlockFailed = errors.New("connection reset by peer")

// blockFailingStore is the memory store with every block call failing.
type blockFailingStore struct {
	*store.MemoryStore
}

func (blockFailingStore) BlockPost(context.Context, int) (*models.Post, error) {
	return nil, errBlockFailed
}

func (blockFailingStore) BlockComment(context.Context, int) (*models.Comment, error) {
	return nil, errBlockFailed
}

// failBlocks rebuilds the service over a store that cannot block content.
func (e *env) failBlocks() {
	log, _ := test.NewNullLogger()
	e.svc = NewContentService(blockFailingStore{e.store}, e.moderator, e.drafter, e.scheduler, log)
}
