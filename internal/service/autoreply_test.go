package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/scheduler"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/store"
)

func TestRunAutoReplySkipsWhenOwnerDisabledInTheMeantime(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task := e.captureTask("comment:1", 0)
	comment, err := e.svc.CreateComment(ctx, e.commenter.ID, e.post.ID, "Test comment")
	require.NoError(t, err)

	_, err = e.store.UpdateUserSettings(ctx, e.owner.ID, false, 0)
	require.NoError(t, err)

	(*task)(ctx)

	comments, err := e.store.ListCommentsByPost(ctx, e.post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, comment.ID, comments[0].ID)
	e.drafter.AssertNotCalled(t, "Draft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunAutoReplyIsNotIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.drafter.On("Draft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("Thank you for your comment!")

	comment, err := e.store.CreateComment(ctx, "Test comment", e.post.ID, e.commenter.ID)
	require.NoError(t, err)

	first, err := e.svc.RunAutoReply(ctx, e.owner.ID, comment.ID)
	require.NoError(t, err)
	second, err := e.svc.RunAutoReply(ctx, e.owner.ID, comment.ID)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	comments, err := e.store.ListCommentsByPost(ctx, e.post.ID)
	require.NoError(t, err)
	assert.Len(t, comments, 3)
}

func TestRunAutoReplyReadsCurrentContent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	comment, err := e.store.CreateComment(ctx, "Test comment", e.post.ID, e.commenter.ID)
	require.NoError(t, err)
	_, err = e.store.UpdatePost(ctx, e.post.ID, "Test Post", "Edited post")
	require.NoError(t, err)
	_, err = e.store.UpdateComment(ctx, comment.ID, "Edited comment")
	require.NoError(t, err)

	e.drafter.On("Draft", mock.Anything, "Edited post", "Edited comment", "owner").Return("Noted").Once()

	reply, err := e.svc.RunAutoReply(ctx, e.owner.ID, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Noted", reply.Content)
	e.drafter.AssertExpectations(t)
}

func TestRunAutoReplyMissingComment(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.RunAutoReply(context.Background(), e.owner.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAutoReplyWithRealScheduler(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	log, _ := test.NewNullLogger()

	sched := scheduler.New(scheduler.WithLogger(log))
	t.Cleanup(func() { _ = sched.Shutdown(context.Background()) })
	e.svc.scheduler = sched

	var drafted atomic.Int32
	e.drafter.On("Draft", mock.Anything, "This is a test post", "Test comment", "owner").
		Run(func(mock.Arguments) { drafted.Add(1) }).
		Return("Thank you for your comment!")

	comment, err := e.svc.CreateComment(ctx, e.commenter.ID, e.post.ID, "Test comment")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		comments, err := e.store.ListCommentsByPost(ctx, e.post.ID)
		return err == nil && len(comments) == 2
	}, 2*time.Second, 10*time.Millisecond)

	comments, err := e.store.ListCommentsByPost(ctx, e.post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	reply := comments[1]
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, comment.ID, *reply.ParentCommentID)
	assert.Equal(t, e.owner.ID, reply.UserID)
	assert.Equal(t, "Thank you for your comment!", reply.Content)
	assert.Equal(t, int32(1), drafted.Load())
}

func TestRunAutoReplySkipsPostBlockedInTheMeantime(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task := e.captureTask("comment:1", 0)
	_, err := e.svc.CreateComment(ctx, e.commenter.ID, e.post.ID, "Test comment")
	require.NoError(t, err)

	blocked, err := e.svc.UpdatePost(ctx, e.owner.ID, e.post.ID, "", toxicText)
	require.NoError(t, err)
	require.True(t, blocked.IsBlocked)

	(*task)(ctx)

	reply, err := e.svc.RunAutoReply(ctx, e.owner.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, reply)

	_, err = e.store.GetComment(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNotFound, "no reply may be attached to a blocked post")
	e.drafter.AssertNotCalled(t, "Draft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRunAutoReplySkipsCommentBlockedInTheMeantime(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	task := e.captureTask("comment:1", 0)
	comment, err := e.svc.CreateComment(ctx, e.commenter.ID, e.post.ID, "Test comment")
	require.NoError(t, err)

	blocked, err := e.svc.UpdateComment(ctx, e.commenter.ID, comment.ID, toxicText)
	require.NoError(t, err)
	require.True(t, blocked.IsBlocked)

	(*task)(ctx)

	_, err = e.store.GetComment(ctx, comment.ID+1)
	assert.ErrorIs(t, err, store.ErrNotFound, "no reply may be posted under a blocked comment")
	e.drafter.AssertNotCalled(t, "Draft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
