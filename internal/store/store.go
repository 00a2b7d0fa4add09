// Package store persists users, posts and comments.
package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// Store is the content store shared by request handlers and deferred tasks.
// Every call is an independent short statement; callers must not hold
// returned entities across long waits and expect them to stay current.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserSettings(ctx context.Context, userID int, autoReplyEnabled bool, delaySeconds int) (*models.User, error)
	UpdateUserProfile(ctx context.Context, userID int, username, email string) (*models.User, error)

	CreatePost(ctx context.Context, post *models.Post) error
	GetPost(ctx context.Context, id int) (*models.Post, error)
	// ListPosts returns non-blocked posts, oldest first.
	ListPosts(ctx context.Context, offset, limit int) ([]models.Post, error)
	// ListPostsByUser returns the user's non-blocked posts, oldest first.
	ListPostsByUser(ctx context.Context, userID int) ([]models.Post, error)
	UpdatePost(ctx context.Context, id int, title, content string) (*models.Post, error)
	DeletePost(ctx context.Context, id int) error
	BlockPost(ctx context.Context, id int) (*models.Post, error)

	CreateComment(ctx context.Context, content string, postID, userID int) (*models.Comment, error)
	CreateReply(ctx context.Context, content string, postID, userID, parentID int) (*models.Comment, error)
	GetComment(ctx context.Context, id int) (*models.Comment, error)
	// ListCommentsByPost returns non-blocked comments, oldest first.
	ListCommentsByPost(ctx context.Context, postID int) ([]models.Comment, error)
	UpdateComment(ctx context.Context, id int, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, id int) error
	BlockComment(ctx context.Context, id int) (*models.Comment, error)

	// CommentsBreakdown counts comments per post per day for comments
	// created within [from, to].
	CommentsBreakdown(ctx context.Context, from, to time.Time) ([]models.PostCommentStats, error)
}
