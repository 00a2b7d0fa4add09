package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var _ Store = (*GormStore)(nil)

// GormStore implements Store on top of gorm/postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Wrap(ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			// The referenced user, post or parent comment is gone.
			return errors.Wrap(ErrNotFound, pgErr.ConstraintName)
		}
	}
	return errors.Wrap(err, msg)
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error, "failed to create user")
}

func (s *GormStore) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "failed to get user")
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "failed to get user by email")
	}
	return &user, nil
}

func (s *GormStore) UpdateUserSettings(ctx context.Context, userID int, autoReplyEnabled bool, delaySeconds int) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"auto_reply_enabled": autoReplyEnabled,
		"auto_reply_delay":   delaySeconds,
	})
	if res.Error != nil {
		return nil, translate(res.Error, "failed to update user settings")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUserByID(ctx, userID)
}

func (s *GormStore) UpdateUserProfile(ctx context.Context, userID int, username, email string) (*models.User, error) {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]any{
		"username": username,
		"email":    email,
	})
	if res.Error != nil {
		return nil, translate(res.Error, "failed to update user profile")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUserByID(ctx, userID)
}

func (s *GormStore) CreatePost(ctx context.Context, post *models.Post) error {
	return translate(s.db.WithContext(ctx).Create(post).Error, "failed to create post")
}

func (s *GormStore) GetPost(ctx context.Context, id int) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err, "failed to get post")
	}
	return &post, nil
}

func (s *GormStore) ListPosts(ctx context.Context, offset, limit int) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.db.WithContext(ctx).
		Where("is_blocked = ?", false).
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "failed to list posts")
	}
	return posts, nil
}

func (s *GormStore) ListPostsByUser(ctx context.Context, userID int) ([]models.Post, error) {
	posts := []models.Post{}
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_blocked = ?", userID, false).
		Order("id asc").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "failed to list user posts")
	}
	return posts, nil
}

func (s *GormStore) UpdatePost(ctx context.Context, id int, title, content string) (*models.Post, error) {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Updates(map[string]any{
		"title":   title,
		"content": content,
	})
	if res.Error != nil {
		return nil, translate(res.Error, "failed to update post")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetPost(ctx, id)
}

func (s *GormStore) DeletePost(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return translate(res.Error, "failed to delete post")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) BlockPost(ctx context.Context, id int) (*models.Post, error) {
	res := s.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Update("is_blocked", true)
	if res.Error != nil {
		return nil, translate(res.Error, "failed to block post")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetPost(ctx, id)
}

func (s *GormStore) CreateComment(ctx context.Context, content string, postID, userID int) (*models.Comment, error) {
	comment := models.Comment{Content: content, PostID: postID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, translate(err, "failed to create comment")
	}
	return &comment, nil
}

func (s *GormStore) CreateReply(ctx context.Context, content string, postID, userID, parentID int) (*models.Comment, error) {
	comment := models.Comment{Content: content, PostID: postID, UserID: userID, ParentCommentID: &parentID}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, translate(err, "failed to create reply")
	}
	return &comment, nil
}

func (s *GormStore) GetComment(ctx context.Context, id int) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err, "failed to get comment")
	}
	return &comment, nil
}

func (s *GormStore) ListCommentsByPost(ctx context.Context, postID int) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND is_blocked = ?", postID, false).
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, translate(err, "failed to list comments")
	}
	return comments, nil
}

func (s *GormStore) UpdateComment(ctx context.Context, id int, content string) (*models.Comment, error) {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("content", content)
	if res.Error != nil {
		return nil, translate(res.Error, "failed to update comment")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetComment(ctx, id)
}

func (s *GormStore) DeleteComment(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return translate(res.Error, "failed to delete comment")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) BlockComment(ctx context.Context, id int) (*models.Comment, error) {
	res := s.db.WithContext(ctx).Model(&models.Comment{}).Where("id = ?", id).Update("is_blocked", true)
	if res.Error != nil {
		return nil, translate(res.Error, "failed to block comment")
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetComment(ctx, id)
}

type breakdownRow struct {
	PostID          int
	Day             string
	TotalComments   int
	BlockedComments int
}

func (s *GormStore) CommentsBreakdown(ctx context.Context, from, to time.Time) ([]models.PostCommentStats, error) {
	var rows []breakdownRow
	err := s.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select(`post_id,
			to_char(date(created_at), 'YYYY-MM-DD') AS day,
			count(id) AS total_comments,
			sum(CASE WHEN is_blocked THEN 1 ELSE 0 END) AS blocked_comments`).
		Where("created_at >= ? AND created_at <= ?", from, to).
		Group("post_id, date(created_at)").
		Order("post_id, date(created_at)").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "failed to compute comments breakdown")
	}
	return groupBreakdown(rows), nil
}

func groupBreakdown(rows []breakdownRow) []models.PostCommentStats {
	result := []models.PostCommentStats{}
	index := make(map[int]int)
	for _, row := range rows {
		i, ok := index[row.PostID]
		if !ok {
			i = len(result)
			index[row.PostID] = i
			result = append(result, models.PostCommentStats{PostID: row.PostID})
		}
		result[i].Stats = append(result[i].Stats, models.DailyCommentStats{
			Date:            row.Day,
			TotalComments:   row.TotalComments,
			BlockedComments: row.BlockedComments,
		})
	}
	return result
}
