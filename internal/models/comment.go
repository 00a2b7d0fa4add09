package models

import "time"

type Comment struct {
	ID      int    `gorm:"primaryKey" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	PostID  int    `gorm:"not null;index" json:"post_id"`
	Post    *Post  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	UserID  int    `gorm:"not null;index" json:"user_id"`
	User    *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`

	// ParentCommentID is set on replies; nil for top-level comments.
	ParentCommentID *int     `gorm:"index" json:"parent_comment_id"`
	ParentComment   *Comment `gorm:"foreignKey:ParentCommentID;constraint:OnDelete:CASCADE" json:"-"`

	IsBlocked bool      `gorm:"not null;default:false" json:"is_blocked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsReply reports whether the comment is threaded under another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// DailyCommentStats counts the comments a post received on one day.
type DailyCommentStats struct {
	Date            string `json:"date"` // YYYY-MM-DD
	TotalComments   int    `json:"total_comments"`
	BlockedComments int    `json:"blocked_comments"`
}

// PostCommentStats groups daily stats for a single post.
type PostCommentStats struct {
	PostID int                 `json:"post_id"`
	Stats  []DailyCommentStats `json:"stats"`
}
