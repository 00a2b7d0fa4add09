package models

import "time"

// DefaultAutoReplyDelay is the auto-reply delay, in seconds, given to new users.
const DefaultAutoReplyDelay = 60

type User struct {
	ID       int    `gorm:"primaryKey" json:"id"`
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash

	AutoReplyEnabled bool `gorm:"not null" json:"auto_reply_enabled"`
	AutoReplyDelay   int  `gorm:"not null;check:auto_reply_delay >= 0" json:"auto_reply_delay"` // seconds

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AutoReplyDelayDuration returns the configured delay as a time.Duration.
func (u *User) AutoReplyDelayDuration() time.Duration {
	if u.AutoReplyDelay < 0 {
		return 0
	}
	return time.Duration(u.AutoReplyDelay) * time.Second
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SettingsRequest struct {
	AutoReplyEnabled *bool `json:"auto_reply_enabled" binding:"required"`
	AutoReplyDelay   *int  `json:"auto_reply_delay" binding:"required"`
}

// ProfileRequest updates username and email. Empty fields are left as they are.
type ProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}
