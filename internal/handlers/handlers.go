package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/middleware"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/service"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth    *AuthHandler
	Post    *PostHandler
	Comment *CommentHandler
	User    *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(st store.Store, svc *service.ContentService, jwtSecret []byte, log logrus.FieldLogger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(st, jwtSecret, log),
		Post:    NewPostHandler(svc, log),
		Comment: NewCommentHandler(svc, log),
		User:    NewUserHandler(svc, log),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get(middleware.UserIDKey)
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// mustUserID writes a 401 and returns false when the request is unauthenticated.
func mustUserID(c *gin.Context) (int, bool) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return userID, ok
}

func paramID(c *gin.Context, name, what string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + " ID"})
		return 0, false
	}
	return id, true
}

// respondError maps service error kinds to HTTP statuses.
func respondError(c *gin.Context, log logrus.FieldLogger, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, service.ErrConflict):
			status = http.StatusConflict
		case errors.Is(err, service.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, service.ErrInvalid):
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": svcErr.Detail})
		return
	}

	log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
