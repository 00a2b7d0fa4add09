package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/service"
)

type UserHandler struct {
	svc *service.ContentService
	log logrus.FieldLogger
}

func NewUserHandler(svc *service.ContentService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// GetUserProfile returns a user and their visible posts
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	user, posts, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"posts": posts,
	})
}

// UpdateUserProfile changes the caller's username and email
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var input models.ProfileRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), userID, input.Username, input.Email)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateSettings changes the caller's auto-reply settings
func (h *UserHandler) UpdateSettings(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var input models.SettingsRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.UpdateSettings(c.Request.Context(), userID, *input.AutoReplyEnabled, *input.AutoReplyDelay)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
