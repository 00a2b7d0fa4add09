package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/service"
)

const defaultPageSize = 10

type PostHandler struct {
	svc *service.ContentService
	log logrus.FieldLogger
}

func NewPostHandler(svc *service.ContentService, log logrus.FieldLogger) *PostHandler {
	return &PostHandler{svc: svc, log: log}
}

// GetPosts returns visible posts, paginated with skip and limit
func (h *PostHandler) GetPosts(c *gin.Context) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "skip must be an integer"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	posts, err := h.svc.ListPosts(c.Request.Context(), skip, limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost returns a single visible post
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	post, err := h.svc.GetPost(c.Request.Context(), postID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost creates and screens a new post
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.svc.CreatePost(c.Request.Context(), userID, input.Title, input.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// UpdatePost updates a post (owner only)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	var input models.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.svc.UpdatePost(c.Request.Context(), userID, postID, input.Title, input.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// DeletePost deletes a post and its comments (owner only)
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	post, err := h.svc.DeletePost(c.Request.Context(), userID, postID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
