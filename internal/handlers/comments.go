package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/models"
	"github.com/Dmytro-Kruhlov/test-task-for-StarNAVI/internal/service"
)

const dateLayout = "2006-01-02"

type CommentHandler struct {
	svc *service.ContentService
	log logrus.FieldLogger
}

func NewCommentHandler(svc *service.ContentService, log logrus.FieldLogger) *CommentHandler {
	return &CommentHandler{svc: svc, log: log}
}

// GetComments returns the visible comments of a visible post
func (h *CommentHandler) GetComments(c *gin.Context) {
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	comments, err := h.svc.ListComments(c.Request.Context(), postID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment creates a new comment on a post
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	var input models.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.CreateComment(c.Request.Context(), userID, postID, input.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetComment returns one comment; blocked comments only to their author
func (h *CommentHandler) GetComment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId", "comment")
	if !ok {
		return
	}

	comment, err := h.svc.GetComment(c.Request.Context(), userID, commentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// UpdateComment updates a comment (owner only)
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId", "comment")
	if !ok {
		return
	}

	var input models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.svc.UpdateComment(c.Request.Context(), userID, commentID, input.Content)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment deletes a comment and its replies (owner only)
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "commentId", "comment")
	if !ok {
		return
	}

	comment, err := h.svc.DeleteComment(c.Request.Context(), userID, commentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Breakdown returns daily total and blocked comment counts per post
func (h *CommentHandler) Breakdown(c *gin.Context) {
	from, err := parseDate(c.Query("date_from"), false)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_from must be RFC3339 or YYYY-MM-DD"})
		return
	}
	to, err := parseDate(c.Query("date_to"), true)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date_to must be RFC3339 or YYYY-MM-DD"})
		return
	}

	stats, err := h.svc.CommentsBreakdown(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// parseDate accepts RFC3339 timestamps or plain dates. A plain date used as
// an upper bound covers the whole day.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
