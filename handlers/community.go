package handlers

import (
	"net/http"

	"societyhub/models"

	"github.com/gin-gonic/gin"
)

// PostNotice creates a notice board post. Admin only.
func (h *Handlers) PostNotice(c *gin.Context) {
	var req models.PostNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	n, err := h.service.PostNotice(c.GetString("house"), req.Title, req.Content, req.Type)
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, n)
}

// ListNotices returns all notices, newest first.
func (h *Handlers) ListNotices(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Notices())
}

// DeleteNotice removes a notice board post. Admin only.
func (h *Handlers) DeleteNotice(c *gin.Context) {
	if err := h.service.DeleteNotice(c.Param("id")); err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notice deleted"})
}

// PostMessage sends a community chat message on behalf of the caller.
func (h *Handlers) PostMessage(c *gin.Context) {
	var req models.PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	m, err := h.service.PostChatMessage(
		c.GetString("house"),
		models.UserRole(c.GetString("role")),
		req.Type,
		req.RecipientHouse,
		req.Content,
	)
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMessages returns the caller's view of the message list. Without
// the "with" parameter it is the group conversation; with it, the
// direct conversation with that house.
func (h *Handlers) ListMessages(c *gin.Context) {
	msgs := h.service.MessagesFor(c.GetString("house"), c.Query("with"))
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	c.JSON(http.StatusOK, msgs)
}
