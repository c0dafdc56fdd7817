package handlers

import (
	"net/http"

	"societyhub/models"

	"github.com/gin-gonic/gin"
)

// GetMe returns the caller's own user record.
func (h *Handlers) GetMe(c *gin.Context) {
	u, err := h.service.User(c.GetString("house"))
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListUsers returns user metadata for the super admin view.
func (h *Handlers) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Users())
}

// UpdateUserRole toggles a user between RESIDENT and ADMIN. Super admin
// only.
func (h *Handlers) UpdateUserRole(c *gin.Context) {
	var req models.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.service.UpdateUserRole(c.Param("house"), req.Role); err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	u, err := h.service.User(c.Param("house"))
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, u)
}
