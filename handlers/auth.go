package handlers

import (
	"net/http"

	"societyhub/models"
	"societyhub/state"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

const minPINLength = 3

// Login authenticates a house number and PIN and issues a session token.
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := h.service.Login(req.HouseNumber, req.PIN)
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.service.IssueToken(user)
	if err != nil {
		log.Errorf("Failed to issue token: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{Token: token, User: user.Public()})
}

// Signup registers a resident account and logs it in.
func (h *Handlers) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if len(req.Phone) != 11 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "phone number must be 11 digits"})
		return
	}
	if len(req.PIN) < minPINLength {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "PIN must be at least 3 characters"})
		return
	}

	// Self-registration is for residents only; admins are promoted by
	// the super admin afterwards.
	user, err := h.service.Signup(req.HouseNumber, req.Phone, models.RoleResident, req.PIN)
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.service.IssueToken(user)
	if err != nil {
		log.Errorf("Failed to issue token: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{Token: token, User: user.Public()})
}

// ChangePIN updates the caller's own PIN.
func (h *Handlers) ChangePIN(c *gin.Context) {
	var req models.ChangePINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if len(req.NewPIN) < minPINLength {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "PIN must be at least 3 characters"})
		return
	}

	if err := h.service.ChangePassword(c.GetString("house"), req.OldPIN, req.NewPIN); err != nil {
		if err == state.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "old PIN is incorrect"})
			return
		}
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "PIN changed successfully"})
}

// ResetPIN resets another user's PIN. Super admin only; an omitted PIN
// falls back to the default.
func (h *Handlers) ResetPIN(c *gin.Context) {
	var req models.ResetPINRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if req.NewPIN != "" && len(req.NewPIN) < minPINLength {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "PIN must be at least 3 characters"})
		return
	}

	if err := h.service.ResetPassword(req.HouseNumber, req.NewPIN); err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "password has been reset",
		"house":   state.NormalizeHouse(req.HouseNumber),
	})
}
