package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"societyhub/llm"
	"societyhub/state"
	"societyhub/version"

	"github.com/gin-gonic/gin"
)

// Handlers handles HTTP requests for the society service.
type Handlers struct {
	service *state.Service
	ai      llm.Client
}

// NewHandlers creates a new handlers instance
func NewHandlers(service *state.Service, ai llm.Client) *Handlers {
	return &Handlers{
		service: service,
		ai:      ai,
	}
}

// HealthCheck returns service health status
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "societyhub-service",
		"version": version.Version,
	})
}

// statusForError maps state errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, state.ErrUserNotFound),
		errors.Is(err, state.ErrQueryNotFound),
		errors.Is(err, state.ErrNoticeNotFound):
		return http.StatusNotFound
	case errors.Is(err, state.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, state.ErrHouseTaken),
		errors.Is(err, state.ErrQueryResolved),
		errors.Is(err, state.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, state.ErrProtectedUser):
		return http.StatusForbidden
	case errors.Is(err, state.ErrEmptyQuery),
		errors.Is(err, state.ErrIncompleteSolution),
		errors.Is(err, state.ErrInvalidRole),
		errors.Is(err, state.ErrInvalidNoticeType),
		errors.Is(err, state.ErrRecipientRequired),
		errors.Is(err, state.ErrInvalidMessageType):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeMedia decodes a base64 media field, tolerating data URLs
// (e.g. "data:image/png;base64,...").
func decodeMedia(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	if idx := strings.Index(s, ","); idx != -1 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	return base64.StdEncoding.DecodeString(s)
}
