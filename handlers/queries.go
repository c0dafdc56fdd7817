package handlers

import (
	"net/http"
	"time"

	"societyhub/metrics"
	"societyhub/models"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
)

// failOpenReason is attached when the audit provider is unavailable. The
// resolution is accepted anyway; the flag tells admins to double-check.
const failOpenReason = "Manual check required."

// CreateQuery submits a new query for the calling resident. A voice note
// is transcribed best-effort; transcription failures are logged and
// absorbed, never surfaced.
func (h *Handlers) CreateQuery(c *gin.Context) {
	var req models.CreateQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	transcript := ""
	if req.VoiceMail != "" {
		audio, err := decodeMedia(req.VoiceMail)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid voice note encoding"})
			return
		}
		transcript = h.transcribe(c, audio, req.VoiceMimeType)
	}

	q, err := h.service.SubmitQuery(c.GetString("house"), req.Description, req.Image, req.VoiceMail, transcript)
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, q.Detail())
}

// transcribe runs the speech-to-text call and absorbs failures.
func (h *Handlers) transcribe(c *gin.Context, audio []byte, mimeType string) string {
	transcript, err := h.ai.TranscribeAudio(c.Request.Context(), audio, mimeType)
	if err != nil {
		log.Errorf("Transcription failed: %v", err)
		metrics.TranscriptionsTotal.WithLabelValues("failed").Inc()
		return ""
	}
	metrics.TranscriptionsTotal.WithLabelValues("ok").Inc()
	return transcript
}

// ListQueries returns the queries visible to the caller: residents see
// their own, admins and the super admin see all.
func (h *Handlers) ListQueries(c *gin.Context) {
	role := models.UserRole(c.GetString("role"))
	if role == models.RoleResident {
		c.JSON(http.StatusOK, h.service.QueriesByHouse(c.GetString("house")))
		return
	}
	c.JSON(http.StatusOK, h.service.Queries())
}

// GetQuery returns one query's detail view. The first time a regular
// admin opens a NEW query it advances to UNDER_REVIEW; super admin
// views are observer-only.
func (h *Handlers) GetQuery(c *gin.Context) {
	role := models.UserRole(c.GetString("role"))
	q, err := h.service.RecordAdminView(c.Param("id"), role)
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, q.Detail())
}

// MarkOnIt moves a query to UNDER_PROCESS.
func (h *Handlers) MarkOnIt(c *gin.Context) {
	q, err := h.service.MarkUnderProcess(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, q.Detail())
}

// MarkBigIssue escalates a query with a free-text remediation ETA.
func (h *Handlers) MarkBigIssue(c *gin.Context) {
	var req models.BigIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}

	q, err := h.service.MarkBigIssue(c.Param("id"), req.ETA)
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, q.Detail())
}

// ResolveQuery accepts the admin resolution form, runs the AI audit when
// the original query carries a problem image, and applies the verdict.
// A provider outage does not block the resolution: the audit is treated
// as passed and flagged for manual review.
func (h *Handlers) ResolveQuery(c *gin.Context) {
	var req models.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	}
	if req.Text == "" || req.Image == "" || req.VoiceMail == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "resolution requires a fix image, voice summary and written note"})
		return
	}

	original, err := h.service.Query(c.Param("id"))
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	solution := models.Solution{
		Text:      req.Text,
		Image:     req.Image,
		VoiceMail: req.VoiceMail,
	}

	// Best-effort transcription of the admin's voice summary.
	audio, err := decodeMedia(req.VoiceMail)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid voice note encoding"})
		return
	}
	solution.ResolutionTranscript = h.transcribe(c, audio, req.VoiceMimeType)

	var verification *models.AIVerification
	manualReview := false
	if original.Image != "" {
		verification, manualReview = h.audit(c, original.Image, req.Image)
	}

	q, err := h.service.Resolve(original.ID, solution, verification)
	if err != nil {
		c.JSON(statusForError(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.ResolveResponse{
		Resolved:     q.Status == models.StatusResolved,
		ManualReview: manualReview,
		Verification: verification,
		Query:        q.Detail(),
	})
}

// audit compares the problem and fix images. The second return value is
// true when the provider failed and the fail-open verdict was used.
func (h *Handlers) audit(c *gin.Context, problemImage, fixImage string) (*models.AIVerification, bool) {
	failOpen := &models.AIVerification{IsResolved: true, Reason: failOpenReason}

	problem, err := decodeMedia(problemImage)
	if err != nil {
		log.Errorf("Failed to decode problem image: %v", err)
		metrics.AuditsTotal.WithLabelValues("fail_open").Inc()
		return failOpen, true
	}
	fix, err := decodeMedia(fixImage)
	if err != nil {
		log.Errorf("Failed to decode fix image: %v", err)
		metrics.AuditsTotal.WithLabelValues("fail_open").Inc()
		return failOpen, true
	}

	start := time.Now()
	verification, err := h.ai.VerifyResolution(c.Request.Context(), problem, fix)
	metrics.AuditDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		log.Errorf("AI audit failed, falling back to manual review: %v", err)
		metrics.AuditsTotal.WithLabelValues("fail_open").Inc()
		return failOpen, true
	}

	if verification.IsResolved {
		metrics.AuditsTotal.WithLabelValues("passed").Inc()
	} else {
		metrics.AuditsTotal.WithLabelValues("failed").Inc()
	}
	return verification, false
}
