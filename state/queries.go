package state

import (
	"strings"
	"time"

	"societyhub/metrics"
	"societyhub/models"

	"github.com/google/uuid"
)

// Timeline messages written by the lifecycle engine.
const (
	MsgSubmitted    = "Query submitted successfully."
	MsgUnderReview  = "Admin has viewed your query."
	MsgUnderProcess = "Admin is working 'On It'."
	MsgBigIssue     = "Significant work required."
	MsgAuditFailed  = "Problem is being fixed. (AI Audit detected incomplete work)"
	MsgResolved     = "The problem has been resolved by the society admin."
)

// SubmitQuery creates a query in status NEW. At least one of the
// description, image and voice note must be present. When the
// description is empty and a transcript was produced, the transcript
// fills it.
func (s *Service) SubmitQuery(house, description, image, voiceMail, transcript string) (models.Query, error) {
	if strings.TrimSpace(description) == "" && image == "" && voiceMail == "" {
		return models.Query{}, ErrEmptyQuery
	}
	if strings.TrimSpace(description) == "" && transcript != "" {
		description = transcript
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	q := models.Query{
		ID:                  uuid.NewString(),
		ResidentHouseNumber: NormalizeHouse(house),
		Description:         description,
		Image:               image,
		VoiceMail:           voiceMail,
		VoiceTranscript:     transcript,
		Status:              models.StatusNew,
		CreatedAt:           now,
		Timeline: []models.StatusUpdate{
			{Status: models.StatusNew, Timestamp: now, Message: MsgSubmitted},
		},
	}
	// Newest first.
	s.state.Queries = append([]models.Query{q}, s.state.Queries...)
	s.persistLocked()
	metrics.QueriesCreatedTotal.Inc()
	return q, nil
}

// Queries returns all queries, newest first.
func (s *Service) Queries() []models.Query {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Query, len(s.state.Queries))
	copy(out, s.state.Queries)
	return out
}

// QueriesByHouse returns the queries owned by one resident.
func (s *Service) QueriesByHouse(house string) []models.Query {
	s.mu.Lock()
	defer s.mu.Unlock()

	normalized := NormalizeHouse(house)
	var out []models.Query
	for _, q := range s.state.Queries {
		if q.ResidentHouseNumber == normalized {
			out = append(out, q)
		}
	}
	return out
}

// Query returns one query by id.
func (s *Service) Query(id string) (models.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.findQueryLocked(id)
	if q == nil {
		return models.Query{}, ErrQueryNotFound
	}
	return *q, nil
}

func (s *Service) findQueryLocked(id string) *models.Query {
	for i := range s.state.Queries {
		if s.state.Queries[i].ID == id {
			return &s.state.Queries[i]
		}
	}
	return nil
}

// appendStatusLocked moves the query to a new status and appends exactly
// one timeline entry. The timeline is never reordered or truncated.
func appendStatusLocked(q *models.Query, status models.QueryStatus, message, eta string) {
	q.Status = status
	q.Timeline = append(q.Timeline, models.StatusUpdate{
		Status:    status,
		Timestamp: time.Now(),
		Message:   message,
		ETA:       eta,
	})
	metrics.StatusTransitionsTotal.WithLabelValues(string(status)).Inc()
}

// RecordAdminView advances a NEW query to UNDER_REVIEW the first time a
// regular admin opens it. Super admins are observers and never trigger
// the transition; repeated views never duplicate timeline entries.
func (s *Service) RecordAdminView(id string, viewerRole models.UserRole) (models.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.findQueryLocked(id)
	if q == nil {
		return models.Query{}, ErrQueryNotFound
	}
	if viewerRole == models.RoleAdmin && q.Status == models.StatusNew {
		appendStatusLocked(q, models.StatusUnderReview, MsgUnderReview, "")
		s.persistLocked()
	}
	return *q, nil
}

// MarkUnderProcess moves a NEW or UNDER_REVIEW query to UNDER_PROCESS.
func (s *Service) MarkUnderProcess(id string) (models.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.findQueryLocked(id)
	if q == nil {
		return models.Query{}, ErrQueryNotFound
	}
	switch q.Status {
	case models.StatusResolved:
		return models.Query{}, ErrQueryResolved
	case models.StatusNew, models.StatusUnderReview:
	default:
		return models.Query{}, ErrInvalidTransition
	}
	appendStatusLocked(q, models.StatusUnderProcess, MsgUnderProcess, "")
	s.persistLocked()
	return *q, nil
}

// MarkBigIssue escalates any active query, attaching a free-text ETA.
func (s *Service) MarkBigIssue(id, eta string) (models.Query, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.findQueryLocked(id)
	if q == nil {
		return models.Query{}, ErrQueryNotFound
	}
	if q.Status == models.StatusResolved {
		return models.Query{}, ErrQueryResolved
	}
	appendStatusLocked(q, models.StatusBigIssue, MsgBigIssue, eta)
	s.persistLocked()
	return *q, nil
}

// Resolve attaches the resolution record and applies the audit verdict.
// All three solution parts are mandatory. A nil verification means there
// was no problem image to compare against and counts as passed. On a
// failing verdict the query goes back to UNDER_REVIEW but the solution
// record is still attached so the audit trail stays visible.
func (s *Service) Resolve(id string, solution models.Solution, verification *models.AIVerification) (models.Query, error) {
	if strings.TrimSpace(solution.Text) == "" || solution.Image == "" || solution.VoiceMail == "" {
		return models.Query{}, ErrIncompleteSolution
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.findQueryLocked(id)
	if q == nil {
		return models.Query{}, ErrQueryNotFound
	}
	if q.Status == models.StatusResolved {
		return models.Query{}, ErrQueryResolved
	}

	solution.AIVerification = verification
	q.Solution = &solution

	if verification != nil && !verification.IsResolved {
		appendStatusLocked(q, models.StatusUnderReview, MsgAuditFailed, "")
	} else {
		appendStatusLocked(q, models.StatusResolved, MsgResolved, "")
	}
	s.persistLocked()
	return *q, nil
}

// AttachTranscript stores a best-effort transcript for the problem voice
// note, filling an empty description.
func (s *Service) AttachTranscript(id, transcript string) error {
	if transcript == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.findQueryLocked(id)
	if q == nil {
		return ErrQueryNotFound
	}
	q.VoiceTranscript = transcript
	if strings.TrimSpace(q.Description) == "" {
		q.Description = transcript
	}
	s.persistLocked()
	return nil
}
