package models

// LoginRequest is the login payload. The PIN may be empty for accounts
// that never set one.
type LoginRequest struct {
	HouseNumber string `json:"house_number" binding:"required"`
	PIN         string `json:"pin"`
}

// SignupRequest registers a new resident account.
type SignupRequest struct {
	HouseNumber string `json:"house_number" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	PIN         string `json:"pin" binding:"required"`
}

// AuthResponse is returned on successful login or signup.
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// ChangePINRequest updates the caller's own PIN.
type ChangePINRequest struct {
	OldPIN string `json:"old_pin"`
	NewPIN string `json:"new_pin" binding:"required"`
}

// ResetPINRequest resets another user's PIN. An empty NewPIN falls back
// to the default PIN.
type ResetPINRequest struct {
	HouseNumber string `json:"house_number" binding:"required"`
	NewPIN      string `json:"new_pin"`
}

// UpdateRoleRequest toggles a user between RESIDENT and ADMIN.
type UpdateRoleRequest struct {
	Role UserRole `json:"role" binding:"required"`
}

// CreateQueryRequest submits a new query. At least one of Description,
// Image and VoiceMail must be present. Media fields carry base64 data,
// optionally as data URLs.
type CreateQueryRequest struct {
	Description   string `json:"description"`
	Image         string `json:"image"`
	VoiceMail     string `json:"voice_mail"`
	VoiceMimeType string `json:"voice_mime_type"`
}

// BigIssueRequest escalates a query with a free-text remediation ETA.
type BigIssueRequest struct {
	ETA string `json:"eta"`
}

// ResolveRequest is the admin resolution form. All three parts are
// mandatory.
type ResolveRequest struct {
	Text          string `json:"text"`
	Image         string `json:"image"`
	VoiceMail     string `json:"voice_mail"`
	VoiceMimeType string `json:"voice_mime_type"`
}

// ResolveResponse reports the audit outcome together with the updated
// query detail.
type ResolveResponse struct {
	Resolved     bool            `json:"resolved"`
	ManualReview bool            `json:"manual_review,omitempty"`
	Verification *AIVerification `json:"verification,omitempty"`
	Query        QueryDetail     `json:"query"`
}

// PostNoticeRequest creates a notice board post.
type PostNoticeRequest struct {
	Title   string     `json:"title" binding:"required"`
	Content string     `json:"content" binding:"required"`
	Type    NoticeType `json:"type" binding:"required"`
}

// PostMessageRequest sends a community chat message.
type PostMessageRequest struct {
	Type           MessageType `json:"type" binding:"required"`
	RecipientHouse string      `json:"recipient_house"`
	Content        string      `json:"content" binding:"required"`
}

// QueryDetail is the client-facing view of a query. Once a solution
// record exists the original payload is blanked and OriginalHidden is
// set; the timeline preserves the history.
type QueryDetail struct {
	Query
	StatusBadge    string `json:"status_badge"`
	OriginalHidden bool   `json:"original_hidden,omitempty"`
}

// Detail builds the client view of a query, applying the display rule
// that a solution record supersedes the original payload, even when the
// attached audit failed.
func (q Query) Detail() QueryDetail {
	d := QueryDetail{Query: q, StatusBadge: q.Status.Badge()}
	if q.Solution != nil {
		d.OriginalHidden = true
		d.Description = ""
		d.Image = ""
		d.VoiceMail = ""
		d.VoiceTranscript = ""
	}
	return d
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
