package models

import "time"

// UserRole identifies what a user is allowed to do in the society.
type UserRole string

const (
	RoleResident   UserRole = "RESIDENT"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// Valid reports whether the role is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleResident, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// QueryStatus is the lifecycle state of a resident query.
type QueryStatus string

const (
	StatusNew          QueryStatus = "NEW"
	StatusUnderReview  QueryStatus = "UNDER_REVIEW"
	StatusUnderProcess QueryStatus = "UNDER_PROCESS"
	StatusBigIssue     QueryStatus = "BIG_ISSUE"
	StatusResolved     QueryStatus = "RESOLVED"
)

// statusBadges maps each status to its short display label.
var statusBadges = map[QueryStatus]string{
	StatusNew:          "NEW",
	StatusUnderReview:  "REVIEW",
	StatusUnderProcess: "FIXING",
	StatusBigIssue:     "BIG ISSUE",
	StatusResolved:     "RESOLVED",
}

// Badge returns the display label for the status.
func (s QueryStatus) Badge() string {
	if b, ok := statusBadges[s]; ok {
		return b
	}
	return string(s)
}

// User is a registered society member. The house number is the sole key.
type User struct {
	HouseNumber  string   `json:"house_number"`
	Phone        string   `json:"phone"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"password_hash,omitempty"`
}

// PublicUser is the client-facing view of a user, without credentials.
type PublicUser struct {
	HouseNumber string   `json:"house_number"`
	Phone       string   `json:"phone"`
	Role        UserRole `json:"role"`
	HasPIN      bool     `json:"has_pin"`
}

// Public strips credential material from a user record.
func (u User) Public() PublicUser {
	return PublicUser{
		HouseNumber: u.HouseNumber,
		Phone:       u.Phone,
		Role:        u.Role,
		HasPIN:      u.PasswordHash != "",
	}
}

// StatusUpdate is one entry in a query's timeline. ETA is free text and
// only meaningful for BIG_ISSUE entries.
type StatusUpdate struct {
	Status    QueryStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Message   string      `json:"message"`
	ETA       string      `json:"eta,omitempty"`
}

// AIVerification is the audit verdict returned by the vision model.
type AIVerification struct {
	IsResolved bool   `json:"is_resolved"`
	Reason     string `json:"reason"`
}

// Solution is the admin's resolution record. Text is mandatory once the
// record exists; the verification is kept even when it failed so the
// audit trail stays visible.
type Solution struct {
	Text                 string          `json:"text"`
	Image                string          `json:"image,omitempty"`
	VoiceMail            string          `json:"voice_mail,omitempty"`
	ResolutionTranscript string          `json:"resolution_transcript,omitempty"`
	AIVerification       *AIVerification `json:"ai_verification,omitempty"`
}

// Query is a resident-submitted complaint. The timeline is append-only
// and never reordered.
type Query struct {
	ID                  string         `json:"id"`
	ResidentHouseNumber string         `json:"resident_house_number"`
	Description         string         `json:"description,omitempty"`
	Image               string         `json:"image,omitempty"`
	VoiceMail           string         `json:"voice_mail,omitempty"`
	VoiceTranscript     string         `json:"voice_transcript,omitempty"`
	Status              QueryStatus    `json:"status"`
	CreatedAt           time.Time      `json:"created_at"`
	Timeline            []StatusUpdate `json:"timeline"`
	Solution            *Solution      `json:"solution,omitempty"`
}

// NoticeType categorizes a notice board post.
type NoticeType string

const (
	NoticeInfo  NoticeType = "INFO"
	NoticeAlert NoticeType = "ALERT"
	NoticeEvent NoticeType = "EVENT"
)

// Valid reports whether the notice type is known.
func (t NoticeType) Valid() bool {
	switch t {
	case NoticeInfo, NoticeAlert, NoticeEvent:
		return true
	}
	return false
}

// Notice is a notice board post authored by an admin.
type Notice struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Type      NoticeType `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
	Author    string     `json:"author"`
}

// MessageType is the visibility scope of a chat message.
type MessageType string

const (
	MessageGroup  MessageType = "GROUP"
	MessageDirect MessageType = "DIRECT"
)

// ChatMessage is an append-only community message. Direct messages
// always carry a recipient house.
type ChatMessage struct {
	ID             string      `json:"id"`
	SenderHouse    string      `json:"sender_house"`
	SenderRole     UserRole    `json:"sender_role"`
	Type           MessageType `json:"type"`
	RecipientHouse string      `json:"recipient_house,omitempty"`
	Content        string      `json:"content"`
	Timestamp      time.Time   `json:"timestamp"`
}

// AppState is the whole application state, persisted wholesale as a
// single snapshot document after every accepted mutation.
type AppState struct {
	Users        []User        `json:"users"`
	Queries      []Query       `json:"queries"`
	Notices      []Notice      `json:"notices"`
	ChatMessages []ChatMessage `json:"chat_messages"`
}
