package state

import (
	"time"

	"societyhub/models"

	"github.com/google/uuid"
)

// PostNotice creates a notice board post. Notices are kept newest first.
func (s *Service) PostNotice(author, title, content string, noticeType models.NoticeType) (models.Notice, error) {
	if !noticeType.Valid() {
		return models.Notice{}, ErrInvalidNoticeType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := models.Notice{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Type:      noticeType,
		Timestamp: time.Now(),
		Author:    NormalizeHouse(author),
	}
	s.state.Notices = append([]models.Notice{n}, s.state.Notices...)
	s.persistLocked()
	return n, nil
}

// Notices returns all notices, newest first.
func (s *Service) Notices() []models.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Notice, len(s.state.Notices))
	copy(out, s.state.Notices)
	return out
}

// DeleteNotice removes a notice board post.
func (s *Service) DeleteNotice(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.state.Notices {
		if n.ID == id {
			s.state.Notices = append(s.state.Notices[:i], s.state.Notices[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return ErrNoticeNotFound
}

// PostChatMessage appends a community message. Direct messages must
// carry a recipient house.
func (s *Service) PostChatMessage(sender string, senderRole models.UserRole, msgType models.MessageType, recipient, content string) (models.ChatMessage, error) {
	switch msgType {
	case models.MessageGroup:
		recipient = ""
	case models.MessageDirect:
		recipient = NormalizeHouse(recipient)
		if recipient == "" {
			return models.ChatMessage{}, ErrRecipientRequired
		}
	default:
		return models.ChatMessage{}, ErrInvalidMessageType
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m := models.ChatMessage{
		ID:             uuid.NewString(),
		SenderHouse:    NormalizeHouse(sender),
		SenderRole:     senderRole,
		Type:           msgType,
		RecipientHouse: recipient,
		Content:        content,
		Timestamp:      time.Now(),
	}
	s.state.ChatMessages = append(s.state.ChatMessages, m)
	s.persistLocked()
	return m, nil
}

// MessagesFor filters the message list for one viewer. An empty peer
// selects the group conversation; messages recorded before scopes
// existed count as group messages. A peer selects the direct
// conversation between the viewer and that house, matched symmetrically
// regardless of who sent last.
func (s *Service) MessagesFor(viewer, peer string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	viewer = NormalizeHouse(viewer)
	peer = NormalizeHouse(peer)

	var out []models.ChatMessage
	for _, m := range s.state.ChatMessages {
		if peer == "" {
			if m.Type == models.MessageGroup || m.Type == "" {
				out = append(out, m)
			}
			continue
		}
		if m.Type != models.MessageDirect {
			continue
		}
		if (m.SenderHouse == viewer && m.RecipientHouse == peer) ||
			(m.SenderHouse == peer && m.RecipientHouse == viewer) {
			out = append(out, m)
		}
	}
	return out
}
