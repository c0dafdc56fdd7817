package state

import "errors"

var (
	// ErrUserNotFound is returned when no user exists for a house number.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned on a PIN mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrHouseTaken is returned when signing up an already registered house.
	ErrHouseTaken = errors.New("house already registered")
	// ErrInvalidRole is returned for an unknown or disallowed role value.
	ErrInvalidRole = errors.New("invalid role")
	// ErrProtectedUser is returned when changing the super admin account.
	ErrProtectedUser = errors.New("super admin role cannot be changed")

	// ErrQueryNotFound is returned when no query exists for an id.
	ErrQueryNotFound = errors.New("query not found")
	// ErrEmptyQuery is returned when a submission has no payload at all.
	ErrEmptyQuery = errors.New("query requires a description, image or voice note")
	// ErrIncompleteSolution is returned when a resolution is missing one
	// of its three mandatory parts.
	ErrIncompleteSolution = errors.New("resolution requires a fix image, voice summary and written note")
	// ErrQueryResolved is returned on any transition of a resolved query.
	ErrQueryResolved = errors.New("query is already resolved")
	// ErrInvalidTransition is returned for a disallowed status change.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNoticeNotFound is returned when deleting an unknown notice.
	ErrNoticeNotFound = errors.New("notice not found")
	// ErrInvalidNoticeType is returned for an unknown notice type.
	ErrInvalidNoticeType = errors.New("invalid notice type")

	// ErrRecipientRequired is returned for a direct message without a
	// recipient house.
	ErrRecipientRequired = errors.New("direct messages require a recipient")
	// ErrInvalidMessageType is returned for an unknown message scope.
	ErrInvalidMessageType = errors.New("invalid message type")
)
