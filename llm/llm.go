package llm

import (
	"context"

	"societyhub/models"
)

// Client abstracts the external AI collaborator.
// Implementations must be concurrency-safe if used across goroutines.
type Client interface {
	// TranscribeAudio takes raw audio bytes and a MIME type and returns
	// the plain transcript text.
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
	// VerifyResolution compares the problem image against the fix image
	// and returns the audit verdict.
	VerifyResolution(ctx context.Context, problemImage, fixImage []byte) (*models.AIVerification, error)
	// SourceName returns a short provider label (e.g., "Gemini").
	SourceName() string
}
