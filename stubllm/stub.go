package stubllm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"societyhub/models"
)

// Client is a deterministic, no-network AI stub intended for CI and local
// end-to-end tests. Verdicts and failures are configurable so the full
// resolve path, including the fail-open branch, can be exercised.
type Client struct {
	// Resolved is the verdict VerifyResolution returns.
	Resolved bool
	// Reason overrides the verdict reason when non-empty.
	Reason string
	// Fail makes every call return an error, simulating a provider outage.
	Fail bool
}

func NewClient() *Client { return &Client{Resolved: true} }

func (c *Client) SourceName() string { return "Stub" }

func (c *Client) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if c.Fail {
		return "", errors.New("stub transcription failure")
	}
	// Deterministic per-input transcript so tests are stable.
	sum := sha256.Sum256(audio)
	return fmt.Sprintf("stub transcript %s", hex.EncodeToString(sum[:4])), nil
}

func (c *Client) VerifyResolution(ctx context.Context, problemImage, fixImage []byte) (*models.AIVerification, error) {
	if c.Fail {
		return nil, errors.New("stub audit failure")
	}
	reason := c.Reason
	if reason == "" {
		if c.Resolved {
			reason = "The reported issue is no longer visible."
		} else {
			reason = "The reported issue is still visible."
		}
	}
	return &models.AIVerification{IsResolved: c.Resolved, Reason: reason}, nil
}
