package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"societyhub/models"
	"societyhub/parser"
)

const promptTranscribe = "Listen carefully and transcribe the audio text exactly as spoken. Respond ONLY with the transcript text. If the language is Urdu or Hindi, provide a transliteration."

const promptAudit = `ACT AS A STRICT SOCIETY AUDITOR. Compare Image 1 (Problem) and Image 2 (Resolution). CHECK CAREFULLY: Is the trash gone? Is the area clean? If the street is still filled with trash or dirty, IT IS NOT FIXED. Respond ONLY with JSON: { "isResolved": boolean, "reason": "Be extremely detailed about what is still dirty if not fixed" }.`

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type geminiRequest struct {
	Contents []content `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text,omitempty"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type Client struct {
	apiKey string
	model  string
	http   *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		http:   &http.Client{},
	}
}

func (c *Client) SourceName() string {
	return "Gemini"
}

// TranscribeAudio sends the voice note for speech-to-text. The MIME type
// is stripped of codec parameters (e.g. "audio/webm;codecs=opus").
func (c *Client) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	simpleMimeType := strings.SplitN(mimeType, ";", 2)[0]
	if simpleMimeType == "" {
		simpleMimeType = "audio/webm"
	}

	reqBody := geminiRequest{
		Contents: []content{
			{
				Role: "user",
				Parts: []part{
					{InlineData: &inlineData{
						MimeType: simpleMimeType,
						Data:     base64.StdEncoding.EncodeToString(audio),
					}},
					{Text: promptTranscribe},
				},
			},
		},
	}

	text, err := c.generateContent(ctx, reqBody)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// VerifyResolution sends the problem and fix images for a before/after
// comparison and parses the structured verdict.
func (c *Client) VerifyResolution(ctx context.Context, problemImage, fixImage []byte) (*models.AIVerification, error) {
	reqBody := geminiRequest{
		Contents: []content{
			{
				Role: "user",
				Parts: []part{
					{InlineData: &inlineData{
						MimeType: "image/png",
						Data:     base64.StdEncoding.EncodeToString(problemImage),
					}},
					{InlineData: &inlineData{
						MimeType: "image/png",
						Data:     base64.StdEncoding.EncodeToString(fixImage),
					}},
					{Text: promptAudit},
				},
			},
		},
	}

	text, err := c.generateContent(ctx, reqBody)
	if err != nil {
		return nil, err
	}
	verdict, err := parser.ParseVerdict(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse audit verdict: %w", err)
	}
	return verdict, nil
}

func (c *Client) generateContent(ctx context.Context, body geminiRequest) (string, error) {
	// try v1beta first, then v1
	endpoints := []string{
		fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent?key=%s", c.model, c.apiKey),
		fmt.Sprintf("https://generativelanguage.googleapis.com/v1/models/%s:generateContent?key=%s", c.model, c.apiKey),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var lastErr error
	for _, ep := range endpoints {
		req, err := http.NewRequestWithContext(ctx, "POST", ep, bytes.NewBuffer(data))
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("failed to send request: %w", err)
			continue
		}
		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			lastErr = fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(bodyBytes))
			// retry next endpoint if available
			continue
		}
		var gr geminiResponse
		if err := json.Unmarshal(bodyBytes, &gr); err != nil {
			lastErr = fmt.Errorf("failed to parse response: %w", err)
			continue
		}
		if len(gr.Candidates) == 0 {
			lastErr = fmt.Errorf("no candidates in response")
			continue
		}
		// find first text part
		for _, p := range gr.Candidates[0].Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
		lastErr = fmt.Errorf("no text part in response")
	}
	return "", lastErr
}
