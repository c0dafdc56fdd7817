package parser

import (
	"encoding/json"
	"errors"
	"strings"

	"societyhub/models"
)

// verdict mirrors the audit JSON the model is instructed to return. Both
// key spellings are accepted; models are not consistent about casing.
type verdict struct {
	IsResolved      *bool  `json:"isResolved"`
	IsResolvedSnake *bool  `json:"is_resolved"`
	Reason          string `json:"reason"`
}

// ExtractJSON extracts a JSON object from model output, unwrapping
// markdown code fences when present.
func ExtractJSON(response string) string {
	startMarker := "```"
	endMarker := "```"

	startIdx := strings.Index(response, startMarker)
	if startIdx == -1 {
		// No code block found, try to find JSON object directly
		startIdx = strings.Index(response, "{")
		if startIdx == -1 {
			return response
		}
		endIdx := strings.LastIndex(response, "}")
		if endIdx == -1 {
			return response
		}
		return strings.TrimSpace(response[startIdx : endIdx+1])
	}

	// Find the end of the first code block
	endIdx := strings.Index(response[startIdx+len(startMarker):], endMarker)
	if endIdx == -1 {
		return response
	}
	endIdx += startIdx + len(startMarker)

	content := response[startIdx+len(startMarker) : endIdx]

	// Remove the language identifier if present (e.g., "json")
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > 0 && (strings.TrimSpace(lines[0]) == "json" || strings.TrimSpace(lines[0]) == "") {
		content = strings.Join(lines[1:], "\n")
	}

	return strings.TrimSpace(content)
}

// ParseVerdict parses the audit response and extracts the verdict.
func ParseVerdict(response string) (*models.AIVerification, error) {
	cleaned := ExtractJSON(strings.TrimSpace(response))

	var v verdict
	if err := json.Unmarshal([]byte(cleaned), &v); err != nil {
		return nil, errors.New("failed to parse JSON response: " + err.Error())
	}

	resolved := v.IsResolved
	if resolved == nil {
		resolved = v.IsResolvedSnake
	}
	if resolved == nil {
		return nil, errors.New("verdict is missing the resolution flag")
	}
	if v.Reason == "" {
		return nil, errors.New("verdict is missing the reason")
	}

	return &models.AIVerification{IsResolved: *resolved, Reason: v.Reason}, nil
}
