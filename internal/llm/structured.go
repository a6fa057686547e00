package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON strips markdown code fences and surrounding prose from a model
// response, leaving the JSON body. Returns the trimmed input when no fence or
// brace is found.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	if idx := strings.Index(s, "```json"); idx != -1 {
		rest := s[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}
	if strings.HasPrefix(s, "```") {
		rest := strings.TrimPrefix(s, "```")
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
		return strings.TrimSpace(rest)
	}

	// Models sometimes lead with a sentence before the object
	start := strings.IndexAny(s, "{[")
	if start > 0 {
		return strings.TrimSpace(s[start:])
	}
	return s
}

// DecodeJSON unmarshals a model response into out, tolerating code fences.
func DecodeJSON(raw string, out any) error {
	body := ExtractJSON(raw)
	if body == "" {
		return fmt.Errorf("empty response body")
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return fmt.Errorf("unmarshal model response: %w", err)
	}
	return nil
}

// BuildClassifyPrompt renders the single-label classification prompt used by
// the router and the plan loop.
func BuildClassifyPrompt(instruction string, utterance string, labels []string) string {
	var b strings.Builder
	b.WriteString(instruction)
	b.WriteString("\n\nThe student said: \"")
	b.WriteString(utterance)
	b.WriteString("\"\n\nCategorize the intent into ONE of these labels: ")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString("\nReturn ONLY JSON: {\"intent\": \"<LABEL>\"}")
	return b.String()
}

// ParseClassifyResponse extracts the intent label and verifies it is one of
// the allowed labels.
func ParseClassifyResponse(raw string, labels []string) (string, error) {
	var parsed struct {
		Intent string `json:"intent"`
	}
	if err := DecodeJSON(raw, &parsed); err != nil {
		return "", err
	}
	got := strings.TrimSpace(parsed.Intent)
	for _, label := range labels {
		if strings.EqualFold(got, label) {
			return label, nil
		}
	}
	return "", fmt.Errorf("model returned unknown label %q", got)
}
