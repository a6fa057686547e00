package llm

import (
	"strings"
	"testing"
)

func TestExtractJSON_Fenced(t *testing.T) {
	raw := "```json\n{\"intent\": \"CONFIRM\"}\n```"
	got := ExtractJSON(raw)
	if got != `{"intent": "CONFIRM"}` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSON_BareFence(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	if got := ExtractJSON(raw); got != `{"a": 1}` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSON_LeadingProse(t *testing.T) {
	raw := "Here is the plan you asked for: {\"steps\": []}"
	if got := ExtractJSON(raw); got != `{"steps": []}` {
		t.Errorf("unexpected extraction: %q", got)
	}
}

func TestExtractJSON_Plain(t *testing.T) {
	raw := `{"x": true}`
	if got := ExtractJSON(raw); got != raw {
		t.Errorf("plain JSON should pass through, got %q", got)
	}
}

func TestDecodeJSON_MissingBody(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON("", &out); err == nil {
		t.Errorf("expected error for empty body")
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	var out map[string]any
	if err := DecodeJSON("this is not json at all", &out); err == nil {
		t.Errorf("expected error for non-JSON body")
	}
}

func TestParseClassifyResponse_Valid(t *testing.T) {
	labels := []string{"CONFIRM_UNDERSTANDING", "ASK_CLARIFICATION_QUESTION", "STATE_CONFUSION"}
	got, err := ParseClassifyResponse(`{"intent": "confirm_understanding"}`, labels)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Case-insensitive match must normalize to the canonical label
	if got != "CONFIRM_UNDERSTANDING" {
		t.Errorf("expected canonical label, got %q", got)
	}
}

func TestParseClassifyResponse_UnknownLabel(t *testing.T) {
	labels := []string{"CONFIRM_UNDERSTANDING"}
	if _, err := ParseClassifyResponse(`{"intent": "SOMETHING_ELSE"}`, labels); err == nil {
		t.Errorf("expected error for unmapped label")
	}
}

func TestParseClassifyResponse_Garbage(t *testing.T) {
	if _, err := ParseClassifyResponse("no json here", []string{"A"}); err == nil {
		t.Errorf("expected error for malformed response")
	}
}

func TestBuildClassifyPrompt(t *testing.T) {
	p := BuildClassifyPrompt("You are an NLU assistant.", "yes got it", []string{"A", "B"})
	for _, want := range []string{"yes got it", "A, B", `{"intent": "<LABEL>"}`} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
}
