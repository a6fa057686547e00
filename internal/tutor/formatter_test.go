package tutor

import (
	"strings"
	"testing"
)

func TestFormatSequence_JoinsSpeechAndConfiguresListen(t *testing.T) {
	seq := contentSequence{Steps: []contentStep{
		{Type: "tts", Content: "First, look at the thesis."},
		{Type: "tts", Content: "Notice the claim it makes."},
		{Type: "listen", TimeoutSeconds: 45, PromptIfSilent: "Still with me?"},
	}}
	out, err := formatSequence("teach", seq)
	if err != nil {
		t.Fatalf("formatSequence failed: %v", err)
	}
	want := "First, look at the thesis. Notice the claim it makes."
	if out.TextForTTS != want {
		t.Errorf("TextForTTS = %q, want %q", out.TextForTTS, want)
	}
	if len(out.UIActions) != 1 {
		t.Fatalf("got %d UI actions, want 1", len(out.UIActions))
	}
	action := out.UIActions[0]
	if action.ActionType != ActionSpeakThenListen {
		t.Errorf("action type = %q, want %q", action.ActionType, ActionSpeakThenListen)
	}
	if action.Parameters["timeout_seconds"] != 45 {
		t.Errorf("timeout = %v, want 45", action.Parameters["timeout_seconds"])
	}
	if action.Parameters["prompt_if_silent"] != "Still with me?" {
		t.Errorf("prompt_if_silent = %v", action.Parameters["prompt_if_silent"])
	}
	speechID, _ := action.Parameters["speech_id"].(string)
	if !strings.HasPrefix(speechID, "teach-") || len(speechID) != len("teach-")+8 {
		t.Errorf("speech id %q, want teach- plus 8 chars", speechID)
	}
}

func TestFormatSequence_NoListenMeansSpeakOnly(t *testing.T) {
	seq := contentSequence{Steps: []contentStep{
		{Type: "tts", Content: "Well done, that wraps it up."},
	}}
	out, err := formatSequence("teach", seq)
	if err != nil {
		t.Fatalf("formatSequence failed: %v", err)
	}
	if out.UIActions[0].ActionType != ActionSpeakText {
		t.Errorf("action type = %q, want %q", out.UIActions[0].ActionType, ActionSpeakText)
	}
}

func TestFormatSequence_Errors(t *testing.T) {
	if _, err := formatSequence("teach", contentSequence{}); err == nil {
		t.Error("empty sequence should error")
	}
	seq := contentSequence{Steps: []contentStep{{Type: "listen"}}}
	if _, err := formatSequence("teach", seq); err == nil {
		t.Error("listen-only sequence should error")
	}
	seq = contentSequence{Steps: []contentStep{{Type: "video", Content: "x"}}}
	if _, err := formatSequence("teach", seq); err == nil {
		t.Error("unknown step type should error")
	}
}

func TestSpeechIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := newSpeechID("teach")
		if seen[id] {
			t.Fatalf("duplicate speech id %q", id)
		}
		seen[id] = true
	}
}
