package tutor

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// UI action types the frontend understands.
const (
	ActionSpeakThenListen = "SPEAK_THEN_LISTEN"
	ActionSpeakText       = "SPEAK_TEXT"
	ActionShowFeedback    = "SHOW_FEEDBACK_PANEL"
	ActionShowHints       = "SHOW_HINTS"
	ActionUpdateDraft     = "UPDATE_DRAFT_SUGGESTION"
)

// contentStep is one element of a generator's content sequence: either a
// chunk of speech or a listening phase configuration.
type contentStep struct {
	Type           string `json:"type"` // tts, listen
	Content        string `json:"content,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	PromptIfSilent string `json:"prompt_if_silent,omitempty"`
}

// contentSequence is what generator prompts are asked to produce.
type contentSequence struct {
	Steps []contentStep `json:"steps"`
}

func newSpeechID(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8])
}

// speakThenListen builds the standard speak-and-wait action.
func speakThenListen(idPrefix, text string, timeoutSeconds int, promptIfSilent string) UIAction {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	params := map[string]any{
		"speech_id":       newSpeechID(idPrefix),
		"text":            text,
		"timeout_seconds": timeoutSeconds,
	}
	if promptIfSilent != "" {
		params["prompt_if_silent"] = promptIfSilent
	}
	return UIAction{ActionType: ActionSpeakThenListen, Parameters: params}
}

// speakText builds a speak-only action for turns that expect no reply.
func speakText(idPrefix, text string) UIAction {
	return UIAction{ActionType: ActionSpeakText, Parameters: map[string]any{
		"speech_id": newSpeechID(idPrefix),
		"text":      text,
	}}
}

// formatSequence flattens a generator content sequence into a TurnOutput.
// All tts chunks are joined into one utterance; the last listen step, if
// any, configures the listening phase. An empty sequence is an error so the
// caller can fall back instead of emitting a silent turn.
func formatSequence(idPrefix string, seq contentSequence) (*TurnOutput, error) {
	var parts []string
	var listen *contentStep
	for i := range seq.Steps {
		step := seq.Steps[i]
		switch step.Type {
		case "tts":
			if strings.TrimSpace(step.Content) != "" {
				parts = append(parts, strings.TrimSpace(step.Content))
			}
		case "listen":
			listen = &seq.Steps[i]
		default:
			return nil, fmt.Errorf("unknown content step type %q", step.Type)
		}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("content sequence has no speech")
	}
	text := strings.Join(parts, " ")
	out := &TurnOutput{TextForTTS: text}
	if listen != nil {
		out.UIActions = []UIAction{speakThenListen(idPrefix, text, listen.TimeoutSeconds, listen.PromptIfSilent)}
	} else {
		out.UIActions = []UIAction{speakText(idPrefix, text)}
	}
	return out, nil
}

// simpleOutput wraps plain generated text as a speak-then-listen turn.
func simpleOutput(idPrefix, text string) *TurnOutput {
	text = strings.TrimSpace(text)
	return &TurnOutput{
		TextForTTS: text,
		UIActions:  []UIAction{speakThenListen(idPrefix, text, 0, "")},
	}
}
