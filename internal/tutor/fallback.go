package tutor

// Canned recovery lines. Every turn produces speech, even when routing or
// generation failed, so the session keeps moving.
const (
	fallbackGeneric = "Sorry, I didn't quite catch that. Could you say it again, " +
		"or tell me what you'd like to work on next?"
	fallbackMissingWork = "I'd love to give you feedback, but I don't see any work " +
		"submitted yet. Could you share your essay or recording first?"
	fallbackWrapUp = "That's everything I had planned for this topic. Great work! " +
		"What would you like to do next?"
)

// fallbackOutput is the terminal output for any turn nothing else handled.
func fallbackOutput(text string) *TurnOutput {
	if text == "" {
		text = fallbackGeneric
	}
	return &TurnOutput{
		TextForTTS: text,
		UIActions:  []UIAction{speakThenListen("fallback", text, 0, "")},
	}
}
