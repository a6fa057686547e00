package tutor

import "context"

// runInterrupt acknowledges a barge-in. The current activity stays on the
// state untouched so the next turn can resume or redirect; the only job here
// is to stop talking and hand the floor to the student.
func (e *Engine) runInterrupt(_ context.Context, state *State) *TurnOutput {
	text := "Sure, go ahead. I'm listening."
	return &TurnOutput{
		TextForTTS: text,
		UIActions:  []UIAction{speakThenListen("interrupt", text, 0, "")},
	}
}
