package tutor

import (
	"context"
	"log"
)

// runWelcome opens a session: greet the student by name, recall their goals
// and suggest where to start. No retrieval involved.
func (e *Engine) runWelcome(ctx context.Context, state *State) *TurnOutput {
	text, err := e.generate(ctx, "welcome", e.promptVars(state))
	if err != nil {
		log.Printf("[Tutor] welcome generation failed for session %s: %v", state.SessionID, err)
		return fallbackOutput(welcomeFallback(state))
	}
	return simpleOutput("welcome", text)
}

func welcomeFallback(state *State) string {
	name := ""
	if state.Student != nil && state.Student.Name != "" {
		name = ", " + state.Student.Name
	}
	return "Hi" + name + "! I'm Rox, your TOEFL tutor. What would you like to work on today?"
}
