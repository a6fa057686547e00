package tutor

import (
	"context"
	"log"

	"rox-tutor/internal/knowledge"
)

// runConversation handles free-form questions and small talk. The reply is
// grounded on pedagogy material so the tutor stays on-mission even when the
// student wanders.
func (e *Engine) runConversation(ctx context.Context, state *State) *TurnOutput {
	state.Retrieved = e.retrieve(ctx, state.Utterance, knowledge.CategoryPedagogy)

	vars := e.promptVars(state)
	vars["knowledge"] = knowledgeText(state.Retrieved)
	text, err := e.generate(ctx, "conversation", vars)
	if err != nil {
		log.Printf("[Tutor] conversation generation failed for session %s: %v", state.SessionID, err)
		return fallbackOutput("")
	}
	return simpleOutput("chat", text)
}
