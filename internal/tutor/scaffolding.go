package tutor

import (
	"context"
	"log"

	"rox-tutor/internal/knowledge"
)

// scaffoldingResult carries the spoken nudge plus on-screen hints.
type scaffoldingResult struct {
	TTS   string   `json:"tts"`
	Hints []string `json:"hints"`
}

// runScaffolding gives a stuck student hints and sentence starters instead
// of answers.
func (e *Engine) runScaffolding(ctx context.Context, state *State) *TurnOutput {
	query := state.TaskContext["task_prompt"]
	if query == "" {
		query = state.Utterance
	}
	state.Retrieved = e.retrieve(ctx, query, knowledge.CategoryScaffolding)

	vars := e.promptVars(state)
	vars["task_prompt"] = state.TaskContext["task_prompt"]
	vars["knowledge"] = knowledgeText(state.Retrieved)

	var result scaffoldingResult
	if err := e.generateJSON(ctx, "scaffolding_generator", vars, &result); err != nil {
		log.Printf("[Tutor] scaffolding generation failed for session %s: %v", state.SessionID, err)
		return fallbackOutput("")
	}
	if result.TTS == "" {
		return fallbackOutput("")
	}

	out := simpleOutput("scaffold", result.TTS)
	if len(result.Hints) > 0 {
		out.UIActions = append(out.UIActions, UIAction{
			ActionType: ActionShowHints,
			Parameters: map[string]any{"hints": result.Hints},
		})
	}
	return out
}
