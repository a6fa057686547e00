package tutor

import (
	"context"
	"log"

	"rox-tutor/internal/knowledge"
)

// cowritingResult pairs the spoken coaching with a concrete text suggestion.
type cowritingResult struct {
	TTS        string `json:"tts"`
	Suggestion string `json:"suggestion"`
}

// runCowriting drafts alongside the student. With no draft yet there is
// nothing meaningful to search by, so the whole cowriting collection is
// pulled as genre material; once a draft exists it drives retrieval.
func (e *Engine) runCowriting(ctx context.Context, state *State) *TurnOutput {
	if state.Draft == nil || state.Stage == StageCowritingInit {
		state.Draft = &DraftState{
			Genre:  state.TaskContext["genre"],
			Prompt: state.TaskContext["writing_prompt"],
		}
	}
	if work := state.SubmittedWork; work != "" {
		state.Draft.DraftSoFar = work
	}

	if state.Draft.DraftSoFar == "" {
		if e.retriever != nil {
			state.Retrieved = e.retriever.All(ctx, string(knowledge.CategoryCowriting), 20)
		}
	} else {
		state.Retrieved = e.retrieve(ctx, state.Draft.DraftSoFar, knowledge.CategoryCowriting)
	}

	vars := e.promptVars(state)
	vars["genre"] = state.Draft.Genre
	vars["writing_prompt"] = state.Draft.Prompt
	vars["draft_so_far"] = state.Draft.DraftSoFar
	vars["knowledge"] = knowledgeText(state.Retrieved)

	var result cowritingResult
	if err := e.generateJSON(ctx, "cowriting_generator", vars, &result); err != nil {
		log.Printf("[Tutor] cowriting generation failed for session %s: %v", state.SessionID, err)
		return fallbackOutput("")
	}
	if result.TTS == "" {
		return fallbackOutput("")
	}

	out := simpleOutput("cowrite", result.TTS)
	if result.Suggestion != "" {
		out.UIActions = append(out.UIActions, UIAction{
			ActionType: ActionUpdateDraft,
			Parameters: map[string]any{"suggestion": result.Suggestion},
		})
	}
	return out
}
