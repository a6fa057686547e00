package tutor

import (
	"context"
	"log"

	"rox-tutor/internal/knowledge"
)

// feedbackDiagnosis is the structured first pass over submitted work.
type feedbackDiagnosis struct {
	Summary string `json:"summary"`
	Errors  []struct {
		ErrorType string `json:"error_type"`
		Excerpt   string `json:"excerpt"`
		Issue     string `json:"issue"`
	} `json:"errors"`
}

// runFeedback evaluates submitted work in two passes: diagnose the errors,
// then generate spoken feedback grounded on correction examples retrieved
// for the diagnosed error types.
func (e *Engine) runFeedback(ctx context.Context, state *State) *TurnOutput {
	if state.SubmittedWork == "" {
		return fallbackOutput(fallbackMissingWork)
	}

	vars := e.promptVars(state)
	vars["submitted_work"] = state.SubmittedWork

	var diagnosis feedbackDiagnosis
	if err := e.generateJSON(ctx, "feedback_diagnoser", vars, &diagnosis); err != nil {
		log.Printf("[Tutor] feedback diagnosis failed for session %s: %v", state.SessionID, err)
		return fallbackOutput("")
	}

	query := diagnosis.Summary
	for _, item := range diagnosis.Errors {
		query += " " + item.ErrorType
	}
	state.Retrieved = e.retrieve(ctx, query, knowledge.CategoryFeedback)

	vars["diagnosis"] = diagnosisText(diagnosis)
	vars["knowledge"] = knowledgeText(state.Retrieved)
	text, err := e.generate(ctx, "feedback_generator", vars)
	if err != nil {
		log.Printf("[Tutor] feedback generation failed for session %s: %v", state.SessionID, err)
		return fallbackOutput("")
	}

	out := simpleOutput("feedback", text)
	if len(diagnosis.Errors) > 0 {
		items := make([]map[string]any, 0, len(diagnosis.Errors))
		for _, item := range diagnosis.Errors {
			items = append(items, map[string]any{
				"error_type": item.ErrorType,
				"excerpt":    item.Excerpt,
				"issue":      item.Issue,
			})
		}
		out.UIActions = append(out.UIActions, UIAction{
			ActionType: ActionShowFeedback,
			Parameters: map[string]any{"summary": diagnosis.Summary, "items": items},
		})
	}
	return out
}

func diagnosisText(d feedbackDiagnosis) string {
	text := d.Summary
	for _, item := range d.Errors {
		text += "\n- " + item.ErrorType + ": " + item.Issue
		if item.Excerpt != "" {
			text += " (\"" + item.Excerpt + "\")"
		}
	}
	return text
}
