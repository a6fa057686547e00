package tutor

import (
	"context"
	"log"
	"strings"

	"rox-tutor/internal/knowledge"
)

// runPedagogy drafts a learning plan from the student's goals and proposes
// it. The plan is installed as a teaching plan but not yet delivered; when
// the student confirms, the plan-advance path picks it up from step one.
func (e *Engine) runPedagogy(ctx context.Context, state *State) *TurnOutput {
	goals := state.Utterance
	if goals == "" && state.Student != nil {
		goals = strings.Join(state.Student.LearningGoals, ", ")
	}
	if goals == "" {
		return fallbackOutput("Tell me what you'd like to achieve and I'll put a study plan together.")
	}
	state.Retrieved = e.retrieve(ctx, goals, knowledge.CategoryPedagogy)

	vars := e.promptVars(state)
	vars["goals"] = goals
	vars["knowledge"] = knowledgeText(state.Retrieved)

	var result plannerResult
	if err := e.generateJSON(ctx, "pedagogy_planner", vars, &result); err != nil {
		log.Printf("[Tutor] pedagogy planning failed for session %s: %v", state.SessionID, err)
		return fallbackOutput("")
	}
	if len(result.Steps) == 0 {
		return fallbackOutput("")
	}

	plan := &PlanState{Objective: result.Objective, Module: DestTeaching, Proposed: true}
	if plan.Objective == "" {
		plan.Objective = goals
	}
	plan.Steps = result.Steps
	var lines []string
	for _, step := range result.Steps {
		lines = append(lines, step.Title)
	}
	state.Plan = plan

	text := "Here's the plan I'd suggest: " + strings.Join(lines, ". Then ") +
		". Shall we start with the first one?"
	return simpleOutput("plan", text)
}
