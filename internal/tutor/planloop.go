package tutor

import (
	"context"
	"fmt"
	"log"

	"rox-tutor/internal/knowledge"
)

// planSpec parameterizes the shared PLAN -> DELIVER -> ADVANCE loop for the
// modules that teach in steps.
type planSpec struct {
	module        Destination
	category      knowledge.Category
	plannerPrompt string
	deliverPrompt string
	idPrefix      string
}

var teachingPlan = planSpec{
	module:        DestTeaching,
	category:      knowledge.CategoryTeaching,
	plannerPrompt: "teaching_planner",
	deliverPrompt: "teaching_generator",
	idPrefix:      "teach",
}

var modellingPlan = planSpec{
	module:        DestModelling,
	category:      knowledge.CategoryModelling,
	plannerPrompt: "modelling_planner",
	deliverPrompt: "modelling_generator",
	idPrefix:      "model",
}

// plannerResult is what the planner prompt is asked to produce.
type plannerResult struct {
	Objective string     `json:"objective"`
	Steps     []PlanStep `json:"steps"`
}

const planReplyInstruction = "You are watching a tutoring session. The tutor has just " +
	"explained one step of a lesson and the student replied. Decide what the reply means. " +
	"CONFIRM_UNDERSTANDING means the student follows and is ready to continue. " +
	"ASK_CLARIFICATION_QUESTION means the student asks about a detail of this step. " +
	"STATE_CONFUSION means the student signals they are lost."

// runPlanLoop is the entry for both teaching and modelling turns. A turn with
// no active plan for this module builds one and delivers the first step; a
// turn inside an active plan classifies the student's reply and either
// advances or re-delivers the current step.
func (e *Engine) runPlanLoop(ctx context.Context, state *State, spec planSpec) *TurnOutput {
	if state.Plan == nil || state.Plan.Module != spec.module {
		if err := e.buildPlan(ctx, state, spec); err != nil {
			log.Printf("[Tutor] %s planning failed for session %s: %v", spec.module, state.SessionID, err)
			return fallbackOutput("")
		}
		return e.deliverStep(ctx, state, spec, "")
	}

	intent := e.classifyPlanReply(ctx, state)
	switch intent {
	case PlanIntentConfirm:
		return e.advancePlan(ctx, state, spec)
	case PlanIntentQuestion, PlanIntentConfusion:
		// Same step again, reshaped around what tripped the student up
		return e.deliverStep(ctx, state, spec, state.Utterance)
	default:
		return e.deliverStep(ctx, state, spec, state.Utterance)
	}
}

func (e *Engine) classifyPlanReply(ctx context.Context, state *State) string {
	if e.classifier == nil || state.Utterance == "" {
		return PlanIntentConfirm
	}
	intent, err := e.classifier.Classify(ctx, planReplyInstruction, state.Utterance, PlanIntents)
	if err != nil {
		log.Printf("[Tutor] plan reply classification failed for session %s: %v", state.SessionID, err)
		return PlanIntentQuestion
	}
	return intent
}

// buildPlan asks the planner for a stepwise plan grounded on retrieved
// category material and installs it on the state.
func (e *Engine) buildPlan(ctx context.Context, state *State, spec planSpec) error {
	objective := state.TaskContext["learning_objective"]
	if objective == "" {
		objective = state.Utterance
	}
	if objective == "" {
		return fmt.Errorf("nothing to plan for")
	}
	state.Retrieved = e.retrieve(ctx, objective, spec.category)

	vars := e.promptVars(state)
	vars["objective"] = objective
	vars["knowledge"] = knowledgeText(state.Retrieved)

	var result plannerResult
	if err := e.generateJSON(ctx, spec.plannerPrompt, vars, &result); err != nil {
		return err
	}
	if len(result.Steps) == 0 {
		return fmt.Errorf("planner produced no steps")
	}
	plan := &PlanState{
		LessonID:  state.TaskContext["lesson_id"],
		Objective: result.Objective,
		Module:    spec.module,
	}
	if plan.Objective == "" {
		plan.Objective = objective
	}
	plan.Steps = result.Steps
	state.Plan = plan
	return nil
}

// deliverStep generates the speech for the current plan step. A non-empty
// studentQuestion reshapes the delivery around it instead of repeating the
// step verbatim.
func (e *Engine) deliverStep(ctx context.Context, state *State, spec planSpec, studentQuestion string) *TurnOutput {
	step := state.Plan.CurrentStep()
	if step == nil {
		state.Plan = nil
		return fallbackOutput(fallbackWrapUp)
	}
	state.Retrieved = e.retrieve(ctx, step.Title+" "+step.Content, spec.category)

	vars := e.promptVars(state)
	vars["objective"] = state.Plan.Objective
	vars["step_title"] = step.Title
	vars["step_content"] = step.Content
	vars["step_number"] = fmt.Sprintf("%d", state.Plan.StepIndex+1)
	vars["step_total"] = fmt.Sprintf("%d", len(state.Plan.Steps))
	vars["student_question"] = studentQuestion
	vars["knowledge"] = knowledgeText(state.Retrieved)

	var seq contentSequence
	if err := e.generateJSON(ctx, spec.deliverPrompt, vars, &seq); err != nil {
		log.Printf("[Tutor] %s delivery failed for session %s: %v", spec.module, state.SessionID, err)
		return fallbackOutput("")
	}
	out, err := formatSequence(spec.idPrefix, seq)
	if err != nil {
		log.Printf("[Tutor] %s output formatting failed for session %s: %v", spec.module, state.SessionID, err)
		return fallbackOutput("")
	}
	return out
}

// advancePlan moves to the next step, or wraps up when the plan is done.
// Confirming a freshly proposed plan starts delivery at the first step.
func (e *Engine) advancePlan(ctx context.Context, state *State, spec planSpec) *TurnOutput {
	if state.Plan.Proposed {
		state.Plan.Proposed = false
		return e.deliverStep(ctx, state, spec, "")
	}
	state.Plan.StepIndex++
	if state.Plan.Exhausted() {
		state.Plan = nil
		return fallbackOutput(fallbackWrapUp)
	}
	return e.deliverStep(ctx, state, spec, "")
}
