package tutor

import "context"

// runModelling walks the student through an expert answer, thinking aloud
// step by step. Same loop shape as teaching, different material and prompts.
func (e *Engine) runModelling(ctx context.Context, state *State) *TurnOutput {
	if state.Stage == StageModellingInit {
		state.Plan = nil
	}
	return e.runPlanLoop(ctx, state, modellingPlan)
}
