package tutor

import "context"

// runTeaching delivers a stepwise lesson through the shared plan loop.
func (e *Engine) runTeaching(ctx context.Context, state *State) *TurnOutput {
	// An explicit init label always starts a fresh lesson, even if a plan
	// from an earlier topic is still hanging around.
	if state.Stage == StageTeachingInit {
		state.Plan = nil
	}
	return e.runPlanLoop(ctx, state, teachingPlan)
}
