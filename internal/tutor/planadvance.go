package tutor

import "context"

// runPlanAdvance handles a confirmation intent: continue the active plan in
// whichever module owns it. A confirmation with no plan in flight is just
// conversation.
func (e *Engine) runPlanAdvance(ctx context.Context, state *State) *TurnOutput {
	if state.Plan == nil {
		return e.runConversation(ctx, state)
	}
	switch state.Plan.Module {
	case DestModelling:
		return e.advancePlan(ctx, state, modellingPlan)
	default:
		return e.advancePlan(ctx, state, teachingPlan)
	}
}
