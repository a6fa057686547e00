package tutor

import (
	"context"
	"log"
)

// stageRoutes is the static routing table: explicit stage labels map
// deterministically onto subgraphs, no model call involved.
var stageRoutes = map[string]Destination{
	StageWelcomeInit:      DestWelcome,
	StageConversationTurn: DestConversation,
	StageTeachingInit:     DestTeaching,
	StageTeachingTurn:     DestTeaching,
	StageFeedbackInit:     DestFeedback,
	StageScaffoldingInit:  DestScaffolding,
	StageModellingInit:    DestModelling,
	StageModellingTurn:    DestModelling,
	StageCowritingInit:    DestCowriting,
	StagePedagogyPlan:     DestPedagogy,
	StageInterrupt:        DestInterrupt,
}

// intentRoutes maps classified turn intents onto subgraphs.
var intentRoutes = map[string]Destination{
	IntentConfirm:         DestPlanAdvance,
	IntentAskQuestion:     DestConversation,
	IntentRequestLesson:   DestTeaching,
	IntentRequestFeedback: DestFeedback,
	IntentSmallTalk:       DestConversation,
}

const routeInstruction = "You are routing a student's message inside a TOEFL tutoring session. " +
	"Pick the label that best describes what the student wants from this message alone. " +
	"CONFIRM means the student signals understanding or agreement to continue. " +
	"ASK_QUESTION means the student asks about English or the current topic. " +
	"REQUEST_LESSON means the student asks to learn or practice something new. " +
	"REQUEST_FEEDBACK means the student asks for an evaluation of their work. " +
	"SMALL_TALK is anything conversational that fits none of the above."

// Router decides which subgraph handles a turn. An explicit stage label wins
// and never touches the classifier; otherwise the utterance is classified.
type Router struct {
	classifier Classifier
}

// NewRouter builds a Router over the given classifier.
func NewRouter(classifier Classifier) *Router {
	return &Router{classifier: classifier}
}

// Route resolves the destination for the current turn. It never fails: any
// unroutable turn lands on DestFallback.
func (r *Router) Route(ctx context.Context, state *State) Destination {
	if state.Stage != "" {
		if dest, ok := stageRoutes[state.Stage]; ok {
			return dest
		}
		log.Printf("[Router] unknown stage %q, falling back to intent classification", state.Stage)
	}
	if state.Utterance == "" {
		log.Printf("[Router] no stage and no utterance for session %s", state.SessionID)
		return DestFallback
	}
	if r.classifier == nil {
		return DestFallback
	}
	label, err := r.classifier.Classify(ctx, routeInstruction, state.Utterance, TurnIntents)
	if err != nil {
		log.Printf("[Router] classification failed for session %s: %v", state.SessionID, err)
		return DestFallback
	}
	if dest, ok := intentRoutes[label]; ok {
		return dest
	}
	log.Printf("[Router] classifier returned unroutable label %q", label)
	return DestFallback
}
