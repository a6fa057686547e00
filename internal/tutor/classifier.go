package tutor

import (
	"context"
	"fmt"

	"rox-tutor/internal/llm"
)

// Turn-level intents, produced when no explicit stage label routed the turn.
const (
	IntentConfirm         = "CONFIRM"
	IntentAskQuestion     = "ASK_QUESTION"
	IntentRequestLesson   = "REQUEST_LESSON"
	IntentRequestFeedback = "REQUEST_FEEDBACK"
	IntentSmallTalk       = "SMALL_TALK"
)

// TurnIntents is the closed label set the router classifies into.
var TurnIntents = []string{
	IntentConfirm,
	IntentAskQuestion,
	IntentRequestLesson,
	IntentRequestFeedback,
	IntentSmallTalk,
}

// Plan-loop intents, classifying the student's reply to a delivered step.
const (
	PlanIntentConfirm   = "CONFIRM_UNDERSTANDING"
	PlanIntentQuestion  = "ASK_CLARIFICATION_QUESTION"
	PlanIntentConfusion = "STATE_CONFUSION"
)

// PlanIntents is the label set for replies inside a plan loop.
var PlanIntents = []string{
	PlanIntentConfirm,
	PlanIntentQuestion,
	PlanIntentConfusion,
}

// Classifier maps a student utterance onto one label from a closed set.
// Implementations must return one of the given labels or an error.
type Classifier interface {
	Classify(ctx context.Context, instruction, utterance string, labels []string) (string, error)
}

// llmClassifier classifies with a small model behind the llm.Client.
type llmClassifier struct {
	client llm.Client
}

// NewLLMClassifier wraps an llm.Client as a Classifier.
func NewLLMClassifier(client llm.Client) Classifier {
	return &llmClassifier{client: client}
}

func (c *llmClassifier) Classify(ctx context.Context, instruction, utterance string, labels []string) (string, error) {
	if utterance == "" {
		return "", fmt.Errorf("empty utterance")
	}
	label, err := c.client.Classify(ctx, instruction, utterance, labels)
	if err != nil {
		return "", fmt.Errorf("intent classification: %w", err)
	}
	return label, nil
}
