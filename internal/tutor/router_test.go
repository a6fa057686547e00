package tutor

import (
	"context"
	"fmt"
	"testing"
)

type stubClassifier struct {
	label string
	err   error
	calls int
}

func (s *stubClassifier) Classify(_ context.Context, _, _ string, _ []string) (string, error) {
	s.calls++
	return s.label, s.err
}

func TestRoute_ExplicitStageIsDeterministic(t *testing.T) {
	cases := map[string]Destination{
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
	classifier := &stubClassifier{label: IntentSmallTalk}
	router := NewRouter(classifier)
	for stage, want := range cases {
		state := NewState("s1", 1)
		state.Stage = stage
		state.Utterance = "whatever"
		for i := 0; i < 3; i++ {
			if got := router.Route(context.Background(), state); got != want {
				t.Errorf("stage %q routed to %q, want %q", stage, got, want)
			}
		}
	}
	if classifier.calls != 0 {
		t.Errorf("explicit stages hit the classifier %d times, want 0", classifier.calls)
	}
}

func TestRoute_WelcomeInitNeverClassifies(t *testing.T) {
	classifier := &stubClassifier{err: fmt.Errorf("should not be called")}
	router := NewRouter(classifier)
	state := NewState("s1", 1)
	state.Stage = StageWelcomeInit
	if got := router.Route(context.Background(), state); got != DestWelcome {
		t.Fatalf("got %q, want %q", got, DestWelcome)
	}
	if classifier.calls != 0 {
		t.Fatalf("classifier called %d times", classifier.calls)
	}
}

func TestRoute_ClassifiesWhenNoStage(t *testing.T) {
	cases := []struct {
		label string
		want  Destination
	}{
		{IntentConfirm, DestPlanAdvance},
		{IntentAskQuestion, DestConversation},
		{IntentRequestLesson, DestTeaching},
		{IntentRequestFeedback, DestFeedback},
		{IntentSmallTalk, DestConversation},
	}
	for _, tc := range cases {
		router := NewRouter(&stubClassifier{label: tc.label})
		state := NewState("s1", 1)
		state.Utterance = "hello"
		if got := router.Route(context.Background(), state); got != tc.want {
			t.Errorf("intent %q routed to %q, want %q", tc.label, got, tc.want)
		}
	}
}

func TestRoute_UnknownStageFallsThroughToClassifier(t *testing.T) {
	classifier := &stubClassifier{label: IntentRequestLesson}
	router := NewRouter(classifier)
	state := NewState("s1", 1)
	state.Stage = "no-such-stage"
	state.Utterance = "teach me conditionals"
	if got := router.Route(context.Background(), state); got != DestTeaching {
		t.Fatalf("got %q, want %q", got, DestTeaching)
	}
	if classifier.calls != 1 {
		t.Fatalf("classifier called %d times, want 1", classifier.calls)
	}
}

func TestRoute_FallbackPaths(t *testing.T) {
	t.Run("classifier error", func(t *testing.T) {
		router := NewRouter(&stubClassifier{err: fmt.Errorf("model down")})
		state := NewState("s1", 1)
		state.Utterance = "hello"
		if got := router.Route(context.Background(), state); got != DestFallback {
			t.Fatalf("got %q, want %q", got, DestFallback)
		}
	})
	t.Run("unroutable label", func(t *testing.T) {
		router := NewRouter(&stubClassifier{label: "SOMETHING_ELSE"})
		state := NewState("s1", 1)
		state.Utterance = "hello"
		if got := router.Route(context.Background(), state); got != DestFallback {
			t.Fatalf("got %q, want %q", got, DestFallback)
		}
	})
	t.Run("no stage no utterance", func(t *testing.T) {
		classifier := &stubClassifier{label: IntentSmallTalk}
		router := NewRouter(classifier)
		state := NewState("s1", 1)
		if got := router.Route(context.Background(), state); got != DestFallback {
			t.Fatalf("got %q, want %q", got, DestFallback)
		}
		if classifier.calls != 0 {
			t.Fatalf("classifier called on empty utterance")
		}
	})
	t.Run("nil classifier", func(t *testing.T) {
		router := NewRouter(nil)
		state := NewState("s1", 1)
		state.Utterance = "hello"
		if got := router.Route(context.Background(), state); got != DestFallback {
			t.Fatalf("got %q, want %q", got, DestFallback)
		}
	})
}
