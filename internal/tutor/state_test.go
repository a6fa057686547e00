package tutor

import (
	"encoding/json"
	"testing"
)

func TestMergeInput(t *testing.T) {
	state := NewState("s1", 7)
	state.Output = &TurnOutput{TextForTTS: "stale"}
	state.TaskContext = map[string]string{"lesson_id": "L1"}

	state.MergeInput(TurnInput{
		Stage:       StageTeachingTurn,
		Utterance:   "what about clauses?",
		TaskContext: map[string]string{"learning_objective": "clauses"},
	})

	if state.Stage != StageTeachingTurn {
		t.Errorf("stage = %q", state.Stage)
	}
	if state.Output != nil || state.Retrieved != nil {
		t.Error("stale per-turn outputs survived the merge")
	}
	if state.TaskContext["lesson_id"] != "L1" || state.TaskContext["learning_objective"] != "clauses" {
		t.Errorf("task context = %+v", state.TaskContext)
	}
	if len(state.History) != 1 || state.History[0].Role != "user" {
		t.Errorf("history = %+v", state.History)
	}

	// A turn with no utterance adds nothing to history
	state.MergeInput(TurnInput{Stage: StageInterrupt})
	if len(state.History) != 1 {
		t.Errorf("empty utterance appended to history: %+v", state.History)
	}
}

func TestValidate(t *testing.T) {
	state := NewState("s1", 7)
	if err := state.Validate(); err != nil {
		t.Fatalf("fresh state invalid: %v", err)
	}
	state.Version = StateVersion + 1
	if err := state.Validate(); err == nil {
		t.Error("version mismatch accepted")
	}
	state = NewState("", 7)
	if err := state.Validate(); err == nil {
		t.Error("missing session id accepted")
	}
}

func TestRecentHistory(t *testing.T) {
	state := NewState("s1", 7)
	for i := 0; i < 5; i++ {
		state.History = append(state.History, Message{Role: "user", Content: "m"})
	}
	if got := len(state.RecentHistory(3)); got != 3 {
		t.Errorf("window of 3 returned %d", got)
	}
	if got := len(state.RecentHistory(10)); got != 5 {
		t.Errorf("oversized window returned %d", got)
	}
	if got := len(state.RecentHistory(0)); got != 5 {
		t.Errorf("zero window returned %d", got)
	}
}

func TestStateRoundTripsThroughJSON(t *testing.T) {
	state := NewState("s1", 7)
	state.Plan = &PlanState{
		Objective: "thesis statements",
		Steps:     []PlanStep{{Title: "a", Content: "b"}},
		Module:    DestTeaching,
		Proposed:  true,
	}
	state.Draft = &DraftState{Genre: "opinion essay", DraftSoFar: "In recent years"}

	raw, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var restored State
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if err := restored.Validate(); err != nil {
		t.Fatalf("restored state invalid: %v", err)
	}
	if restored.Plan == nil || !restored.Plan.Proposed || restored.Plan.Module != DestTeaching {
		t.Errorf("plan lost in round trip: %+v", restored.Plan)
	}
	if restored.Draft == nil || restored.Draft.Genre != "opinion essay" {
		t.Errorf("draft lost in round trip: %+v", restored.Draft)
	}
}
