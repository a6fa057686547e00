package tutor

import (
	"fmt"

	"rox-tutor/internal/knowledge"
)

// StateVersion is bumped whenever the State schema changes shape. Persisted
// sessions with an older version are discarded rather than migrated.
const StateVersion = 1

// Stage labels the client may supply to route a turn explicitly.
const (
	StageWelcomeInit      = "welcome-init"
	StageConversationTurn = "conversation-turn"
	StageTeachingInit     = "teaching-init"
	StageTeachingTurn     = "teaching-turn"
	StageFeedbackInit     = "feedback-init"
	StageScaffoldingInit  = "scaffolding-init"
	StageModellingInit    = "modelling-init"
	StageModellingTurn    = "modelling-turn"
	StageCowritingInit    = "cowriting-init"
	StagePedagogyPlan     = "pedagogy-plan"
	StageInterrupt        = "interrupt"
)

// Destination names a subgraph the router can hand a turn to.
type Destination string

const (
	DestWelcome      Destination = "welcome"
	DestConversation Destination = "conversation"
	DestTeaching     Destination = "teaching"
	DestFeedback     Destination = "feedback"
	DestScaffolding  Destination = "scaffolding"
	DestModelling    Destination = "modelling"
	DestCowriting    Destination = "cowriting"
	DestPedagogy     Destination = "pedagogy"
	DestPlanAdvance  Destination = "plan-advance"
	DestInterrupt    Destination = "interrupt"
	DestFallback     Destination = "fallback"
)

// Message is one chat history entry.
type Message struct {
	Role    string `json:"role"` // user, assistant
	Content string `json:"content"`
}

// TurnInput is what the orchestration layer hands the engine for one turn.
type TurnInput struct {
	SessionID     string            `json:"session_id"`
	StudentID     uint              `json:"student_id"`
	Stage         string            `json:"stage,omitempty"`
	Utterance     string            `json:"utterance,omitempty"`
	SubmittedWork string            `json:"submitted_work,omitempty"`
	TaskContext   map[string]string `json:"task_context,omitempty"`
}

// StudentContext is the slice of the student model a turn needs.
type StudentContext struct {
	Name           string         `json:"name"`
	Proficiency    string         `json:"proficiency"`
	NativeLanguage string         `json:"native_language"`
	TargetScore    int            `json:"target_score"`
	Skills         map[string]int `json:"skills,omitempty"`
	LearningGoals  []string       `json:"learning_goals,omitempty"`
}

// PlanStep is one deliverable unit of a lesson or walkthrough plan.
type PlanStep struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PlanState drives the PLAN -> DELIVER -> ADVANCE loop for the teaching and
// modelling modules. Module records which subgraph owns the plan.
type PlanState struct {
	LessonID  string      `json:"lesson_id,omitempty"`
	Objective string      `json:"objective"`
	Steps     []PlanStep  `json:"steps"`
	StepIndex int         `json:"step_index"`
	Module    Destination `json:"module"`
	// Proposed marks a plan that was presented to the student but whose
	// delivery has not started; the first confirmation kicks off step one.
	Proposed bool `json:"proposed,omitempty"`
}

// Exhausted reports whether every step has been delivered and confirmed.
func (p *PlanState) Exhausted() bool {
	return p == nil || p.StepIndex >= len(p.Steps)
}

// CurrentStep returns the step under delivery, or nil when exhausted.
func (p *PlanState) CurrentStep() *PlanStep {
	if p.Exhausted() {
		return nil
	}
	return &p.Steps[p.StepIndex]
}

// DraftState carries the co-writing work in progress.
type DraftState struct {
	Genre      string `json:"genre,omitempty"`
	Prompt     string `json:"prompt,omitempty"`
	DraftSoFar string `json:"draft_so_far,omitempty"`
}

// UIAction is one instruction for the frontend client.
type UIAction struct {
	ActionType string         `json:"action_type"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// TurnOutput is the terminal payload of every turn.
type TurnOutput struct {
	TextForTTS string     `json:"text_for_tts"`
	UIActions  []UIAction `json:"ui_actions"`
}

// State is the session state threaded through the graph: an explicit,
// versioned schema with optional groups per subsystem, instead of the
// grab-bag dictionary this design replaced. Nodes read and write their own
// group; the engine validates at the boundary.
type State struct {
	Version int `json:"version"`

	// Identifiers and turn inputs
	SessionID     string            `json:"session_id"`
	StudentID     uint              `json:"student_id"`
	Stage         string            `json:"stage,omitempty"`
	Utterance     string            `json:"utterance,omitempty"`
	SubmittedWork string            `json:"submitted_work,omitempty"`
	TaskContext   map[string]string `json:"task_context,omitempty"`

	// Conversation memory
	History []Message `json:"history,omitempty"`

	// Student model, loaded per turn
	Student *StudentContext `json:"student,omitempty"`

	// Plan loop (teaching / modelling)
	Plan *PlanState `json:"plan,omitempty"`

	// Co-writing
	Draft *DraftState `json:"draft,omitempty"`

	// Last retrieval results, for the generator that requested them
	Retrieved []knowledge.Record `json:"retrieved,omitempty"`

	// Terminal output of the turn
	Output *TurnOutput `json:"output,omitempty"`
}

// NewState creates a fresh session state for a first turn.
func NewState(sessionID string, studentID uint) *State {
	return &State{
		Version:   StateVersion,
		SessionID: sessionID,
		StudentID: studentID,
	}
}

// Validate checks the boundary invariants before a turn runs.
func (s *State) Validate() error {
	if s == nil {
		return fmt.Errorf("nil state")
	}
	if s.Version != StateVersion {
		return fmt.Errorf("state version %d, want %d", s.Version, StateVersion)
	}
	if s.SessionID == "" {
		return fmt.Errorf("missing session id")
	}
	return nil
}

// MergeInput folds one turn's client input into the session state. Stage,
// utterance and submitted work are per-turn values and always overwritten;
// task context keys are merged.
func (s *State) MergeInput(input TurnInput) {
	s.Stage = input.Stage
	s.Utterance = input.Utterance
	s.SubmittedWork = input.SubmittedWork
	if input.StudentID != 0 {
		s.StudentID = input.StudentID
	}
	if len(input.TaskContext) > 0 {
		if s.TaskContext == nil {
			s.TaskContext = map[string]string{}
		}
		for key, value := range input.TaskContext {
			s.TaskContext[key] = value
		}
	}
	if input.Utterance != "" {
		s.History = append(s.History, Message{Role: "user", Content: input.Utterance})
	}
	// Stale per-turn outputs never leak into the next turn
	s.Retrieved = nil
	s.Output = nil
}

// RecentHistory returns the last n messages for prompt context.
func (s *State) RecentHistory(n int) []Message {
	if n <= 0 || len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}
