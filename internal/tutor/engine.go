package tutor

import (
	"context"
	"log"

	"rox-tutor/internal/knowledge"
	"rox-tutor/internal/llm"
	"rox-tutor/internal/prompts"
)

// Retriever is the knowledge access the subgraphs need. Both methods are
// fail-soft: they log and return an empty slice rather than erroring.
type Retriever interface {
	Query(ctx context.Context, query, category string, topK int) []knowledge.Record
	All(ctx context.Context, category string, limit int) []knowledge.Record
}

// SessionStore persists live session state between turns.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, state *State) error
}

// Checkpointer appends a durable record of each completed turn.
type Checkpointer interface {
	Append(ctx context.Context, state *State, out *TurnOutput) error
}

// StudentLoader fetches the student context for a turn.
type StudentLoader interface {
	LoadStudent(ctx context.Context, studentID uint) (*StudentContext, error)
}

// Engine runs one tutoring turn end to end: load session, route, execute the
// chosen subgraph, persist, respond. RunTurn never returns an error; any
// internal failure degrades to a fallback response.
type Engine struct {
	router      *Router
	classifier  Classifier
	llm         llm.Client
	retriever   Retriever
	prompts     *prompts.Library
	sessions    SessionStore
	checkpoints Checkpointer
	students    StudentLoader

	topK          int
	historyWindow int
}

// EngineDeps bundles the collaborators an Engine is built from. Sessions,
// checkpoints and students may be nil; the engine degrades gracefully.
type EngineDeps struct {
	Classifier  Classifier
	LLM         llm.Client
	Retriever   Retriever
	Prompts     *prompts.Library
	Sessions    SessionStore
	Checkpoints Checkpointer
	Students    StudentLoader

	TopK          int
	HistoryWindow int
}

// NewEngine wires up a turn engine.
func NewEngine(deps EngineDeps) *Engine {
	topK := deps.TopK
	if topK <= 0 {
		topK = 3
	}
	window := deps.HistoryWindow
	if window <= 0 {
		window = 10
	}
	return &Engine{
		router:        NewRouter(deps.Classifier),
		classifier:    deps.Classifier,
		llm:           deps.LLM,
		retriever:     deps.Retriever,
		prompts:       deps.Prompts,
		sessions:      deps.Sessions,
		checkpoints:   deps.Checkpoints,
		students:      deps.Students,
		topK:          topK,
		historyWindow: window,
	}
}

// RunTurn executes one tutoring turn and always returns a speakable output.
func (e *Engine) RunTurn(ctx context.Context, input TurnInput) *TurnOutput {
	state := e.loadSession(ctx, input)
	state.MergeInput(input)
	e.loadStudentContext(ctx, state)

	dest := e.router.Route(ctx, state)
	out := e.dispatch(ctx, dest, state)
	if out == nil {
		out = fallbackOutput("")
	}

	state.Output = out
	if out.TextForTTS != "" {
		state.History = append(state.History, Message{Role: "assistant", Content: out.TextForTTS})
	}
	e.persist(ctx, state, out)
	return out
}

func (e *Engine) loadSession(ctx context.Context, input TurnInput) *State {
	if e.sessions != nil && input.SessionID != "" {
		state, err := e.sessions.Load(ctx, input.SessionID)
		if err != nil {
			log.Printf("[Engine] session load failed for %s: %v", input.SessionID, err)
		} else if state != nil {
			if err := state.Validate(); err == nil {
				return state
			}
			log.Printf("[Engine] discarding stale session %s: schema mismatch", input.SessionID)
		}
	}
	return NewState(input.SessionID, input.StudentID)
}

func (e *Engine) loadStudentContext(ctx context.Context, state *State) {
	if e.students == nil || state.StudentID == 0 || state.Student != nil {
		return
	}
	student, err := e.students.LoadStudent(ctx, state.StudentID)
	if err != nil {
		log.Printf("[Engine] student load failed for %d: %v", state.StudentID, err)
		return
	}
	state.Student = student
}

func (e *Engine) persist(ctx context.Context, state *State, out *TurnOutput) {
	if e.sessions != nil {
		if err := e.sessions.Save(ctx, state); err != nil {
			log.Printf("[Engine] session save failed for %s: %v", state.SessionID, err)
		}
	}
	if e.checkpoints != nil {
		if err := e.checkpoints.Append(ctx, state, out); err != nil {
			log.Printf("[Engine] checkpoint append failed for %s: %v", state.SessionID, err)
		}
	}
}

func (e *Engine) dispatch(ctx context.Context, dest Destination, state *State) *TurnOutput {
	switch dest {
	case DestWelcome:
		return e.runWelcome(ctx, state)
	case DestConversation:
		return e.runConversation(ctx, state)
	case DestTeaching:
		return e.runTeaching(ctx, state)
	case DestModelling:
		return e.runModelling(ctx, state)
	case DestFeedback:
		return e.runFeedback(ctx, state)
	case DestScaffolding:
		return e.runScaffolding(ctx, state)
	case DestCowriting:
		return e.runCowriting(ctx, state)
	case DestPedagogy:
		return e.runPedagogy(ctx, state)
	case DestPlanAdvance:
		return e.runPlanAdvance(ctx, state)
	case DestInterrupt:
		return e.runInterrupt(ctx, state)
	default:
		return fallbackOutput("")
	}
}
