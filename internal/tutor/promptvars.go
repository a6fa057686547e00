package tutor

import (
	"context"
	"fmt"
	"strings"

	"rox-tutor/internal/knowledge"
)

// generate renders a named prompt template and runs it through the model.
func (e *Engine) generate(ctx context.Context, name string, vars map[string]string) (string, error) {
	if e.llm == nil || e.prompts == nil {
		return "", fmt.Errorf("generation unavailable")
	}
	prompt, err := e.prompts.Prompt(name, vars)
	if err != nil {
		return "", err
	}
	return e.llm.Generate(ctx, prompt)
}

// generateJSON renders a named prompt and decodes the JSON reply into out.
func (e *Engine) generateJSON(ctx context.Context, name string, vars map[string]string, out any) error {
	if e.llm == nil || e.prompts == nil {
		return fmt.Errorf("generation unavailable")
	}
	prompt, err := e.prompts.Prompt(name, vars)
	if err != nil {
		return err
	}
	return e.llm.GenerateJSON(ctx, prompt, out)
}

// retrieve is nil-safe knowledge access for nodes.
func (e *Engine) retrieve(ctx context.Context, query string, category knowledge.Category) []knowledge.Record {
	if e.retriever == nil {
		return nil
	}
	return e.retriever.Query(ctx, query, string(category), e.topK)
}

// promptVars assembles the variable set shared by most generator prompts.
func (e *Engine) promptVars(state *State) map[string]string {
	vars := map[string]string{
		"student_name":        "the student",
		"student_proficiency": "intermediate",
		"native_language":     "",
		"learning_goals":      "",
		"utterance":           state.Utterance,
		"history":             historyText(state.RecentHistory(e.historyWindow)),
	}
	if state.Student != nil {
		if state.Student.Name != "" {
			vars["student_name"] = state.Student.Name
		}
		if state.Student.Proficiency != "" {
			vars["student_proficiency"] = state.Student.Proficiency
		}
		vars["native_language"] = state.Student.NativeLanguage
		vars["learning_goals"] = strings.Join(state.Student.LearningGoals, ", ")
	}
	return vars
}

func historyText(history []Message) string {
	if len(history) == 0 {
		return "(no conversation so far)"
	}
	var b strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

// knowledgeText formats retrieved records as a numbered grounding block.
func knowledgeText(records []knowledge.Record) string {
	if len(records) == 0 {
		return "(no reference material retrieved)"
	}
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, knowledge.DocumentText(rec))
	}
	return strings.TrimRight(b.String(), "\n")
}
