package llm

import "context"

// Client is the LLM capability the tutor graph depends on. Routing and the
// plan loop only ever see this interface, so the deterministic parts can be
// tested with a mock and no network.
type Client interface {
	// Generate returns free text for a prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateJSON asks for a JSON response and unmarshals it into out.
	// Markdown code fences around the JSON are tolerated.
	GenerateJSON(ctx context.Context, prompt string, out any) error

	// Classify maps an utterance to exactly one of the given labels.
	Classify(ctx context.Context, instruction string, utterance string, labels []string) (string, error)
}
