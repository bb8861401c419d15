package driven

// Prompt names used by the answer pipeline.
const (
	// PromptSystem is the grounded-answer system instruction.
	PromptSystem = "system"

	// PromptRetrievalDecision classifies whether a message needs retrieval.
	PromptRetrievalDecision = "retrieval_decision"
)

// PromptStore loads named prompt templates.
// Implementations fall back to embedded defaults when a prompt
// has not been customised.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	Load(name string) (string, error)
}
