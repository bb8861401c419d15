package driven

import "context"

// LLMService provides text generation for the answer pipeline.
//
// Implementations raise errors on failure; callers convert failures
// into fixed fallback responses rather than propagating them.
type LLMService interface {
	// Generate produces a text completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// TopP is the nucleus sampling cutoff. Zero means provider default.
	TopP float64
}
