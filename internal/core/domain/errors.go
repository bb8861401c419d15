package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoDocuments indicates the documents directory yielded nothing
	// ingestible. Fatal for ingestion, not for serving.
	ErrNoDocuments = errors.New("no documents loaded")

	// ErrLLMUnavailable indicates the generation service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the vector index is not configured.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrUnsupportedFormat indicates no loader accepts the file extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)
