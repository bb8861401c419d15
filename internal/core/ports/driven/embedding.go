package driven

import "context"

// EmbeddingService converts text into fixed-dimension vectors.
//
// Note: This is separate from VectorIndex which stores and searches vectors.
// EmbeddingService generates vectors; VectorIndex stores them.
//
// Implementations batch large inputs and are expected to degrade rather
// than fail: a batch that cannot be embedded yields zero vectors of the
// expected dimension so ingestion can complete, and a query that cannot
// be embedded yields a zero vector the caller tolerates.
type EmbeddingService interface {
	// EmbedDocuments generates embeddings for document chunks at index time.
	// The result always has one vector per input text.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size (e.g. 768).
	// This is determined by the model and must match the VectorIndex.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
