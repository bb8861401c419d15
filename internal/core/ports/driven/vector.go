package driven

import (
	"context"

	"github.com/statutelabs/billchat/internal/core/domain"
)

// VectorIndex stores chunk embeddings and performs cosine similarity search.
//
// Mutations (Upsert, Reset) are serialised by the implementation;
// searches may run concurrently with other searches.
type VectorIndex interface {
	// Upsert stores the chunks with their embeddings, replacing any
	// prior records with the same chunk ID. Re-ingesting identical
	// chunks leaves the record count unchanged.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to k records nearest to the query vector whose
	// similarity score (1 - cosine distance) is at least threshold,
	// ordered by descending score. Fewer than k matches above the
	// threshold return only the matching subset, possibly empty.
	// Searching an empty index returns an empty slice, not an error.
	Search(ctx context.Context, query []float32, k int, threshold float64) ([]domain.Retrieval, error)

	// Stats reports operational information about the index.
	Stats(ctx context.Context) (IndexStats, error)

	// Reset irreversibly removes all records.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// IndexStats describes the current state of a vector index.
type IndexStats struct {
	// Records is the number of stored chunk records.
	Records int

	// Dimensions is the vector size of stored embeddings, 0 when empty.
	Dimensions int

	// Path is the on-disk location, empty for in-memory indexes.
	Path string
}
