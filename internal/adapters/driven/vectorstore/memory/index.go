// Package memory provides an in-memory vector index. It is used by
// tests and as a fallback when no data directory is configured;
// records do not survive process restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a mutex-guarded in-memory vector index.
type Index struct {
	mu     sync.RWMutex
	chunks map[string]domain.Chunk
}

// NewIndex creates an empty in-memory vector index.
func NewIndex() *Index {
	return &Index{
		chunks: make(map[string]domain.Chunk),
	}
}

// Upsert stores the chunks, replacing prior records with the same ID.
func (x *Index) Upsert(_ context.Context, chunks []domain.Chunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, chunk := range chunks {
		x.chunks[chunk.ID] = chunk
	}
	return nil
}

// Search scores every record against the query vector and returns up
// to k hits at or above the threshold, best first.
func (x *Index) Search(_ context.Context, query []float32, k int, threshold float64) ([]domain.Retrieval, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	results := []domain.Retrieval{}
	for _, chunk := range x.chunks {
		score := domain.CosineSimilarity(query, chunk.Embedding)
		if score < threshold {
			continue
		}
		results = append(results, domain.Retrieval{Chunk: chunk, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && len(results) > k {
		results = results[:k]
	}

	return results, nil
}

// Stats reports the record count and embedding dimensions.
func (x *Index) Stats(_ context.Context) (driven.IndexStats, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	stats := driven.IndexStats{Records: len(x.chunks)}
	for _, chunk := range x.chunks {
		stats.Dimensions = len(chunk.Embedding)
		break
	}
	return stats, nil
}

// Reset removes all records.
func (x *Index) Reset(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.chunks = make(map[string]domain.Chunk)
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}
