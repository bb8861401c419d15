package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statutelabs/billchat/internal/core/domain"
)

func TestIndex_UpsertAndSearch(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	chunks := []domain.Chunk{
		{ID: "a", Content: "income tax", Source: "BillA", Embedding: []float32{1, 0}},
		{ID: "b", Content: "value added tax", Source: "BillB", Embedding: []float32{0, 1}},
	}
	require.NoError(t, x.Upsert(ctx, chunks))

	results, err := x.Search(ctx, []float32{1, 0}, 5, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Chunk.ID)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestIndex_UpsertReplacesByID(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.Chunk{{ID: "a", Embedding: []float32{1, 0}}}))
	require.NoError(t, x.Upsert(ctx, []domain.Chunk{{ID: "a", Embedding: []float32{0, 1}}}))

	stats, err := x.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Records)
	assert.Equal(t, 2, stats.Dimensions)
}

func TestIndex_EmptySearch(t *testing.T) {
	x := NewIndex()

	results, err := x.Search(context.Background(), []float32{1, 0}, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndex_Reset(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	require.NoError(t, x.Upsert(ctx, []domain.Chunk{{ID: "a", Embedding: []float32{1}}}))
	require.NoError(t, x.Reset(ctx))

	stats, err := x.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Records)
}

func TestIndex_ConcurrentAccess(t *testing.T) {
	x := NewIndex()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = x.Upsert(ctx, []domain.Chunk{{
				ID:        fmt.Sprintf("chunk-%d", n),
				Embedding: []float32{float32(n), 1},
			}})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = x.Search(ctx, []float32{1, 1}, 3, 0)
		}()
	}
	wg.Wait()

	stats, err := x.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, stats.Records)
}
