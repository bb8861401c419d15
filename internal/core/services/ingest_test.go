package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statutelabs/billchat/internal/adapters/driven/vectorstore/memory"
	"github.com/statutelabs/billchat/internal/chunker"
	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driving"
	"github.com/statutelabs/billchat/internal/loaders"
	"github.com/statutelabs/billchat/internal/loaders/plaintext"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

func newIngest(t *testing.T, docsDir string, index *memory.Index) *IngestService {
	t.Helper()
	return NewIngestService(
		loaders.NewRegistry(plaintext.New()),
		chunker.New(chunker.WithChunkSize(20), chunker.WithChunkOverlap(5)),
		fixedEmbedder{vec: []float32{1, 0, 0}},
		index,
		docsDir,
	)
}

func TestIngestService_Ingest(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "billa.txt", "income tax exemption threshold N800,000 applies to low earners")
	writeDoc(t, dir, "billb.md", "VAT distribution 60/20/20 between federal state and local government")

	index := memory.NewIndex()
	svc := newIngest(t, dir, index)

	stats, err := svc.Ingest(context.Background(), driving.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 0, stats.Skipped)
	assert.Greater(t, stats.Chunks, 0)

	idxStats, err := index.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.Chunks, idxStats.Records)
	assert.Equal(t, 3, idxStats.Dimensions)
}

func TestIngestService_SkipsUnsupportedAndEmpty(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "billa.txt", "taxable income bands are revised")
	writeDoc(t, dir, "scan.docx", "binary-ish")
	writeDoc(t, dir, "empty.txt", "   \n\n  ")

	svc := newIngest(t, dir, memory.NewIndex())

	stats, err := svc.Ingest(context.Background(), driving.IngestOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 2, stats.Skipped)
}

func TestIngestService_EmptyCorpusIsFatal(t *testing.T) {
	svc := newIngest(t, t.TempDir(), memory.NewIndex())

	_, err := svc.Ingest(context.Background(), driving.IngestOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestIngestService_ReingestIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "billa.txt", "income tax exemption threshold N800,000 applies to low earners")

	index := memory.NewIndex()
	svc := newIngest(t, dir, index)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, driving.IngestOptions{})
	require.NoError(t, err)
	second, err := svc.Ingest(ctx, driving.IngestOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.Chunks, second.Chunks)

	stats, err := index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Chunks, stats.Records,
		"unchanged content maps to the same chunk IDs, so the index must not grow")
}

func TestIngestService_ResetClearsIndex(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "billa.txt", "income tax exemption threshold")

	index := memory.NewIndex()
	ctx := context.Background()
	require.NoError(t, index.Upsert(ctx, []domain.Chunk{{
		ID: "stale", Content: "old record", Source: "old", Embedding: []float32{0, 0, 1},
	}}))

	svc := newIngest(t, dir, index)
	stats, err := svc.Ingest(ctx, driving.IngestOptions{Reset: true})
	require.NoError(t, err)

	idxStats, err := index.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.Chunks, idxStats.Records, "reset removes records from prior ingests")
}

func TestIngestService_WalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "2024")
	require.NoError(t, os.MkdirAll(sub, 0700))
	writeDoc(t, sub, "billa.txt", "nested corpus file about tax reform")

	svc := newIngest(t, dir, memory.NewIndex())
	stats, err := svc.Ingest(context.Background(), driving.IngestOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
}

func TestIngestService_WatchStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "billa.txt", "income tax exemption threshold")

	svc := newIngest(t, dir, memory.NewIndex())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- svc.Watch(ctx, driving.IngestOptions{}) }()

	// Give the watcher a moment to start before cancelling
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
