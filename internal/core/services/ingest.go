package services

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/statutelabs/billchat/internal/chunker"
	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
	"github.com/statutelabs/billchat/internal/core/ports/driving"
	"github.com/statutelabs/billchat/internal/loaders"
	"github.com/statutelabs/billchat/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// watchDebounce coalesces bursts of filesystem events (editors often
// write a file several times in quick succession) into one re-ingest.
const watchDebounce = 2 * time.Second

// IngestService walks the documents directory, extracts text, splits
// it into chunks, embeds them and stores them in the vector index.
type IngestService struct {
	registry *loaders.Registry
	splitter *chunker.Splitter
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	docsDir  string
}

// NewIngestService creates the ingestion service.
func NewIngestService(
	registry *loaders.Registry,
	splitter *chunker.Splitter,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	docsDir string,
) *IngestService {
	return &IngestService{
		registry: registry,
		splitter: splitter,
		embedder: embedder,
		index:    index,
		docsDir:  docsDir,
	}
}

// Ingest runs one full pass over the documents directory.
//
// Unreadable or unsupported files are skipped with a warning; the rest
// of the corpus is still processed. Zero loadable documents is an
// error: an ingest that indexes nothing is a misconfiguration, not a
// success.
func (s *IngestService) Ingest(ctx context.Context, opts driving.IngestOptions) (driving.IngestStats, error) {
	logger.Section("Ingestion")
	logger.Info("Documents directory: %s", s.docsDir)

	var stats driving.IngestStats

	if opts.Reset {
		logger.Info("Resetting index before ingestion")
		if err := s.index.Reset(ctx); err != nil {
			return stats, fmt.Errorf("ingest: reset index: %w", err)
		}
	}

	paths, err := s.collectPaths()
	if err != nil {
		return stats, fmt.Errorf("ingest: scan %s: %w", s.docsDir, err)
	}

	var chunks []domain.Chunk
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if !s.registry.Supports(path) {
			logger.Debug("Skipping unsupported file: %s", path)
			stats.Skipped++
			continue
		}

		doc, err := s.registry.Load(ctx, path)
		if err != nil {
			logger.Warn("Skipping unreadable file %s: %v", path, err)
			stats.Skipped++
			continue
		}

		docChunks := s.splitter.Split(doc)
		if len(docChunks) == 0 {
			logger.Warn("Skipping empty document: %s", path)
			stats.Skipped++
			continue
		}

		logger.Debug("Loaded %s: %d chunks", doc.Source, len(docChunks))
		stats.Documents++
		chunks = append(chunks, docChunks...)
	}

	if stats.Documents == 0 {
		return stats, fmt.Errorf("ingest: %w in %s", domain.ErrNoDocuments, s.docsDir)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return stats, fmt.Errorf("ingest: embed chunks: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := s.index.Upsert(ctx, chunks); err != nil {
		return stats, fmt.Errorf("ingest: index chunks: %w", err)
	}
	stats.Chunks = len(chunks)

	logger.Info("Ingested %d documents (%d chunks, %d skipped)",
		stats.Documents, stats.Chunks, stats.Skipped)
	return stats, nil
}

// Watch blocks and re-ingests whenever the documents directory
// changes, until the context is cancelled. Events are debounced so a
// burst of writes triggers a single pass.
func (s *IngestService) Watch(ctx context.Context, opts driving.IngestOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("ingest: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.docsDir); err != nil {
		return fmt.Errorf("ingest: watch %s: %w", s.docsDir, err)
	}
	logger.Info("Watching %s for changes", s.docsDir)

	// Reset only applies to the initial pass; re-ingests are additive
	// so unchanged chunks keep their records.
	if _, err := s.Ingest(ctx, opts); err != nil {
		logger.Warn("Initial ingestion failed: %v", err)
	}
	opts.Reset = false

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			logger.Debug("Change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				timer.Reset(watchDebounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			if _, err := s.Ingest(ctx, opts); err != nil {
				logger.Warn("Re-ingestion failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// collectPaths lists regular files under the documents directory in a
// stable order. Subdirectories are descended into.
func (s *IngestService) collectPaths() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.docsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
