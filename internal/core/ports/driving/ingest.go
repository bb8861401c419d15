package driving

import "context"

// IngestService loads, chunks, embeds and indexes the document corpus.
type IngestService interface {
	// Ingest runs one full ingestion pass over the documents directory.
	Ingest(ctx context.Context, opts IngestOptions) (IngestStats, error)

	// Watch blocks and re-ingests whenever the documents directory
	// changes, until the context is cancelled.
	Watch(ctx context.Context, opts IngestOptions) error
}

// IngestOptions configures an ingestion pass.
type IngestOptions struct {
	// Reset clears the index before ingesting.
	Reset bool
}

// IngestStats summarises an ingestion pass.
type IngestStats struct {
	// Documents is the number of files successfully loaded.
	Documents int

	// Skipped is the number of files skipped (unreadable, empty, or
	// unsupported format).
	Skipped int

	// Chunks is the number of chunks embedded and indexed.
	Chunks int
}
