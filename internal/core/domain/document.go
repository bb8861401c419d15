package domain

import (
	"crypto/md5" //nolint:gosec // Not used for security, only for deterministic IDs.
	"fmt"
	"strings"
)

// Document is a raw ingested unit of legislative text.
// Documents exist only during ingestion; after chunking, only
// chunks are embedded and persisted.
type Document struct {
	// ID is a unique identifier assigned at load time.
	ID string

	// Content is the full extracted text.
	Content string

	// Source is the human-readable source name (usually the file name).
	Source string

	// Type is the document format tag ("pdf", "txt", "md").
	Type string

	// Path is the origin location on disk.
	Path string
}

// Chunk is a bounded-size, overlap-joined segment of a document.
// It is the unit of embedding and retrieval.
type Chunk struct {
	// ID is deterministic: identical (source, content) pairs always
	// produce the same ID, so re-ingestion is idempotent.
	ID string

	// Content is the chunk text.
	Content string

	// Source, Type and Path are inherited from the parent document.
	Source string
	Type   string
	Path   string

	// Index is the 0-based position within the parent document.
	Index int

	// Embedding is the vector representation, set during ingestion.
	Embedding []float32
}

// Retrieval is a single similarity-search hit. It is ephemeral and
// lives only for the duration of one answer cycle.
type Retrieval struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity (1 - distance), higher is better.
	Score float64
}

// NewChunkID derives a deterministic chunk identifier from the
// normalised source name and a hash of the chunk content.
func NewChunkID(source, content string) string {
	src := strings.ReplaceAll(strings.TrimSpace(source), " ", "_")
	if src == "" {
		src = "unknown"
	}
	sum := md5.Sum([]byte(content)) //nolint:gosec // Content fingerprint, not a credential.
	return fmt.Sprintf("%s_%x", src, sum[:4])
}
