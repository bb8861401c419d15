package domain

import "time"

// ExcerptLimit is the maximum number of characters of chunk content
// included in a citation before truncation.
const ExcerptLimit = 200

// ExcerptMarker is appended to truncated citation excerpts.
const ExcerptMarker = "..."

// Answer is the structured result of one question-answering cycle.
type Answer struct {
	// SessionID identifies the conversation this answer belongs to.
	SessionID string

	// Response is the generated (or fallback) answer text.
	Response string

	// Sources lists the citations backing the response. Empty when
	// no retrieval happened or nothing cleared the threshold.
	Sources []Source

	// Retrieved reports whether the pipeline decided to search the corpus.
	Retrieved bool

	// Timestamp is when the request entered the pipeline.
	Timestamp time.Time
}

// Source is a citation back to a retrieved chunk.
type Source struct {
	// Document is the source document name.
	Document string

	// Type is the document format tag.
	Type string

	// Score is the similarity score of the cited chunk.
	Score float64

	// Excerpt is the chunk content capped at ExcerptLimit characters.
	Excerpt string
}

// NewSource builds a citation from a retrieval hit, truncating the
// excerpt to ExcerptLimit characters. Truncation counts runes, not
// bytes, so multi-byte content is never cut mid-sequence.
func NewSource(r Retrieval) Source {
	excerpt := r.Chunk.Content
	if runes := []rune(excerpt); len(runes) > ExcerptLimit {
		excerpt = string(runes[:ExcerptLimit]) + ExcerptMarker
	}
	return Source{
		Document: r.Chunk.Source,
		Type:     r.Chunk.Type,
		Score:    r.Score,
		Excerpt:  excerpt,
	}
}
