// Package chunker splits document text into overlapping segments sized
// for embedding and context-window budgets.
package chunker

import (
	"regexp"
	"strings"

	"github.com/statutelabs/billchat/internal/core/domain"
)

// DefaultChunkSize is the default chunk size in words.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default overlap between chunks in words.
const DefaultChunkOverlap = 200

// separators are tried coarse to fine. The empty string means
// character-level splitting and always matches.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// blankRuns matches three or more consecutive newlines. Collapsing them
// to a single paragraph break avoids degenerate empty segments.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// Splitter produces overlapping chunks from document text using
// separator-priority splitting: the coarsest separator present in the
// text is used to segment it, and segments are greedily merged into
// chunks bounded by a word count.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in words.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the overlap between consecutive chunks in words.
func WithChunkOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Overlap must leave room for new content in each chunk
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// Split chunks the document and stamps each chunk with inherited
// metadata, its ordinal index and a deterministic ID.
func (s *Splitter) Split(doc *domain.Document) []domain.Chunk {
	if strings.TrimSpace(doc.Content) == "" {
		return nil
	}

	text := blankRuns.ReplaceAllString(doc.Content, "\n\n")
	pieces := s.splitText(text)

	chunks := make([]domain.Chunk, 0, len(pieces))
	for _, piece := range pieces {
		content := strings.TrimSpace(piece)
		if content == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:      domain.NewChunkID(doc.Source, content),
			Content: content,
			Source:  doc.Source,
			Type:    doc.Type,
			Path:    doc.Path,
			Index:   len(chunks),
		})
	}

	return chunks
}

// splitText segments the text on the coarsest separator present, then
// greedily merges segments into word-bounded pieces with overlap
// carried across boundaries.
func (s *Splitter) splitText(text string) []string {
	sep := chooseSeparator(text)

	var segments []string
	if sep == "" {
		segments = strings.Split(text, "")
	} else {
		segments = strings.Split(text, sep)
	}

	var pieces []string
	var buf []string
	bufWords := 0

	for _, seg := range segments {
		segWords := wordCount(seg)

		if bufWords+segWords > s.chunkSize && len(buf) > 0 {
			pieces = append(pieces, strings.Join(buf, sep))
			buf, bufWords = s.overlapTail(buf)
		}

		// A single segment larger than chunkSize passes through
		// unsplit; the next iteration closes it.
		buf = append(buf, seg)
		bufWords += segWords
	}

	if len(buf) > 0 {
		pieces = append(pieces, strings.Join(buf, sep))
	}

	return pieces
}

// overlapTail returns the trailing segments of a just-closed buffer that
// seed the next one. Segments are accumulated from the end until the
// configured overlap is covered, but never the whole buffer, so every
// chunk advances through the text.
func (s *Splitter) overlapTail(buf []string) ([]string, int) {
	if s.overlap == 0 || len(buf) == 0 {
		return nil, 0
	}

	covered := 0
	start := len(buf)
	for start > 1 && covered < s.overlap {
		start--
		covered += wordCount(buf[start])
	}

	tail := make([]string, len(buf)-start)
	copy(tail, buf[start:])
	return tail, covered
}

// chooseSeparator returns the first separator that occurs in the text,
// falling back to character-level splitting.
func chooseSeparator(text string) string {
	for _, sep := range separators {
		if sep == "" {
			return ""
		}
		if strings.Contains(text, sep) {
			return sep
		}
	}
	return ""
}

func wordCount(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return len(strings.Fields(s))
}
