package driven

import (
	"context"

	"github.com/statutelabs/billchat/internal/core/domain"
)

// DocumentLoader extracts plain text from a source file.
// Each loader handles one or more file extensions.
type DocumentLoader interface {
	// Extensions returns the lower-case file extensions this loader
	// accepts, including the leading dot (".pdf", ".txt").
	Extensions() []string

	// Load reads the file and returns a document with extracted text.
	Load(ctx context.Context, path string) (*domain.Document, error)
}
