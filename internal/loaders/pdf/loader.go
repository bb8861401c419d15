// Package pdf loads PDF documents, extracting plain text page by page.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader extracts text from PDF files. Extraction fidelity depends on
// how the PDF was produced; scanned documents without a text layer
// yield empty content and are skipped by the ingestion service.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader accepts.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Load opens the PDF and extracts its plain text.
func (l *Loader) Load(_ context.Context, path string) (*domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pdf: open %s: %w", path, err)
	}
	defer f.Close()

	text, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("pdf: extract text from %s: %w", path, err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, text); err != nil {
		return nil, fmt.Errorf("pdf: read text from %s: %w", path, err)
	}

	return &domain.Document{
		ID:      uuid.New().String(),
		Content: buf.String(),
		Source:  filepath.Base(path),
		Type:    "pdf",
		Path:    path,
	}, nil
}
