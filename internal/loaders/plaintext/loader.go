// Package plaintext loads text and markdown documents.
package plaintext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader reads plain text and markdown files as-is.
type Loader struct{}

// New creates a new plain text loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader accepts.
func (l *Loader) Extensions() []string {
	return []string{".txt", ".md"}
}

// Load reads the file and returns a document with its raw text.
func (l *Loader) Load(_ context.Context, path string) (*domain.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("plaintext: read %s: %w", path, err)
	}

	docType := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return &domain.Document{
		ID:      uuid.New().String(),
		Content: string(data),
		Source:  filepath.Base(path),
		Type:    docType,
		Path:    path,
	}, nil
}
