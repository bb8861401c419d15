// Package docx loads Word documents by unpacking the OOXML archive and
// extracting paragraph text from word/document.xml.
package docx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader extracts plain text from .docx files.
type Loader struct{}

// New creates a new Word document loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader accepts.
func (l *Loader) Extensions() []string {
	return []string{".docx"}
}

// Load opens the file as a ZIP archive and extracts the document body,
// joining paragraphs with blank lines so paragraph breaks survive as
// chunking separators.
func (l *Loader) Load(_ context.Context, path string) (*domain.Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("docx: open %s: %w", path, err)
	}
	defer reader.Close()

	content, err := extractDocumentText(&reader.Reader)
	if err != nil {
		return nil, fmt.Errorf("docx: read %s: %w", path, err)
	}

	return &domain.Document{
		ID:      uuid.New().String(),
		Content: content,
		Source:  filepath.Base(path),
		Type:    "docx",
		Path:    path,
	}, nil
}

// extractDocumentText reads word/document.xml from the archive.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", err
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}

		return parseDocumentXML(content)
	}
	return "", fmt.Errorf("%w: no document body", domain.ErrInvalidInput)
}

// documentXML mirrors the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML joins the text runs of each paragraph, and the
// paragraphs with blank lines.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", err
	}

	paragraphs := make([]string, 0, len(doc.Body.Paragraphs))
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, run := range para.Runs {
			for _, text := range run.Text {
				b.WriteString(text.Content)
			}
		}
		if p := strings.TrimSpace(b.String()); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}

	return strings.Join(paragraphs, "\n\n"), nil
}
