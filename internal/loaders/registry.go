package loaders

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/statutelabs/billchat/internal/core/domain"
	"github.com/statutelabs/billchat/internal/core/ports/driven"
)

// Registry selects a loader by file extension.
type Registry struct {
	byExt map[string]driven.DocumentLoader
}

// NewRegistry creates a registry with the given loaders. Later loaders
// win when extensions collide.
func NewRegistry(loaders ...driven.DocumentLoader) *Registry {
	r := &Registry{byExt: make(map[string]driven.DocumentLoader)}
	for _, l := range loaders {
		r.Register(l)
	}
	return r
}

// Register adds a loader for all of its extensions.
func (r *Registry) Register(l driven.DocumentLoader) {
	for _, ext := range l.Extensions() {
		r.byExt[strings.ToLower(ext)] = l
	}
}

// Supports reports whether any registered loader accepts the file.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Load dispatches to the loader registered for the file's extension.
func (r *Registry) Load(ctx context.Context, path string) (*domain.Document, error) {
	l, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, domain.ErrUnsupportedFormat
	}
	return l.Load(ctx, path)
}
