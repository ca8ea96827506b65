// Package loaders provides implementations of the DocumentLoader
// interface for various document formats. Each loader knows how to
// extract text from the file extensions it declares.
//
// Loaders are registered with the Registry at startup; unknown
// extensions fall back to the plain text loader.
package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
	"github.com/ansa-labs/ansa-cli/internal/loaders/docx"
	"github.com/ansa-labs/ansa-cli/internal/loaders/html"
	"github.com/ansa-labs/ansa-cli/internal/loaders/markdown"
	"github.com/ansa-labs/ansa-cli/internal/loaders/pdf"
	"github.com/ansa-labs/ansa-cli/internal/loaders/plaintext"
	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry selects a DocumentLoader by file extension.
type Registry struct {
	loaders  []driven.DocumentLoader
	fallback driven.DocumentLoader
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// NewDefaultRegistry creates a registry with all built-in loaders and
// the plain text loader as fallback.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(plaintext.New())
	r.Register(markdown.New())
	r.Register(html.New())
	r.Register(docx.New())
	r.Register(pdf.New())
	r.SetFallback(plaintext.New())
	return r
}

// Register adds a loader to the registry.
func (r *Registry) Register(l driven.DocumentLoader) {
	r.loaders = append(r.loaders, l)
}

// SetFallback sets the loader used when no extension matches.
func (r *Registry) SetFallback(l driven.DocumentLoader) {
	r.fallback = l
}

// ForPath returns the highest-priority loader that handles the path's
// extension, or the fallback when nothing matches. With no fallback
// configured an unknown extension is an input error.
func (r *Registry) ForPath(path string) (driven.DocumentLoader, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var best driven.DocumentLoader
	for _, l := range r.loaders {
		for _, e := range l.Extensions() {
			if e != ext {
				continue
			}
			if best == nil || l.Priority() > best.Priority() {
				best = l
			}
		}
	}

	if best != nil {
		return best, nil
	}
	if r.fallback != nil {
		logger.Debug("no loader for %q, falling back to plain text", ext)
		return r.fallback, nil
	}
	return nil, fmt.Errorf("%w: unsupported document type %q", domain.ErrInvalidInput, ext)
}

// Load selects a loader for the path and runs it.
func (r *Registry) Load(ctx context.Context, path string) (*domain.Document, error) {
	l, err := r.ForPath(path)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, path)
}
