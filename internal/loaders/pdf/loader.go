package pdf

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	ledongthuc "github.com/ledongthuc/pdf"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.DocumentLoader = (*Loader)(nil)

// Loader handles PDF documents.
type Loader struct{}

// New creates a new PDF loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the file extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".pdf"}
}

// Priority returns the selection priority.
func (l *Loader) Priority() int {
	return 60
}

// Load extracts the text of every page, pages joined by a blank line
// so page breaks look like paragraph breaks to the chunker. A PDF
// with no text layer (scanned images) yields empty content; callers
// treat that as an input error.
func (l *Loader) Load(_ context.Context, path string) (doc *domain.Document, err error) {
	// The parser panics on some malformed files; surface that as an
	// input error instead of crashing the CLI.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: malformed pdf %s: %v", domain.ErrInvalidInput, path, r)
		}
	}()

	f, reader, err := ledongthuc.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: document not found: %s", domain.ErrInvalidInput, path)
		}
		return nil, fmt.Errorf("%w: open pdf %s: %v", domain.ErrInvalidInput, path, err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: extract pdf text from page %d: %v", domain.ErrInvalidInput, i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(text))
	}

	return &domain.Document{
		ID:      uuid.New().String(),
		URI:     path,
		Title:   extractTitle(path),
		Content: sb.String(),
	}, nil
}

// extractTitle extracts a human-readable title from a file path.
func extractTitle(path string) string {
	filename := filepath.Base(path)

	ext := filepath.Ext(filename)
	if ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}

	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")

	return filename
}
