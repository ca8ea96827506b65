// Package chunker splits document text into overlapping chunks sized
// for embedding. Cuts prefer natural boundaries: a paragraph break
// over a line break, a line break over a word boundary, a word
// boundary over a raw byte cut.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
)

// DefaultChunkSize is the default maximum chunk length in bytes.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping bytes.
const DefaultChunkOverlap = 150

// Boundary classes, in preference order.
var separators = []string{"\n\n", "\n", " "}

// Splitter splits document content into overlapping chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk length in bytes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in bytes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options. Overlap must stay
// below the chunk size; settings validation reports that as a
// configuration error before a splitter is ever built, and New clamps
// to size/4 as a second line of defence.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured maximum chunk length.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// Split cuts the document content into chunks. Each chunk is a raw
// slice of the content, never longer than the chunk size, and each
// new chunk restarts overlap bytes before the previous cut, so
// consecutive chunks share that region verbatim. Content that is
// empty or whitespace-only produces no chunks; callers decide whether
// that is an error.
func (s *Splitter) Split(doc *domain.Document) []domain.Chunk {
	content := doc.Content
	if strings.TrimSpace(content) == "" {
		return nil
	}

	contentLen := len(content)
	estimated := contentLen/(s.chunkSize-s.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	position := 0
	start := 0

	for start < contentLen {
		cut := s.cutPoint(content, start)

		chunks = append(chunks, domain.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			Content:     content[start:cut],
			Position:    position,
			StartOffset: start,
		})
		position++

		if cut >= contentLen {
			break
		}
		next := cut - s.overlap
		if next <= start {
			// Rune backoff on a raw cut can leave a chunk no longer
			// than the overlap; skip the overlap rather than loop.
			next = cut
		}
		start = next
	}

	return chunks
}

// cutPoint returns the end of the chunk starting at start. The final
// chunk simply takes the rest. Otherwise the cut lands just after the
// last usable boundary in the window, trying paragraph breaks first,
// then line breaks, then spaces, and falling back to a raw cut at a
// rune boundary. A boundary is usable only if it leaves the chunk
// longer than the overlap, which guarantees the restart at cut-overlap
// always moves forward.
func (s *Splitter) cutPoint(content string, start int) int {
	contentLen := len(content)
	end := start + s.chunkSize
	if end >= contentLen {
		return contentLen
	}

	window := content[start:end]
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx >= 0 {
			cut := start + idx + len(sep)
			if cut-start > s.overlap {
				return cut
			}
		}
	}

	for end > start+1 && !utf8.RuneStart(content[end]) {
		end--
	}
	return end
}
