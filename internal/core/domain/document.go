package domain

// Document represents the extracted text of a single source document.
// It is the canonical representation after loading and is discarded
// once chunked: only chunks reach the index, never the whole document.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title, usually the file name.
	Title string

	// Content is the full extracted text before chunking.
	Content string
}

// Chunk represents an overlapping slice of a document's text.
// Documents are split into chunks so retrieval can return passages
// small enough to embed and assemble into a prompt context.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk. Its length never
	// exceeds the configured chunk size.
	Content string

	// Position is the ordinal position within the document.
	Position int

	// StartOffset is the byte offset of this chunk's first character
	// in the document content. Consecutive chunks overlap: chunk n+1
	// starts overlap bytes before chunk n ends.
	StartOffset int
}
