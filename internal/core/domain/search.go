package domain

import "time"

// IndexedEntry is a chunk as stored in the vector index: its text, its
// embedding, and enough provenance to trace it back to the document.
// The index is append-only; entries are never updated or deleted, and
// re-ingesting the same document accumulates duplicate entries.
type IndexedEntry struct {
	// ID is the unique identifier for the entry.
	ID string

	// DocumentID links to the document this entry was chunked from.
	DocumentID string

	// DocumentURI is the original location of that document.
	DocumentURI string

	// Position is the chunk's ordinal position within the document.
	Position int

	// Content is the chunk text.
	Content string

	// Embedding is the vector representation of Content. Its length
	// must match the collection's dimensionality.
	Embedding []float32

	// CreatedAt is when the entry was inserted.
	CreatedAt time.Time
}

// SearchResult represents a single similarity hit, most similar first.
// Ties are broken by insertion order: the earlier entry ranks first.
type SearchResult struct {
	// Entry is the matched index entry, text included.
	Entry IndexedEntry

	// Score is the cosine similarity between the query vector and the
	// entry's embedding.
	Score float64
}

// IndexStats describes the state of a collection.
type IndexStats struct {
	// Entries is the number of stored entries.
	Entries int

	// Dimensions is the vector size the collection was created with,
	// or zero while the collection is still empty.
	Dimensions int
}
