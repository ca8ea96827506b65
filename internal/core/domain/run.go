package domain

import "time"

// IngestRun records one completed ingestion: which document was
// processed, how much of it reached the index, and when. Runs form an
// append-only history used by the status surface.
type IngestRun struct {
	// ID is the unique identifier for the run.
	ID string

	// DocumentURI is the location of the ingested document.
	DocumentURI string

	// Chunks is the number of chunks produced by splitting.
	Chunks int

	// Entries is the number of entries inserted into the index.
	Entries int

	// Dimensions is the embedding size used for this run.
	Dimensions int

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}
