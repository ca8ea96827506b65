// Package milvus provides a Milvus-backed implementation of the vector index.
//
// The adapter targets a standalone Milvus instance through the v2 client.
// Entries are appended to a named collection with an HNSW index over the
// embedding field. Unlike the embedded backends, equal-score result order
// follows Milvus internals rather than insertion order.
package milvus

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/milvus-io/milvus/client/v2/column"
	"github.com/milvus-io/milvus/client/v2/entity"
	"github.com/milvus-io/milvus/client/v2/index"
	"github.com/milvus-io/milvus/client/v2/milvusclient"

	"github.com/ansa-labs/ansa-cli/internal/core/domain"
	"github.com/ansa-labs/ansa-cli/internal/core/ports/driven"
	"github.com/ansa-labs/ansa-cli/internal/logger"
)

// Field names for the collection schema.
const (
	fieldID          = "id"
	fieldDocumentID  = "document_id"
	fieldDocumentURI = "document_uri"
	fieldPosition    = "position"
	fieldContent     = "content"
	fieldEmbedding   = "embedding"
	fieldCreatedAt   = "created_at"
)

// HNSW build parameters, following the Milvus defaults for small collections.
const (
	hnswM              = 16
	hnswEfConstruction = 200
)

// queryWindow caps how many entries a single listing query retrieves.
// Milvus rejects query windows beyond 16384.
const queryWindow = 16384

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Config holds connection parameters for the Milvus backend.
type Config struct {
	// Address is the Milvus server address (host:port).
	Address string

	// Collection is the collection name entries are stored in.
	Collection string

	// Dimensions is the embedding size enforced by the collection schema.
	Dimensions int
}

// Index is a Milvus-backed implementation of driven.VectorIndex.
type Index struct {
	client     *milvusclient.Client
	collection string
	dims       int
}

// New connects to Milvus and ensures the collection exists, is indexed,
// and is loaded into memory.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("%w: milvus address is required", domain.ErrInvalidConfig)
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: milvus index needs a positive dimension", domain.ErrInvalidConfig)
	}
	if cfg.Collection == "" {
		cfg.Collection = domain.DefaultCollection
	}

	client, err := milvusclient.New(ctx, &milvusclient.ClientConfig{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to milvus at %s: %v", domain.ErrDependency, cfg.Address, err)
	}

	idx := &Index{
		client:     client,
		collection: cfg.Collection,
		dims:       cfg.Dimensions,
	}
	if err := idx.ensureCollection(ctx); err != nil {
		client.Close(ctx) //nolint:errcheck
		return nil, err
	}
	return idx, nil
}

// ensureCollection creates the collection and its vector index when missing,
// then loads it into memory. Loading an already loaded collection is fine.
func (i *Index) ensureCollection(ctx context.Context) error {
	exists, err := i.client.HasCollection(ctx, milvusclient.NewHasCollectionOption(i.collection))
	if err != nil {
		return fmt.Errorf("%w: checking collection %s: %v", domain.ErrDependency, i.collection, err)
	}

	if !exists {
		schema := &entity.Schema{
			CollectionName: i.collection,
			Description:    "Document chunks with embeddings for similarity search",
			Fields: []*entity.Field{
				{
					Name:       fieldID,
					DataType:   entity.FieldTypeVarChar,
					PrimaryKey: true,
					AutoID:     false,
					TypeParams: map[string]string{
						"max_length": "100",
					},
				},
				{
					Name:     fieldDocumentID,
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "100",
					},
				},
				{
					Name:     fieldDocumentURI,
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "1024",
					},
				},
				{
					Name:     fieldPosition,
					DataType: entity.FieldTypeInt64,
				},
				{
					Name:     fieldContent,
					DataType: entity.FieldTypeVarChar,
					TypeParams: map[string]string{
						"max_length": "65535",
					},
				},
				{
					Name:     fieldEmbedding,
					DataType: entity.FieldTypeFloatVector,
					TypeParams: map[string]string{
						"dim": fmt.Sprintf("%d", i.dims),
					},
				},
				{
					Name:     fieldCreatedAt,
					DataType: entity.FieldTypeInt64,
				},
			},
		}

		createOpt := milvusclient.NewCreateCollectionOption(i.collection, schema)
		if err := i.client.CreateCollection(ctx, createOpt); err != nil {
			return fmt.Errorf("%w: creating collection %s: %v", domain.ErrDependency, i.collection, err)
		}

		denseIdx := index.NewHNSWIndex(entity.COSINE, hnswM, hnswEfConstruction)
		indexOpt := milvusclient.NewCreateIndexOption(i.collection, fieldEmbedding, denseIdx)
		if _, err := i.client.CreateIndex(ctx, indexOpt); err != nil {
			return fmt.Errorf("%w: creating index on %s: %v", domain.ErrDependency, i.collection, err)
		}

		logger.Info("Created milvus collection %s (dim=%d)", i.collection, i.dims)
	}

	if _, err := i.client.LoadCollection(ctx, milvusclient.NewLoadCollectionOption(i.collection)); err != nil {
		return fmt.Errorf("%w: loading collection %s: %v", domain.ErrDependency, i.collection, err)
	}
	return nil
}

// Insert appends entries to the collection and flushes so they are
// immediately visible to stats and listings.
func (i *Index) Insert(ctx context.Context, entries []domain.IndexedEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	ids := make([]string, len(entries))
	docIDs := make([]string, len(entries))
	docURIs := make([]string, len(entries))
	positions := make([]int64, len(entries))
	contents := make([]string, len(entries))
	embeddings := make([][]float32, len(entries))
	createdAts := make([]int64, len(entries))

	for n, entry := range entries {
		if len(entry.Embedding) == 0 {
			return 0, fmt.Errorf("%w: entry %s has no embedding", domain.ErrInvalidInput, entry.ID)
		}
		if len(entry.Embedding) != i.dims {
			return 0, fmt.Errorf("%w: entry %s has %d dimensions, collection has %d",
				domain.ErrDimensionMismatch, entry.ID, len(entry.Embedding), i.dims)
		}

		createdAt := entry.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		ids[n] = entry.ID
		docIDs[n] = entry.DocumentID
		docURIs[n] = entry.DocumentURI
		positions[n] = int64(entry.Position)
		contents[n] = entry.Content
		embeddings[n] = entry.Embedding
		createdAts[n] = createdAt.Unix()
	}

	insertOpt := milvusclient.NewColumnBasedInsertOption(i.collection,
		column.NewColumnVarChar(fieldID, ids),
		column.NewColumnVarChar(fieldDocumentID, docIDs),
		column.NewColumnVarChar(fieldDocumentURI, docURIs),
		column.NewColumnInt64(fieldPosition, positions),
		column.NewColumnVarChar(fieldContent, contents),
		column.NewColumnFloatVector(fieldEmbedding, i.dims, embeddings),
		column.NewColumnInt64(fieldCreatedAt, createdAts),
	)

	result, err := i.client.Insert(ctx, insertOpt)
	if err != nil {
		return 0, fmt.Errorf("%w: inserting entries: %v", domain.ErrDependency, err)
	}

	flushTask, err := i.client.Flush(ctx, milvusclient.NewFlushOption(i.collection))
	if err != nil {
		return 0, fmt.Errorf("%w: flushing collection: %v", domain.ErrDependency, err)
	}
	if err := flushTask.Await(ctx); err != nil {
		return 0, fmt.Errorf("%w: awaiting flush: %v", domain.ErrDependency, err)
	}

	return int(result.InsertCount), nil
}

// Search runs an ANN search over the embedding field and returns the k
// best entries.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]domain.SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(query) != i.dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection has %d",
			domain.ErrDimensionMismatch, len(query), i.dims)
	}

	vectors := []entity.Vector{entity.FloatVector(query)}
	searchOpt := milvusclient.NewSearchOption(i.collection, k, vectors).
		WithANNSField(fieldEmbedding).
		WithOutputFields(fieldID, fieldDocumentID, fieldDocumentURI, fieldPosition, fieldContent, fieldCreatedAt).
		WithConsistencyLevel(entity.ClStrong)

	resultSets, err := i.client.Search(ctx, searchOpt)
	if err != nil {
		return nil, fmt.Errorf("%w: searching collection: %v", domain.ErrDependency, err)
	}
	if len(resultSets) == 0 {
		return nil, nil
	}

	rs := resultSets[0]
	results := make([]domain.SearchResult, 0, rs.ResultCount)
	for n := 0; n < rs.ResultCount; n++ {
		entry, err := scanResult(&rs, n)
		if err != nil {
			return nil, err
		}

		var score float64
		if n < len(rs.Scores) {
			score = float64(rs.Scores[n])
		}
		results = append(results, domain.SearchResult{Entry: *entry, Score: score})
	}
	return results, nil
}

// Stats reports entry count from collection statistics and the configured
// dimensionality.
func (i *Index) Stats(ctx context.Context) (domain.IndexStats, error) {
	stats, err := i.client.GetCollectionStats(ctx, milvusclient.NewGetCollectionStatsOption(i.collection))
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("%w: reading collection stats: %v", domain.ErrDependency, err)
	}

	count := 0
	if raw, ok := stats["row_count"]; ok {
		if parsed, err := strconv.Atoi(raw); err == nil {
			count = parsed
		}
	}

	return domain.IndexStats{Entries: count, Dimensions: i.dims}, nil
}

// Entries lists stored entries. Milvus does not preserve insertion order,
// so entries are ordered by creation time and chunk position instead.
func (i *Index) Entries(ctx context.Context, limit, offset int) ([]domain.IndexedEntry, error) {
	if offset < 0 {
		offset = 0
	}
	window := queryWindow
	if limit > 0 && offset+limit < window {
		window = offset + limit
	}

	queryOpt := milvusclient.NewQueryOption(i.collection).
		WithFilter(fmt.Sprintf("%s >= 0", fieldPosition)).
		WithOutputFields(fieldID, fieldDocumentID, fieldDocumentURI, fieldPosition, fieldContent, fieldCreatedAt).
		WithConsistencyLevel(entity.ClStrong).
		WithLimit(window)

	rs, err := i.client.Query(ctx, queryOpt)
	if err != nil {
		return nil, fmt.Errorf("%w: querying collection: %v", domain.ErrDependency, err)
	}

	entries := make([]domain.IndexedEntry, 0, rs.ResultCount)
	for n := 0; n < rs.ResultCount; n++ {
		entry, err := scanResult(&rs, n)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	orderEntries(entries)

	if offset >= len(entries) {
		return nil, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// Close disconnects from the Milvus server.
func (i *Index) Close() error {
	return i.client.Close(context.Background())
}

// scanResult reads one row out of a search or query result set.
func scanResult(rs *milvusclient.ResultSet, n int) (*domain.IndexedEntry, error) {
	var entry domain.IndexedEntry

	idCol := rs.GetColumn(fieldID)
	if idCol == nil {
		idCol = rs.IDs
	}
	if idCol != nil {
		id, err := idCol.GetAsString(n)
		if err != nil {
			return nil, fmt.Errorf("reading entry id: %w", err)
		}
		entry.ID = id
	}

	if col := rs.GetColumn(fieldDocumentID); col != nil {
		if v, err := col.GetAsString(n); err == nil {
			entry.DocumentID = v
		}
	}
	if col := rs.GetColumn(fieldDocumentURI); col != nil {
		if v, err := col.GetAsString(n); err == nil {
			entry.DocumentURI = v
		}
	}
	if col := rs.GetColumn(fieldPosition); col != nil {
		if v, err := col.GetAsInt64(n); err == nil {
			entry.Position = int(v)
		}
	}
	if col := rs.GetColumn(fieldContent); col != nil {
		if v, err := col.GetAsString(n); err == nil {
			entry.Content = v
		}
	}
	if col := rs.GetColumn(fieldCreatedAt); col != nil {
		if v, err := col.GetAsInt64(n); err == nil {
			entry.CreatedAt = time.Unix(v, 0).UTC()
		}
	}
	if col, ok := rs.GetColumn(fieldEmbedding).(*column.ColumnFloatVector); ok && n < col.Len() {
		entry.Embedding = col.Data()[n]
	}

	return &entry, nil
}

// orderEntries sorts by creation time, then chunk position, then id.
func orderEntries(entries []domain.IndexedEntry) {
	sort.SliceStable(entries, func(a, b int) bool {
		if !entries[a].CreatedAt.Equal(entries[b].CreatedAt) {
			return entries[a].CreatedAt.Before(entries[b].CreatedAt)
		}
		if entries[a].Position != entries[b].Position {
			return entries[a].Position < entries[b].Position
		}
		return entries[a].ID < entries[b].ID
	})
}
