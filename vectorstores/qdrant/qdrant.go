// Package qdrant adapts the Qdrant Go client to the vectorstores.VectorStore
// interface. All indexing, similarity search and persistence live inside
// Qdrant; this package only manages the connection, the collection handle
// and the mapping between documents and points.
package qdrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sevigo/ragstore/schema"
	"github.com/sevigo/ragstore/textsplitter"
	"github.com/sevigo/ragstore/vectorstores"
)

var (
	ErrMissingEmbedder       = errors.New("qdrant: embedder is required but not provided")
	ErrMissingCollectionName = errors.New("qdrant: collection name is required")
	ErrInvalidNumDocuments   = errors.New("qdrant: number of documents must be positive")
	ErrCollectionExists      = errors.New("qdrant: collection already exists")
	ErrEmptyText             = errors.New("qdrant: text cannot be empty")
	ErrUnsupportedMode       = errors.New("qdrant: connection mode is not served by this store")
	ErrStoreClosed           = errors.New("qdrant: store is closed")
)

// Store is a VectorStore backed by a Qdrant server. The gRPC client is
// created on first use and cached, and the named collection is
// created-or-fetched on first use and cached, so constructing a Store never
// touches the network.
type Store struct {
	options options
	logger  *slog.Logger

	mu      sync.Mutex
	client  *qdrant.Client
	closed  bool
	ensured map[string]struct{}
}

var _ vectorstores.VectorStore = (*Store)(nil)

// New creates a Qdrant-backed store. The connection is opened lazily, so
// this only validates the configuration.
func New(opts ...Option) (*Store, error) {
	storeOptions, err := parseOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	logger := storeOptions.logger.With(
		"component", "qdrant_store",
		"collection", storeOptions.collectionName,
		"mode", string(storeOptions.mode),
	)

	store := &Store{
		options: storeOptions,
		logger:  logger,
		ensured: make(map[string]struct{}),
	}

	logger.Debug("Qdrant store configured", "config", storeOptions.String())
	return store, nil
}

// connect returns the cached client, dialing it on first use.
func (s *Store) connect() (*qdrant.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if s.client != nil {
		return s.client, nil
	}

	config := clientConfig(s.options)
	s.logger.Debug("Creating Qdrant client", "host", config.Host, "port", config.Port, "tls", config.UseTLS)

	client, err := qdrant.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	s.client = client
	return client, nil
}

// clientConfig maps the connection mode onto a Qdrant client config.
func clientConfig(opts options) *qdrant.Config {
	config := &qdrant.Config{
		Host: opts.host,
		Port: opts.port,
	}

	switch opts.mode {
	case vectorstores.ModeLocal:
		// Plain localhost, defaults already applied.
	case vectorstores.ModeCloud:
		config.APIKey = opts.apiKey
		config.UseTLS = true
	case vectorstores.ModeCustom:
		config.APIKey = opts.apiKey
		config.UseTLS = opts.useTLS
	}

	return config
}

// Add chunks raw text with the configured chunker and inserts the chunks.
func (s *Store) Add(ctx context.Context, text string, options ...vectorstores.Option) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	docs, err := textsplitter.CreateDocuments(ctx, s.options.chunker, text, nil)
	if err != nil {
		return nil, fmt.Errorf("chunking failed: %w", err)
	}

	return s.AddDocuments(ctx, docs, options...)
}

// AddDocuments inserts pre-chunked documents. A single document is written
// with a single-point insert; more than one document uses one batched
// insert.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}

	if s.options.embedder == nil {
		return nil, ErrMissingEmbedder
	}

	opts := vectorstores.ParseOptions(options...)
	collectionName := s.getCollectionName(opts)

	client, err := s.connect()
	if err != nil {
		return nil, err
	}

	if err := s.ensureCollection(ctx, client, collectionName); err != nil {
		return nil, fmt.Errorf("collection preparation failed: %w", err)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := s.options.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("document embedding failed: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	points := make([]*qdrant.PointStruct, len(docs))
	ids := make([]string, len(docs))
	for i, doc := range docs {
		docID := doc.ID
		if docID == "" {
			docID = uuid.New().String()
		}
		ids[i] = docID
		points[i] = &qdrant.PointStruct{
			Id:      &qdrant.PointId{PointIdOptions: &qdrant.PointId_Uuid{Uuid: docID}},
			Vectors: &qdrant.Vectors{VectorsOptions: &qdrant.Vectors_Vector{Vector: &qdrant.Vector{Data: vectors[i]}}},
			Payload: s.documentToPayload(doc),
		}
	}

	if len(points) == 1 {
		if err := s.upsert(ctx, client, collectionName, points[:1]); err != nil {
			return nil, err
		}
		s.logger.DebugContext(ctx, "Document inserted", "id", ids[0], "collection", collectionName)
		return ids, nil
	}

	if err := s.upsert(ctx, client, collectionName, points); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Documents inserted in batch", "count", len(ids), "collection", collectionName)
	return ids, nil
}

func (s *Store) upsert(ctx context.Context, client *qdrant.Client, collectionName string, points []*qdrant.PointStruct) error {
	wait := true
	_, err := client.GetPointsClient().Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

// Retrieve runs a nearest-text query and returns the top result.
func (s *Store) Retrieve(ctx context.Context, query string, options ...vectorstores.Option) (vectorstores.QueryResult, error) {
	results, err := s.SimilaritySearchWithScores(ctx, query, 1, options...)
	if err != nil {
		return vectorstores.QueryResult{}, err
	}
	if len(results) == 0 {
		return vectorstores.QueryResult{}, vectorstores.ErrNoResults
	}

	top := results[0]
	return vectorstores.QueryResult{
		ID:       top.Document.ID,
		Document: top.Document,
		Score:    top.Score,
	}, nil
}

// SimilaritySearch returns the numDocuments closest documents for a query.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	results, err := s.SimilaritySearchWithScores(ctx, query, numDocuments, options...)
	if err != nil {
		return nil, err
	}

	docs := make([]schema.Document, len(results))
	for i, result := range results {
		docs[i] = result.Document
	}
	return docs, nil
}

func (s *Store) SimilaritySearchWithScores(
	ctx context.Context,
	query string,
	numDocuments int,
	options ...vectorstores.Option,
) ([]vectorstores.DocumentWithScore, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyText
	}

	if numDocuments <= 0 {
		return nil, ErrInvalidNumDocuments
	}

	if s.options.embedder == nil {
		return nil, ErrMissingEmbedder
	}

	opts := vectorstores.ParseOptions(options...)
	collectionName := s.getCollectionName(opts)

	client, err := s.connect()
	if err != nil {
		return nil, err
	}

	if err := s.ensureCollection(ctx, client, collectionName); err != nil {
		return nil, fmt.Errorf("collection preparation failed: %w", err)
	}

	embedStart := time.Now()
	queryVector, err := s.options.embedder.EmbedQuery(ctx, query)
	if err != nil {
		s.logger.ErrorContext(ctx, "Query embedding failed", "error", err, "duration", time.Since(embedStart))
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	search := &qdrant.SearchPoints{
		CollectionName: collectionName,
		Vector:         queryVector,
		Limit:          uint64(numDocuments),
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
		Filter: buildQdrantFilter(opts.Filters),
	}
	if opts.ScoreThreshold > 0 {
		search.ScoreThreshold = &opts.ScoreThreshold
	}

	searchResult, err := client.GetPointsClient().Search(ctx, search)
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			s.logger.WarnContext(ctx, "Collection not found during search", "collection", collectionName)
			return nil, vectorstores.ErrCollectionNotFound
		}
		s.logger.ErrorContext(ctx, "Search failed", "error", err, "collection", collectionName)
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	results := searchResult.GetResult()
	docsWithScore := make([]vectorstores.DocumentWithScore, len(results))
	for i, point := range results {
		docsWithScore[i] = vectorstores.DocumentWithScore{
			Document: s.pointToDocument(point.GetId(), point.GetPayload()),
			Score:    point.GetScore(),
		}
	}

	s.logger.DebugContext(ctx, "Similarity search completed",
		"collection", collectionName, "results", len(docsWithScore))
	return docsWithScore, nil
}

// DeleteDocuments removes documents by ID.
func (s *Store) DeleteDocuments(ctx context.Context, ids []string, options ...vectorstores.Option) error {
	if len(ids) == 0 {
		return nil
	}

	opts := vectorstores.ParseOptions(options...)
	collectionName := s.getCollectionName(opts)

	client, err := s.connect()
	if err != nil {
		return err
	}

	pointIds := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIds[i] = &qdrant.PointId{
			PointIdOptions: &qdrant.PointId_Uuid{Uuid: id},
		}
	}

	wait := true
	_, err = client.GetPointsClient().Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Wait:           &wait,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIds},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete documents from qdrant: %w", err)
	}

	s.logger.InfoContext(ctx, "Documents deleted", "count", len(ids), "collection", collectionName)
	return nil
}

// ListCollections describes all collections on the server, including their
// point count and vector configuration.
func (s *Store) ListCollections(ctx context.Context) ([]schema.CollectionInfo, error) {
	client, err := s.connect()
	if err != nil {
		return nil, err
	}

	resp, err := client.GetCollectionsClient().List(ctx, &qdrant.ListCollectionsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list qdrant collections: %w", err)
	}

	collections := resp.GetCollections()
	infos := make([]schema.CollectionInfo, len(collections))
	for i, col := range collections {
		info, err := s.describeCollection(ctx, client, col.GetName())
		if err != nil {
			return nil, err
		}
		infos[i] = info
	}
	return infos, nil
}

func (s *Store) describeCollection(ctx context.Context, client *qdrant.Client, name string) (schema.CollectionInfo, error) {
	resp, err := client.GetCollectionsClient().Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: name,
	})
	if err != nil {
		return schema.CollectionInfo{}, fmt.Errorf("failed to describe collection %q: %w", name, err)
	}

	info := schema.CollectionInfo{Name: name}
	result := resp.GetResult()
	if result == nil {
		return info, nil
	}

	if result.PointsCount != nil {
		info.PointsCount = *result.PointsCount
	}
	info.VectorSize, info.VectorDistance = vectorDetails(result)
	return info, nil
}

// vectorDetails digs the vector size and distance metric out of the nested
// oneof-wrapped collection config.
func vectorDetails(result *qdrant.CollectionInfo) (uint64, string) {
	if result.Config == nil ||
		result.Config.Params == nil ||
		result.Config.Params.VectorsConfig == nil ||
		result.Config.Params.VectorsConfig.Config == nil {
		return 0, ""
	}

	if cfg, ok := result.Config.Params.VectorsConfig.Config.(*qdrant.VectorsConfig_Params); ok {
		return cfg.Params.GetSize(), cfg.Params.GetDistance().String()
	}
	return 0, ""
}

// CreateCollection explicitly creates a collection. Most callers never need
// this: the store creates its collection on first use.
func (s *Store) CreateCollection(ctx context.Context, name string, dimension int) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingCollectionName
	}
	if dimension <= 0 {
		return fmt.Errorf("dimension must be positive, got %d", dimension)
	}

	client, err := s.connect()
	if err != nil {
		return err
	}

	exists, err := s.collectionExists(ctx, client, name)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}
	if exists {
		return ErrCollectionExists
	}

	if err := s.createCollection(ctx, client, name, dimension); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Collection created", "name", name, "dimension", dimension)
	return nil
}

// DeleteCollection removes a collection and forgets its cached handle.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrMissingCollectionName
	}

	client, err := s.connect()
	if err != nil {
		return err
	}

	_, err = client.GetCollectionsClient().Delete(ctx, &qdrant.DeleteCollection{
		CollectionName: name,
	})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			return vectorstores.ErrCollectionNotFound
		}
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	s.mu.Lock()
	delete(s.ensured, name)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Collection deleted", "name", name)
	return nil
}

// Close releases the gRPC connection if it was ever opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.client == nil {
		return nil
	}

	err := s.client.Close()
	s.client = nil
	if err != nil {
		return fmt.Errorf("failed to close qdrant client: %w", err)
	}
	return nil
}

func (s *Store) getCollectionName(opts vectorstores.Options) string {
	if opts.NameSpace != "" {
		return opts.NameSpace
	}
	return s.options.collectionName
}

// ensureCollection creates-or-fetches the collection once and caches the
// outcome, so later operations skip the existence check.
func (s *Store) ensureCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	s.mu.Lock()
	_, done := s.ensured[collectionName]
	s.mu.Unlock()
	if done {
		return nil
	}

	exists, err := s.collectionExists(ctx, client, collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if !exists {
		if s.options.embedder == nil {
			return ErrMissingEmbedder
		}

		dimension, err := s.options.embedder.GetDimension(ctx)
		if err != nil {
			return fmt.Errorf("could not get embedder dimension: %w", err)
		}

		s.logger.InfoContext(ctx, "Creating collection automatically",
			"collection", collectionName, "dimension", dimension)

		if err := s.createCollection(ctx, client, collectionName, dimension); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.ensured[collectionName] = struct{}{}
	s.mu.Unlock()
	return nil
}

func (s *Store) createCollection(ctx context.Context, client *qdrant.Client, name string, dimension int) error {
	_, err := client.GetCollectionsClient().Create(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create qdrant collection: %w", err)
	}
	return nil
}

func (s *Store) collectionExists(ctx context.Context, client *qdrant.Client, name string) (bool, error) {
	_, err := client.GetCollectionsClient().Get(ctx, &qdrant.GetCollectionInfoRequest{
		CollectionName: name,
	})
	if err != nil {
		if stat, ok := status.FromError(err); ok && stat.Code() == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
