// Package memory is an in-process VectorStore. It backs the "embedded"
// connection mode: same surface as the server-backed stores, but documents
// and vectors live in a map and similarity is plain cosine. It is not a
// vector database and has no persistence.
package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/sevigo/ragstore/embeddings"
	"github.com/sevigo/ragstore/schema"
	"github.com/sevigo/ragstore/textsplitter"
	"github.com/sevigo/ragstore/vectorstores"
)

var (
	ErrMissingEmbedder     = errors.New("memory: embedder is required but not provided")
	ErrInvalidNumDocuments = errors.New("memory: number of documents must be positive")
	ErrEmptyText           = errors.New("memory: text cannot be empty")
	ErrStoreClosed         = errors.New("memory: store is closed")
)

type entry struct {
	doc    schema.Document
	vector []float32
}

// Store keeps documents and their vectors in memory, grouped by collection.
// Collections spring into existence on first insert, mirroring the lazy
// create-or-fetch of the server-backed stores.
type Store struct {
	embedder       embeddings.Embedder
	chunker        textsplitter.TextSplitter
	collectionName string
	logger         *slog.Logger

	mu          sync.RWMutex
	collections map[string]map[string]entry
	closed      bool
}

var _ vectorstores.VectorStore = (*Store)(nil)

// New creates an embedded store.
func New(opts ...Option) (*Store, error) {
	o, err := parseOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	return &Store{
		embedder:       o.embedder,
		chunker:        o.chunker,
		collectionName: o.collectionName,
		logger:         o.logger.With("component", "memory_store", "collection", o.collectionName),
		collections:    make(map[string]map[string]entry),
	}, nil
}

// Add chunks raw text with the configured chunker and inserts the chunks.
func (s *Store) Add(ctx context.Context, text string, options ...vectorstores.Option) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	docs, err := textsplitter.CreateDocuments(ctx, s.chunker, text, nil)
	if err != nil {
		return nil, fmt.Errorf("chunking failed: %w", err)
	}

	return s.AddDocuments(ctx, docs, options...)
}

// AddDocuments embeds and stores documents.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	if len(docs) == 0 {
		return []string{}, nil
	}

	if s.embedder == nil {
		return nil, ErrMissingEmbedder
	}

	opts := vectorstores.ParseOptions(options...)
	collectionName := s.resolveCollection(opts)

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}
	vectors, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("document embedding failed: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	collection := s.collections[collectionName]
	if collection == nil {
		collection = make(map[string]entry)
		s.collections[collectionName] = collection
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		id := doc.ID
		if id == "" {
			id = uuid.New().String()
		}
		ids[i] = id
		doc.ID = id
		collection[id] = entry{doc: doc, vector: vectors[i]}
	}

	s.logger.DebugContext(ctx, "Documents stored", "count", len(ids), "collection", collectionName)
	return ids, nil
}

// Retrieve returns the closest match for the query.
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

	if s.embedder == nil {
		return nil, ErrMissingEmbedder
	}

	opts := vectorstores.ParseOptions(options...)
	collectionName := s.resolveCollection(opts)

	queryVector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	collection := s.collections[collectionName]

	results := make([]vectorstores.DocumentWithScore, 0, len(collection))
	for _, e := range collection {
		if !matchesFilters(e.doc, opts.Filters) {
			continue
		}

		score := cosineSimilarity(queryVector, e.vector)
		if opts.ScoreThreshold > 0 && score < opts.ScoreThreshold {
			continue
		}

		results = append(results, vectorstores.DocumentWithScore{
			Document: e.doc,
			Score:    score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > numDocuments {
		results = results[:numDocuments]
	}

	return results, nil
}

// DeleteDocuments removes documents by ID.
func (s *Store) DeleteDocuments(_ context.Context, ids []string, options ...vectorstores.Option) error {
	if len(ids) == 0 {
		return nil
	}

	opts := vectorstores.ParseOptions(options...)
	collectionName := s.resolveCollection(opts)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	collection := s.collections[collectionName]
	if collection == nil {
		return vectorstores.ErrCollectionNotFound
	}

	for _, id := range ids {
		delete(collection, id)
	}
	return nil
}

// ListCollections describes every in-memory collection. The vector size is
// taken from the stored entries, since collections spring into existence
// without an explicit configuration.
func (s *Store) ListCollections(_ context.Context) ([]schema.CollectionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	names := make([]string, 0, len(s.collections))
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]schema.CollectionInfo, len(names))
	for i, name := range names {
		collection := s.collections[name]
		info := schema.CollectionInfo{
			Name:           name,
			PointsCount:    uint64(len(collection)),
			VectorDistance: "Cosine",
		}
		for _, e := range collection {
			info.VectorSize = uint64(len(e.vector))
			break
		}
		infos[i] = info
	}
	return infos, nil
}

// DeleteCollection drops a collection and everything in it.
func (s *Store) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, ok := s.collections[name]; !ok {
		return vectorstores.ErrCollectionNotFound
	}
	delete(s.collections, name)
	return nil
}

// Close drops all collections. Later operations fail with ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.collections = make(map[string]map[string]entry)
	return nil
}

func (s *Store) resolveCollection(opts vectorstores.Options) string {
	if opts.NameSpace != "" {
		return opts.NameSpace
	}
	return s.collectionName
}

func matchesFilters(doc schema.Document, filters map[string]any) bool {
	for key, want := range filters {
		got, ok := doc.Metadata[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
