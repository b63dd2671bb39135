package vectorstores

import (
	"context"
	"errors"
	"maps"

	"github.com/sevigo/ragstore/schema"
)

var (
	// ErrCollectionNotFound is returned when an operation targets a
	// collection the backing database does not have.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrNoResults is returned by Retrieve when the collection holds no
	// match for the query.
	ErrNoResults = errors.New("no results found for query")
)

// VectorStore is the uniform surface the RAG toolkit works against. All
// indexing, similarity search and persistence happen inside the backing
// vector database; implementations only adapt its client.
type VectorStore interface {
	// Add chunks raw text with the store's chunker and inserts the
	// resulting documents. Pre-chunked input goes through AddDocuments.
	Add(ctx context.Context, text string, options ...Option) ([]string, error)
	// AddDocuments inserts documents as-is. A single document is written
	// with a single insert, more than one with a batched insert.
	AddDocuments(ctx context.Context, docs []schema.Document, options ...Option) ([]string, error)
	// Retrieve runs a nearest-text query and returns the top result.
	Retrieve(ctx context.Context, query string, options ...Option) (QueryResult, error)
	// SimilaritySearch returns the numDocuments closest documents.
	SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...Option) ([]schema.Document, error)
	SimilaritySearchWithScores(ctx context.Context, query string, numDocuments int, options ...Option) ([]DocumentWithScore, error)
	// DeleteDocuments removes documents by ID.
	DeleteDocuments(ctx context.Context, ids []string, options ...Option) error
	// ListCollections describes every collection of the backing database.
	ListCollections(ctx context.Context) ([]schema.CollectionInfo, error)
	// Close releases the underlying connection. Safe to call when the
	// connection was never opened, and safe to call more than once.
	Close() error
}

// QueryResult is the top match of a Retrieve call.
type QueryResult struct {
	ID       string
	Document schema.Document
	Score    float32
}

type DocumentWithScore struct {
	Document schema.Document
	Score    float32
}

type Option func(*Options)

type Options struct {
	NameSpace      string
	ScoreThreshold float32
	Filters        map[string]any
}

// WithNameSpace redirects a single call to another collection.
func WithNameSpace(namespace string) Option {
	return func(opts *Options) {
		opts.NameSpace = namespace
	}
}

func WithScoreThreshold(threshold float32) Option {
	return func(opts *Options) {
		opts.ScoreThreshold = threshold
	}
}

func WithFilters(filters map[string]any) Option {
	return func(opts *Options) {
		if opts.Filters == nil {
			opts.Filters = make(map[string]any)
		}
		maps.Copy(opts.Filters, filters)
	}
}

func WithFilter(key string, value any) Option {
	return func(opts *Options) {
		if opts.Filters == nil {
			opts.Filters = make(map[string]any)
		}
		opts.Filters[key] = value
	}
}

func ParseOptions(options ...Option) Options {
	opts := Options{
		Filters: make(map[string]any),
	}
	for _, option := range options {
		option(&opts)
	}
	return opts
}
