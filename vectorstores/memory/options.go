package memory

import (
	"log/slog"
	"strings"

	"github.com/sevigo/ragstore/embeddings"
	"github.com/sevigo/ragstore/textsplitter"
)

const defaultCollectionName = "default"

// options holds configuration for the embedded store.
type options struct {
	collectionName string
	embedder       embeddings.Embedder
	chunker        textsplitter.TextSplitter
	logger         *slog.Logger
}

// Option configures the embedded store.
type Option func(*options)

// WithCollectionName sets the default collection name.
func WithCollectionName(name string) Option {
	return func(opts *options) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			opts.collectionName = trimmed
		}
	}
}

// WithEmbedder sets the embedder for generating vector embeddings.
func WithEmbedder(embedder embeddings.Embedder) Option {
	return func(opts *options) {
		opts.embedder = embedder
	}
}

// WithChunker sets the splitter used by Add for raw text.
func WithChunker(chunker textsplitter.TextSplitter) Option {
	return func(opts *options) {
		if chunker != nil {
			opts.chunker = chunker
		}
	}
}

// WithLogger sets the logger for the embedded store.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

func parseOptions(opts ...Option) (options, error) {
	o := options{}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	if o.collectionName == "" {
		o.collectionName = defaultCollectionName
	}

	if o.chunker == nil {
		chunker, err := textsplitter.NewTextChunker()
		if err != nil {
			return o, err
		}
		o.chunker = chunker
	}

	return o, nil
}
