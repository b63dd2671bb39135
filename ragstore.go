// Package ragstore wires the vector store adapters together behind a single
// entry point. Callers describe a connection with vectorstores.Config and
// get back the matching VectorStore implementation.
package ragstore

import (
	"fmt"
	"log/slog"

	"github.com/sevigo/ragstore/embeddings"
	"github.com/sevigo/ragstore/textsplitter"
	"github.com/sevigo/ragstore/vectorstores"
	"github.com/sevigo/ragstore/vectorstores/memory"
	"github.com/sevigo/ragstore/vectorstores/qdrant"
)

// StoreOption configures the store returned by Open, independent of the
// connection mode.
type StoreOption func(*storeOptions)

type storeOptions struct {
	embedder embeddings.Embedder
	chunker  textsplitter.TextSplitter
	logger   *slog.Logger
}

// WithEmbedder sets the embedder used for inserts and queries.
func WithEmbedder(embedder embeddings.Embedder) StoreOption {
	return func(o *storeOptions) {
		o.embedder = embedder
	}
}

// WithChunker sets the splitter applied to raw text passed to Add.
func WithChunker(chunker textsplitter.TextSplitter) StoreOption {
	return func(o *storeOptions) {
		o.chunker = chunker
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// Open creates the vector store matching the configured connection mode.
// The embedded mode runs in-process; every other mode connects to a Qdrant
// deployment, lazily, on first use.
func Open(cfg vectorstores.Config, opts ...StoreOption) (vectorstores.VectorStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid store config: %w", err)
	}

	var o storeOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	switch cfg.Mode {
	case vectorstores.ModeEmbedded:
		return memory.New(
			memory.WithCollectionName(cfg.Collection),
			memory.WithEmbedder(o.embedder),
			memory.WithChunker(o.chunker),
			memory.WithLogger(o.logger),
		)
	case vectorstores.ModeLocal, vectorstores.ModeCloud, vectorstores.ModeCustom:
		return qdrant.New(
			qdrant.WithConfig(cfg),
			qdrant.WithEmbedder(o.embedder),
			qdrant.WithChunker(o.chunker),
			qdrant.WithLogger(o.logger),
		)
	default:
		return nil, fmt.Errorf("%w: %q", vectorstores.ErrUnknownMode, cfg.Mode)
	}
}

// OpenFromFile loads a YAML config and opens the store it describes.
func OpenFromFile(path string, opts ...StoreOption) (vectorstores.VectorStore, error) {
	cfg, err := vectorstores.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return Open(cfg, opts...)
}
