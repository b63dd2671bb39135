package qdrant

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/sevigo/ragstore/embeddings"
	"github.com/sevigo/ragstore/textsplitter"
	"github.com/sevigo/ragstore/vectorstores"
)

const (
	defaultContentKey = "page_content"
	defaultHost       = "localhost"
	defaultPort       = 6334
)

var ErrInvalidOptions = errors.New("qdrant: invalid options provided")

// options holds all configuration options for the Qdrant store.
type options struct {
	mode           vectorstores.Mode
	host           string
	port           int
	apiKey         string
	useTLS         bool
	collectionName string
	embedder       embeddings.Embedder
	chunker        textsplitter.TextSplitter
	contentKey     string
	logger         *slog.Logger
}

// Option defines a function type for configuring Qdrant store options.
type Option func(*options)

// WithConfig applies a store-level connection config.
func WithConfig(cfg vectorstores.Config) Option {
	return func(opts *options) {
		opts.mode = cfg.Mode
		opts.host = cfg.Host
		opts.port = cfg.Port
		opts.apiKey = cfg.APIKey
		opts.useTLS = cfg.UseTLS
		if cfg.Collection != "" {
			opts.collectionName = cfg.Collection
		}
	}
}

// WithMode sets the connection mode (local, cloud or custom).
func WithMode(mode vectorstores.Mode) Option {
	return func(opts *options) {
		opts.mode = mode
	}
}

// WithCollectionName sets the collection name for the Qdrant store.
func WithCollectionName(name string) Option {
	return func(opts *options) {
		opts.collectionName = strings.TrimSpace(name)
	}
}

// WithHost sets the Qdrant server host.
func WithHost(host string) Option {
	return func(opts *options) {
		opts.host = strings.TrimSpace(host)
	}
}

// WithPort sets the Qdrant gRPC port.
func WithPort(port int) Option {
	return func(opts *options) {
		if port > 0 {
			opts.port = port
		}
	}
}

// WithAPIKey sets the API key for Qdrant authentication.
func WithAPIKey(apiKey string) Option {
	return func(opts *options) {
		opts.apiKey = strings.TrimSpace(apiKey)
	}
}

// WithTLS enables or disables TLS for the Qdrant connection.
func WithTLS(useTLS bool) Option {
	return func(opts *options) {
		opts.useTLS = useTLS
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

// WithContentKey sets the payload key used to store document content.
func WithContentKey(contentKey string) Option {
	return func(opts *options) {
		if contentKey != "" {
			opts.contentKey = strings.TrimSpace(contentKey)
		}
	}
}

// WithLogger sets the logger for the Qdrant store.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}

// applyDefaults sets default values for options that weren't explicitly
// configured.
func applyDefaults(opts *options) error {
	if opts.logger == nil {
		opts.logger = slog.Default()
	}

	if opts.mode == "" {
		opts.mode = vectorstores.ModeLocal
	}

	if opts.contentKey == "" {
		opts.contentKey = defaultContentKey
	}

	if opts.chunker == nil {
		chunker, err := textsplitter.NewTextChunker()
		if err != nil {
			return err
		}
		opts.chunker = chunker
	}

	switch opts.mode {
	case vectorstores.ModeLocal:
		if opts.host == "" {
			opts.host = defaultHost
		}
	case vectorstores.ModeCloud:
		// Managed deployments always terminate TLS.
		opts.useTLS = true
	}

	if opts.port == 0 {
		opts.port = defaultPort
	}

	return nil
}

// validate checks if the options are valid and returns an error if not.
func (opts *options) validate() error {
	if strings.TrimSpace(opts.collectionName) == "" {
		return ErrMissingCollectionName
	}

	switch opts.mode {
	case vectorstores.ModeLocal:
	case vectorstores.ModeCloud:
		if opts.host == "" {
			return vectorstores.ErrMissingHost
		}
		if opts.apiKey == "" {
			return vectorstores.ErrMissingAPIKey
		}
	case vectorstores.ModeCustom:
		if opts.host == "" {
			return vectorstores.ErrMissingHost
		}
	default:
		// The embedded mode is served by the memory store, not by this
		// adapter.
		return ErrUnsupportedMode
	}

	return nil
}

// parseOptions processes the provided options and returns a configured
// options struct.
func parseOptions(opts ...Option) (options, error) {
	o := options{}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if err := applyDefaults(&o); err != nil {
		return o, err
	}

	if err := o.validate(); err != nil {
		return o, err
	}

	return o, nil
}

// String returns a string representation of the options (excluding
// sensitive data).
func (opts *options) String() string {
	var parts []string

	parts = append(parts, "mode="+string(opts.mode))
	parts = append(parts, "collection="+opts.collectionName)
	parts = append(parts, "host="+opts.host)
	parts = append(parts, "content_key="+opts.contentKey)

	if opts.apiKey != "" {
		parts = append(parts, "has_api_key=true")
	}

	if opts.embedder != nil {
		parts = append(parts, "has_embedder=true")
	}

	return "QdrantOptions{" + strings.Join(parts, ", ") + "}"
}
