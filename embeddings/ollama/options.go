package ollama

import (
	"log/slog"
	"net/http"
	"net/url"
)

// options holds configuration settings for the Ollama embedder.
type options struct {
	model      string
	serverURL  *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// Option is a function type for configuring Ollama embedder options.
type Option func(*options)

func applyOptions(opts ...Option) options {
	o := options{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// WithModel sets the embedding model, e.g. "nomic-embed-text".
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithServerURL points the embedder at a non-default Ollama server.
func WithServerURL(rawURL string) Option {
	return func(opts *options) {
		if parsedURL, err := url.Parse(rawURL); err == nil {
			opts.serverURL = parsedURL
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		if logger != nil {
			opts.logger = logger
		}
	}
}
